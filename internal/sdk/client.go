// Package sdk is a client for the network's REST SDK: token reads and the
// build/sign/submit/poll cycle used to send extrinsics from substrate
// accounts.
package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/rs/zerolog"

	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
)

// Submission paths.
const (
	PathCreateMultiple = "tokens/create-multiple"
	PathEvmSend        = "evm/send"
)

// DefaultPollInterval is how often SubmitWaitResult polls extrinsic status.
const DefaultPollInterval = 2 * time.Second

// PayloadSigner signs a built extrinsic payload and returns the signature.
type PayloadSigner interface {
	SignPayload(ctx context.Context, payload *UnsignedTxPayload) (string, error)
	// SignatureType is the crypto scheme reported to the API ("ecdsa", "sr25519").
	SignatureType() string
}

// Client talks to one REST SDK endpoint and one collection.
type Client struct {
	base         *sling.Sling
	collectionID uint64
	pollInterval time.Duration
	logger       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base.Client(hc) }
}

// WithPollInterval sets the extrinsic status poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// New creates a client for the REST API at baseURL.
func New(baseURL string, collectionID uint64, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		base: sling.New().
			Client(&http.Client{Timeout: 30 * time.Second}).
			Base(baseURL).
			Set("Accept", "application/json"),
		collectionID: collectionID,
		pollInterval: DefaultPollInterval,
		logger:       klog.SDK,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectionID returns the collection the client reads and mints into.
func (c *Client) CollectionID() uint64 {
	return c.collectionID
}

// AccountTokens lists the collection's tokens owned by address.
func (c *Client) AccountTokens(ctx context.Context, address string) ([]TokenRef, error) {
	var out accountTokensResponse
	q := &accountTokensQuery{Address: address, CollectionID: c.collectionID}
	if err := c.do(ctx, c.base.New().Get("tokens/account-tokens").QueryStruct(q), &out); err != nil {
		return nil, fmt.Errorf("account tokens: %w", err)
	}
	return out.Tokens, nil
}

// Token fetches the decoded data of one token in the collection.
func (c *Client) Token(ctx context.Context, tokenID uint64) (*Token, error) {
	var out Token
	q := &tokenQuery{CollectionID: c.collectionID, TokenID: tokenID}
	if err := c.do(ctx, c.base.New().Get("tokens").QueryStruct(q), &out); err != nil {
		return nil, fmt.Errorf("token %d: %w", tokenID, err)
	}
	return &out, nil
}

// Build asks the API to build an unsigned extrinsic for the given method.
func (c *Client) Build(ctx context.Context, path string, body interface{}) (*UnsignedTxPayload, error) {
	var out UnsignedTxPayload
	req := c.base.New().Post(path).QueryStruct(&useQuery{Use: "Build"}).BodyJSON(body)
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("build %s: %w", path, err)
	}
	if out.SignerPayloadHex == "" {
		return nil, fmt.Errorf("build %s: empty signer payload", path)
	}
	return &out, nil
}

// Submit sends a signed extrinsic and returns its hash.
func (c *Client) Submit(ctx context.Context, payload *UnsignedTxPayload, signature, signatureType string) (string, error) {
	var out submitResponse
	body := &submitRequest{
		SignerPayloadJSON: payload.SignerPayloadJSON,
		Signature:         signature,
		SignatureType:     signatureType,
	}
	if err := c.do(ctx, c.base.New().Post("extrinsics/submit").BodyJSON(body), &out); err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	if out.Hash == "" {
		return "", fmt.Errorf("submit: empty extrinsic hash")
	}
	return out.Hash, nil
}

// Status returns the current status of a submitted extrinsic.
func (c *Client) Status(ctx context.Context, hash string) (*ExtrinsicStatus, error) {
	var out ExtrinsicStatus
	req := c.base.New().Get("extrinsics/status").QueryStruct(&statusQuery{Hash: hash})
	if err := c.do(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("status %s: %w", hash, err)
	}
	return &out, nil
}

// SubmitWaitResult builds, signs and submits an extrinsic, then polls its
// status until it completes. A completed extrinsic that reports an error
// returns ErrExtrinsicFailed.
func (c *Client) SubmitWaitResult(ctx context.Context, path string, body interface{}, signer PayloadSigner) (*ExtrinsicStatus, error) {
	payload, err := c.Build(ctx, path, body)
	if err != nil {
		return nil, err
	}
	signature, err := signer.SignPayload(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("sign %s payload: %w", path, err)
	}
	hash, err := c.Submit(ctx, payload, signature, signer.SignatureType())
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("path", path).Str("hash", hash).Msg("Extrinsic submitted")

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		st, err := c.Status(ctx, hash)
		if err != nil {
			return nil, err
		}
		if st.IsCompleted || st.IsError {
			if st.IsError {
				return st, fmt.Errorf("%w: %s %s: %s", ErrExtrinsicFailed, path, hash, strings.TrimSpace(string(st.Error)))
			}
			c.logger.Info().Str("path", path).Str("hash", hash).Str("block", st.BlockHash).Msg("Extrinsic completed")
			return st, nil
		}
		c.logger.Debug().Str("hash", hash).Str("status", st.Status).Msg("Waiting for extrinsic")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

type useQuery struct {
	Use string `url:"use"`
}

// do sends the request and decodes a 2xx body into success. Anything else
// becomes an *APIError.
func (c *Client) do(ctx context.Context, s *sling.Sling, success interface{}) error {
	req, err := s.Request()
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req = req.WithContext(ctx)

	failure := new(errorBody)
	resp, err := s.Do(req, success, failure)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if resp != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := failure.toAPIError(resp.StatusCode)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	return nil
}
