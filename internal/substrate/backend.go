// Package substrate is the wallet backend for substrate accounts. Accounts
// come from the local keystore extension; ticket actions are built, signed
// and submitted through the REST SDK.
package substrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/contract"
	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
	"github.com/Klingon-tech/fhf-tickets/internal/sdk"
	"github.com/Klingon-tech/fhf-tickets/internal/wallet"
	"github.com/Klingon-tech/fhf-tickets/pkg/address"
)

// IssueMode selects how tickets are issued from substrate accounts.
type IssueMode string

const (
	// IssueMint creates the tokens directly in the collection.
	IssueMint IssueMode = "mint"
	// IssueContract calls dropTicketsBatchCross on the tickets contract.
	IssueContract IssueMode = "contract"
)

// ParseIssueMode parses "mint" or "contract". Empty means mint.
func ParseIssueMode(s string) (IssueMode, error) {
	switch IssueMode(s) {
	case "", IssueMint:
		return IssueMint, nil
	case IssueContract:
		return IssueContract, nil
	default:
		return "", fmt.Errorf("unknown issue mode %q (want mint or contract)", s)
	}
}

// ErrForeignAccount is returned when an action is given an account this
// backend did not connect.
var ErrForeignAccount = errors.New("account not connected through the substrate backend")

// Extension provides unlocked keystore accounts by wallet name.
type Extension interface {
	LoadAccounts(ctx context.Context, name string) ([]wallet.Key, error)
}

// Submitter sends extrinsics and waits for them to complete.
type Submitter interface {
	CollectionID() uint64
	SubmitWaitResult(ctx context.Context, path string, body interface{}, signer sdk.PayloadSigner) (*sdk.ExtrinsicStatus, error)
}

// Config holds the contract and minting parameters.
type Config struct {
	ContractAddress string
	GasLimit        uint64
	TicketImageURL  string
	IssueMode       IssueMode
}

// Backend implements account.Backend for substrate accounts.
type Backend struct {
	ext    Extension
	sdk    Submitter
	cfg    Config
	logger zerolog.Logger
}

var _ account.Backend = (*Backend)(nil)

// New creates a substrate backend.
func New(ext Extension, submitter Submitter, cfg Config) *Backend {
	if cfg.IssueMode == "" {
		cfg.IssueMode = IssueMint
	}
	return &Backend{ext: ext, sdk: submitter, cfg: cfg, logger: klog.Substrate}
}

// Kind implements account.Backend.
func (b *Backend) Kind() account.Kind {
	return account.SubstrateExtension
}

// Connect unlocks the named wallet and returns one account per key.
func (b *Backend) Connect(ctx context.Context, walletName string) ([]account.Account, error) {
	if walletName == "" {
		return nil, fmt.Errorf("wallet name required")
	}
	keys, err := b.ext.LoadAccounts(ctx, walletName)
	if err != nil {
		return nil, err
	}
	accts := make([]account.Account, 0, len(keys))
	for _, k := range keys {
		accts = append(accts, account.Account{
			Name:    k.Name,
			Address: k.Address,
			Kind:    account.SubstrateExtension,
			Signer:  NewKeySigner(k.Private, k.Address),
		})
	}
	b.logger.Info().Str("wallet", walletName).Int("accounts", len(accts)).Msg("Wallet connected")
	return accts, nil
}

// IssueTickets issues count tickets to the recipient and waits for the
// extrinsic to complete.
func (b *Backend) IssueTickets(ctx context.Context, acct *account.Account, to string, count uint32) (*account.Receipt, error) {
	signer, err := signerOf(acct)
	if err != nil {
		return nil, err
	}

	var (
		path string
		body interface{}
	)
	switch b.cfg.IssueMode {
	case IssueContract:
		cross, err := address.CrossAccount(to)
		if err != nil {
			return nil, err
		}
		path = sdk.PathEvmSend
		body = b.evmSend(acct.Address, contract.MethodDropTickets, map[string]interface{}{
			"_to":    []map[string]string{{"eth": cross.Eth.Hex(), "sub": cross.Sub.String()}},
			"_count": count,
		})
	default:
		owner, err := address.Normalize(to)
		if err != nil {
			return nil, err
		}
		path = sdk.PathCreateMultiple
		body = b.createTickets(acct.Address, owner, count)
	}

	b.logger.Info().Str("from", acct.Address).Str("to", to).Uint32("count", count).
		Str("mode", string(b.cfg.IssueMode)).Msg("Issuing tickets")
	st, err := b.sdk.SubmitWaitResult(ctx, path, body, signer)
	if err != nil {
		return nil, err
	}
	return receiptFrom(st), nil
}

// RedeemTicket calls useTicket(tokenID) on the tickets contract and waits for
// the extrinsic to complete.
func (b *Backend) RedeemTicket(ctx context.Context, acct *account.Account, tokenID uint64) (*account.Receipt, error) {
	signer, err := signerOf(acct)
	if err != nil {
		return nil, err
	}
	body := b.evmSend(acct.Address, contract.MethodUseTicket, map[string]interface{}{
		"_tokenId": tokenID,
	})

	b.logger.Info().Str("from", acct.Address).Uint64("token", tokenID).Msg("Redeeming ticket")
	st, err := b.sdk.SubmitWaitResult(ctx, sdk.PathEvmSend, body, signer)
	if err != nil {
		return nil, err
	}
	return receiptFrom(st), nil
}

func (b *Backend) createTickets(from, owner string, count uint32) *sdk.CreateMultipleRequest {
	tokens := make([]sdk.NewToken, count)
	for i := range tokens {
		tokens[i] = sdk.NewToken{
			Owner: owner,
			Data:  sdk.TokenData{Image: sdk.Image{URLInfix: b.cfg.TicketImageURL}},
		}
	}
	return &sdk.CreateMultipleRequest{
		Address:      from,
		CollectionID: b.sdk.CollectionID(),
		Tokens:       tokens,
	}
}

func (b *Backend) evmSend(from, method string, args map[string]interface{}) *sdk.EvmSendRequest {
	return &sdk.EvmSendRequest{
		Address:         from,
		ContractAddress: b.cfg.ContractAddress,
		ABI:             contract.RawABI(),
		FuncName:        method,
		Args:            args,
		GasLimit:        b.cfg.GasLimit,
	}
}

func signerOf(acct *account.Account) (*KeySigner, error) {
	s, ok := acct.Signer.(*KeySigner)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrForeignAccount, acct.Address)
	}
	return s, nil
}

func receiptFrom(st *sdk.ExtrinsicStatus) *account.Receipt {
	r := &account.Receipt{
		Kind:      account.SubstrateExtension,
		TxHash:    st.Hash,
		BlockHash: st.BlockHash,
	}
	for _, ref := range st.CreatedTokens() {
		r.TokenIDs = append(r.TokenIDs, ref.TokenID)
	}
	return r
}
