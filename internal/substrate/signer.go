package substrate

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Klingon-tech/fhf-tickets/internal/sdk"
	"github.com/Klingon-tech/fhf-tickets/pkg/crypto"
)

// SignatureType is the crypto scheme of keystore accounts.
const SignatureType = "ecdsa"

// maxUnhashedPayload is the longest payload signed as is; longer payloads are
// replaced by their blake2b-256 hash before signing.
const maxUnhashedPayload = 256

var (
	bytesOpen  = []byte("<Bytes>")
	bytesClose = []byte("</Bytes>")
)

// KeySigner signs raw messages and extrinsic payloads with one keystore key.
type KeySigner struct {
	key     *crypto.PrivateKey
	address string
}

// NewKeySigner wraps key, which belongs to address.
func NewKeySigner(key *crypto.PrivateKey, address string) *KeySigner {
	return &KeySigner{key: key, address: address}
}

// Address returns the SS58 address of the key.
func (s *KeySigner) Address() string {
	return s.address
}

// Sign signs an arbitrary message. The message is wrapped in <Bytes> tags
// first so it can never be mistaken for an extrinsic payload.
func (s *KeySigner) Sign(ctx context.Context, message []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.sign(WrapBytes(message))
}

// SignPayload signs the hex payload of a built extrinsic.
func (s *KeySigner) SignPayload(ctx context.Context, payload *sdk.UnsignedTxPayload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := hexutil.Decode(payload.SignerPayloadHex)
	if err != nil {
		return "", fmt.Errorf("decode signer payload: %w", err)
	}
	return s.sign(raw)
}

// SignatureType implements sdk.PayloadSigner.
func (s *KeySigner) SignatureType() string {
	return SignatureType
}

func (s *KeySigner) sign(data []byte) (string, error) {
	if len(data) > maxUnhashedPayload {
		h := crypto.Blake2b256(data)
		data = h[:]
	}
	digest := crypto.Blake2b256(data)
	sig, err := s.key.SignRecoverable(digest[:])
	if err != nil {
		return "", err
	}
	return hexutil.Encode(sig), nil
}

// WrapBytes wraps message in <Bytes></Bytes> unless it is already wrapped.
func WrapBytes(message []byte) []byte {
	if bytes.HasPrefix(message, bytesOpen) && bytes.HasSuffix(message, bytesClose) {
		return message
	}
	out := make([]byte, 0, len(bytesOpen)+len(message)+len(bytesClose))
	out = append(out, bytesOpen...)
	out = append(out, message...)
	return append(out, bytesClose...)
}
