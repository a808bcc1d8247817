package substrate

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Klingon-tech/fhf-tickets/internal/sdk"
	"github.com/Klingon-tech/fhf-tickets/pkg/crypto"
)

func testSigner(t *testing.T) (*KeySigner, []byte) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return NewKeySigner(key, "5Test"), key.PublicKey()
}

// verifyMessage reports whether signature over message was made by the key
// whose compressed public key is pubKey.
func verifyMessage(message []byte, signature string, pubKey []byte) bool {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false
	}
	data := WrapBytes(message)
	if len(data) > maxUnhashedPayload {
		h := crypto.Blake2b256(data)
		data = h[:]
	}
	digest := crypto.Blake2b256(data)
	recovered, err := crypto.RecoverPublicKey(digest[:], sig)
	if err != nil {
		return false
	}
	return bytes.Equal(recovered, pubKey)
}

func TestWrapBytes(t *testing.T) {
	got := WrapBytes([]byte("hello"))
	if string(got) != "<Bytes>hello</Bytes>" {
		t.Errorf("wrap = %s", got)
	}
	if again := WrapBytes(got); !bytes.Equal(again, got) {
		t.Errorf("double wrap = %s", again)
	}
}

func TestKeySigner_Sign(t *testing.T) {
	s, pub := testSigner(t)
	msg := []byte("ticket desk")

	sig, err := s.Sign(context.Background(), msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+2*crypto.SignatureSize {
		t.Fatalf("signature = %s", sig)
	}
	if !verifyMessage(msg, sig, pub) {
		t.Error("signature should verify against the signing key")
	}
	if verifyMessage([]byte("other"), sig, pub) {
		t.Error("signature should not verify for a different message")
	}
}

func TestKeySigner_SignLongMessage(t *testing.T) {
	s, pub := testSigner(t)
	msg := bytes.Repeat([]byte{'x'}, 1000)

	sig, err := s.Sign(context.Background(), msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !verifyMessage(msg, sig, pub) {
		t.Error("long message signature should verify")
	}
}

func TestKeySigner_SignPayload(t *testing.T) {
	s, pub := testSigner(t)
	payload := bytes.Repeat([]byte{0xab}, 300)

	sig, err := s.SignPayload(context.Background(), &sdk.UnsignedTxPayload{SignerPayloadHex: hexutil.Encode(payload)})
	if err != nil {
		t.Fatalf("SignPayload: %v", err)
	}
	raw, _ := hexutil.Decode(sig)

	// Payloads over 256 bytes are hashed before the signing digest.
	pre := crypto.Blake2b256(payload)
	digest := crypto.Blake2b256(pre[:])
	recovered, err := crypto.RecoverPublicKey(digest[:], raw)
	if err != nil {
		t.Fatalf("RecoverPublicKey: %v", err)
	}
	if !bytes.Equal(recovered, pub) {
		t.Error("payload signature recovered to a different key")
	}
	if s.SignatureType() != "ecdsa" {
		t.Errorf("signature type = %s", s.SignatureType())
	}
}

func TestKeySigner_BadPayload(t *testing.T) {
	s, _ := testSigner(t)
	if _, err := s.SignPayload(context.Background(), &sdk.UnsignedTxPayload{SignerPayloadHex: "zz"}); err == nil {
		t.Fatal("expected error for non-hex payload")
	}
}

func TestKeySigner_Cancelled(t *testing.T) {
	s, _ := testSigner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Sign(ctx, []byte("m")); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
