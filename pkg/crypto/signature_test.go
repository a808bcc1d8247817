package crypto

import (
	"bytes"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}

	if pub := key.PublicKey(); len(pub) != 33 {
		t.Errorf("PublicKey() length = %d, want 33", len(pub))
	}
	if ser := key.Serialize(); len(ser) != 32 {
		t.Errorf("Serialize() length = %d, want 32", len(ser))
	}
}

func TestPrivateKeyFromBytes(t *testing.T) {
	original, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}

	restored, err := PrivateKeyFromBytes(original.Serialize())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	if !bytes.Equal(original.PublicKey(), restored.PublicKey()) {
		t.Error("restored key should have same public key")
	}
}

func TestPrivateKeyFromBytes_InvalidLength(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"too short", make([]byte, 16)},
		{"too long", make([]byte, 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PrivateKeyFromBytes(tt.data); err == nil {
				t.Error("expected error for invalid key length")
			}
		})
	}
}

func TestSignRecoverable_Recover(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}

	hash := Blake2b256([]byte("redeem ticket 42"))
	sig, err := key.SignRecoverable(hash[:])
	if err != nil {
		t.Fatalf("SignRecoverable() error: %v", err)
	}
	if len(sig) != SignatureSize {
		t.Fatalf("signature length = %d, want %d", len(sig), SignatureSize)
	}
	if sig[64] > 1 {
		t.Errorf("recovery id = %d, want 0 or 1", sig[64])
	}

	pub, err := RecoverPublicKey(hash[:], sig)
	if err != nil {
		t.Fatalf("RecoverPublicKey() error: %v", err)
	}
	if !bytes.Equal(pub, key.PublicKey()) {
		t.Error("recovered key does not match signer")
	}
}

func TestSignRecoverable_WrongHashSize(t *testing.T) {
	key, _ := GenerateKey()
	if _, err := key.SignRecoverable([]byte("short")); err == nil {
		t.Error("expected error for non-32-byte hash")
	}
}

func TestRecoverPublicKey_TamperedHash(t *testing.T) {
	key, _ := GenerateKey()
	hash := Blake2b256([]byte("original"))
	sig, err := key.SignRecoverable(hash[:])
	if err != nil {
		t.Fatalf("SignRecoverable() error: %v", err)
	}

	other := Blake2b256([]byte("tampered"))
	pub, err := RecoverPublicKey(other[:], sig)
	if err == nil && bytes.Equal(pub, key.PublicKey()) {
		t.Error("tampered hash should not recover the signer key")
	}
}

func TestRecoverPublicKey_BadSignature(t *testing.T) {
	hash := Blake2b256([]byte("x"))
	if _, err := RecoverPublicKey(hash[:], make([]byte, 10)); err == nil {
		t.Error("expected error for short signature")
	}
	bad := make([]byte, SignatureSize)
	bad[64] = 9
	if _, err := RecoverPublicKey(hash[:], bad); err == nil {
		t.Error("expected error for invalid recovery id")
	}
}
