package crypto

import (
	"encoding/hex"
	"testing"
)

func TestBlake2b256(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blake2b256(tt.input)
			if hex.EncodeToString(got[:]) != tt.want {
				t.Errorf("Blake2b256() = %x, want %s", got, tt.want)
			}
		})
	}
}

func TestBlake2b256_Deterministic(t *testing.T) {
	a := Blake2b256([]byte("ticket"))
	b := Blake2b256([]byte("ticket"))
	if a != b {
		t.Error("same input should produce same hash")
	}
	c := Blake2b256([]byte("tickets"))
	if a == c {
		t.Error("different input should produce different hash")
	}
}

func TestAccountID(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error: %v", err)
	}
	id := AccountID(key.PublicKey())
	if id != Blake2b256(key.PublicKey()) {
		t.Error("AccountID should be blake2b-256 of the compressed public key")
	}
}
