package ss58

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// Well-known development account (Alice, sr25519 public key).
const alicePubHex = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"

func alicePub(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString(alicePubHex)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return b
}

func TestEncode_KnownVectors(t *testing.T) {
	tests := []struct {
		name   string
		prefix uint16
		want   string
	}{
		{"generic", GenericPrefix, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"},
		{"polkadot", PolkadotPrefix, "15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(alicePub(t), tt.prefix)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, prefix := range []uint16{0, 2, 42, 63, 64, 255, 7391, MaxPrefix} {
		addr, err := Encode(alicePub(t), prefix)
		if err != nil {
			t.Fatalf("Encode(prefix=%d) error: %v", prefix, err)
		}
		id, gotPrefix, err := Decode(addr)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", addr, err)
		}
		if gotPrefix != prefix {
			t.Errorf("prefix = %d, want %d", gotPrefix, prefix)
		}
		if !bytes.Equal(id, alicePub(t)) {
			t.Errorf("account id mismatch for prefix %d", prefix)
		}
	}
}

func TestEncode_Invalid(t *testing.T) {
	if _, err := Encode(make([]byte, 20), GenericPrefix); err == nil {
		t.Error("expected error for 20-byte account id")
	}
	if _, err := Encode(alicePub(t), MaxPrefix+1); err == nil {
		t.Error("expected error for out-of-range prefix")
	}
}

func TestDecode_Errors(t *testing.T) {
	valid, err := Encode(alicePub(t), GenericPrefix)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	// Flip the last character to break the checksum.
	last := valid[len(valid)-1]
	repl := byte('1')
	if last == '1' {
		repl = '2'
	}
	tampered := valid[:len(valid)-1] + string(repl)

	tests := []struct {
		name  string
		input string
	}{
		{"not base58", "0OIl"},
		{"empty", ""},
		{"too short", "5Grwva"},
		{"tampered", tampered},
		{"ethereum", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(tt.input); err == nil {
				t.Errorf("Decode(%q) should fail", tt.input)
			}
			if Valid(tt.input) {
				t.Errorf("Valid(%q) = true", tt.input)
			}
		})
	}
}

func TestDecode_ChecksumError(t *testing.T) {
	addr, _ := Encode(alicePub(t), GenericPrefix)
	raw := []byte(addr)
	// Swap two characters in the middle; length stays valid.
	raw[10], raw[11] = raw[11], raw[10]
	if raw[10] == raw[11] {
		t.Skip("swap produced identical address")
	}
	_, _, err := Decode(string(raw))
	if err == nil {
		t.Fatal("expected decode failure")
	}
	if !errors.Is(err, ErrChecksum) && !errors.Is(err, ErrInvalidLength) {
		t.Errorf("error = %v, want checksum or length error", err)
	}
}
