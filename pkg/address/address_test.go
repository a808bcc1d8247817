package address

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Klingon-tech/fhf-tickets/pkg/ss58"
)

const (
	// EIP-55 reference vector.
	checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	aliceHex    = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceOpal   = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	alicePolka  = "15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5"
)

func TestIsEthereum(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{checksummed, true},
		{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
		{"0x5aaeb6", false},
		{aliceOpal, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsEthereum(tt.input); got != tt.want {
			t.Errorf("IsEthereum(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsSubstrate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{aliceOpal, true},
		{alicePolka, true},
		{aliceOpal[:len(aliceOpal)-1] + "Z", false},
		{checksummed, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSubstrate(tt.input); got != tt.want {
			t.Errorf("IsSubstrate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"eth lowercase", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", checksummed, false},
		{"eth checksummed", checksummed, checksummed, false},
		{"ss58 generic", aliceOpal, aliceOpal, false},
		{"ss58 polkadot prefix", alicePolka, aliceOpal, false},
		{"padded", "  " + aliceOpal + " ", aliceOpal, false},
		{"empty", "", "", true},
		{"garbage", "not-an-address", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCrossAccount_Ethereum(t *testing.T) {
	cross, err := CrossAccount(checksummed)
	if err != nil {
		t.Fatalf("CrossAccount() error: %v", err)
	}
	if cross.Eth != common.HexToAddress(checksummed) {
		t.Errorf("Eth = %s, want %s", cross.Eth.Hex(), checksummed)
	}
	if cross.Sub == nil || cross.Sub.Sign() != 0 {
		t.Errorf("Sub = %v, want 0", cross.Sub)
	}
}

func TestCrossAccount_Substrate(t *testing.T) {
	cross, err := CrossAccount(alicePolka)
	if err != nil {
		t.Fatalf("CrossAccount() error: %v", err)
	}
	if cross.Eth != (common.Address{}) {
		t.Errorf("Eth = %s, want zero address", cross.Eth.Hex())
	}
	want, _ := hex.DecodeString(aliceHex)
	if !bytes.Equal(cross.Sub.Bytes(), want) {
		t.Errorf("Sub = %x, want %s", cross.Sub.Bytes(), aliceHex)
	}
}

func TestCrossAccount_Invalid(t *testing.T) {
	if _, err := CrossAccount("nope"); err == nil {
		t.Error("expected error for invalid address")
	}
}

func TestFromAccountID(t *testing.T) {
	raw, _ := hex.DecodeString(aliceHex)
	var id [32]byte
	copy(id[:], raw)
	if got := FromAccountID(id); got != aliceOpal {
		t.Errorf("FromAccountID() = %q, want %q", got, aliceOpal)
	}
	if _, prefix, err := ss58.Decode(FromAccountID(id)); err != nil || prefix != DefaultPrefix {
		t.Errorf("decoded prefix = %d (err %v), want %d", prefix, err, DefaultPrefix)
	}
}
