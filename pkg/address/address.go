// Package address normalizes recipient strings that may be either ethereum
// (0x-hex) or substrate (SS58) addresses, and builds the cross-chain account
// ids the ticket contract expects.
package address

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Klingon-tech/fhf-tickets/pkg/ss58"
)

// DefaultPrefix is the SS58 prefix addresses are normalized to.
const DefaultPrefix = ss58.GenericPrefix

// CrossAccountID addresses an account in either execution context.
// Exactly one of Eth or Sub is set; the other is zero. Field names match the
// contract's (address eth, uint256 sub) tuple so it packs directly.
type CrossAccountID struct {
	Eth common.Address
	Sub *big.Int
}

// IsEthereum reports whether addr is a 20-byte 0x-prefixed hex address.
func IsEthereum(addr string) bool {
	return strings.HasPrefix(addr, "0x") && common.IsHexAddress(addr)
}

// IsSubstrate reports whether addr is a valid SS58 address.
func IsSubstrate(addr string) bool {
	return ss58.Valid(addr)
}

// Normalize returns the canonical form of addr: EIP-55 checksummed hex for
// ethereum addresses, SS58 with DefaultPrefix for substrate addresses.
func Normalize(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}
	if IsEthereum(addr) {
		return common.HexToAddress(addr).Hex(), nil
	}
	id, _, err := ss58.Decode(addr)
	if err != nil {
		return "", fmt.Errorf("address %q is neither ethereum nor ss58: %w", addr, err)
	}
	return ss58.Encode(id, DefaultPrefix)
}

// CrossAccount builds the cross-chain account id for addr.
func CrossAccount(addr string) (CrossAccountID, error) {
	addr = strings.TrimSpace(addr)
	if IsEthereum(addr) {
		return CrossAccountID{Eth: common.HexToAddress(addr), Sub: new(big.Int)}, nil
	}
	id, _, err := ss58.Decode(addr)
	if err != nil {
		return CrossAccountID{}, fmt.Errorf("address %q is neither ethereum nor ss58: %w", addr, err)
	}
	return CrossAccountID{Sub: new(big.Int).SetBytes(id)}, nil
}

// FromAccountID encodes a substrate account id with DefaultPrefix.
func FromAccountID(id [32]byte) string {
	// Encode only fails on bad lengths or prefixes, neither possible here.
	addr, _ := ss58.Encode(id[:], DefaultPrefix)
	return addr
}
