// Package ss58 implements the SS58 address format used by substrate chains.
//
// Layout: base58(prefix || account_id(32) || checksum(2)), where the checksum
// is the first two bytes of BLAKE2b-512("SS58PRE" || prefix || account_id).
// Prefixes below 64 take one byte, prefixes up to 16383 take two.
package ss58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/Klingon-tech/fhf-tickets/pkg/crypto"
)

// AccountIDSize is the length of a substrate account id.
const AccountIDSize = 32

// MaxPrefix is the largest network prefix the format can carry.
const MaxPrefix = 16383

// Well-known network prefixes.
const (
	PolkadotPrefix uint16 = 0
	KusamaPrefix   uint16 = 2
	GenericPrefix  uint16 = 42 // Also used by Opal.
)

const checksumSize = 2

var checksumPreimage = []byte("SS58PRE")

// Errors returned by Decode.
var (
	ErrInvalidBase58 = errors.New("ss58: invalid base58")
	ErrInvalidLength = errors.New("ss58: invalid length")
	ErrChecksum      = errors.New("ss58: checksum mismatch")
)

// Encode returns the SS58 form of a 32-byte account id for the given prefix.
func Encode(accountID []byte, prefix uint16) (string, error) {
	if len(accountID) != AccountIDSize {
		return "", fmt.Errorf("ss58: account id must be %d bytes, got %d", AccountIDSize, len(accountID))
	}
	if prefix > MaxPrefix {
		return "", fmt.Errorf("ss58: prefix %d out of range", prefix)
	}

	buf := encodePrefix(prefix)
	buf = append(buf, accountID...)
	sum := checksum(buf)
	buf = append(buf, sum[:checksumSize]...)
	return base58.Encode(buf), nil
}

// Decode parses an SS58 address and returns its account id and prefix.
func Decode(address string) ([]byte, uint16, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return nil, 0, ErrInvalidBase58
	}
	if len(raw) == 0 {
		return nil, 0, ErrInvalidLength
	}

	prefix, prefixLen, err := decodePrefix(raw)
	if err != nil {
		return nil, 0, err
	}
	if len(raw) != prefixLen+AccountIDSize+checksumSize {
		return nil, 0, ErrInvalidLength
	}

	body := raw[:prefixLen+AccountIDSize]
	sum := checksum(body)
	if !bytes.Equal(sum[:checksumSize], raw[len(body):]) {
		return nil, 0, ErrChecksum
	}

	id := make([]byte, AccountIDSize)
	copy(id, raw[prefixLen:])
	return id, prefix, nil
}

// Valid reports whether address decodes as SS58.
func Valid(address string) bool {
	_, _, err := Decode(address)
	return err == nil
}

func encodePrefix(prefix uint16) []byte {
	if prefix < 64 {
		return []byte{byte(prefix)}
	}
	first := byte((prefix&0b1111_1100)>>2) | 0b0100_0000
	second := byte(prefix>>8) | byte((prefix&0b11)<<6)
	return []byte{first, second}
}

func decodePrefix(raw []byte) (uint16, int, error) {
	switch {
	case raw[0] < 64:
		return uint16(raw[0]), 1, nil
	case raw[0] < 128:
		if len(raw) < 2 {
			return 0, 0, ErrInvalidLength
		}
		lower := uint16(raw[0]<<2) | uint16(raw[1]>>6)
		upper := uint16(raw[1] & 0b0011_1111)
		return lower | upper<<8, 2, nil
	default:
		return 0, 0, fmt.Errorf("ss58: reserved prefix byte %d", raw[0])
	}
}

func checksum(body []byte) [64]byte {
	data := make([]byte, 0, len(checksumPreimage)+len(body))
	data = append(data, checksumPreimage...)
	data = append(data, body...)
	return crypto.Blake2b512(data)
}
