// Package contract holds the ABI of the FHF tickets contract and packs call
// data for its two write methods.
package contract

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/Klingon-tech/fhf-tickets/pkg/address"
)

// Method names.
const (
	MethodDropTickets = "dropTicketsBatchCross"
	MethodUseTicket   = "useTicket"
)

//go:embed fhftickets.abi.json
var rawABI []byte

var (
	parseOnce sync.Once
	parsed    abi.ABI
	parseErr  error
)

// ABI returns the parsed contract ABI.
func ABI() (abi.ABI, error) {
	parseOnce.Do(func() {
		parsed, parseErr = abi.JSON(strings.NewReader(string(rawABI)))
		if parseErr != nil {
			parseErr = fmt.Errorf("parse tickets abi: %w", parseErr)
		}
	})
	return parsed, parseErr
}

// RawABI returns the ABI as JSON, for APIs that take the ABI verbatim.
func RawABI() json.RawMessage {
	out := make(json.RawMessage, len(rawABI))
	copy(out, rawABI)
	return out
}

// PackDropTickets encodes dropTicketsBatchCross(to, count).
func PackDropTickets(to []address.CrossAccountID, count uint32) ([]byte, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("no recipients")
	}
	a, err := ABI()
	if err != nil {
		return nil, err
	}
	recipients := make([]address.CrossAccountID, len(to))
	for i, r := range to {
		if r.Sub == nil {
			r.Sub = new(big.Int)
		}
		recipients[i] = r
	}
	data, err := a.Pack(MethodDropTickets, recipients, new(big.Int).SetUint64(uint64(count)))
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", MethodDropTickets, err)
	}
	return data, nil
}

// PackUseTicket encodes useTicket(tokenID).
func PackUseTicket(tokenID uint64) ([]byte, error) {
	a, err := ABI()
	if err != nil {
		return nil, err
	}
	data, err := a.Pack(MethodUseTicket, new(big.Int).SetUint64(tokenID))
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", MethodUseTicket, err)
	}
	return data, nil
}
