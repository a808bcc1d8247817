package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/pkg/address"
)

// parseCount parses the ticket count field of the issue form.
func parseCount(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty count")
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid count: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("count must be positive")
	}
	return uint32(n), nil
}

// parseTokenID parses a token id, accepting the "collection/token" form the
// token list shows.
func parseTokenID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return 0, fmt.Errorf("empty token id")
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token id: %w", err)
	}
	if id == 0 || id > math.MaxUint32 {
		return 0, fmt.Errorf("token id out of range")
	}
	return id, nil
}

// checkAddress validates an ethereum or substrate address and returns it in
// canonical form.
func checkAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty address")
	}
	if !address.IsEthereum(s) && !address.IsSubstrate(s) {
		return "", fmt.Errorf("%q is neither an ethereum nor a substrate address", s)
	}
	return address.Normalize(s)
}

// shortHash abbreviates a transaction hash for notifications.
func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:8] + "…" + h[len(h)-6:]
}

func accountInfos(accts []account.Account) []AccountInfo {
	out := make([]AccountInfo, len(accts))
	for i := range accts {
		out[i] = AccountInfo{
			Name:    accts[i].Name,
			Address: accts[i].Address,
			Kind:    accts[i].Kind.String(),
			Label:   accts[i].Label(),
		}
	}
	return out
}

func receiptInfo(r *account.Receipt) *ReceiptInfo {
	return &ReceiptInfo{
		Kind:        r.Kind.String(),
		TxHash:      r.TxHash,
		BlockHash:   r.BlockHash,
		BlockNumber: r.BlockNumber,
		TokenIDs:    r.TokenIDs,
	}
}
