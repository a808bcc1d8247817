// Package account holds the connected wallet accounts of one session and
// routes ticket actions to the backend that owns each account.
//
// There are exactly two backend kinds. An account remembers the backend that
// produced it, so dispatching an action is a single call on that backend;
// no action ever reaches the other kind's backend.
package account

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies which backend handles an account.
type Kind int

const (
	// SubstrateExtension accounts come from a substrate wallet extension and
	// submit through the network SDK.
	SubstrateExtension Kind = iota + 1
	// InjectedEVMProvider accounts come from an injected EVM wallet and call
	// the ticket contract directly.
	InjectedEVMProvider
)

func (k Kind) String() string {
	switch k {
	case SubstrateExtension:
		return "substrate"
	case InjectedEVMProvider:
		return "evm"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses "substrate" or "evm".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "substrate", "polkadot":
		return SubstrateExtension, nil
	case "evm", "metamask", "ethereum":
		return InjectedEVMProvider, nil
	default:
		return 0, fmt.Errorf("unknown account kind %q", s)
	}
}

// Signer signs arbitrary messages on behalf of an account. The signature
// encoding is backend specific and passed through untouched.
type Signer interface {
	Sign(ctx context.Context, message []byte) (string, error)
}

// Account is a connected wallet account.
type Account struct {
	Name    string
	Address string
	Kind    Kind
	Signer  Signer

	backend Backend
}

// Label is the "[name] address" form used by account pickers.
func (a *Account) Label() string {
	return fmt.Sprintf("[%s] %s", a.Name, a.Address)
}

// Receipt is the confirmed outcome of a ticket action.
type Receipt struct {
	Kind        Kind     `json:"kind"`
	TxHash      string   `json:"tx_hash"`
	BlockHash   string   `json:"block_hash,omitempty"`
	BlockNumber uint64   `json:"block_number,omitempty"`
	TokenIDs    []uint64 `json:"token_ids,omitempty"`
}

// Backend is one wallet/chain stack. Action methods return only after the
// backend has confirmed the transaction on chain.
type Backend interface {
	Kind() Kind
	// Connect discovers accounts. source names the wallet for backends that
	// hold several (the extension/wallet name); others ignore it.
	Connect(ctx context.Context, source string) ([]Account, error)
	IssueTickets(ctx context.Context, acct *Account, to string, count uint32) (*Receipt, error)
	RedeemTicket(ctx context.Context, acct *Account, tokenID uint64) (*Receipt, error)
}
