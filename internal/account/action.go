package account

import (
	"context"
	"strings"
)

// Action is a ticket operation that can be dispatched to an account's
// backend. The set is closed: IssueTickets and RedeemTicket.
type Action interface {
	// Name is the action's wire/log name.
	Name() string
	// Validate reports ErrMissingInput when a required argument is empty.
	Validate() error

	run(ctx context.Context, b Backend, acct *Account) (*Receipt, error)
}

// IssueTickets mints Count tickets to the recipient To.
type IssueTickets struct {
	To    string
	Count uint32
}

// Name implements Action.
func (IssueTickets) Name() string { return "issueTickets" }

// Validate implements Action.
func (a IssueTickets) Validate() error {
	if strings.TrimSpace(a.To) == "" {
		return missing("recipient")
	}
	if a.Count == 0 {
		return missing("count")
	}
	return nil
}

func (a IssueTickets) run(ctx context.Context, b Backend, acct *Account) (*Receipt, error) {
	return b.IssueTickets(ctx, acct, strings.TrimSpace(a.To), a.Count)
}

// RedeemTicket marks the ticket TokenID as used.
type RedeemTicket struct {
	TokenID uint64
}

// Name implements Action.
func (RedeemTicket) Name() string { return "redeemTicket" }

// Validate implements Action.
func (a RedeemTicket) Validate() error {
	if a.TokenID == 0 {
		return missing("token id")
	}
	return nil
}

func (a RedeemTicket) run(ctx context.Context, b Backend, acct *Account) (*Receipt, error) {
	return b.RedeemTicket(ctx, acct, a.TokenID)
}
