package main

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/desk"
	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
)

// TicketService exposes the session actions to the frontend.
type TicketService struct {
	app *App
}

// AccountInfo describes a connected account.
type AccountInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Label   string `json:"label"`
}

// IssueRequest holds the parameters for issuing tickets.
type IssueRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count string `json:"count"`
}

// RedeemRequest holds the parameters for redeeming a ticket.
type RedeemRequest struct {
	From    string `json:"from"`
	TokenID string `json:"token_id"`
}

// ReceiptInfo is returned once an action is confirmed.
type ReceiptInfo struct {
	Kind        string   `json:"kind"`
	TxHash      string   `json:"tx_hash"`
	BlockHash   string   `json:"block_hash,omitempty"`
	BlockNumber uint64   `json:"block_number,omitempty"`
	TokenIDs    []uint64 `json:"token_ids,omitempty"`
}

// ConnectSubstrateWallet unlocks a keystore wallet and adds its accounts.
func (s *TicketService) ConnectSubstrateWallet(name, password string) ([]AccountInfo, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = s.app.GetActiveWallet()
	}
	if name == "" {
		return nil, fmt.Errorf("wallet name required")
	}
	s.app.setPending(name, []byte(password))
	accts, err := d.Session().Connect(s.ctx(), account.SubstrateExtension, name)
	if err != nil {
		return nil, err
	}
	s.app.SetActiveWallet(name)
	return accountInfos(accts), nil
}

// ConnectEVMWallet asks the injected provider for its account.
func (s *TicketService) ConnectEVMWallet() ([]AccountInfo, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	accts, err := d.Session().Connect(s.ctx(), account.InjectedEVMProvider, "")
	if err != nil {
		return nil, err
	}
	return accountInfos(accts), nil
}

// Accounts returns every connected account in connection order.
func (s *TicketService) Accounts() ([]AccountInfo, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	return accountInfos(d.Session().Accounts()), nil
}

// Sign signs message with the account at address.
func (s *TicketService) Sign(address, message string) (string, error) {
	d, err := s.app.current()
	if err != nil {
		return "", err
	}
	return d.Session().Sign(s.ctx(), address, []byte(message))
}

// IssueTickets issues tickets to req.To from the account at req.From.
func (s *TicketService) IssueTickets(req IssueRequest) (*ReceiptInfo, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	count, err := parseCount(req.Count)
	if err != nil {
		return nil, err
	}
	r, err := d.Session().IssueTickets(s.ctx(), req.From, req.To, count)
	if err != nil {
		return nil, err
	}
	notifyReceipt("Tickets issued", r)
	return receiptInfo(r), nil
}

// RedeemTicket redeems req.TokenID from the account at req.From.
func (s *TicketService) RedeemTicket(req RedeemRequest) (*ReceiptInfo, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	id, err := parseTokenID(req.TokenID)
	if err != nil {
		return nil, err
	}
	r, err := d.Session().RedeemTicket(s.ctx(), req.From, id)
	if err != nil {
		return nil, err
	}
	notifyReceipt("Ticket redeemed", r)
	return receiptInfo(r), nil
}

// AccountTokens lists the tickets owned by address as "collection/token".
func (s *TicketService) AccountTokens(address string) ([]string, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	address, err = checkAddress(address)
	if err != nil {
		return nil, err
	}
	refs, err := d.Tokens(s.ctx(), address)
	if err != nil {
		return nil, err
	}
	return desk.TokenLines(refs), nil
}

// TokenData returns the display form of one ticket.
func (s *TicketService) TokenData(tokenID string) (*desk.TokenView, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	id, err := parseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	tok, err := d.Token(s.ctx(), id)
	if err != nil {
		return nil, err
	}
	v := desk.ViewToken(tok)
	return &v, nil
}

func (s *TicketService) ctx() context.Context {
	if s.app.ctx != nil {
		return s.app.ctx
	}
	return context.Background()
}

func notifyReceipt(title string, r *account.Receipt) {
	body := "Transaction " + shortHash(r.TxHash) + " confirmed"
	if n := len(r.TokenIDs); n > 0 {
		body = fmt.Sprintf("%s, %d ticket(s)", body, n)
	}
	if err := sendOSNotification(title, body); err != nil {
		klog.UI.Debug().Err(err).Msg("OS notification unavailable")
	}
}
