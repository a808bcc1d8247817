package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
)

// Session is the account registry of one user session. It is created when
// the session starts and cleared by Close; nothing is persisted.
//
// Accounts are only ever appended: connecting the same wallet twice lists
// its accounts twice, and lookups return the first match.
type Session struct {
	id       uuid.UUID
	backends map[Kind]Backend
	timeout  time.Duration
	logger   zerolog.Logger

	mu       sync.RWMutex
	accounts []*Account
	closed   bool
	onChange func([]Account)
}

// Option configures a Session.
type Option func(*Session)

// WithActionTimeout bounds every backend call made by the session.
// Zero leaves calls bounded only by the caller's context.
func WithActionTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithChangeHook registers fn to receive the account list after every
// successful Connect, so views can refresh their account pickers.
func WithChangeHook(fn func([]Account)) Option {
	return func(s *Session) { s.onChange = fn }
}

// NewSession creates a session over the given backends, at most one per kind.
func NewSession(backends []Backend, opts ...Option) (*Session, error) {
	s := &Session{
		id:       uuid.New(),
		backends: make(map[Kind]Backend, len(backends)),
	}
	for _, b := range backends {
		if _, dup := s.backends[b.Kind()]; dup {
			return nil, fmt.Errorf("duplicate backend for %s", b.Kind())
		}
		s.backends[b.Kind()] = b
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = klog.Session.With().Str("session", s.id.String()).Logger()
	s.logger.Debug().Int("backends", len(s.backends)).Msg("Session started")
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Connect asks the backend of the given kind for accounts and appends them.
func (s *Session) Connect(ctx context.Context, kind Kind, source string) ([]Account, error) {
	b, ok := s.backends[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}
	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	found, err := b.Connect(ctx, source)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", kind.String()).Str("source", source).Msg("Connect failed")
		return nil, wrapBackend(kind, "connect", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNoAccounts, kind, source)
	}

	added := make([]Account, 0, len(found))
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	for i := range found {
		acct := found[i]
		acct.Kind = kind
		acct.backend = b
		s.accounts = append(s.accounts, &acct)
		added = append(added, acct)
	}
	snapshot := s.snapshotLocked()
	hook := s.onChange
	s.mu.Unlock()

	s.logger.Info().Str("kind", kind.String()).Int("added", len(added)).Int("total", len(snapshot)).Msg("Accounts connected")
	if hook != nil {
		hook(snapshot)
	}
	return added, nil
}

// Accounts returns the connected accounts in connection order.
func (s *Session) Accounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Lookup returns the first account with the given address.
func (s *Session) Lookup(address string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	for _, a := range s.accounts {
		if a.Address == address {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
}

// Sign signs message with the account registered under address.
func (s *Session) Sign(ctx context.Context, address string, message []byte) (string, error) {
	acct, err := s.Lookup(address)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	sig, err := acct.Signer.Sign(ctx, message)
	if err != nil {
		return "", wrapBackend(acct.Kind, "sign", err)
	}
	return sig, nil
}

// Dispatch runs action against the backend of the account registered under
// address. Nothing reaches a backend when the account is unknown or the
// action's arguments are missing.
func (s *Session) Dispatch(ctx context.Context, address string, action Action) (*Receipt, error) {
	acct, err := s.Lookup(address)
	if err != nil {
		return nil, err
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	logger := s.logger.With().
		Str("action", action.Name()).
		Str("kind", acct.Kind.String()).
		Str("address", acct.Address).
		Logger()
	logger.Info().Msg("Dispatching action")

	start := time.Now()
	receipt, err := action.run(ctx, acct.backend, acct)
	if err != nil {
		logger.Error().Err(err).Msg("Action failed")
		return nil, wrapBackend(acct.Kind, action.Name(), err)
	}
	logger.Info().Str("tx", receipt.TxHash).Dur("took", time.Since(start)).Msg("Action confirmed")
	return receipt, nil
}

// IssueTickets dispatches an IssueTickets action.
func (s *Session) IssueTickets(ctx context.Context, address, to string, count uint32) (*Receipt, error) {
	return s.Dispatch(ctx, address, IssueTickets{To: to, Count: count})
}

// RedeemTicket dispatches a RedeemTicket action.
func (s *Session) RedeemTicket(ctx context.Context, address string, tokenID uint64) (*Receipt, error) {
	return s.Dispatch(ctx, address, RedeemTicket{TokenID: tokenID})
}

// Close ends the session and forgets every account.
func (s *Session) Close() {
	s.mu.Lock()
	s.accounts = nil
	s.closed = true
	s.mu.Unlock()
	s.logger.Debug().Msg("Session closed")
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) snapshotLocked() []Account {
	out := make([]Account, len(s.accounts))
	for i, a := range s.accounts {
		out[i] = *a
	}
	return out
}

func (s *Session) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func wrapBackend(kind Kind, op string, err error) error {
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Kind: kind, Op: op, Err: err}
}
