// Package desk assembles a ticket desk from configuration: keystore, REST
// SDK client, both wallet backends and the account session. Front-ends (CLI,
// desktop app) embed one Desk each.
package desk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/fhf-tickets/config"
	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/evm"
	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
	"github.com/Klingon-tech/fhf-tickets/internal/sdk"
	"github.com/Klingon-tech/fhf-tickets/internal/storage"
	"github.com/Klingon-tech/fhf-tickets/internal/substrate"
	"github.com/Klingon-tech/fhf-tickets/internal/wallet"
)

var keystorePrefix = []byte("ks/")

// Options are the front-end hooks of a desk.
type Options struct {
	// Password unlocks keystore wallets on connect. Required.
	Password wallet.PasswordFunc
	// OnAccountsChanged receives the account list after every connect.
	OnAccountsChanged func([]account.Account)
	// Provider replaces the configured EVM provider endpoint.
	Provider evm.Provider
	// DB replaces the on-disk keystore database.
	DB storage.DB
	// SkipLogInit leaves the global logger untouched.
	SkipLogInit bool
}

// Desk is a fully wired ticket desk.
type Desk struct {
	cfg    *config.Config
	logger zerolog.Logger

	db       storage.DB
	keystore *wallet.Keystore
	sdk      *sdk.Client
	provider evm.Provider
	session  *account.Session
}

// New wires a desk from cfg.
func New(cfg *config.Config, opts Options) (*Desk, error) {
	if opts.Password == nil {
		return nil, fmt.Errorf("desk: password source required")
	}

	// ── Logger ──────────────────────────────────────────────────────
	if !opts.SkipLogInit {
		logFile := cfg.Log.File
		if logFile == "" {
			if err := os.MkdirAll(cfg.LogsDir(), 0755); err != nil {
				return nil, fmt.Errorf("creating logs dir: %w", err)
			}
			logFile = filepath.Join(cfg.LogsDir(), "fhf-tickets.log")
		}
		if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
			return nil, fmt.Errorf("initializing logger: %w", err)
		}
	}
	logger := klog.WithComponent("desk")

	// ── Keystore ────────────────────────────────────────────────────
	db := opts.DB
	if db == nil {
		bdb, err := storage.NewBadger(cfg.KeystoreDir())
		if err != nil {
			return nil, fmt.Errorf("open keystore at %s: %w", cfg.KeystoreDir(), err)
		}
		db = bdb
	}
	ks := wallet.NewKeystore(storage.NewPrefixDB(db, keystorePrefix), wallet.DefaultParams())

	// ── REST SDK ────────────────────────────────────────────────────
	client := sdk.New(cfg.SDK.URL, cfg.SDK.CollectionID, sdk.WithPollInterval(cfg.SDK.PollInterval))

	// ── Backends ────────────────────────────────────────────────────
	mode, err := substrate.ParseIssueMode(cfg.Tickets.IssueMode)
	if err != nil {
		db.Close()
		return nil, err
	}
	subBackend := substrate.New(wallet.NewExtension(ks, opts.Password), client, substrate.Config{
		ContractAddress: cfg.Tickets.ContractAddress,
		GasLimit:        cfg.Tickets.GasLimit,
		TicketImageURL:  cfg.Tickets.ImageURL,
		IssueMode:       mode,
	})

	provider := opts.Provider
	if provider == nil {
		provider = evm.NewLazyProvider(cfg.EVM.ProviderURL)
	}
	evmBackend := evm.New(provider, evm.Config{
		Chain:           ChainParams(cfg.EVM.Chain),
		ContractAddress: common.HexToAddress(cfg.Tickets.ContractAddress),
		PollInterval:    cfg.EVM.PollInterval,
	})

	// ── Session ─────────────────────────────────────────────────────
	sessOpts := []account.Option{account.WithActionTimeout(cfg.ActionTimeout)}
	if opts.OnAccountsChanged != nil {
		sessOpts = append(sessOpts, account.WithChangeHook(opts.OnAccountsChanged))
	}
	session, err := account.NewSession([]account.Backend{subBackend, evmBackend}, sessOpts...)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().
		Str("sdk", cfg.SDK.URL).
		Uint64("collection", cfg.SDK.CollectionID).
		Str("provider", cfg.EVM.ProviderURL).
		Str("issue_mode", string(mode)).
		Str("session", session.ID()).
		Msg("Ticket desk ready")

	return &Desk{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		keystore: ks,
		sdk:      client,
		provider: provider,
		session:  session,
	}, nil
}

// ChainParams converts the configured chain into the wallet descriptor.
func ChainParams(c config.ChainConfig) evm.ChainParams {
	return evm.ChainParams{
		ChainID:   hexutil.Uint64(c.ChainID),
		ChainName: c.Name,
		NativeCurrency: evm.NativeCurrency{
			Name:     c.CurrencyName,
			Symbol:   c.CurrencySymbol,
			Decimals: c.CurrencyDecimals,
		},
		RPCURLs:           c.RPCURLs,
		BlockExplorerURLs: c.ExplorerURLs,
	}
}

// Config returns the desk configuration.
func (d *Desk) Config() *config.Config { return d.cfg }

// Session returns the account session.
func (d *Desk) Session() *account.Session { return d.session }

// Keystore returns the local substrate keystore.
func (d *Desk) Keystore() *wallet.Keystore { return d.keystore }

// Tokens lists the collection tokens owned by address.
func (d *Desk) Tokens(ctx context.Context, address string) ([]sdk.TokenRef, error) {
	defer klog.Benchmark("account-tokens")()
	return d.sdk.AccountTokens(ctx, address)
}

// Token fetches one token of the collection.
func (d *Desk) Token(ctx context.Context, tokenID uint64) (*sdk.Token, error) {
	defer klog.Benchmark("token")()
	return d.sdk.Token(ctx, tokenID)
}

// Close ends the session and releases the keystore and provider.
func (d *Desk) Close() error {
	d.session.Close()
	if c, ok := d.provider.(interface{ Close() }); ok {
		c.Close()
	}
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close keystore: %w", err)
	}
	d.logger.Info().Msg("Ticket desk closed")
	return nil
}
