package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/Klingon-tech/fhf-tickets/config"
	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/desk"
	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
)

// accountsChangedEvent is emitted with the full account list after a connect.
const accountsChangedEvent = "accounts:changed"

var errDeskClosed = errors.New("ticket desk is not running")

// qtSettings is the persistent configuration written to qt-settings.json.
type qtSettings struct {
	DataDir      string `json:"data_dir"`
	ProviderURL  string `json:"provider_url,omitempty"`
	ActiveWallet string `json:"active_wallet,omitempty"`
}

// App manages application lifecycle, settings and the desk. Bound methods
// run on their own goroutines; mu guards every field below it.
type App struct {
	ctx context.Context

	// openMu serializes desk restarts; two desks cannot share a keystore.
	openMu sync.Mutex

	mu           sync.Mutex
	dataDir      string
	providerURL  string
	activeWallet string
	desk         *desk.Desk
	pending      map[string][]byte // wallet name -> password for the next unlock

	tickets *TicketService
	wallets *WalletService
}

// NewApp creates the application with default settings.
func NewApp() *App {
	return newApp(config.DefaultDataDir())
}

func newApp(dataDir string) *App {
	app := &App{
		dataDir: dataDir,
		pending: make(map[string][]byte),
	}
	app.tickets = &TicketService{app: app}
	app.wallets = &WalletService{app: app}
	app.loadSettings()
	return app
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if err := a.openDesk(); err != nil {
		klog.UI.Error().Err(err).Msg("Ticket desk failed to start")
	}
}

func (a *App) shutdown(_ context.Context) {
	a.openMu.Lock()
	defer a.openMu.Unlock()
	a.closeDesk()
}

// openDesk (re)builds the desk from the data dir config and the settings.
// The running desk is closed first so the new one can take the keystore.
func (a *App) openDesk() error {
	a.openMu.Lock()
	defer a.openMu.Unlock()

	s := a.settings()
	cfg, err := config.LoadFromFile(s.DataDir)
	if err != nil {
		return err
	}
	if s.ProviderURL != "" {
		cfg.EVM.ProviderURL = s.ProviderURL
	}
	if s.ActiveWallet != "" {
		cfg.Keystore.DefaultWallet = s.ActiveWallet
	}

	a.closeDesk()
	d, err := desk.New(cfg, desk.Options{
		Password:          a.password,
		OnAccountsChanged: a.emitAccounts,
	})
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.desk = d
	a.mu.Unlock()
	return nil
}

// closeDesk closes the running desk, if any. Callers hold openMu.
func (a *App) closeDesk() {
	a.mu.Lock()
	d := a.desk
	a.desk = nil
	a.mu.Unlock()
	if d != nil {
		if err := d.Close(); err != nil {
			klog.UI.Error().Err(err).Msg("Close ticket desk")
		}
	}
}

// current returns the running desk.
func (a *App) current() (*desk.Desk, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.desk == nil {
		return nil, errDeskClosed
	}
	return a.desk, nil
}

// setPending stores the password the next unlock of name will use.
func (a *App) setPending(name string, password []byte) {
	a.mu.Lock()
	a.pending[name] = password
	a.mu.Unlock()
}

// password hands a stored password to the keystore once.
func (a *App) password(_ context.Context, name string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	pw, ok := a.pending[name]
	if !ok {
		return nil, fmt.Errorf("wallet %q is locked", name)
	}
	delete(a.pending, name)
	return pw, nil
}

func (a *App) emitAccounts(accts []account.Account) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, accountsChangedEvent, accountInfos(accts))
}

// ── Settings persistence ─────────────────────────────────────────────

// settings returns a snapshot of the persisted fields.
func (a *App) settings() qtSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return qtSettings{
		DataDir:      a.dataDir,
		ProviderURL:  a.providerURL,
		ActiveWallet: a.activeWallet,
	}
}

func settingsPath(dataDir string) string {
	return filepath.Join(dataDir, "qt-settings.json")
}

func (a *App) loadSettings() {
	data, err := os.ReadFile(settingsPath(a.settings().DataDir))
	if err != nil {
		return
	}
	var s qtSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if s.DataDir != "" {
		a.dataDir = s.DataDir
	}
	a.providerURL = s.ProviderURL
	a.activeWallet = s.ActiveWallet
}

// update applies fn to the settings under mu and persists the result.
func (a *App) update(fn func()) {
	a.mu.Lock()
	fn()
	s := qtSettings{
		DataDir:      a.dataDir,
		ProviderURL:  a.providerURL,
		ActiveWallet: a.activeWallet,
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err == nil {
		_ = os.MkdirAll(s.DataDir, 0700)
		err = os.WriteFile(settingsPath(s.DataDir), data, 0600)
	}
	a.mu.Unlock()
	if err != nil {
		klog.UI.Warn().Err(err).Msg("Save settings")
	}
}

// ── Getters / Setters (each setter persists) ─────────────────────────

// GetDataDir returns the current data directory.
func (a *App) GetDataDir() string {
	return a.settings().DataDir
}

// SetDataDir updates the data directory and restarts the desk on it.
func (a *App) SetDataDir(dir string) error {
	a.update(func() { a.dataDir = dir })
	return a.openDesk()
}

// GetProviderURL returns the EVM wallet endpoint override.
func (a *App) GetProviderURL() string {
	return a.settings().ProviderURL
}

// SetProviderURL points the EVM backend at another wallet endpoint. Connected
// accounts are dropped with the old session.
func (a *App) SetProviderURL(url string) error {
	a.update(func() { a.providerURL = url })
	return a.openDesk()
}

// GetActiveWallet returns the keystore wallet preselected for connect.
func (a *App) GetActiveWallet() string {
	return a.settings().ActiveWallet
}

// SetActiveWallet updates the preselected keystore wallet.
func (a *App) SetActiveWallet(name string) {
	a.update(func() { a.activeWallet = name })
}

// SessionID returns the id of the running session.
func (a *App) SessionID() (string, error) {
	d, err := a.current()
	if err != nil {
		return "", err
	}
	return d.Session().ID(), nil
}
