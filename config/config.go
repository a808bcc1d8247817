// Package config handles application configuration.
//
// Settings come from three layers, later ones winning:
//   - Defaults for the Opal test network
//   - The key = value config file in the data directory
//   - Command-line flags
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the ticket desk's runtime configuration.
type Config struct {
	// Core
	DataDir string `conf:"datadir"`

	// Network SDK (REST)
	SDK SDKConfig

	// Injected EVM provider and target chain
	EVM EVMConfig

	// Ticket contract and minting
	Tickets TicketsConfig

	// Local substrate keystore
	Keystore KeystoreConfig

	// Logging
	Log LogConfig

	// ActionTimeout bounds each wallet action. Zero waits as long as the
	// chain takes.
	ActionTimeout time.Duration `conf:"action.timeout"`
}

// SDKConfig holds the REST SDK endpoint settings.
type SDKConfig struct {
	URL          string        `conf:"sdk.url"`
	CollectionID uint64        `conf:"sdk.collection"`
	PollInterval time.Duration `conf:"sdk.poll"`
}

// EVMConfig holds the wallet provider endpoint and the chain it must be on.
type EVMConfig struct {
	ProviderURL  string        `conf:"evm.provider"`
	PollInterval time.Duration `conf:"evm.poll"`
	Chain        ChainConfig
}

// ChainConfig describes the EVM chain wallets are switched to.
type ChainConfig struct {
	ChainID          uint64   `conf:"chain.id"`
	Name             string   `conf:"chain.name"`
	CurrencyName     string   `conf:"chain.currency_name"`
	CurrencySymbol   string   `conf:"chain.currency_symbol"`
	CurrencyDecimals uint8    `conf:"chain.currency_decimals"`
	RPCURLs          []string `conf:"chain.rpc_urls"`
	ExplorerURLs     []string `conf:"chain.explorer_urls"`
}

// IssueMode values.
const (
	IssueModeMint     = "mint"
	IssueModeContract = "contract"
)

// TicketsConfig holds the ticket contract and new-ticket settings.
type TicketsConfig struct {
	ContractAddress string `conf:"tickets.contract"`
	GasLimit        uint64 `conf:"tickets.gas_limit"`
	ImageURL        string `conf:"tickets.image_url"`
	IssueMode       string `conf:"tickets.issue_mode"` // mint or contract (substrate accounts)
}

// KeystoreConfig holds local keystore settings.
type KeystoreConfig struct {
	// DefaultWallet is connected by the shell's "connect substrate" when no
	// name is given.
	DefaultWallet string `conf:"keystore.wallet"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.fhf-tickets
//	macOS:   ~/Library/Application Support/FHFTickets
//	Windows: %APPDATA%\FHFTickets
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fhf-tickets"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "FHFTickets")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "FHFTickets")
		}
		return filepath.Join(home, "AppData", "Roaming", "FHFTickets")
	default:
		return filepath.Join(home, ".fhf-tickets")
	}
}

// KeystoreDir returns the keystore database directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.DataDir, "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "fhf-tickets.conf")
}
