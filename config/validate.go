package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Validate checks the config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validateURL(cfg.SDK.URL, "sdk.url", "http", "https"); err != nil {
		return err
	}
	if cfg.SDK.CollectionID == 0 {
		return fmt.Errorf("sdk.collection must be set")
	}
	if cfg.SDK.PollInterval <= 0 {
		return fmt.Errorf("sdk.poll must be positive")
	}
	if err := validateURL(cfg.EVM.ProviderURL, "evm.provider", "http", "https", "ws", "wss"); err != nil {
		return err
	}
	if cfg.EVM.PollInterval <= 0 {
		return fmt.Errorf("evm.poll must be positive")
	}
	if cfg.EVM.Chain.ChainID == 0 {
		return fmt.Errorf("chain.id must be set")
	}
	if cfg.EVM.Chain.Name == "" || len(cfg.EVM.Chain.RPCURLs) == 0 {
		return fmt.Errorf("chain.name and chain.rpc_urls are required to add the chain to wallets")
	}
	if !common.IsHexAddress(cfg.Tickets.ContractAddress) {
		return fmt.Errorf("tickets.contract %q is not an ethereum address", cfg.Tickets.ContractAddress)
	}
	if cfg.Tickets.GasLimit == 0 {
		return fmt.Errorf("tickets.gas_limit must be positive")
	}
	if cfg.Tickets.IssueMode == "" {
		cfg.Tickets.IssueMode = IssueModeMint
	}
	switch cfg.Tickets.IssueMode {
	case IssueModeMint, IssueModeContract:
	default:
		return fmt.Errorf("tickets.issue_mode must be %s or %s", IssueModeMint, IssueModeContract)
	}
	if cfg.ActionTimeout < 0 {
		return fmt.Errorf("action.timeout must not be negative")
	}
	return nil
}

func validateURL(raw, field string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%s %q is not a valid URL", field, raw)
	}
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			return nil
		}
	}
	return fmt.Errorf("%s must use one of %s", field, strings.Join(schemes, ", "))
}
