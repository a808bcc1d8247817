package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setConfigValue(cfg *Config, key, value string) error {
	var err error
	switch key {
	// Core
	case "datadir":
		cfg.DataDir = value
	case "action.timeout":
		cfg.ActionTimeout, err = time.ParseDuration(value)

	// SDK
	case "sdk.url":
		cfg.SDK.URL = value
	case "sdk.collection":
		cfg.SDK.CollectionID, err = strconv.ParseUint(value, 10, 64)
	case "sdk.poll":
		cfg.SDK.PollInterval, err = time.ParseDuration(value)

	// EVM provider
	case "evm.provider":
		cfg.EVM.ProviderURL = value
	case "evm.poll":
		cfg.EVM.PollInterval, err = time.ParseDuration(value)

	// Chain descriptor
	case "chain.id":
		cfg.EVM.Chain.ChainID, err = strconv.ParseUint(value, 0, 64)
	case "chain.name":
		cfg.EVM.Chain.Name = value
	case "chain.currency_name":
		cfg.EVM.Chain.CurrencyName = value
	case "chain.currency_symbol":
		cfg.EVM.Chain.CurrencySymbol = value
	case "chain.currency_decimals":
		var n uint64
		n, err = strconv.ParseUint(value, 10, 8)
		cfg.EVM.Chain.CurrencyDecimals = uint8(n)
	case "chain.rpc_urls":
		cfg.EVM.Chain.RPCURLs = parseStringList(value)
	case "chain.explorer_urls":
		cfg.EVM.Chain.ExplorerURLs = parseStringList(value)

	// Tickets
	case "tickets.contract":
		cfg.Tickets.ContractAddress = value
	case "tickets.gas_limit":
		cfg.Tickets.GasLimit, err = strconv.ParseUint(value, 10, 64)
	case "tickets.image_url":
		cfg.Tickets.ImageURL = value
	case "tickets.issue_mode":
		cfg.Tickets.IssueMode = strings.ToLower(value)

	// Keystore
	case "keystore.wallet":
		cfg.Keystore.DefaultWallet = value

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return err
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	content := `# FHF ticket desk configuration
#
# Everything here targets the Opal test network. Uncomment a line to
# override its default.

# Data directory (default: ~/.fhf-tickets)
# datadir = ~/.fhf-tickets

# Maximum time a wallet action may take, e.g. 2m (0 = no limit)
# action.timeout = 0

# ============================================================================
# REST SDK
# ============================================================================

sdk.url = ` + OpalSDKURL + `
sdk.collection = ` + strconv.Itoa(TicketsCollectionID) + `
# sdk.poll = 2s

# ============================================================================
# Injected EVM provider
# ============================================================================

# EIP-1193 endpoint of your EVM wallet (http or ws)
evm.provider = ` + DefaultProviderURL + `
# evm.poll = 1s

# Chain the wallet is switched to (or asked to add)
# chain.id = ` + strconv.Itoa(OpalChainID) + `
# chain.name = Opal by UNIQUE
# chain.currency_name = Opal
# chain.currency_symbol = OPL
# chain.currency_decimals = 18
# chain.rpc_urls = https://rpc-opal.unique.network
# chain.explorer_urls = https://uniquescan.io/opal/

# ============================================================================
# Tickets
# ============================================================================

tickets.contract = ` + TicketsContract + `
tickets.gas_limit = ` + strconv.Itoa(TicketsGasLimit) + `
# tickets.image_url = ` + NewTicketImageURL + `

# How substrate accounts issue tickets: mint (create tokens directly) or
# contract (call dropTicketsBatchCross through the SDK)
tickets.issue_mode = mint

# ============================================================================
# Keystore
# ============================================================================

# Wallet connected when none is named
# keystore.wallet =

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
