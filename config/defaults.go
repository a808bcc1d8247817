package config

import "time"

// Opal test network constants.
const (
	OpalSDKURL          = "https://rest.unique.network/opal/v1"
	OpalChainID         = 8882
	TicketsCollectionID = 2486
	TicketsContract     = "0xcFD8B054AACB162dFaA811cf2766c00979420213"
	TicketsGasLimit     = 200_000
	NewTicketImageURL   = "https://ipfs.unique.network/ipfs/Qme7ntQxiuP6mKx9Y2CsyXkicvqiMN2HUP9UwMt7TeamVB"

	// DefaultProviderURL is where a local wallet (e.g. Frame) exposes its
	// EIP-1193 provider.
	DefaultProviderURL = "http://127.0.0.1:1248"
)

// OpalChain returns the Opal chain descriptor.
func OpalChain() ChainConfig {
	return ChainConfig{
		ChainID:          OpalChainID,
		Name:             "Opal by UNIQUE",
		CurrencyName:     "Opal",
		CurrencySymbol:   "OPL",
		CurrencyDecimals: 18,
		RPCURLs:          []string{"https://rpc-opal.unique.network"},
		ExplorerURLs:     []string{"https://uniquescan.io/opal/"},
	}
}

// Default returns the default configuration for the Opal test network.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		SDK: SDKConfig{
			URL:          OpalSDKURL,
			CollectionID: TicketsCollectionID,
			PollInterval: 2 * time.Second,
		},
		EVM: EVMConfig{
			ProviderURL:  DefaultProviderURL,
			PollInterval: time.Second,
			Chain:        OpalChain(),
		},
		Tickets: TicketsConfig{
			ContractAddress: TicketsContract,
			GasLimit:        TicketsGasLimit,
			ImageURL:        NewTicketImageURL,
			IssueMode:       IssueModeMint,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
