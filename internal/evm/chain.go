package evm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NativeCurrency describes a chain's gas token.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ChainParams is the descriptor handed to wallet_addEthereumChain.
type ChainParams struct {
	ChainID           hexutil.Uint64 `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

type switchChainParams struct {
	ChainID hexutil.Uint64 `json:"chainId"`
}

// ChainGuard makes sure the provider is on the target chain. If it is not,
// the wallet is asked to switch; if switching fails for any reason, the
// chain is added instead.
func (b *Backend) ChainGuard(ctx context.Context) error {
	var current hexutil.Uint64
	if err := b.provider.CallContext(ctx, &current, "eth_chainId"); err != nil {
		return fmt.Errorf("eth_chainId: %w", err)
	}
	if current == b.chain.ChainID {
		return nil
	}

	b.logger.Info().Uint64("current", uint64(current)).Uint64("target", uint64(b.chain.ChainID)).Msg("Switching wallet chain")
	switchErr := b.provider.CallContext(ctx, nil, "wallet_switchEthereumChain", switchChainParams{ChainID: b.chain.ChainID})
	if switchErr == nil {
		return nil
	}

	b.logger.Info().Err(switchErr).Str("chain", b.chain.ChainName).Msg("Switch failed, adding chain")
	if err := b.provider.CallContext(ctx, nil, "wallet_addEthereumChain", b.chain); err != nil {
		return fmt.Errorf("add chain %s: %w (switch: %v)", b.chain.ChainName, err, switchErr)
	}
	return nil
}
