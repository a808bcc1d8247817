// Package evm is the wallet backend for injected EVM providers. The provider
// is any EIP-1193 style JSON-RPC endpoint that holds the account keys; the
// backend asks it for accounts and signatures and sends contract
// transactions through it.
package evm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/contract"
	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
	"github.com/Klingon-tech/fhf-tickets/pkg/address"
)

// AccountName labels provider accounts in account lists.
const AccountName = "Injected EVM account"

// DefaultPollInterval is how often receipts are polled.
const DefaultPollInterval = time.Second

// EVM backend errors.
var (
	ErrNoProviderAccounts = errors.New("provider returned no accounts")
	ErrReverted           = errors.New("transaction reverted")
)

// Provider is an EIP-1193 style request interface. *rpc.Client satisfies it.
type Provider interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Dial connects to the wallet provider at url.
func Dial(ctx context.Context, url string) (*rpc.Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial provider %s: %w", url, err)
	}
	return c, nil
}

// Config holds the target chain and contract.
type Config struct {
	Chain           ChainParams
	ContractAddress common.Address
	PollInterval    time.Duration
}

// Backend implements account.Backend for an injected EVM provider.
type Backend struct {
	provider Provider
	chain    ChainParams
	contract common.Address
	poll     time.Duration
	logger   zerolog.Logger
}

var _ account.Backend = (*Backend)(nil)

// New creates an EVM backend over provider.
func New(provider Provider, cfg Config) *Backend {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Backend{
		provider: provider,
		chain:    cfg.Chain,
		contract: cfg.ContractAddress,
		poll:     poll,
		logger:   klog.EVM,
	}
}

// Kind implements account.Backend.
func (b *Backend) Kind() account.Kind {
	return account.InjectedEVMProvider
}

// Connect requests the provider's accounts, puts the wallet on the target
// chain and returns the first account.
func (b *Backend) Connect(ctx context.Context, _ string) ([]account.Account, error) {
	var addrs []common.Address
	if err := b.provider.CallContext(ctx, &addrs, "eth_requestAccounts"); err != nil {
		return nil, fmt.Errorf("eth_requestAccounts: %w", err)
	}
	if len(addrs) == 0 {
		return nil, ErrNoProviderAccounts
	}
	if err := b.ChainGuard(ctx); err != nil {
		return nil, err
	}

	from := addrs[0]
	b.logger.Info().Str("address", from.Hex()).Msg("Provider connected")
	return []account.Account{{
		Name:    AccountName,
		Address: from.Hex(),
		Kind:    account.InjectedEVMProvider,
		Signer:  &providerSigner{provider: b.provider, from: from},
	}}, nil
}

// IssueTickets calls dropTicketsBatchCross([to], count) and waits for the
// receipt.
func (b *Backend) IssueTickets(ctx context.Context, acct *account.Account, to string, count uint32) (*account.Receipt, error) {
	cross, err := address.CrossAccount(to)
	if err != nil {
		return nil, err
	}
	data, err := contract.PackDropTickets([]address.CrossAccountID{cross}, count)
	if err != nil {
		return nil, err
	}
	b.logger.Info().Str("from", acct.Address).Str("to", to).Uint32("count", count).Msg("Issuing tickets")
	return b.transact(ctx, acct, data)
}

// RedeemTicket calls useTicket(tokenID) and waits for the receipt.
func (b *Backend) RedeemTicket(ctx context.Context, acct *account.Account, tokenID uint64) (*account.Receipt, error) {
	data, err := contract.PackUseTicket(tokenID)
	if err != nil {
		return nil, err
	}
	b.logger.Info().Str("from", acct.Address).Uint64("token", tokenID).Msg("Redeeming ticket")
	return b.transact(ctx, acct, data)
}

type sendTxArgs struct {
	From common.Address `json:"from"`
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

func (b *Backend) transact(ctx context.Context, acct *account.Account, data []byte) (*account.Receipt, error) {
	if !address.IsEthereum(acct.Address) {
		return nil, fmt.Errorf("account %s is not an ethereum address", acct.Address)
	}
	if err := b.ChainGuard(ctx); err != nil {
		return nil, err
	}

	var hash common.Hash
	tx := sendTxArgs{From: common.HexToAddress(acct.Address), To: b.contract, Data: data}
	if err := b.provider.CallContext(ctx, &hash, "eth_sendTransaction", tx); err != nil {
		return nil, fmt.Errorf("eth_sendTransaction: %w", err)
	}
	b.logger.Debug().Str("tx", hash.Hex()).Msg("Transaction sent")

	receipt, err := b.waitReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	r := &account.Receipt{
		Kind:      account.InjectedEVMProvider,
		TxHash:    hash.Hex(),
		BlockHash: receipt.BlockHash.Hex(),
	}
	if receipt.BlockNumber != nil {
		r.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return r, nil
}

// waitReceipt polls for the receipt of hash until it is mined.
func (b *Backend) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()
	for {
		var receipt *types.Receipt
		if err := b.provider.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
			return nil, fmt.Errorf("eth_getTransactionReceipt %s: %w", hash.Hex(), err)
		}
		if receipt != nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return nil, fmt.Errorf("%w: %s", ErrReverted, hash.Hex())
			}
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// providerSigner signs messages with personal_sign.
type providerSigner struct {
	provider Provider
	from     common.Address
}

func (s *providerSigner) Sign(ctx context.Context, message []byte) (string, error) {
	var sig hexutil.Bytes
	if err := s.provider.CallContext(ctx, &sig, "personal_sign", hexutil.Bytes(message), s.from); err != nil {
		return "", fmt.Errorf("personal_sign: %w", err)
	}
	return sig.String(), nil
}
