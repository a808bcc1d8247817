package evm

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
)

// walletService mimics the eth_ namespace of a wallet provider.
type walletService struct {
	chainID uint64
}

func (s *walletService) RequestAccounts() []common.Address {
	return []common.Address{testFrom}
}

func (s *walletService) ChainId() hexutil.Uint64 {
	return hexutil.Uint64(s.chainID)
}

func newWalletServer(t *testing.T, chainID uint64) string {
	t.Helper()
	srv := rpc.NewServer()
	if err := srv.RegisterName("eth", &walletService{chainID: chainID}); err != nil {
		t.Fatalf("register: %v", err)
	}
	hs := httptest.NewServer(srv)
	t.Cleanup(func() {
		hs.Close()
		srv.Stop()
	})
	return hs.URL
}

func TestLazyProvider_ConnectOverHTTP(t *testing.T) {
	url := newWalletServer(t, 8882)
	p := NewLazyProvider(url)
	defer p.Close()

	b := newTestBackend(newFakeProvider())
	b.provider = p

	accts, err := b.Connect(context.Background(), "")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if len(accts) != 1 || accts[0].Address != testFrom.Hex() || accts[0].Kind != account.InjectedEVMProvider {
		t.Errorf("accounts = %+v", accts)
	}
}

func TestLazyProvider_DialFailure(t *testing.T) {
	p := NewLazyProvider("unix-socket-that-does-not-exist")
	var id hexutil.Uint64
	if err := p.CallContext(context.Background(), &id, "eth_chainId"); err == nil {
		t.Fatal("expected dial error")
	}
}
