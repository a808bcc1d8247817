package desk

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Klingon-tech/fhf-tickets/config"
	"github.com/Klingon-tech/fhf-tickets/internal/account"
	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
	"github.com/Klingon-tech/fhf-tickets/internal/sdk"
	"github.com/Klingon-tech/fhf-tickets/internal/storage"
	"github.com/Klingon-tech/fhf-tickets/internal/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

var evmFrom = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

// restStub serves token reads and completes every extrinsic at once.
type restStub struct {
	mu    sync.Mutex
	paths []string
}

func (s *restStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.paths = append(s.paths, r.Method+" "+r.URL.Path)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/tokens/account-tokens"):
		_, _ = w.Write([]byte(`{"tokens":[{"collectionId":2486,"tokenId":3},{"collectionId":2486,"tokenId":9}]}`))
	case strings.HasSuffix(r.URL.Path, "/tokens"):
		_, _ = w.Write([]byte(`{"owner":"5Owner","image":{"fullUrl":"https://img/3"},
			"collection":{"name":"FHF","description":"Festival","tokenPrefix":"FHF"},
			"attributes":{"0":{"name":{"_":"day"},"value":{"_":"Friday"}}}}`))
	case strings.HasSuffix(r.URL.Path, "/extrinsics/submit"):
		_, _ = w.Write([]byte(`{"hash":"0xext"}`))
	case strings.HasSuffix(r.URL.Path, "/extrinsics/status"):
		_, _ = w.Write([]byte(`{"hash":"0xext","isCompleted":true,"blockHash":"0xb"}`))
	default:
		_, _ = w.Write([]byte(`{"signerPayloadJSON":{},"signerPayloadHex":"0x01"}`))
	}
}

func (s *restStub) posts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, p := range s.paths {
		if strings.HasPrefix(p, "POST ") {
			out = append(out, p)
		}
	}
	return out
}

// walletStub is an EVM provider already on the right chain.
type walletStub struct {
	mu    sync.Mutex
	sends int
}

func (w *walletStub) CallContext(_ context.Context, result interface{}, method string, args ...interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch method {
	case "eth_requestAccounts":
		*(result.(*[]common.Address)) = []common.Address{evmFrom}
	case "eth_chainId":
		*(result.(*hexutil.Uint64)) = config.OpalChainID
	case "eth_sendTransaction":
		w.sends++
		*(result.(*common.Hash)) = common.HexToHash("0xabc")
	case "eth_getTransactionReceipt":
		*(result.(**types.Receipt)) = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}
	}
	return nil
}

func (w *walletStub) sent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sends
}

func newTestDesk(t *testing.T) (*Desk, *restStub, *walletStub) {
	t.Helper()
	klog.Discard()

	rest := &restStub{}
	srv := httptest.NewServer(rest)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.SDK.URL = srv.URL + "/opal/v1"
	cfg.SDK.PollInterval = time.Millisecond
	cfg.EVM.PollInterval = time.Millisecond

	ws := &walletStub{}
	d, err := New(cfg, Options{
		Password:    wallet.StaticPassword("pw"),
		Provider:    ws,
		DB:          storage.NewMemory(),
		SkipLogInit: true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, rest, ws
}

func TestNew_RequiresPassword(t *testing.T) {
	if _, err := New(config.Default(), Options{}); err == nil {
		t.Fatal("expected error without password source")
	}
}

func TestDesk_RoutesByAccountKind(t *testing.T) {
	d, rest, ws := newTestDesk(t)
	ctx := context.Background()

	entry, err := d.Keystore().Create("polkadot-js", testMnemonic, []byte("pw"))
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	s := d.Session()
	if _, err := s.Connect(ctx, account.SubstrateExtension, "polkadot-js"); err != nil {
		t.Fatalf("connect substrate: %v", err)
	}
	if _, err := s.Connect(ctx, account.InjectedEVMProvider, ""); err != nil {
		t.Fatalf("connect evm: %v", err)
	}

	if _, err := s.RedeemTicket(ctx, entry.Address, 5); err != nil {
		t.Fatalf("redeem via substrate: %v", err)
	}
	if ws.sent() != 0 {
		t.Errorf("provider received %d transactions for a substrate account", ws.sent())
	}
	before := len(rest.posts())

	if _, err := s.RedeemTicket(ctx, evmFrom.Hex(), 5); err != nil {
		t.Fatalf("redeem via evm: %v", err)
	}
	if ws.sent() != 1 {
		t.Errorf("provider transactions = %d, want 1", ws.sent())
	}
	if after := len(rest.posts()); after != before {
		t.Errorf("sdk received %d submissions for an evm account", after-before)
	}
}

func TestDesk_Tokens(t *testing.T) {
	d, _, _ := newTestDesk(t)
	ctx := context.Background()

	refs, err := d.Tokens(ctx, "5Owner")
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if got := strings.Join(TokenLines(refs), ","); got != "2486/3,2486/9" {
		t.Errorf("lines = %s", got)
	}

	tok, err := d.Token(ctx, 3)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	lines := ViewToken(tok).Lines()
	want := []string{
		"Image: https://img/3",
		"Prefix: FHF",
		"Name: FHF",
		"Description: Festival",
		"Owner: 5Owner",
		"  day = Friday",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("token lines:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestViewToken_JSON(t *testing.T) {
	v := ViewToken(&sdk.Token{Owner: "x"})
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"attributes":[]`) {
		t.Errorf("json = %s", data)
	}
}

func TestChainParams(t *testing.T) {
	p := ChainParams(config.OpalChain())
	if uint64(p.ChainID) != 8882 || p.NativeCurrency.Decimals != 18 || p.RPCURLs[0] != "https://rpc-opal.unique.network" {
		t.Errorf("params = %+v", p)
	}
}
