package substrate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
	"github.com/Klingon-tech/fhf-tickets/internal/contract"
	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
	"github.com/Klingon-tech/fhf-tickets/internal/sdk"
	"github.com/Klingon-tech/fhf-tickets/internal/storage"
	"github.com/Klingon-tech/fhf-tickets/internal/wallet"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testImage    = "https://ipfs.unique.network/ipfs/QmTicket"
	testContract = "0xcFD8B054AACB162dFaA811cf2766c00979420213"
	// Alice's well-known account under prefix 0; normalized to prefix 42.
	aliceDOT = "15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5"
	alice42  = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
)

type sdkRequest struct {
	path string
	body map[string]interface{}
}

// fakeSDK records build requests and completes every extrinsic immediately.
type fakeSDK struct {
	t    *testing.T
	fail bool

	mu     sync.Mutex
	builds []sdkRequest
	submit int
}

func (f *fakeSDK) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/v1/extrinsics/submit":
		f.submit++
		_ = json.NewEncoder(w).Encode(map[string]string{"hash": "0xext"})
	case "/v1/extrinsics/status":
		st := map[string]interface{}{
			"hash": "0xext", "status": "Finalized", "isCompleted": true, "blockHash": "0xblock",
			"parsed": []map[string]uint64{{"collectionId": 2486, "tokenId": 1}},
		}
		if f.fail {
			st["isError"] = true
			st["error"] = map[string]string{"name": "Reverted"}
		}
		_ = json.NewEncoder(w).Encode(st)
	default:
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decode %s: %v", r.URL.Path, err)
		}
		f.builds = append(f.builds, sdkRequest{path: r.URL.Path, body: body})
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"signerPayloadJSON": map[string]string{"method": "0x00"},
			"signerPayloadHex":  "0x0102030405",
		})
	}
}

func (f *fakeSDK) requests() []sdkRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sdkRequest(nil), f.builds...)
}

type testEnv struct {
	session *account.Session
	sdk     *fakeSDK
	address string
}

func setupTestEnv(t *testing.T, mode IssueMode) *testEnv {
	t.Helper()
	klog.Discard()

	ks := wallet.NewKeystore(storage.NewMemory(), wallet.EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1})
	entry, err := ks.Create("polkadot-js", testMnemonic, []byte("pw"))
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	fake := &fakeSDK{t: t}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client := sdk.New(srv.URL+"/v1", 2486, sdk.WithPollInterval(time.Millisecond))

	backend := New(wallet.NewExtension(ks, wallet.StaticPassword("pw")), client, Config{
		ContractAddress: testContract,
		GasLimit:        200_000,
		TicketImageURL:  testImage,
		IssueMode:       mode,
	})
	session, err := account.NewSession([]account.Backend{backend})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if _, err := session.Connect(context.Background(), account.SubstrateExtension, "polkadot-js"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return &testEnv{session: session, sdk: fake, address: entry.Address}
}

func TestConnect_LoadsKeystoreAccounts(t *testing.T) {
	env := setupTestEnv(t, IssueMint)
	accts := env.session.Accounts()
	if len(accts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(accts))
	}
	if accts[0].Address != env.address || accts[0].Kind != account.SubstrateExtension {
		t.Errorf("account = %+v", accts[0])
	}
	if _, ok := accts[0].Signer.(*KeySigner); !ok {
		t.Errorf("signer type = %T", accts[0].Signer)
	}
}

func TestConnect_WrongPassword(t *testing.T) {
	klog.Discard()
	ks := wallet.NewKeystore(storage.NewMemory(), wallet.EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1})
	if _, err := ks.Create("w", testMnemonic, []byte("right")); err != nil {
		t.Fatalf("create: %v", err)
	}
	b := New(wallet.NewExtension(ks, wallet.StaticPassword("wrong")), sdk.New("http://127.0.0.1:1", 1), Config{})
	if _, err := b.Connect(context.Background(), "w"); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestIssueTickets_Mint(t *testing.T) {
	env := setupTestEnv(t, IssueMint)

	r, err := env.session.IssueTickets(context.Background(), env.address, aliceDOT, 3)
	if err != nil {
		t.Fatalf("IssueTickets: %v", err)
	}
	if r.TxHash != "0xext" || r.BlockHash != "0xblock" || len(r.TokenIDs) != 1 {
		t.Errorf("receipt = %+v", r)
	}

	reqs := env.sdk.requests()
	if len(reqs) != 1 {
		t.Fatalf("submissions = %d, want 1", len(reqs))
	}
	if reqs[0].path != "/v1/"+sdk.PathCreateMultiple {
		t.Errorf("path = %s", reqs[0].path)
	}
	body := reqs[0].body
	if body["address"] != env.address || body["collectionId"] != float64(2486) {
		t.Errorf("body = %v", body)
	}
	tokens, _ := body["tokens"].([]interface{})
	if len(tokens) != 3 {
		t.Fatalf("token descriptors = %d, want 3", len(tokens))
	}
	for i, tok := range tokens {
		m := tok.(map[string]interface{})
		if m["owner"] != alice42 {
			t.Errorf("token %d owner = %v, want %s", i, m["owner"], alice42)
		}
		img := m["data"].(map[string]interface{})["image"].(map[string]interface{})
		if img["urlInfix"] != testImage {
			t.Errorf("token %d image = %v", i, img["urlInfix"])
		}
	}
}

func TestIssueTickets_Contract(t *testing.T) {
	env := setupTestEnv(t, IssueContract)
	to := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	if _, err := env.session.IssueTickets(context.Background(), env.address, to, 2); err != nil {
		t.Fatalf("IssueTickets: %v", err)
	}
	reqs := env.sdk.requests()
	if len(reqs) != 1 || reqs[0].path != "/v1/"+sdk.PathEvmSend {
		t.Fatalf("requests = %+v", reqs)
	}
	body := reqs[0].body
	if body["funcName"] != contract.MethodDropTickets || body["contractAddress"] != testContract {
		t.Errorf("body = %v", body)
	}
	args := body["args"].(map[string]interface{})
	if args["_count"] != float64(2) {
		t.Errorf("_count = %v", args["_count"])
	}
	recipients := args["_to"].([]interface{})
	first := recipients[0].(map[string]interface{})
	if first["eth"] != to || first["sub"] != "0" {
		t.Errorf("recipient = %v", first)
	}
}

func TestRedeemTicket(t *testing.T) {
	env := setupTestEnv(t, IssueMint)

	if _, err := env.session.RedeemTicket(context.Background(), env.address, 42); err != nil {
		t.Fatalf("RedeemTicket: %v", err)
	}
	reqs := env.sdk.requests()
	if len(reqs) != 1 {
		t.Fatalf("submissions = %d, want 1", len(reqs))
	}
	body := reqs[0].body
	if body["funcName"] != contract.MethodUseTicket || body["gasLimit"] != float64(200_000) {
		t.Errorf("body = %v", body)
	}
	if args := body["args"].(map[string]interface{}); args["_tokenId"] != float64(42) {
		t.Errorf("args = %v", args)
	}
	if _, ok := body["abi"].([]interface{}); !ok {
		t.Errorf("abi = %T, want array", body["abi"])
	}
}

func TestRedeemTicket_ExtrinsicFails(t *testing.T) {
	env := setupTestEnv(t, IssueMint)
	env.sdk.mu.Lock()
	env.sdk.fail = true
	env.sdk.mu.Unlock()

	_, err := env.session.RedeemTicket(context.Background(), env.address, 42)
	if !errors.Is(err, account.ErrBackendRejected) || !errors.Is(err, sdk.ErrExtrinsicFailed) {
		t.Fatalf("got %v", err)
	}
}

func TestIssueTickets_InvalidRecipient(t *testing.T) {
	env := setupTestEnv(t, IssueMint)
	if _, err := env.session.IssueTickets(context.Background(), env.address, "not-an-address", 1); err == nil {
		t.Fatal("expected error for invalid recipient")
	}
	if n := len(env.sdk.requests()); n != 0 {
		t.Errorf("submissions = %d, want 0", n)
	}
}

func TestParseIssueMode(t *testing.T) {
	for in, want := range map[string]IssueMode{"": IssueMint, "mint": IssueMint, "contract": IssueContract} {
		got, err := ParseIssueMode(in)
		if err != nil || got != want {
			t.Errorf("ParseIssueMode(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseIssueMode("burn"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
