package main

import (
	"context"
	"testing"

	"github.com/Klingon-tech/fhf-tickets/internal/account"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint32
		wantErr bool
	}{
		{"one", "1", 1, false},
		{"spaces", " 12 ", 12, false},
		{"max", "4294967295", 4294967295, false},
		{"zero", "0", 0, true},
		{"empty", "", 0, true},
		{"negative", "-1", 0, true},
		{"too large", "4294967296", 0, true},
		{"not a number", "ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{"plain", "42", 42, false},
		{"list form", "2486/7", 7, false},
		{"spaces", " 3 ", 3, false},
		{"zero", "0", 0, true},
		{"empty", "", 0, true},
		{"empty after slash", "2486/", 0, true},
		{"out of range", "4294967296", 0, true},
		{"not a number", "abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTokenID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTokenID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseTokenID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCheckAddress(t *testing.T) {
	got, err := checkAddress(" 0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed ")
	if err != nil {
		t.Fatalf("checkAddress(eth): %v", err)
	}
	if want := "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"; got != want {
		t.Errorf("checkAddress(eth) = %q, want %q", got, want)
	}

	alice := "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	if got, err := checkAddress(alice); err != nil || got != alice {
		t.Errorf("checkAddress(ss58) = %q, %v", got, err)
	}

	for _, bad := range []string{"", "xyz", "0x1234"} {
		if _, err := checkAddress(bad); err == nil {
			t.Errorf("checkAddress(%q) expected error, got nil", bad)
		}
	}
}

func TestShortHash(t *testing.T) {
	if got := shortHash("0xabc"); got != "0xabc" {
		t.Errorf("shortHash(short) = %q", got)
	}
	h := "0x0123456789abcdef0123456789abcdef"
	if got, want := shortHash(h), "0x012345…abcdef"; got != want {
		t.Errorf("shortHash = %q, want %q", got, want)
	}
}

func TestAccountInfos(t *testing.T) {
	accts := []account.Account{
		{Name: "alice", Address: "5Alice", Kind: account.SubstrateExtension},
		{Name: "Injected EVM account", Address: "0xabc", Kind: account.InjectedEVMProvider},
	}
	got := accountInfos(accts)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Kind != "substrate" || got[1].Kind != "evm" {
		t.Errorf("kinds = %q, %q", got[0].Kind, got[1].Kind)
	}
	if got[0].Label != "[alice] 5Alice" {
		t.Errorf("label = %q", got[0].Label)
	}
}

func TestReceiptInfo(t *testing.T) {
	r := receiptInfo(&account.Receipt{
		Kind:        account.InjectedEVMProvider,
		TxHash:      "0x01",
		BlockNumber: 9,
		TokenIDs:    []uint64{4, 5},
	})
	if r.Kind != "evm" || r.TxHash != "0x01" || r.BlockNumber != 9 || len(r.TokenIDs) != 2 {
		t.Errorf("receiptInfo = %+v", r)
	}
}

func TestPendingPasswordUsedOnce(t *testing.T) {
	app := &App{pending: make(map[string][]byte)}
	if _, err := app.password(context.Background(), "main"); err == nil {
		t.Fatal("expected locked wallet error")
	}
	app.setPending("main", []byte("pw"))
	pw, err := app.password(context.Background(), "main")
	if err != nil || string(pw) != "pw" {
		t.Fatalf("password = %q, %v", pw, err)
	}
	if _, err := app.password(context.Background(), "main"); err == nil {
		t.Error("password reused after unlock")
	}
}

func TestServicesWithoutDesk(t *testing.T) {
	app := &App{pending: make(map[string][]byte)}
	app.tickets = &TicketService{app: app}
	app.wallets = &WalletService{app: app}

	if _, err := app.tickets.Accounts(); err != errDeskClosed {
		t.Errorf("Accounts error = %v, want errDeskClosed", err)
	}
	if _, err := app.wallets.ListWallets(); err != errDeskClosed {
		t.Errorf("ListWallets error = %v, want errDeskClosed", err)
	}
}
