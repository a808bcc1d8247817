package wallet

import (
	"context"
	"fmt"

	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
	"github.com/Klingon-tech/fhf-tickets/pkg/crypto"
)

// PasswordFunc supplies the password for a named wallet.
type PasswordFunc func(ctx context.Context, walletName string) ([]byte, error)

// Key is an unlocked account: its label, SS58 address and signing key.
type Key struct {
	Name    string
	Address string
	Private *crypto.PrivateKey
}

// Extension hands out the unlocked accounts of a wallet, the way a browser
// wallet extension hands accounts to a page.
type Extension struct {
	ks       *Keystore
	password PasswordFunc
}

// NewExtension creates an extension over ks that asks password for unlocks.
func NewExtension(ks *Keystore, password PasswordFunc) *Extension {
	return &Extension{ks: ks, password: password}
}

// LoadAccounts unlocks the named wallet and returns all its accounts.
func (e *Extension) LoadAccounts(ctx context.Context, name string) ([]Key, error) {
	pw, err := e.password(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("password for %q: %w", name, err)
	}
	defer zero(pw)

	seed, entries, err := e.ks.Unlock(name, pw)
	if err != nil {
		return nil, err
	}
	defer zero(seed)

	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	keys := make([]Key, 0, len(entries))
	for _, entry := range entries {
		hd, err := master.DeriveAccount(entry.Index)
		if err != nil {
			return nil, err
		}
		if hd.Address() != entry.Address {
			return nil, fmt.Errorf("wallet %q account %d: derived address %s does not match recorded %s",
				name, entry.Index, hd.Address(), entry.Address)
		}
		priv, err := hd.PrivateKey()
		if err != nil {
			return nil, err
		}
		keys = append(keys, Key{Name: entry.Name, Address: entry.Address, Private: priv})
	}

	klog.Wallet.Debug().Str("wallet", name).Int("accounts", len(keys)).Msg("Wallet unlocked")
	return keys, nil
}

// StaticPassword returns a PasswordFunc that always yields pw.
func StaticPassword(pw string) PasswordFunc {
	return func(context.Context, string) ([]byte, error) {
		return []byte(pw), nil
	}
}
