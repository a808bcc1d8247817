package main

import (
	"fmt"

	"github.com/Klingon-tech/fhf-tickets/internal/wallet"
)

// WalletService manages the local keystore wallets backing substrate
// accounts.
type WalletService struct {
	app *App
}

// WalletInfo is returned after wallet creation/import.
type WalletInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

// KeyInfo describes a wallet account. No password is needed to list them.
type KeyInfo struct {
	Index   uint32 `json:"index"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateWallet creates a wallet from a fresh mnemonic. The mnemonic is
// returned once so the page can show it.
func (s *WalletService) CreateWallet(name, password string) (*WalletInfo, error) {
	ks, err := s.keystore()
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password required")
	}
	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		return nil, fmt.Errorf("generate mnemonic: %w", err)
	}
	entry, err := ks.Create(name, mnemonic, []byte(password))
	if err != nil {
		return nil, err
	}
	return &WalletInfo{Name: name, Address: entry.Address, Mnemonic: mnemonic}, nil
}

// ImportWallet restores a wallet from its mnemonic.
func (s *WalletService) ImportWallet(name, mnemonic, password string) (*WalletInfo, error) {
	ks, err := s.keystore()
	if err != nil {
		return nil, err
	}
	if !wallet.ValidateMnemonic(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password required")
	}
	entry, err := ks.Create(name, mnemonic, []byte(password))
	if err != nil {
		return nil, err
	}
	return &WalletInfo{Name: name, Address: entry.Address}, nil
}

// ListWallets returns the keystore wallet names.
func (s *WalletService) ListWallets() ([]string, error) {
	ks, err := s.keystore()
	if err != nil {
		return nil, err
	}
	return ks.List()
}

// ListKeys returns the accounts of a wallet.
func (s *WalletService) ListKeys(name string) ([]KeyInfo, error) {
	ks, err := s.keystore()
	if err != nil {
		return nil, err
	}
	entries, err := ks.Accounts(name)
	if err != nil {
		return nil, err
	}
	out := make([]KeyInfo, len(entries))
	for i, e := range entries {
		out[i] = KeyInfo{Index: e.Index, Name: e.Name, Address: e.Address}
	}
	return out, nil
}

// NewKey derives the next account of a wallet.
func (s *WalletService) NewKey(name, label, password string) (*KeyInfo, error) {
	ks, err := s.keystore()
	if err != nil {
		return nil, err
	}
	e, err := ks.NewAccount(name, label, []byte(password))
	if err != nil {
		return nil, err
	}
	return &KeyInfo{Index: e.Index, Name: e.Name, Address: e.Address}, nil
}

func (s *WalletService) keystore() (*wallet.Keystore, error) {
	d, err := s.app.current()
	if err != nil {
		return nil, err
	}
	return d.Keystore(), nil
}
