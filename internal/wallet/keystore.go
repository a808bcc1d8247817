package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	klog "github.com/Klingon-tech/fhf-tickets/internal/log"
	"github.com/Klingon-tech/fhf-tickets/internal/storage"
)

var prefixWallet = []byte("w/") // w/<name> -> walletRecord JSON

const recordVersion = 1

// Keystore errors.
var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
)

// AccountEntry describes one derived account of a wallet.
type AccountEntry struct {
	Index   uint32 `json:"index"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type walletRecord struct {
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	Seed      *SealedSeed    `json:"seed"`
	Accounts  []AccountEntry `json:"accounts"`
}

// Keystore persists encrypted wallets in a storage.DB.
type Keystore struct {
	db     storage.DB
	params EncryptionParams
}

// NewKeystore creates a keystore over db using the given KDF parameters for
// newly sealed seeds.
func NewKeystore(db storage.DB, params EncryptionParams) *Keystore {
	return &Keystore{db: db, params: params}
}

// Create stores a new wallet derived from mnemonic and records account 0.
func (ks *Keystore) Create(name, mnemonic string, password []byte) (AccountEntry, error) {
	if err := validateName(name); err != nil {
		return AccountEntry{}, err
	}
	if ok, err := ks.db.Has(walletKey(name)); err != nil {
		return AccountEntry{}, err
	} else if ok {
		return AccountEntry{}, fmt.Errorf("%w: %q", ErrWalletExists, name)
	}

	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return AccountEntry{}, err
	}
	defer zero(seed)

	first, err := deriveEntry(seed, 0, "Default")
	if err != nil {
		return AccountEntry{}, err
	}
	sealed, err := Seal(seed, password, ks.params)
	if err != nil {
		return AccountEntry{}, fmt.Errorf("encrypt seed: %w", err)
	}

	rec := &walletRecord{
		Version:   recordVersion,
		CreatedAt: time.Now().UTC(),
		Seed:      sealed,
		Accounts:  []AccountEntry{first},
	}
	if err := ks.write(name, rec); err != nil {
		return AccountEntry{}, err
	}
	klog.Wallet.Info().Str("wallet", name).Str("address", first.Address).Msg("Wallet created")
	return first, nil
}

// NewAccount derives the next account of a wallet and records it.
func (ks *Keystore) NewAccount(walletName, label string, password []byte) (AccountEntry, error) {
	rec, err := ks.read(walletName)
	if err != nil {
		return AccountEntry{}, err
	}
	seed, err := Open(rec.Seed, password)
	if err != nil {
		return AccountEntry{}, fmt.Errorf("unlock wallet %q: %w", walletName, err)
	}
	defer zero(seed)

	var next uint32
	for _, a := range rec.Accounts {
		if a.Index >= next {
			next = a.Index + 1
		}
	}
	if label == "" {
		label = fmt.Sprintf("Account %d", next)
	}
	entry, err := deriveEntry(seed, next, label)
	if err != nil {
		return AccountEntry{}, err
	}
	rec.Accounts = append(rec.Accounts, entry)
	if err := ks.write(walletName, rec); err != nil {
		return AccountEntry{}, err
	}
	return entry, nil
}

// Unlock decrypts a wallet's seed. Callers must zero the returned slice.
func (ks *Keystore) Unlock(name string, password []byte) ([]byte, []AccountEntry, error) {
	rec, err := ks.read(name)
	if err != nil {
		return nil, nil, err
	}
	seed, err := Open(rec.Seed, password)
	if err != nil {
		return nil, nil, fmt.Errorf("unlock wallet %q: %w", name, err)
	}
	return seed, rec.Accounts, nil
}

// Accounts returns the recorded accounts of a wallet without unlocking it.
func (ks *Keystore) Accounts(name string) ([]AccountEntry, error) {
	rec, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	return rec.Accounts, nil
}

// List returns the names of all wallets, sorted.
func (ks *Keystore) List() ([]string, error) {
	var names []string
	err := ks.db.ForEach(prefixWallet, func(key, _ []byte) error {
		names = append(names, string(key[len(prefixWallet):]))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a wallet.
func (ks *Keystore) Delete(name string) error {
	if ok, err := ks.db.Has(walletKey(name)); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return ks.db.Delete(walletKey(name))
}

func (ks *Keystore) read(name string) (*walletRecord, error) {
	data, err := ks.db.Get(walletKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var rec walletRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", rec.Version)
	}
	if rec.Seed == nil {
		return nil, fmt.Errorf("wallet %q has no seed", name)
	}
	return &rec, nil
}

func (ks *Keystore) write(name string, rec *walletRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := ks.db.Put(walletKey(name), data); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func walletKey(name string) []byte {
	return append(append([]byte{}, prefixWallet...), name...)
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("wallet name is empty")
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("wallet name %q contains invalid characters", name)
	}
	return nil
}

func deriveEntry(seed []byte, index uint32, label string) (AccountEntry, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return AccountEntry{}, err
	}
	key, err := master.DeriveAccount(index)
	if err != nil {
		return AccountEntry{}, err
	}
	return AccountEntry{Index: index, Name: label, Address: key.Address()}, nil
}
