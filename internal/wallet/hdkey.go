package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"

	"github.com/Klingon-tech/fhf-tickets/pkg/address"
	"github.com/Klingon-tech/fhf-tickets/pkg/crypto"
)

// Derivation path: m/44'/354'/0'/0/index (354 = Polkadot SLIP-44 coin type).
const (
	PurposeBIP44      = bip32.FirstHardenedChild + 44
	CoinTypeSubstrate = bip32.FirstHardenedChild + 354
	accountHardened   = bip32.FirstHardenedChild + 0
	changeExternal    = 0
)

// HDKey is a BIP-32 extended key.
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveAccount derives the signing key for account index.
func (k *HDKey) DeriveAccount(index uint32) (*HDKey, error) {
	cur := k.key
	for _, idx := range []uint32{PurposeBIP44, CoinTypeSubstrate, accountHardened, changeExternal, index} {
		child, err := cur.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
		cur = child
	}
	return &HDKey{key: cur}, nil
}

// PrivateKey returns the secp256k1 signing key.
func (k *HDKey) PrivateKey() (*crypto.PrivateKey, error) {
	if !k.key.IsPrivate {
		return nil, fmt.Errorf("cannot create signer from public key")
	}
	raw := k.key.Key
	// bip32 keeps private keys as 33 bytes with a leading zero.
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	return crypto.PrivateKeyFromBytes(raw)
}

// PublicKey returns the compressed 33-byte public key.
func (k *HDKey) PublicKey() []byte {
	return k.key.PublicKey().Key
}

// Address returns the SS58 address of the key's ecdsa account.
func (k *HDKey) Address() string {
	return address.FromAccountID(crypto.AccountID(k.PublicKey()))
}
