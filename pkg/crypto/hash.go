// Package crypto provides the signing and hashing primitives used by the
// substrate-style backend: secp256k1 ecdsa keys and blake2b digests.
package crypto

import "golang.org/x/crypto/blake2b"

// Blake2b256 computes a 32-byte BLAKE2b digest.
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Blake2b512 computes a 64-byte BLAKE2b digest.
func Blake2b512(data []byte) [64]byte {
	return blake2b.Sum512(data)
}

// AccountID derives a substrate account id from a compressed ecdsa public key.
// AccountID = BLAKE2b-256(compressed_pubkey).
func AccountID(pubKey []byte) [32]byte {
	return Blake2b256(pubKey)
}
