// Package wallet provides ed25519 keypairs and the signing context the
// launch pipeline consumes.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Keypair is an ed25519 signing identity. The mint identity for a launch is
// a fresh Keypair whose public component becomes the token's address.
type Keypair struct {
	priv ed25519.PrivateKey
}

// NewKeypair generates a fresh keypair.
func NewKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{priv: priv}, nil
}

// KeypairFromBase58 loads a keypair from a base58-encoded 64-byte secret key
// (seed followed by public key, the Solana wallet convention).
func KeypairFromBase58(encoded string) (*Keypair, error) {
	decoded, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(decoded))
	}
	return &Keypair{priv: ed25519.PrivateKey(decoded)}, nil
}

// PublicAddress returns the base58-encoded public key.
func (k *Keypair) PublicAddress() string {
	return base58.Encode(k.priv.Public().(ed25519.PublicKey))
}

// SecretBase58 returns the base58-encoded 64-byte secret key.
func (k *Keypair) SecretBase58() string {
	return base58.Encode(k.priv)
}

// Sign signs a message.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

// Verify checks a signature against this keypair's public key.
func (k *Keypair) Verify(message, signature []byte) bool {
	return ed25519.Verify(k.priv.Public().(ed25519.PublicKey), message, signature)
}

// ValidateAddress checks that an address is a base58-encoded 32-byte point
// on the ed25519 curve.
func ValidateAddress(address string) error {
	decoded, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return fmt.Errorf("address must be %d bytes, got %d", ed25519.PublicKeySize, len(decoded))
	}
	if _, err := new(edwards25519.Point).SetBytes(decoded); err != nil {
		return fmt.Errorf("address is not on the ed25519 curve")
	}
	return nil
}
