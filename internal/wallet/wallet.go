package wallet

import (
	"fmt"

	"solana-token-launcher/internal/solana"
)

// WalletContext bundles the caller's signing identity for injection into the
// pipeline. The wallet is used read-only: signing never mutates it, and
// concurrent launches may share one context.
type WalletContext interface {
	// PublicAddress returns the wallet's base58 address.
	PublicAddress() string

	// SignTransaction signs the transaction's message and attaches the
	// signature at the wallet's required-signer slot.
	SignTransaction(tx *solana.WireTransaction) error
}

// LocalWallet implements WalletContext with an in-process keypair.
type LocalWallet struct {
	kp *Keypair
}

// NewLocalWallet wraps a keypair as a WalletContext.
func NewLocalWallet(kp *Keypair) *LocalWallet {
	return &LocalWallet{kp: kp}
}

// LocalWalletFromBase58 loads a wallet from a base58 secret key.
func LocalWalletFromBase58(encoded string) (*LocalWallet, error) {
	kp, err := KeypairFromBase58(encoded)
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return &LocalWallet{kp: kp}, nil
}

// Compile-time interface check.
var _ WalletContext = (*LocalWallet)(nil)

// PublicAddress returns the wallet's base58 address.
func (w *LocalWallet) PublicAddress() string {
	return w.kp.PublicAddress()
}

// SignTransaction signs the transaction's message with the wallet keypair.
func (w *LocalWallet) SignTransaction(tx *solana.WireTransaction) error {
	sig := w.kp.Sign(tx.Message())
	if err := tx.AddSignature(w.kp.PublicAddress(), sig); err != nil {
		return fmt.Errorf("attach wallet signature: %w", err)
	}
	return nil
}
