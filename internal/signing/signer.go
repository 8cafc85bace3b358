// Package signing binds a fresh checkpoint into an unsigned transaction and
// applies the mint and wallet signatures.
package signing

import (
	"context"
	"fmt"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/solana"
	"solana-token-launcher/internal/wallet"
)

// CheckpointProvider issues fresh ledger checkpoints.
type CheckpointProvider interface {
	GetLatestBlockhash(ctx context.Context) (*domain.Checkpoint, error)
}

// Signer produces fully signed transactions.
type Signer struct {
	checkpoints CheckpointProvider
}

// NewSigner creates a Signer backed by the given checkpoint provider.
func NewSigner(checkpoints CheckpointProvider) *Signer {
	return &Signer{checkpoints: checkpoints}
}

// Sign deserializes the unsigned bytes, binds a fresh checkpoint, and signs
// with the mint identity first and the wallet second. The checkpoint is
// fetched here, immediately before signing, never earlier in the pipeline:
// a checkpoint obtained before the metadata and build stages may already be
// near expiry by the time the transaction is broadcast.
func (s *Signer) Sign(ctx context.Context, unsigned []byte, mint *wallet.Keypair, w wallet.WalletContext) (*solana.WireTransaction, *domain.Checkpoint, error) {
	tx, err := solana.ParseTransaction(unsigned)
	if err != nil {
		return nil, nil, &domain.DeserializationError{Reason: err.Error()}
	}

	// The signer keys come from untrusted builder bytes; an off-curve key
	// can never produce a verifiable signature.
	for _, signer := range tx.RequiredSigners() {
		if err := wallet.ValidateAddress(signer); err != nil {
			return nil, nil, &domain.DeserializationError{
				Reason: fmt.Sprintf("required signer %s: %v", signer, err),
			}
		}
	}

	checkpoint, err := s.checkpoints.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, nil, &domain.CheckpointError{Err: err}
	}

	if err := tx.SetRecentBlockhash(checkpoint.Blockhash); err != nil {
		return nil, nil, fmt.Errorf("bind checkpoint: %w", err)
	}

	mintSig := mint.Sign(tx.Message())
	if err := tx.AddSignature(mint.PublicAddress(), mintSig); err != nil {
		return nil, nil, fmt.Errorf("attach mint signature: %w", err)
	}

	if err := w.SignTransaction(tx); err != nil {
		return nil, nil, err
	}

	// Both signatures are required; a single-signed transaction is invalid
	// and the node would reject it.
	if missing := tx.MissingSigners(); len(missing) > 0 {
		return nil, nil, fmt.Errorf("transaction not fully signed, missing: %v", missing)
	}

	return tx, checkpoint, nil
}
