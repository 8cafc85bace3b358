package solana

import (
	"context"

	"solana-token-launcher/internal/domain"
)

// RPCClient defines the Solana JSON-RPC operations consumed by the launch
// pipeline: checkpoint issuance, transaction submission, confirmation
// polling, and post-hoc transaction lookup.
type RPCClient interface {
	// GetLatestBlockhash fetches a fresh checkpoint at confirmed commitment.
	GetLatestBlockhash(ctx context.Context) (*domain.Checkpoint, error)

	// SendTransaction submits a base64-encoded signed transaction and
	// returns its signature.
	SendTransaction(ctx context.Context, txBase64 string, opts *SendOptions) (string, error)

	// GetSignatureStatuses returns the current status for each signature.
	// A nil entry means the node does not know the signature yet.
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)

	// GetBlockHeight returns the current block height at confirmed commitment.
	GetBlockHeight(ctx context.Context) (uint64, error)

	// GetTransaction retrieves a transaction by signature.
	// Returns nil if the node has no record of it.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)
}

// SendOptions configures sendTransaction.
type SendOptions struct {
	SkipPreflight       bool
	PreflightCommitment string
	// MaxRetries bounds the node's own resubmission of the transaction to
	// leaders. These are node-protocol retries, opaque to the caller.
	MaxRetries int
}

// SignatureStatus is one entry from getSignatureStatuses.
type SignatureStatus struct {
	Slot               int64
	Confirmations      *int
	ConfirmationStatus string // processed | confirmed | finalized
	Err                interface{}
}

// Confirmed reports whether the status has reached at least the confirmed
// commitment tier.
func (s *SignatureStatus) Confirmed() bool {
	return s.ConfirmationStatus == CommitmentConfirmed || s.ConfirmationStatus == CommitmentFinalized
}

// Commitment tiers.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// Transaction represents a ledger transaction as returned by getTransaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
}

// TransactionMeta contains transaction execution metadata.
type TransactionMeta struct {
	Err         interface{}
	LogMessages []string
}
