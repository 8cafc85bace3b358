// Package broadcast submits signed transactions to the ledger node and
// waits for confirmation.
package broadcast

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/solana"
)

// Defaults.
const (
	// DefaultMaxRetries bounds the node's own resubmission of the
	// transaction to leaders.
	DefaultMaxRetries = 5

	DefaultPollInterval = 500 * time.Millisecond

	// Block height is re-checked every heightCheckEvery polls; expiry moves
	// slower than status, so checking it on every tick wastes RPC calls.
	heightCheckEvery = 4
)

// Broadcaster submits signed transactions and blocks until the node reports
// inclusion or the checkpoint's validity window expires.
type Broadcaster struct {
	rpc          solana.RPCClient
	ws           solana.WSClient // optional confirmation fast path
	maxRetries   int
	pollInterval time.Duration
}

// Option configures Broadcaster.
type Option func(*Broadcaster)

// WithWSClient enables the websocket signatureSubscribe fast path. Status
// polling continues alongside it as a fallback.
func WithWSClient(ws solana.WSClient) Option {
	return func(b *Broadcaster) {
		b.ws = ws
	}
}

// WithMaxRetries sets the node-side resubmission ceiling.
func WithMaxRetries(n int) Option {
	return func(b *Broadcaster) {
		b.maxRetries = n
	}
}

// WithPollInterval sets the confirmation poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(b *Broadcaster) {
		b.pollInterval = d
	}
}

// NewBroadcaster creates a Broadcaster on the given RPC client.
func NewBroadcaster(rpc solana.RPCClient, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		rpc:          rpc,
		maxRetries:   DefaultMaxRetries,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Submit sends the signed transaction with preflight enabled and waits for
// confirmation at the confirmed tier. It returns the signature on a clean
// confirmation, an ExecutionError when the transaction was included but
// failed on-chain, and a ConfirmationTimeoutError when the checkpoint
// expired with the outcome still unknown.
func (b *Broadcaster) Submit(ctx context.Context, tx *solana.WireTransaction, checkpoint *domain.Checkpoint) (string, error) {
	raw := tx.Serialize()
	encoded := base64.StdEncoding.EncodeToString(raw)

	signature, err := b.rpc.SendTransaction(ctx, encoded, &solana.SendOptions{
		SkipPreflight:       false,
		PreflightCommitment: solana.CommitmentConfirmed,
		MaxRetries:          b.maxRetries,
	})
	if err != nil {
		return "", &domain.NetworkError{Op: "submit transaction", Err: err}
	}

	if err := b.waitForConfirmation(ctx, signature, checkpoint); err != nil {
		return "", err
	}
	return signature, nil
}

// waitForConfirmation blocks until the signature confirms, fails on-chain,
// or the checkpoint's validity window expires.
func (b *Broadcaster) waitForConfirmation(ctx context.Context, signature string, checkpoint *domain.Checkpoint) error {
	var wsCh <-chan solana.SignatureResult
	if b.ws != nil {
		ch, err := b.ws.SubscribeSignature(ctx, signature)
		if err == nil {
			wsCh = ch
		}
		// Subscription failure is not fatal: polling covers confirmation.
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	polls := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case result, ok := <-wsCh:
			if !ok {
				// Connection lost; keep polling.
				wsCh = nil
				continue
			}
			if result.Err != nil {
				return b.executionError(ctx, signature, result.Err)
			}
			return nil

		case <-ticker.C:
			statuses, err := b.rpc.GetSignatureStatuses(ctx, []string{signature})
			if err == nil && len(statuses) > 0 && statuses[0] != nil && statuses[0].Confirmed() {
				if statuses[0].Err != nil {
					return b.executionError(ctx, signature, statuses[0].Err)
				}
				return nil
			}
			// Status fetch errors are transient; expiry is the real deadline.

			polls++
			if polls%heightCheckEvery != 0 {
				continue
			}
			height, err := b.rpc.GetBlockHeight(ctx)
			if err != nil {
				continue
			}
			if height > checkpoint.LastValidBlockHeight {
				return &domain.ConfirmationTimeoutError{
					Signature:            signature,
					LastValidBlockHeight: checkpoint.LastValidBlockHeight,
				}
			}
		}
	}
}

// executionError builds an ExecutionError, attaching program logs when the
// node can supply them.
func (b *Broadcaster) executionError(ctx context.Context, signature string, errDetail interface{}) error {
	execErr := &domain.ExecutionError{
		Signature: signature,
		Detail:    formatLedgerError(errDetail),
	}

	// Best-effort: logs come from a second lookup and may not be there yet.
	if tx, err := b.rpc.GetTransaction(ctx, signature); err == nil && tx != nil && tx.Meta != nil {
		execErr.Logs = tx.Meta.LogMessages
	}
	return execErr
}

// Reconcile looks a signature up after a ConfirmationTimeoutError. It
// returns nil if the transaction confirmed cleanly after all, an
// ExecutionError if it landed but failed, and ErrSignatureNotFound if the
// node still has no record of it.
func (b *Broadcaster) Reconcile(ctx context.Context, signature string) error {
	tx, err := b.rpc.GetTransaction(ctx, signature)
	if err != nil {
		return &domain.NetworkError{Op: "reconcile signature", Err: err}
	}
	if tx == nil {
		return fmt.Errorf("%w: %s", ErrSignatureNotFound, signature)
	}
	if tx.Meta != nil && tx.Meta.Err != nil {
		return &domain.ExecutionError{
			Signature: signature,
			Detail:    formatLedgerError(tx.Meta.Err),
			Logs:      tx.Meta.LogMessages,
		}
	}
	return nil
}

// ErrSignatureNotFound is returned by Reconcile when the ledger has no
// record of the signature. The transaction may have expired unexecuted, or
// may simply not be visible yet.
var ErrSignatureNotFound = fmt.Errorf("signature not found on ledger")

// formatLedgerError renders the node's structured error detail as text.
func formatLedgerError(detail interface{}) string {
	switch v := detail.(type) {
	case string:
		return v
	default:
		encoded, err := json.Marshal(detail)
		if err != nil {
			return fmt.Sprintf("%v", detail)
		}
		return string(encoded)
	}
}
