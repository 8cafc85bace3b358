package solana

import "context"

// WSClient defines the Solana WebSocket interface used for confirmation.
type WSClient interface {
	// SubscribeSignature subscribes to the confirmation notification for a
	// signature. The returned channel delivers at most one result; the node
	// cancels the subscription after firing it.
	SubscribeSignature(ctx context.Context, signature string) (<-chan SignatureResult, error)

	// Close closes the connection and all open subscriptions.
	Close() error
}

// SignatureResult is a signatureSubscribe notification.
type SignatureResult struct {
	Slot int64
	// Err is the on-chain execution error, nil for a clean confirmation.
	Err interface{}
}
