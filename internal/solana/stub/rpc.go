package stub

import (
	"context"
	"sync"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/solana"
)

// RPCClient implements solana.RPCClient for testing.
//
// Checkpoint, Signature, and the error fields configure responses; the
// Sent slice and call counters record what the code under test did.
type RPCClient struct {
	mu sync.Mutex

	Checkpoint    *domain.Checkpoint
	CheckpointErr error

	Signature string
	SendErr   error
	Sent      []string // base64 payloads passed to SendTransaction

	// Statuses is consumed one entry per GetSignatureStatuses call; the
	// last entry repeats once exhausted. A nil entry means "unknown yet".
	Statuses    []*solana.SignatureStatus
	statusCalls int
	StatusErr   error

	// BlockHeights is consumed one entry per GetBlockHeight call; the last
	// entry repeats once exhausted.
	BlockHeights []uint64
	heightCalls  int
	HeightErr    error

	Transactions map[string]*solana.Transaction
	TxErr        error
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions: make(map[string]*solana.Transaction),
	}
}

// Compile-time interface check.
var _ solana.RPCClient = (*RPCClient)(nil)

// GetLatestBlockhash returns the configured checkpoint.
func (c *RPCClient) GetLatestBlockhash(_ context.Context) (*domain.Checkpoint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.CheckpointErr != nil {
		return nil, c.CheckpointErr
	}
	cp := *c.Checkpoint
	return &cp, nil
}

// SendTransaction records the payload and returns the configured signature.
func (c *RPCClient) SendTransaction(_ context.Context, txBase64 string, _ *solana.SendOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SendErr != nil {
		return "", c.SendErr
	}
	c.Sent = append(c.Sent, txBase64)
	return c.Signature, nil
}

// GetSignatureStatuses returns the next scripted status.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures []string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.StatusErr != nil {
		return nil, c.StatusErr
	}

	statuses := make([]*solana.SignatureStatus, len(signatures))
	if len(c.Statuses) > 0 {
		idx := c.statusCalls
		if idx >= len(c.Statuses) {
			idx = len(c.Statuses) - 1
		}
		c.statusCalls++
		for i := range statuses {
			statuses[i] = c.Statuses[idx]
		}
	}
	return statuses, nil
}

// GetBlockHeight returns the next scripted block height.
func (c *RPCClient) GetBlockHeight(_ context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.HeightErr != nil {
		return 0, c.HeightErr
	}
	if len(c.BlockHeights) == 0 {
		return 0, nil
	}
	idx := c.heightCalls
	if idx >= len(c.BlockHeights) {
		idx = len(c.BlockHeights) - 1
	}
	c.heightCalls++
	return c.BlockHeights[idx], nil
}

// GetTransaction retrieves a transaction from the stub store.
// Returns nil for unknown signatures, matching the RPC contract.
func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.TxErr != nil {
		return nil, c.TxErr
	}
	return c.Transactions[signature], nil
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Transactions[tx.Signature] = tx
}
