// Package builder obtains an unsigned launch transaction from the remote
// builder service.
package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"solana-token-launcher/internal/domain"
)

// DefaultEndpoint is the pumpportal local-transaction endpoint.
const DefaultEndpoint = "https://pumpportal.fun/api/trade-local"

// The launch always targets the pump bonding-curve pool with the liquidity
// amount denominated in SOL.
const (
	actionCreate     = "create"
	poolPump         = "pump"
	denominatedInSol = "true"
)

const defaultTimeout = 30 * time.Second

// Builder posts launch parameters and receives serialized unsigned
// transaction bytes. The bytes are treated as untrusted wire data; no
// validation of instruction contents happens here.
type Builder struct {
	endpoint string
	client   *http.Client
}

// Option configures Builder.
type Option func(*Builder)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Builder) {
		b.client = client
	}
}

// NewBuilder creates a Builder for the given endpoint.
// An empty endpoint selects DefaultEndpoint.
func NewBuilder(endpoint string, opts ...Option) *Builder {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	b := &Builder{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// createRequest is the builder service's action payload.
type createRequest struct {
	PublicKey        string        `json:"publicKey"`
	Action           string        `json:"action"`
	TokenMetadata    tokenMetadata `json:"tokenMetadata"`
	Mint             string        `json:"mint"`
	DenominatedInSol string        `json:"denominatedInSol"`
	Amount           float64       `json:"amount"`
	Slippage         int           `json:"slippage"`
	PriorityFee      float64       `json:"priorityFee"`
	Pool             string        `json:"pool"`
}

type tokenMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

// Build requests an unsigned launch transaction for the given wallet, mint,
// and published metadata.
func (b *Builder) Build(ctx context.Context, walletAddress, mintAddress string, record *domain.MetadataRecord, opts domain.LaunchOptions) ([]byte, error) {
	payload := createRequest{
		PublicKey: walletAddress,
		Action:    actionCreate,
		TokenMetadata: tokenMetadata{
			Name:   record.Name,
			Symbol: record.Symbol,
			URI:    record.URI,
		},
		Mint:             mintAddress,
		DenominatedInSol: denominatedInSol,
		Amount:           opts.LiquiditySOL,
		Slippage:         opts.SlippageBps,
		PriorityFee:      opts.PriorityFeeSOL,
		Pool:             poolPump,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: "build transaction", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Op: "build transaction", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The body often carries actionable diagnostics from the service;
		// preserve it verbatim.
		return nil, &domain.BuildError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if len(respBody) == 0 {
		return nil, &domain.SchemaError{Endpoint: "transaction build", Field: "body"}
	}

	return respBody, nil
}
