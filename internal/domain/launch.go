package domain

import "fmt"

// Default launch options, applied when the caller leaves a field unset.
const (
	DefaultLiquiditySOL   = 0.0001
	DefaultSlippageBps    = 5
	DefaultPriorityFeeSOL = 0.00005
)

// LaunchRequest is the immutable input to one token launch.
type LaunchRequest struct {
	Name    string
	Ticker  string
	Options LaunchOptions
}

// LaunchOptions carries the optional launch parameters. Zero values mean
// "use the documented default".
type LaunchOptions struct {
	Description string // default: derived from Name
	Twitter     string
	Telegram    string
	Website     string
	ImageURL    string // fetched and attached to the metadata upload when set

	LiquiditySOL   float64 // initial liquidity in SOL
	SlippageBps    int     // slippage tolerance in basis points
	PriorityFeeSOL float64 // priority fee in SOL
}

// Validate checks required fields.
func (r *LaunchRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: token name is required", ErrInvalidRequest)
	}
	if r.Ticker == "" {
		return fmt.Errorf("%w: token ticker is required", ErrInvalidRequest)
	}
	if r.Options.LiquiditySOL < 0 {
		return fmt.Errorf("%w: liquidity must be positive", ErrInvalidRequest)
	}
	if r.Options.SlippageBps < 0 {
		return fmt.Errorf("%w: slippage must be positive", ErrInvalidRequest)
	}
	if r.Options.PriorityFeeSOL < 0 {
		return fmt.Errorf("%w: priority fee must be positive", ErrInvalidRequest)
	}
	return nil
}

// WithDefaults returns a copy of the options with absent fields replaced by
// their documented defaults.
func (o LaunchOptions) WithDefaults(name string) LaunchOptions {
	if o.Description == "" {
		o.Description = fmt.Sprintf("%s token", name)
	}
	if o.LiquiditySOL == 0 {
		o.LiquiditySOL = DefaultLiquiditySOL
	}
	if o.SlippageBps == 0 {
		o.SlippageBps = DefaultSlippageBps
	}
	if o.PriorityFeeSOL == 0 {
		o.PriorityFeeSOL = DefaultPriorityFeeSOL
	}
	return o
}

// MetadataRecord is the publisher's output: the echoed token fields plus the
// content-addressed URI the builder embeds on-chain. Immutable once returned.
type MetadataRecord struct {
	Name     string
	Symbol   string
	ImageURI string
	URI      string // metadata URI on the content-addressed store
}

// Checkpoint is a ledger-issued validity anchor. A transaction referencing
// Blockhash is rejected once the chain passes LastValidBlockHeight.
type Checkpoint struct {
	Blockhash            string
	LastValidBlockHeight uint64
	Slot                 int64
}

// LaunchResult is the terminal success artifact. It is returned only after
// the node reported a confirmed, error-free inclusion.
type LaunchResult struct {
	Signature   string // confirmed transaction signature
	Mint        string // new token mint address (base58)
	MetadataURI string

	// MintSecretKey is the base58-encoded 64-byte secret key of the mint
	// authority. It is surfaced here because the pipeline discards the
	// keypair after signing; callers that need future mint-authority
	// actions must persist it themselves.
	MintSecretKey string
}

// Launch record status values.
const (
	LaunchStatusConfirmed = "CONFIRMED"
	LaunchStatusFailed    = "FAILED"
	LaunchStatusUnknown   = "UNKNOWN" // broadcast happened, confirmation timed out
)

// LaunchEvent is one append-only telemetry row: a stage boundary observed
// during a launch. Corresponds to the launch_events table in ClickHouse.
type LaunchEvent struct {
	Mint        string
	Stage       string // publish | build | sign | broadcast
	Status      string // ok | error
	DurationMs  int64
	Detail      string // error text for Status == "error"
	TimestampMs int64
}

// LaunchRecord is the persisted history row for one launch attempt.
// Corresponds to the launch_records table in PostgreSQL.
type LaunchRecord struct {
	Mint        string // always set: the keypair is generated before stage one
	Name        string
	Ticker      string
	MetadataURI *string // nullable: empty until the publish stage succeeds
	Signature   *string // nullable: empty unless broadcast produced one
	Status      string
	FailStage   *string // nullable: stage name for FAILED/UNKNOWN records
	FailReason  *string // nullable
	StartedAt   int64   // ms
	FinishedAt  int64   // ms
	CreatedAt   int64   // record creation timestamp (ms), set by the store
}
