// Package launch provides the token-launch pipeline orchestration.
// It coordinates: metadata publication → transaction build → signing → broadcast
package launch

import (
	"context"
	"fmt"
	"log"
	"time"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/observability"
	"solana-token-launcher/internal/solana"
	"solana-token-launcher/internal/storage"
	"solana-token-launcher/internal/wallet"
)

// MetadataPublisher uploads token metadata and returns its canonical record.
type MetadataPublisher interface {
	Publish(ctx context.Context, name, ticker string, opts domain.LaunchOptions) (*domain.MetadataRecord, error)
}

// TransactionBuilder obtains unsigned transaction bytes from the remote
// builder service.
type TransactionBuilder interface {
	Build(ctx context.Context, walletAddress, mintAddress string, record *domain.MetadataRecord, opts domain.LaunchOptions) ([]byte, error)
}

// TransactionSigner binds a fresh checkpoint and produces a fully signed
// transaction.
type TransactionSigner interface {
	Sign(ctx context.Context, unsigned []byte, mint *wallet.Keypair, w wallet.WalletContext) (*solana.WireTransaction, *domain.Checkpoint, error)
}

// Broadcaster submits a signed transaction and blocks until the node reports
// inclusion or a terminal failure.
type Broadcaster interface {
	Submit(ctx context.Context, tx *solana.WireTransaction, checkpoint *domain.Checkpoint) (string, error)
}

// Launcher sequences the four pipeline stages for one LaunchRequest.
// Stages execute strictly in order; any failure short-circuits the rest and
// propagates the originating error unchanged.
type Launcher struct {
	publisher   MetadataPublisher
	builder     TransactionBuilder
	signer      TransactionSigner
	broadcaster Broadcaster
	wallet      wallet.WalletContext

	// Optional collaborators
	records storage.LaunchRecordStore
	events  storage.LaunchEventStore
	metrics *observability.Metrics
	verbose bool
}

// Options for creating Launcher.
type Options struct {
	// Required stages
	Publisher   MetadataPublisher
	Builder     TransactionBuilder
	Signer      TransactionSigner
	Broadcaster Broadcaster
	Wallet      wallet.WalletContext

	// Optional: launch history and telemetry, recorded best-effort and
	// never affecting the pipeline outcome.
	RecordStore storage.LaunchRecordStore
	EventStore  storage.LaunchEventStore
	Metrics     *observability.Metrics

	Verbose bool
}

// New creates a new Launcher.
func New(opts Options) *Launcher {
	return &Launcher{
		publisher:   opts.Publisher,
		builder:     opts.Builder,
		signer:      opts.Signer,
		broadcaster: opts.Broadcaster,
		wallet:      opts.Wallet,
		records:     opts.RecordStore,
		events:      opts.EventStore,
		metrics:     opts.Metrics,
		verbose:     opts.Verbose,
	}
}

// Launch executes the full pipeline for one request. A LaunchResult is
// returned if and only if the broadcaster observed a confirmed, error-free
// inclusion; any stage failure aborts the pipeline with no partial result.
func (l *Launcher) Launch(ctx context.Context, req domain.LaunchRequest) (*domain.LaunchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	opts := req.Options.WithDefaults(req.Name)

	// The mint identity is generated before stage one because its address
	// goes into the builder payload. It lives only for this call.
	mint, err := wallet.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate mint identity: %w", err)
	}
	mintAddress := mint.PublicAddress()

	run := newLaunchRun(l, req, mintAddress)
	if l.metrics != nil {
		l.metrics.LaunchesStarted.Inc()
	}
	l.log("Launching %q (%s), mint %s", req.Name, req.Ticker, mintAddress)

	// Stage 1: Metadata publication
	l.log("Stage 1: Publishing metadata...")
	record, err := stage(ctx, run, observability.StagePublish, func() (*domain.MetadataRecord, error) {
		return l.publisher.Publish(ctx, req.Name, req.Ticker, opts)
	})
	if err != nil {
		return nil, run.fail(ctx, observability.StagePublish, err)
	}
	run.metadataURI = record.URI
	l.log("  Metadata at %s", record.URI)

	// Stage 2: Transaction build
	l.log("Stage 2: Building transaction...")
	unsigned, err := stage(ctx, run, observability.StageBuild, func() ([]byte, error) {
		return l.builder.Build(ctx, l.wallet.PublicAddress(), mintAddress, record, opts)
	})
	if err != nil {
		return nil, run.fail(ctx, observability.StageBuild, err)
	}
	l.log("  Received %d unsigned bytes", len(unsigned))

	// Stage 3: Signing
	l.log("Stage 3: Signing...")
	type signed struct {
		tx         *solana.WireTransaction
		checkpoint *domain.Checkpoint
	}
	st, err := stage(ctx, run, observability.StageSign, func() (signed, error) {
		tx, checkpoint, err := l.signer.Sign(ctx, unsigned, mint, l.wallet)
		return signed{tx, checkpoint}, err
	})
	if err != nil {
		return nil, run.fail(ctx, observability.StageSign, err)
	}
	l.log("  Bound to blockhash %s (valid to height %d)",
		st.checkpoint.Blockhash, st.checkpoint.LastValidBlockHeight)

	// Stage 4: Broadcast and confirmation
	l.log("Stage 4: Broadcasting...")
	broadcastStart := time.Now()
	signature, err := stage(ctx, run, observability.StageBroadcast, func() (string, error) {
		return l.broadcaster.Submit(ctx, st.tx, st.checkpoint)
	})
	if err != nil {
		return nil, run.fail(ctx, observability.StageBroadcast, err)
	}
	l.log("  Confirmed: %s", signature)

	if l.metrics != nil {
		l.metrics.ConfirmationDuration.Observe(time.Since(broadcastStart).Seconds())
		l.metrics.LaunchesCompleted.WithLabelValues(domain.LaunchStatusConfirmed).Inc()
		l.metrics.LastSuccessfulLaunch.SetToCurrentTime()
	}
	run.succeed(ctx, signature)

	return &domain.LaunchResult{
		Signature:     signature,
		Mint:          mintAddress,
		MetadataURI:   record.URI,
		MintSecretKey: mint.SecretBase58(),
	}, nil
}

// stage times one pipeline stage, recording telemetry and metrics around fn.
func stage[T any](ctx context.Context, run *launchRun, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	duration := time.Since(start)

	l := run.launcher
	if l.metrics != nil {
		l.metrics.StageDuration.WithLabelValues(name).Observe(duration.Seconds())
		if err != nil {
			l.metrics.StageErrors.WithLabelValues(name, errorType(err)).Inc()
		}
	}
	run.event(ctx, name, duration, err)

	return result, err
}

func (l *Launcher) log(format string, args ...interface{}) {
	if l.verbose {
		log.Printf("[launch] "+format, args...)
	}
}
