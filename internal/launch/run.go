package launch

import (
	"context"
	"errors"
	"log"
	"time"

	"solana-token-launcher/internal/domain"
)

// launchRun carries the bookkeeping for one pipeline execution: what to
// write to the history store and telemetry sink when the run terminates.
// History writes are best-effort; a storage failure is logged and never
// alters the pipeline outcome.
type launchRun struct {
	launcher    *Launcher
	req         domain.LaunchRequest
	mint        string
	metadataURI string
	startedAt   time.Time
}

func newLaunchRun(l *Launcher, req domain.LaunchRequest, mint string) *launchRun {
	return &launchRun{
		launcher:  l,
		req:       req,
		mint:      mint,
		startedAt: time.Now(),
	}
}

// event appends one stage-boundary telemetry row.
func (r *launchRun) event(ctx context.Context, stage string, duration time.Duration, stageErr error) {
	if r.launcher.events == nil {
		return
	}

	e := &domain.LaunchEvent{
		Mint:        r.mint,
		Stage:       stage,
		Status:      "ok",
		DurationMs:  duration.Milliseconds(),
		TimestampMs: time.Now().UnixMilli(),
	}
	if stageErr != nil {
		e.Status = "error"
		e.Detail = stageErr.Error()
	}

	if err := r.launcher.events.InsertBulk(ctx, []*domain.LaunchEvent{e}); err != nil {
		log.Printf("[launch] record event for %s: %v", r.mint, err)
	}
}

// fail records the terminal failure and passes the stage error through
// unchanged, preserving the root cause for the caller.
func (r *launchRun) fail(ctx context.Context, stage string, stageErr error) error {
	l := r.launcher

	status := domain.LaunchStatusFailed
	var timeout *domain.ConfirmationTimeoutError
	if errors.As(stageErr, &timeout) {
		// The transaction may still land; the record must not claim failure.
		status = domain.LaunchStatusUnknown
	}

	if l.metrics != nil {
		l.metrics.LaunchesCompleted.WithLabelValues(status).Inc()
		if timeout != nil {
			l.metrics.ConfirmationTimeouts.Inc()
		}
	}

	reason := stageErr.Error()
	r.record(ctx, &domain.LaunchRecord{
		Mint:        r.mint,
		Name:        r.req.Name,
		Ticker:      r.req.Ticker,
		MetadataURI: optional(r.metadataURI),
		Signature:   signatureOf(stageErr),
		Status:      status,
		FailStage:   &stage,
		FailReason:  &reason,
		StartedAt:   r.startedAt.UnixMilli(),
		FinishedAt:  time.Now().UnixMilli(),
	})

	return stageErr
}

// succeed records the confirmed launch.
func (r *launchRun) succeed(ctx context.Context, signature string) {
	r.record(ctx, &domain.LaunchRecord{
		Mint:        r.mint,
		Name:        r.req.Name,
		Ticker:      r.req.Ticker,
		MetadataURI: optional(r.metadataURI),
		Signature:   &signature,
		Status:      domain.LaunchStatusConfirmed,
		StartedAt:   r.startedAt.UnixMilli(),
		FinishedAt:  time.Now().UnixMilli(),
	})
}

func (r *launchRun) record(ctx context.Context, rec *domain.LaunchRecord) {
	if r.launcher.records == nil {
		return
	}
	if err := r.launcher.records.Insert(ctx, rec); err != nil {
		log.Printf("[launch] record launch %s: %v", rec.Mint, err)
	}
}

// signatureOf extracts a transaction signature from errors that carry one,
// so ambiguous and executed-but-failed outcomes stay reconcilable.
func signatureOf(err error) *string {
	var timeout *domain.ConfirmationTimeoutError
	if errors.As(err, &timeout) && timeout.Signature != "" {
		return &timeout.Signature
	}
	var exec *domain.ExecutionError
	if errors.As(err, &exec) && exec.Signature != "" {
		return &exec.Signature
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// errorType maps a stage error to its taxonomy name for metrics labels.
func errorType(err error) string {
	var (
		network  *domain.NetworkError
		upload   *domain.UploadError
		schema   *domain.SchemaError
		build    *domain.BuildError
		deser    *domain.DeserializationError
		checkpt  *domain.CheckpointError
		exec     *domain.ExecutionError
		confirmT *domain.ConfirmationTimeoutError
	)
	switch {
	case errors.As(err, &upload):
		return "upload"
	case errors.As(err, &schema):
		return "schema"
	case errors.As(err, &build):
		return "build"
	case errors.As(err, &deser):
		return "deserialization"
	case errors.As(err, &checkpt):
		return "checkpoint"
	case errors.As(err, &exec):
		return "execution"
	case errors.As(err, &confirmT):
		return "confirmation_timeout"
	case errors.As(err, &network):
		return "network"
	default:
		return "other"
	}
}
