// Package storage defines the persistence interfaces for launch history and
// telemetry. Implementations live in the memory, postgres, and clickhouse
// subpackages.
package storage

import (
	"context"

	"solana-token-launcher/internal/domain"
)

// LaunchRecordStore persists one row per launch attempt. Records are
// append-only: a mint is launched at most once, so the mint address is the
// natural key.
type LaunchRecordStore interface {
	// Insert adds a record. Returns ErrDuplicateKey if the mint exists.
	Insert(ctx context.Context, record *domain.LaunchRecord) error

	// GetByMint retrieves a record. Returns ErrNotFound if absent.
	GetByMint(ctx context.Context, mint string) (*domain.LaunchRecord, error)

	// ListByStatus returns records with the given status, newest first.
	ListByStatus(ctx context.Context, status string) ([]*domain.LaunchRecord, error)
}

// LaunchEventStore persists per-stage telemetry events.
type LaunchEventStore interface {
	// InsertBulk appends a batch of events.
	InsertBulk(ctx context.Context, events []*domain.LaunchEvent) error

	// GetByMint returns all events for a mint in timestamp order.
	GetByMint(ctx context.Context, mint string) ([]*domain.LaunchEvent, error)
}
