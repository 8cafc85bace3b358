package clickhouse

import (
	"context"
	"fmt"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/storage"
)

// LaunchEventStore implements storage.LaunchEventStore using ClickHouse.
// Events are append-only telemetry; MergeTree needs no uniqueness handling.
type LaunchEventStore struct {
	conn *Conn
}

// NewLaunchEventStore creates a new LaunchEventStore.
func NewLaunchEventStore(conn *Conn) *LaunchEventStore {
	return &LaunchEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LaunchEventStore = (*LaunchEventStore)(nil)

// InsertBulk appends a batch of events.
func (s *LaunchEventStore) InsertBulk(ctx context.Context, events []*domain.LaunchEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO launch_events (
			mint, stage, status, duration_ms, detail, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		err = batch.Append(
			e.Mint, e.Stage, e.Status,
			uint64(e.DurationMs), e.Detail, uint64(e.TimestampMs),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMint returns all events for a mint in timestamp order.
func (s *LaunchEventStore) GetByMint(ctx context.Context, mint string) ([]*domain.LaunchEvent, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT mint, stage, status, duration_ms, detail, timestamp_ms
		FROM launch_events
		WHERE mint = ?
		ORDER BY timestamp_ms ASC
	`, mint)
	if err != nil {
		return nil, fmt.Errorf("query launch events: %w", err)
	}
	defer rows.Close()

	var events []*domain.LaunchEvent
	for rows.Next() {
		var e domain.LaunchEvent
		var durationMs, timestampMs uint64
		if err := rows.Scan(&e.Mint, &e.Stage, &e.Status, &durationMs, &e.Detail, &timestampMs); err != nil {
			return nil, fmt.Errorf("scan launch event: %w", err)
		}
		e.DurationMs = int64(durationMs)
		e.TimestampMs = int64(timestampMs)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launch events: %w", err)
	}
	return events, nil
}
