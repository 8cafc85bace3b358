package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/storage"
)

// LaunchRecordStore implements storage.LaunchRecordStore using PostgreSQL.
type LaunchRecordStore struct {
	pool *Pool
}

// NewLaunchRecordStore creates a new LaunchRecordStore.
func NewLaunchRecordStore(pool *Pool) *LaunchRecordStore {
	return &LaunchRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LaunchRecordStore = (*LaunchRecordStore)(nil)

// Insert adds a record. Returns ErrDuplicateKey if the mint exists.
func (s *LaunchRecordStore) Insert(ctx context.Context, r *domain.LaunchRecord) error {
	if r == nil || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO launch_records (
			mint, name, ticker, metadata_uri, signature, status,
			fail_stage, fail_reason, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Mint,
		r.Name,
		r.Ticker,
		r.MetadataURI,
		r.Signature,
		r.Status,
		r.FailStage,
		r.FailReason,
		r.StartedAt,
		r.FinishedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert launch record: %w", err)
	}
	return nil
}

// GetByMint retrieves a record. Returns ErrNotFound if absent.
func (s *LaunchRecordStore) GetByMint(ctx context.Context, mint string) (*domain.LaunchRecord, error) {
	query := `
		SELECT mint, name, ticker, metadata_uri, signature, status,
		       fail_stage, fail_reason, started_at, finished_at, created_at
		FROM launch_records
		WHERE mint = $1
	`

	row := s.pool.QueryRow(ctx, query, mint)
	r, err := scanLaunchRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get launch record by mint: %w", err)
	}
	return r, nil
}

// ListByStatus returns records with the given status, newest first.
func (s *LaunchRecordStore) ListByStatus(ctx context.Context, status string) ([]*domain.LaunchRecord, error) {
	query := `
		SELECT mint, name, ticker, metadata_uri, signature, status,
		       fail_stage, fail_reason, started_at, finished_at, created_at
		FROM launch_records
		WHERE status = $1
		ORDER BY started_at DESC
	`

	rows, err := s.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list launch records: %w", err)
	}
	defer rows.Close()

	var records []*domain.LaunchRecord
	for rows.Next() {
		r, err := scanLaunchRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launch records: %w", err)
	}
	return records, nil
}

// scanLaunchRecord scans a single row into LaunchRecord.
func scanLaunchRecord(row pgx.Row) (*domain.LaunchRecord, error) {
	var r domain.LaunchRecord

	err := row.Scan(
		&r.Mint,
		&r.Name,
		&r.Ticker,
		&r.MetadataURI,
		&r.Signature,
		&r.Status,
		&r.FailStage,
		&r.FailReason,
		&r.StartedAt,
		&r.FinishedAt,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}
