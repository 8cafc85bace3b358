package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/storage"
)

// LaunchRecordStore is an in-memory implementation of storage.LaunchRecordStore.
type LaunchRecordStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.LaunchRecord
}

// NewLaunchRecordStore creates a new in-memory launch record store.
func NewLaunchRecordStore() *LaunchRecordStore {
	return &LaunchRecordStore{
		byMint: make(map[string]*domain.LaunchRecord),
	}
}

// Compile-time interface check.
var _ storage.LaunchRecordStore = (*LaunchRecordStore)(nil)

// Insert adds a record. Returns ErrDuplicateKey if the mint exists.
func (s *LaunchRecordStore) Insert(_ context.Context, record *domain.LaunchRecord) error {
	if record == nil || record.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMint[record.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *record
	if recordCopy.CreatedAt == 0 {
		recordCopy.CreatedAt = time.Now().UnixMilli()
	}
	s.byMint[record.Mint] = &recordCopy
	return nil
}

// GetByMint retrieves a record. Returns ErrNotFound if absent.
func (s *LaunchRecordStore) GetByMint(_ context.Context, mint string) (*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *record
	return &recordCopy, nil
}

// ListByStatus returns records with the given status, newest first.
func (s *LaunchRecordStore) ListByStatus(_ context.Context, status string) ([]*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.LaunchRecord
	for _, record := range s.byMint {
		if record.Status != status {
			continue
		}
		recordCopy := *record
		records = append(records, &recordCopy)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt > records[j].StartedAt
	})
	return records, nil
}
