package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/storage"
)

// LaunchEventStore is an in-memory implementation of storage.LaunchEventStore.
type LaunchEventStore struct {
	mu     sync.RWMutex
	byMint map[string][]*domain.LaunchEvent
}

// NewLaunchEventStore creates a new in-memory launch event store.
func NewLaunchEventStore() *LaunchEventStore {
	return &LaunchEventStore{
		byMint: make(map[string][]*domain.LaunchEvent),
	}
}

// Compile-time interface check.
var _ storage.LaunchEventStore = (*LaunchEventStore)(nil)

// InsertBulk appends a batch of events.
func (s *LaunchEventStore) InsertBulk(_ context.Context, events []*domain.LaunchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, event := range events {
		if event == nil || event.Mint == "" {
			return storage.ErrInvalidInput
		}
		eventCopy := *event
		s.byMint[event.Mint] = append(s.byMint[event.Mint], &eventCopy)
	}
	return nil
}

// GetByMint returns all events for a mint in timestamp order.
func (s *LaunchEventStore) GetByMint(_ context.Context, mint string) ([]*domain.LaunchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byMint[mint]
	events := make([]*domain.LaunchEvent, len(stored))
	for i, event := range stored {
		eventCopy := *event
		events[i] = &eventCopy
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].TimestampMs < events[j].TimestampMs
	})
	return events, nil
}
