package risk

import (
	"context"
	"sync"
	"time"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

// memoryActivityStore is the default in-memory ActivityStore. Appends for a
// key take the write lock, so same-key appends are linearizable; reads copy
// under the read lock and hand out snapshots that never alias internal state.
type memoryActivityStore struct {
	mu           sync.RWMutex
	cap          int
	transactions map[string][]risk.TransactionRecord
	sightings    map[string][]risk.DeviceSighting
}

// NewActivityStore creates an in-memory activity store with the given per-key
// history cap. A non-positive cap falls back to DefaultHistoryCap.
func NewActivityStore(cap int) ActivityStore {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &memoryActivityStore{
		cap:          cap,
		transactions: make(map[string][]risk.TransactionRecord),
		sightings:    make(map[string][]risk.DeviceSighting),
	}
}

func (s *memoryActivityStore) AppendTransaction(_ context.Context, rec risk.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.transactions[rec.UserID], rec)
	if len(history) > s.cap {
		trimmed := make([]risk.TransactionRecord, s.cap)
		copy(trimmed, history[len(history)-s.cap:])
		history = trimmed
	}
	s.transactions[rec.UserID] = history
	return nil
}

func (s *memoryActivityStore) AppendDeviceSighting(_ context.Context, sighting risk.DeviceSighting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sightings[sighting.DeviceID], sighting)
	if len(history) > s.cap {
		trimmed := make([]risk.DeviceSighting, s.cap)
		copy(trimmed, history[len(history)-s.cap:])
		history = trimmed
	}
	s.sightings[sighting.DeviceID] = history
	return nil
}

func (s *memoryActivityStore) TransactionsSince(_ context.Context, userID string, since time.Time) ([]risk.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []risk.TransactionRecord
	for _, rec := range s.transactions[userID] {
		if !rec.CreatedAt.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memoryActivityStore) SightingsSince(_ context.Context, deviceID string, since time.Time) ([]risk.DeviceSighting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []risk.DeviceSighting
	for _, sighting := range s.sightings[deviceID] {
		if !sighting.Timestamp.Before(since) {
			out = append(out, sighting)
		}
	}
	return out, nil
}

func (s *memoryActivityStore) AllTransactions(_ context.Context, userID string) ([]risk.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.transactions[userID]
	out := make([]risk.TransactionRecord, len(history))
	copy(out, history)
	return out, nil
}

func (s *memoryActivityStore) AllSightings(_ context.Context, deviceID string) ([]risk.DeviceSighting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sightings[deviceID]
	out := make([]risk.DeviceSighting, len(history))
	copy(out, history)
	return out, nil
}
