package risk

import (
	"context"
	"sync"
	"time"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
)

// memoryBlacklist is the default in-memory BlacklistRegistry.
type memoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]risk.BlacklistEntry
}

// NewBlacklistRegistry creates an empty in-memory blacklist.
func NewBlacklistRegistry() BlacklistRegistry {
	return &memoryBlacklist{entries: make(map[string]risk.BlacklistEntry)}
}

func (b *memoryBlacklist) Add(_ context.Context, userID, reason string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Upsert: a repeated add refreshes reason and timestamp.
	b.entries[userID] = risk.BlacklistEntry{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	return nil
}

func (b *memoryBlacklist) Remove(_ context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, userID)
	return nil
}

func (b *memoryBlacklist) Contains(_ context.Context, userID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.entries[userID]
	return ok, nil
}

func (b *memoryBlacklist) Get(_ context.Context, userID string) (*risk.BlacklistEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if entry, ok := b.entries[userID]; ok {
		return &entry, nil
	}
	return nil, nil
}

func (b *memoryBlacklist) Size(_ context.Context) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(len(b.entries)), nil
}
