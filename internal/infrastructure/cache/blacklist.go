package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
	riskservice "github.com/davidleathers/payment-risk-engine/internal/service/risk"
)

// RedisBlacklist is a Redis-backed BlacklistRegistry for deployments that
// need the deny list to survive restarts and be shared across instances.
// Entries live in a single hash keyed by user ID.
type RedisBlacklist struct {
	client *redis.Client
	logger *zap.Logger
}

var _ riskservice.BlacklistRegistry = (*RedisBlacklist)(nil)

// NewRedisBlacklist wraps an existing client.
func NewRedisBlacklist(client *redis.Client, logger *zap.Logger) *RedisBlacklist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBlacklist{client: client, logger: logger}
}

func (b *RedisBlacklist) Add(ctx context.Context, userID, reason string) error {
	entry := risk.BlacklistEntry{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling blacklist entry: %w", err)
	}

	if err := b.client.HSet(ctx, blacklistKey, userID, data).Err(); err != nil {
		b.logger.Error("blacklist add failed", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("blacklist add failed: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Remove(ctx context.Context, userID string) error {
	if err := b.client.HDel(ctx, blacklistKey, userID).Err(); err != nil {
		b.logger.Error("blacklist remove failed", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("blacklist remove failed: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, userID string) (bool, error) {
	exists, err := b.client.HExists(ctx, blacklistKey, userID).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist lookup failed: %w", err)
	}
	return exists, nil
}

func (b *RedisBlacklist) Get(ctx context.Context, userID string) (*risk.BlacklistEntry, error) {
	data, err := b.client.HGet(ctx, blacklistKey, userID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("blacklist get failed: %w", err)
	}

	var entry risk.BlacklistEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling blacklist entry: %w", err)
	}
	return &entry, nil
}

func (b *RedisBlacklist) Size(ctx context.Context) (int64, error) {
	size, err := b.client.HLen(ctx, blacklistKey).Result()
	if err != nil {
		return 0, fmt.Errorf("blacklist size failed: %w", err)
	}
	return size, nil
}
