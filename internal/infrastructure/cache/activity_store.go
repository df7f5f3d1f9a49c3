package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/davidleathers/payment-risk-engine/internal/domain/risk"
	riskservice "github.com/davidleathers/payment-risk-engine/internal/service/risk"
)

// RedisActivityStore is a Redis-backed ActivityStore. Histories are sorted
// sets scored by timestamp, one per user (transactions) or device
// (sightings); appends trim the set to the cap so the oldest entries are
// evicted first, matching the in-memory store's FIFO discipline.
type RedisActivityStore struct {
	client *redis.Client
	logger *zap.Logger
	cap    int
}

var _ riskservice.ActivityStore = (*RedisActivityStore)(nil)

// NewRedisActivityStore wraps an existing client with the given per-key cap.
func NewRedisActivityStore(client *redis.Client, cap int, logger *zap.Logger) *RedisActivityStore {
	if cap <= 0 {
		cap = riskservice.DefaultHistoryCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisActivityStore{client: client, logger: logger, cap: cap}
}

func (s *RedisActivityStore) AppendTransaction(ctx context.Context, rec risk.TransactionRecord) error {
	return s.append(ctx, txnKeyPrefix+rec.UserID, rec, rec.CreatedAt)
}

func (s *RedisActivityStore) AppendDeviceSighting(ctx context.Context, sighting risk.DeviceSighting) error {
	return s.append(ctx, sightingsPrefix+sighting.DeviceID, sighting, sighting.Timestamp)
}

func (s *RedisActivityStore) append(ctx context.Context, key string, value interface{}, ts time.Time) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(ts.UnixNano()),
		Member: data,
	})
	// Keep only the newest cap entries.
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-s.cap-1))
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("history append failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("history append failed: %w", err)
	}
	return nil
}

func (s *RedisActivityStore) TransactionsSince(ctx context.Context, userID string, since time.Time) ([]risk.TransactionRecord, error) {
	members, err := s.rangeSince(ctx, txnKeyPrefix+userID, &since)
	if err != nil {
		return nil, err
	}
	return unmarshalRecords[risk.TransactionRecord](members)
}

func (s *RedisActivityStore) SightingsSince(ctx context.Context, deviceID string, since time.Time) ([]risk.DeviceSighting, error) {
	members, err := s.rangeSince(ctx, sightingsPrefix+deviceID, &since)
	if err != nil {
		return nil, err
	}
	return unmarshalRecords[risk.DeviceSighting](members)
}

func (s *RedisActivityStore) AllTransactions(ctx context.Context, userID string) ([]risk.TransactionRecord, error) {
	members, err := s.rangeSince(ctx, txnKeyPrefix+userID, nil)
	if err != nil {
		return nil, err
	}
	return unmarshalRecords[risk.TransactionRecord](members)
}

func (s *RedisActivityStore) AllSightings(ctx context.Context, deviceID string) ([]risk.DeviceSighting, error) {
	members, err := s.rangeSince(ctx, sightingsPrefix+deviceID, nil)
	if err != nil {
		return nil, err
	}
	return unmarshalRecords[risk.DeviceSighting](members)
}

func (s *RedisActivityStore) rangeSince(ctx context.Context, key string, since *time.Time) ([]string, error) {
	if since == nil {
		members, err := s.client.ZRange(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("history read failed: %w", err)
		}
		return members, nil
	}

	members, err := s.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixNano(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("history read failed: %w", err)
	}
	return members, nil
}

func unmarshalRecords[T any](members []string) ([]T, error) {
	out := make([]T, 0, len(members))
	for _, member := range members {
		var value T
		if err := json.Unmarshal([]byte(member), &value); err != nil {
			return nil, fmt.Errorf("unmarshaling history entry: %w", err)
		}
		out = append(out, value)
	}
	return out, nil
}
