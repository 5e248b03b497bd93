package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore реализует service.ProcessedNotificationsStore поверх Redis
// Переживает рестарты и разделяется между инстансами API
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore создаёт новый Redis store
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger,
	}
}

func processedKey(key string) string {
	return fmt.Sprintf("processed:notification:%s", key)
}

// MarkProcessed сохраняет key как обработанный с TTL
// SET без условий: повторный Mark того же ключа просто продлевает TTL
func (s *RedisStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) error {
	err := s.client.Set(ctx, processedKey(key), 1, ttl).Err()
	if err != nil {
		s.logger.Error("failed to mark notification as processed in redis",
			zap.Error(err),
		)
		return fmt.Errorf("failed to mark processed: %w", err)
	}

	s.logger.Debug("notification marked as processed",
		zap.Duration("ttl", ttl),
	)
	return nil
}

// IsProcessed проверяет, был ли key уже обработан и не истёк ли TTL
func (s *RedisStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Get(ctx, processedKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		s.logger.Error("failed to check processed notification in redis",
			zap.Error(err),
		)
		return false, fmt.Errorf("failed to check processed: %w", err)
	}
	return true, nil
}
