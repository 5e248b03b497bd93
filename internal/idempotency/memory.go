package idempotency

import (
	"context"
	"sync"
	"time"
)

// MemoryStore реализует service.ProcessedNotificationsStore используя in-memory map
// Используется для dev/test окружений. В production заменяется на Redis:
// без общего хранилища повторная доставка после рестарта применится заново
// (безопасно, но шумно)
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]time.Time // signature_key -> expiresAt
}

// NewMemoryStore создаёт новый in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys: make(map[string]time.Time),
	}
}

// MarkProcessed сохраняет key как обработанный с указанным ttl
func (s *MemoryStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ленивая очистка протухших записей
	s.cleanupExpiredLocked()

	s.keys[key] = time.Now().Add(ttl)
	return nil
}

// IsProcessed проверяет, был ли key уже обработан
func (s *MemoryStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, exists := s.keys[key]
	if !exists {
		return false, nil
	}

	if time.Now().After(expiresAt) {
		delete(s.keys, key)
		return false, nil
	}

	return true, nil
}

// cleanupExpiredLocked удаляет протухшие записи (вызывается с захваченным lock)
func (s *MemoryStore) cleanupExpiredLocked() {
	now := time.Now()
	for key, expiresAt := range s.keys {
		if now.After(expiresAt) {
			delete(s.keys, key)
		}
	}
}
