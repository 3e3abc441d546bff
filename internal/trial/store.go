package trial

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const StorageKey = "apartmentiq_trial"

var ErrNotFound = errors.New("trial not found")

type Store interface {
	Load(ctx context.Context, sessionID string) (*Status, error)
	Save(ctx context.Context, sessionID string, status Status) error
}

type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = StorageKey
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Status, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var st Status
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, fmt.Errorf("decode trial: %w", err)
	}
	return &st, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, status Status) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode trial: %w", err)
	}
	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

type MemoryStore struct {
	mu   sync.Mutex
	data map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Status)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.data[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = status
	return nil
}
