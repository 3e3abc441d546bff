package paywall

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStateNotFound is returned by a Store when nothing was saved for a session.
var ErrStateNotFound = errors.New("paywall state not found")

type Store interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, sessionID string, state State) error
}

func storageKey(prefix, sessionID string) string {
	if sessionID == "" {
		return prefix
	}
	return prefix + ":" + sessionID
}

// RedisStore keeps one JSON blob per session, overwritten wholesale on save.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a store. An empty prefix means StorageKey; a zero ttl
// keeps state until it is deleted.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = StorageKey
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) Key(sessionID string) string {
	return storageKey(s.prefix, sessionID)
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (State, error) {
	val, err := s.client.Get(ctx, s.Key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return DefaultState(), ErrStateNotFound
	}
	if err != nil {
		return DefaultState(), fmt.Errorf("redis get: %w", err)
	}
	st, err := Decode([]byte(val))
	if err != nil {
		return DefaultState(), fmt.Errorf("decode paywall state: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, state State) error {
	data, err := Encode(state)
	if err != nil {
		return fmt.Errorf("encode paywall state: %w", err)
	}
	if err := s.client.Set(ctx, s.Key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store holding encoded blobs, so it exercises
// the same wire format as RedisStore.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (State, error) {
	m.mu.Lock()
	data, ok := m.blobs[storageKey(StorageKey, sessionID)]
	m.mu.Unlock()
	if !ok {
		return DefaultState(), ErrStateNotFound
	}
	return Decode(data)
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, state State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[storageKey(StorageKey, sessionID)] = data
	m.mu.Unlock()
	return nil
}

// Put stores a raw blob, bypassing encoding.
func (m *MemoryStore) Put(sessionID string, raw []byte) {
	m.mu.Lock()
	m.blobs[storageKey(StorageKey, sessionID)] = raw
	m.mu.Unlock()
}
