package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keys conversational state by call id. Implementations must be safe
// for concurrent use; turn ordering within one call is the caller's concern
// (at most one in-flight turn per call id).
type Store interface {
	// Get returns the session for callID, or nil when none exists.
	Get(ctx context.Context, callID string) (*State, error)
	// Put creates or replaces the session for its call id.
	Put(ctx context.Context, state *State) error
	// Delete tears the session down. Deleting an absent session is not an error.
	Delete(ctx context.Context, callID string) error
	// ActiveCallIDs lists call ids with live sessions.
	ActiveCallIDs(ctx context.Context) ([]string, error)
}

// =============================================================================
// Memory store
// =============================================================================

type memoryEntry struct {
	state   *State
	touched time.Time
}

// MemoryStore is the reference in-process store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryEntry)}
}

func (m *MemoryStore) Get(_ context.Context, callID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.sessions[callID]
	if !ok {
		return nil, nil
	}
	return entry.state, nil
}

func (m *MemoryStore) Put(_ context.Context, state *State) error {
	if state == nil || state.CallID == "" {
		return errors.New("session: state must have a call id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[state.CallID] = &memoryEntry{state: state, touched: time.Now()}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callID)
	return nil
}

func (m *MemoryStore) ActiveCallIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// SweepStale deletes sessions untouched for longer than ttl and returns how
// many were removed. Driven by the scheduler.
func (m *MemoryStore) SweepStale(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, entry := range m.sessions {
		if entry.touched.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// =============================================================================
// Redis store
// =============================================================================

const redisKeyPrefix = "session:"

// RedisStore persists sessions as JSON values with a TTL, so state survives
// process restarts mid-call. Staleness is handled by Redis expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store backed by the Redis instance at redisURL.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opt), ttl: ttl}, nil
}

func (r *RedisStore) Get(ctx context.Context, callID string) (*State, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+callID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("session: decode state: %w", err)
	}
	return &state, nil
}

func (r *RedisStore) Put(ctx context.Context, state *State) error {
	if state == nil || state.CallID == "" {
		return errors.New("session: state must have a call id")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+state.CallID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, callID string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+callID).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

func (r *RedisStore) ActiveCallIDs(ctx context.Context) ([]string, error) {
	keys, err := r.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("session: redis keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, key[len(redisKeyPrefix):])
	}
	return ids, nil
}

// Close releases the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
