package otp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoCode is returned when no live code exists for a phone.
var ErrNoCode = errors.New("otp: no active code")

// Store holds hashed codes until they expire. Fail counts wrong guesses against the live
// code and returns the new total; Put and Delete reset it.
type Store interface {
	Put(ctx context.Context, phone, hash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Fail(ctx context.Context, phone string) (int, error)
	Delete(ctx context.Context, phone string) error
}

func storeKey(phone string) string {
	return "otp:" + phone
}

func attemptsKey(phone string) string {
	return "otp:attempts:" + phone
}

// RedisStore keeps codes in redis with native expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, phone, hash string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, storeKey(phone), hash, ttl)
	pipe.Del(ctx, attemptsKey(phone))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, phone string) (string, error) {
	hash, err := s.client.Get(ctx, storeKey(phone)).Result()
	if err == redis.Nil {
		return "", ErrNoCode
	}
	return hash, err
}

// Fail expires the counter together with the code it belongs to.
func (s *RedisStore) Fail(ctx context.Context, phone string) (int, error) {
	ttl, err := s.client.PTTL(ctx, storeKey(phone)).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, ErrNoCode
	}
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, attemptsKey(phone))
	pipe.PExpire(ctx, attemptsKey(phone), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, storeKey(phone), attemptsKey(phone)).Err()
}

type memoryEntry struct {
	hash     string
	expires  time.Time
	attempts int
}

// MemoryStore is the in-process fallback.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Put(_ context.Context, phone, hash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[storeKey(phone)] = memoryEntry{hash: hash, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.liveLocked(phone)
	if !ok {
		return "", ErrNoCode
	}
	return e.hash, nil
}

func (s *MemoryStore) Fail(_ context.Context, phone string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.liveLocked(phone)
	if !ok {
		return 0, ErrNoCode
	}
	e.attempts++
	s.entries[storeKey(phone)] = e
	return e.attempts, nil
}

func (s *MemoryStore) liveLocked(phone string) (memoryEntry, bool) {
	key := storeKey(phone)
	e, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (s *MemoryStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, storeKey(phone))
	return nil
}
