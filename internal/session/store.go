package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound means the id resolved cleanly to "no such session".
	ErrNotFound = errors.New("session not found")

	// ErrLookup means the store itself could not answer.  The session
	// guard treats this as unauthenticated (fail closed); the guest gate
	// logs it and renders anyway (fail open).
	ErrLookup = errors.New("session lookup failed")
)

// Store is the source of session truth consulted on every guarded request.
type Store interface {
	Create(ctx context.Context, sid string, s Session) error
	Get(ctx context.Context, sid string) (Session, error)
	Delete(ctx context.Context, sid string) error
}

// RedisStore keeps sessions as JSON values under a ttl'd key per session id.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(sid string) string { return "sess:" + sid }

func (r *RedisStore) Create(ctx context.Context, sid string, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, key(sid), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrLookup, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sid string) (Session, error) {
	data, err := r.rdb.Get(ctx, key(sid)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := r.rdb.Del(ctx, key(sid)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrLookup, err)
	}
	return nil
}
