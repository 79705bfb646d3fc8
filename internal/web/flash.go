package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	flashKeyPrefix  = "flash:"
	defaultFlashTTL = time.Minute
)

// FlashStore keeps one-shot notices ("Item created") in Redis, keyed by a
// random id carried in a short-lived cookie.
type FlashStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFlashStore returns a new flash store.
func NewFlashStore(rdb *redis.Client, ttl time.Duration) *FlashStore {
	if ttl <= 0 {
		ttl = defaultFlashTTL
	}
	return &FlashStore{rdb: rdb, ttl: ttl}
}

// Put stores a notice and returns its ID.
func (s *FlashStore) Put(ctx context.Context, msg string) (string, error) {
	id, err := newFlashID()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, flashKeyPrefix+id, msg, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Pop returns the notice for id and deletes it. Empty string if missing.
func (s *FlashStore) Pop(ctx context.Context, id string) (string, error) {
	msg, err := s.rdb.GetDel(ctx, flashKeyPrefix+id).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return msg, nil
}

func newFlashID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
