package session

import (
	"context"
	"time"

	"skill-upcycle/internal/infrastructure/cache"
)

type RedisStore struct {
	cache *cache.Redis
}

func NewRedisStore(c *cache.Redis) *RedisStore {
	return &RedisStore{cache: c}
}

func (s *RedisStore) SaveSession(ctx context.Context, sess Session, ttl time.Duration) error {
	return s.cache.SetJSON(ctx, cache.SessionKey(sess.ID), sess, ttl)
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (Session, error) {
	var out Session
	hit, err := s.cache.GetJSON(ctx, cache.SessionKey(id), &out)
	if err != nil {
		return Session{}, err
	}
	if !hit {
		return Session{}, ErrNotFound
	}
	return out, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, cache.SessionKey(id))
}

func (s *RedisStore) SavePending(ctx context.Context, anonID string, p PendingUpload, ttl time.Duration) error {
	return s.cache.SetJSON(ctx, cache.PendingUploadKey(anonID), p, ttl)
}

func (s *RedisStore) TakePending(ctx context.Context, anonID string) (PendingUpload, bool, error) {
	var out PendingUpload
	hit, err := s.cache.TakeJSON(ctx, cache.PendingUploadKey(anonID), &out)
	if err != nil || !hit {
		return PendingUpload{}, false, err
	}
	return out, true, nil
}

var _ Store = (*RedisStore)(nil)
