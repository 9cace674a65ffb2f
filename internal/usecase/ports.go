package usecase

import (
	"context"
	"sync"
	"time"
)

// Cache is the subset of the Redis cache the usecases rely on.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateUser(ctx context.Context, userID int64) error
}

type Locker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Publisher pushes events to websocket topics.
type Publisher interface {
	PublishJSON(topic string, v any) error
}

// LocalLocker is an in-process Locker used when Redis is unavailable.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: map[string]time.Time{}, now: time.Now}
}

func (l *LocalLocker) SetIfNotExists(_ context.Context, key string, _ string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if exp, ok := l.locks[key]; ok && (exp.IsZero() || now.Before(exp)) {
		return false, nil
	}
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	l.locks[key] = exp
	return true, nil
}

func (l *LocalLocker) Delete(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (noopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) InvalidateUser(context.Context, int64) error               { return nil }

type noopPublisher struct{}

func (noopPublisher) PublishJSON(string, any) error { return nil }
