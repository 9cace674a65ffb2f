package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	val       T
	expiresAt time.Time
}

func (e memoryEntry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore keeps sessions in process. It is used in tests and when Redis
// is unreachable; state does not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry[Session]
	pending  map[string]memoryEntry[PendingUpload]
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string]memoryEntry[Session]{},
		pending:  map[string]memoryEntry[PendingUpload]{},
		now:      time.Now,
	}
}

func (m *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryStore) SaveSession(_ context.Context, s Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memoryEntry[Session]{val: s, expiresAt: m.expiry(ttl)}
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if e.expired(m.now()) {
		delete(m.sessions, id)
		return Session{}, ErrNotFound
	}
	return e.val, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) SavePending(_ context.Context, anonID string, p PendingUpload, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[anonID] = memoryEntry[PendingUpload]{val: p, expiresAt: m.expiry(ttl)}
	return nil
}

func (m *MemoryStore) TakePending(_ context.Context, anonID string) (PendingUpload, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.pending[anonID]
	if !ok {
		return PendingUpload{}, false, nil
	}
	delete(m.pending, anonID)
	if e.expired(m.now()) {
		return PendingUpload{}, false, nil
	}
	return e.val, true, nil
}

var _ Store = (*MemoryStore)(nil)
