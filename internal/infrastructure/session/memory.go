package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps checkout sessions in process memory. Used in tests and
// when no Redis URL is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

type memoryEntry struct {
	session   CheckoutSession
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}
}

func (s *MemoryStore) Get(ctx context.Context, orderID string) (*CheckoutSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[orderID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

func (s *MemoryStore) Save(ctx context.Context, session *CheckoutSession) error {
	session.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.OrderID] = memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, orderID)
	return nil
}
