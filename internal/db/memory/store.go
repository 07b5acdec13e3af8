// Package memory is an in-process db.Store for single-instance deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/stylesearch/internal/db"
)

var _ db.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// sweepInterval is the minimum time between full scans for expired keys.
const sweepInterval = time.Minute

// Store keeps values in a map guarded by a mutex. Expired keys are removed
// when read, and by a sweep on writes at most once per sweepInterval, so keys
// that are never read again do not accumulate.
type Store struct {
	mu        sync.Mutex
	data      map[string]entry
	now       func() time.Time
	lastSweep time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]entry), now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close drops all keys.
func (s *Store) Close() {
	s.mu.Lock()
	s.data = make(map[string]entry)
	s.mu.Unlock()
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// Get retrieves a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = entry{value: append([]byte(nil), value...)}
	s.mu.Unlock()
	return nil
}

// SetWithTTL stores a value that expires after ttl. A non-positive ttl means no expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.data[key] = e
	return nil
}

// Len returns the number of stored keys, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *Store) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for k, e := range s.data {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.data, k)
		}
	}
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
