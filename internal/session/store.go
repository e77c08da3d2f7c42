package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/s0lar1s/kolichka/internal/store"
	"github.com/s0lar1s/kolichka/pkg/domain"
)

// Store holds the persisted session blob. It is loaded once when opened and
// written back wholesale on every change. Store is the client's TokenSource:
// the bearer token is read from here at request-build time.
type Store struct {
	mu      sync.RWMutex
	kv      *store.KV
	current domain.Session
}

// NewStore loads the persisted session from kv. A missing or corrupt blob
// yields an empty (unauthenticated) session rather than an error.
func NewStore(kv *store.KV) *Store {
	s := &Store{kv: kv}

	raw, ok, err := kv.Get(store.KeySession)
	if err != nil || !ok {
		return s
	}
	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return s
	}
	s.current = sess
	return s
}

// Current returns the session as of the last write.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AccessToken implements client.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

// Replace overwrites the session wholesale, in memory and on disk.
func (s *Store) Replace(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session.Replace: marshal: %w", err)
	}
	if err := s.kv.Set(store.KeySession, string(data)); err != nil {
		return fmt.Errorf("session.Replace: persist: %w", err)
	}
	s.current = sess
	return nil
}

// Clear resets the session to the unauthenticated state and persists the clear.
func (s *Store) Clear() error {
	return s.Replace(domain.Session{})
}
