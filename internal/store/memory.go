package store

import (
	"crypto/rand"
	"sync"
	"time"

	"mtgfactory/internal/deck"
)

const sessionIDLength = 16

type session struct {
	decks    *deck.Set
	lastSeen time.Time
}

// MemoryStore holds every session's decks in memory
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	maxEntries  int
	idleTimeout time.Duration
	now         func() time.Time
}

// NewMemoryStore creates a new in-memory store. Sessions idle longer than
// idleTimeout are dropped by Sweep; zero keeps them forever.
func NewMemoryStore(maxEntries int, idleTimeout time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]*session),
		maxEntries:  maxEntries,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Decks returns the deck set of a session, creating it on first use
func (s *MemoryStore) Decks(sessionID string) *deck.Set {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{decks: deck.NewSet(s.maxEntries)}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = s.now()
	return sess.decks
}

// Exists reports whether the session has decks
func (s *MemoryStore) Exists(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionID]
	return ok
}

// Touch marks a session as active
func (s *MemoryStore) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = s.now()
	}
}

// Sweep drops sessions idle since before now-idleTimeout and returns how
// many were removed
func (s *MemoryStore) Sweep(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.idleTimeout)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len is the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NewSessionID generates a random 16-character session id
func NewSessionID() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, sessionIDLength)
	rand.Read(b)

	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}

	return string(b)
}

// ValidSessionID reports whether id looks like one from NewSessionID
func ValidSessionID(id string) bool {
	if len(id) != sessionIDLength {
		return false
	}
	for _, c := range id {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
