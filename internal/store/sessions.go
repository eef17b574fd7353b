package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atikulmunna/gastroguard/internal/model"
)

// Defaults for SessionLimits used by the server config.
const (
	DefaultMaxSessions = 1000
	DefaultSessionIdle = 24 * time.Hour
)

// SessionLimits bounds the registry. A zero field disables that limit.
type SessionLimits struct {
	Max  int           // live sessions; the least recently used is evicted first
	Idle time.Duration // sessions unused for this long are dropped
}

type session struct {
	store    *Memory
	lastSeen time.Time
}

// Sessions gives every web session its own in-memory table. Nothing is
// shared between sessions.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	seed     func() []model.LogEntry
	limits   SessionLimits
	now      func() time.Time
}

// NewSessions returns an empty session registry. When seed is non-nil, each
// new session starts with a copy of the entries it returns.
func NewSessions(seed func() []model.LogEntry, limits SessionLimits) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		seed:     seed,
		limits:   limits,
		now:      time.Now,
	}
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// Get returns the store for id, creating it on first use. Creating a
// session first drops idle ones and, at capacity, the least recently used.
func (s *Sessions) Get(id string) *Memory {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess.store
	}

	s.evict(now)

	var seed []model.LogEntry
	if s.seed != nil {
		seed = s.seed()
	}
	m := NewMemory(seed...)
	s.sessions[id] = &session{store: m, lastSeen: now}
	return m
}

// evict must be called with mu held.
func (s *Sessions) evict(now time.Time) {
	if s.limits.Idle > 0 {
		for id, sess := range s.sessions {
			if now.Sub(sess.lastSeen) >= s.limits.Idle {
				delete(s.sessions, id)
			}
		}
	}
	for s.limits.Max > 0 && len(s.sessions) >= s.limits.Max {
		var oldest string
		var oldestSeen time.Time
		for id, sess := range s.sessions {
			if oldest == "" || sess.lastSeen.Before(oldestSeen) {
				oldest, oldestSeen = id, sess.lastSeen
			}
		}
		delete(s.sessions, oldest)
	}
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
