// Package session provides the ephemeral per-dialog USSD session store.
//
// USSD gateways serialize turns within one dialog, so a session is never
// mutated concurrently by the gateway's contract; the store still guards its
// map because different dialogs run fully in parallel.
package session

import (
	"sync"
	"time"

	"github.com/umurima-rw/umurima/internal/domain"
)

// Store holds dialog state between USSD turns. Implementations must be safe
// for concurrent use across dialogs.
type Store interface {
	// Get returns the session for the id, creating one with defaults if
	// absent. It never fails: an unknown id simply starts a new dialog.
	Get(sessionID string) *domain.Session

	// Update applies the mutator to the stored session under the store's
	// lock. The session is created first if absent.
	Update(sessionID string, mutate func(*domain.Session))

	// Clear removes the session. Clearing an absent id is a no-op.
	Clear(sessionID string)

	// Len returns the number of live sessions.
	Len() int
}

type entry struct {
	session   *domain.Session
	touchedAt time.Time
}

// MemoryStore is an in-memory Store backed by a mutex-guarded map.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	defaultLang domain.Language
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory session store. New sessions
// start at language selection with the given default locale.
func NewMemoryStore(defaultLang domain.Language) *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]*entry),
		defaultLang: defaultLang,
		now:         time.Now,
	}
}

func (m *MemoryStore) newSession(sessionID string) *domain.Session {
	return &domain.Session{
		ID:       sessionID,
		Language: m.defaultLang,
		State:    domain.StateLanguageSelection,
	}
}

// Get returns the session for the id, creating one with defaults if absent.
func (m *MemoryStore) Get(sessionID string) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{session: m.newSession(sessionID)}
		m.sessions[sessionID] = e
	}
	e.touchedAt = m.now()

	// Hand out a copy so callers mutate through Update, not shared state.
	copied := *e.session
	return &copied
}

// Update applies the mutator to the stored session under the store's lock.
func (m *MemoryStore) Update(sessionID string, mutate func(*domain.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{session: m.newSession(sessionID)}
		m.sessions[sessionID] = e
	}
	e.touchedAt = m.now()
	mutate(e.session)
}

// Clear removes the session. Clearing an absent id is a no-op.
func (m *MemoryStore) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// sweep drops sessions idle longer than ttl and returns how many were removed.
func (m *MemoryStore) sweep(ttl time.Duration) int {
	threshold := m.now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.sessions {
		if e.touchedAt.Before(threshold) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
