package player

import (
	"sort"
	"sync"
)

// Handle pairs a session with the event log it reports to.
type Handle struct {
	*Session
	Events *EventLog
}

// Manager keeps named sessions, created on first use.
type Manager struct {
	mu       sync.Mutex
	fetcher  Fetcher
	sessions map[string]*Handle
}

// NewManager returns a Manager whose sessions load through f.
func NewManager(f Fetcher) *Manager {
	return &Manager{fetcher: f, sessions: make(map[string]*Handle)}
}

// Get returns the session named id, starting it if needed.
func (m *Manager) Get(id string) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.sessions[id]; ok {
		return h
	}
	log := NewEventLog()
	h := &Handle{Session: NewSession(m.fetcher, log), Events: log}
	m.sessions[id] = h
	return h
}

// Lookup returns the session named id without creating it.
func (m *Manager) Lookup(id string) (*Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.sessions[id]
	return h, ok
}

// IDs lists the open session names in order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every session.
func (m *Manager) Close() {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.sessions))
	for id, h := range m.sessions {
		handles = append(handles, h)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, h := range handles {
		h.Close()
	}
}
