package session

import (
	"sync"
	"time"

	"qr-registry/core/listing"
	"qr-registry/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager tracks live sessions by id. All sessions share one engine and listing.
type Manager struct {
	engine  Engine
	listing *listing.Cache
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	onSaved  func(id string, rec reconcile.Record)
}

// NewManager creates a session manager. Timeout bounds each session operation; zero disables it.
func NewManager(engine Engine, cache *listing.Cache, logger *zap.Logger, timeout time.Duration) *Manager {
	return &Manager{
		engine:   engine,
		listing:  cache,
		logger:   logger,
		timeout:  timeout,
		sessions: make(map[string]*Session),
	}
}

// OnSaved sets the hook sessions created afterwards run after a successful commit.
func (m *Manager) OnSaved(fn func(id string, rec reconcile.Record)) {
	m.mu.Lock()
	m.onSaved = fn
	m.mu.Unlock()
}

// Create mounts a new session in the Idle phase.
func (m *Manager) Create() *Session {
	opts := []Option{WithID(uuid.New().String()), WithTimeout(m.timeout)}

	m.mu.Lock()
	if m.onSaved != nil {
		opts = append(opts, WithSavedHook(m.onSaved))
	}
	s := New(m.engine, m.listing, m.logger, opts...)
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.logger.Debug("Session created", zap.String("session", s.ID()))
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close unmounts a session. It reports false when the id is unknown.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	m.logger.Debug("Session closed", zap.String("session", id))
	return true
}

// Expire closes idle sessions untouched for longer than ttl and returns their ids.
func (m *Manager) Expire(ttl time.Duration) []string {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.Touched().Before(cutoff) && !s.State().Busy() {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	ids := make([]string, 0, len(stale))
	for _, s := range stale {
		s.Close()
		ids = append(ids, s.ID())
	}
	if len(ids) > 0 {
		m.logger.Info("Expired idle sessions", zap.Int("count", len(ids)))
	}
	return ids
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
