// Package session tracks active quiz sessions. Each session owns at
// most one page-fetcher resource, acquired lazily on first fetch and
// released exactly once on any exit path.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"QuizSolver/internal/ports"
)

// Session is one end-to-end attempt to solve a chain of linked
// questions starting from one URL. Mutated only by the loop driving it.
type Session struct {
	ID        string
	Email     string
	Secret    string
	StartURL  string
	StartedAt time.Time

	mu         sync.Mutex
	currentURL string
	fetcher    ports.PageFetcher
	newFetcher func() ports.PageFetcher
	closed     bool
}

// Credentials returns the account identity the session solves for.
func (s *Session) Credentials() ports.Credentials {
	return ports.Credentials{Email: s.Email, Secret: s.Secret}
}

// CurrentURL reports the question URL the session is on.
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentURL
}

// Advance moves the session to the next question URL.
func (s *Session) Advance(nextURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentURL = nextURL
}

// Fetcher lazily acquires the session's page fetcher. A closed session
// returns nil.
func (s *Session) Fetcher() ports.PageFetcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.fetcher == nil {
		s.fetcher = s.newFetcher()
	}
	return s.fetcher
}

// Close releases the owned fetcher. Safe to call more than once; the
// resource is released exactly once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.fetcher != nil {
		_ = s.fetcher.Close()
		s.fetcher = nil
	}
}

// Manager is the process-wide registry of active sessions. Entries are
// owned exclusively by the task that created them; the shutdown sweep
// is the only cross-task reader.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	newFetcher func() ports.PageFetcher
	logger     *slog.Logger
}

// NewManager builds a registry; newFetcher produces the page-fetcher
// resource a session acquires on first use.
func NewManager(newFetcher func() ports.PageFetcher, logger *slog.Logger) *Manager {
	return &Manager{
		sessions:   map[string]*Session{},
		newFetcher: newFetcher,
		logger:     logger,
	}
}

// Open registers a new session for an accepted quiz task.
func (m *Manager) Open(email, secret, startURL string) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		Email:      email,
		Secret:     secret,
		StartURL:   startURL,
		StartedAt:  time.Now(),
		currentURL: startURL,
		newFetcher: m.newFetcher,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("session opened", "session_id", s.ID, "url", startURL)
	}
	return s
}

// Remove closes a session's resources and drops it from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.Close()
		if m.logger != nil {
			m.logger.Info("session removed", "session_id", id)
		}
	}
}

// Len reports the number of active sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown drains the registry and force-closes every session's
// fetcher resource.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	drained := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		drained = append(drained, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range drained {
		s.Close()
	}
	if m.logger != nil && len(drained) > 0 {
		m.logger.Info("shutdown sweep closed sessions", "count", len(drained))
	}
}
