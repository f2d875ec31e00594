package wizard

import "sync"

// Manager holds one Session per login token. State never migrates between
// tokens; logout removes it.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	build    func(centerName string) *Definition
}

func NewManager(build func(centerName string) *Definition) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		build:    build,
	}
}

// Get returns the token's session, creating it on first use. The center name
// feeds the definition's conditional steps.
func (m *Manager) Get(token, centerName string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		return s
	}
	s := NewSession(m.build(centerName))
	m.sessions[token] = s
	return s
}

func (m *Manager) Remove(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}
