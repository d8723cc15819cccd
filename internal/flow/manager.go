package flow

import (
	"sync"

	"lms-quiz-service/internal/models"

	"github.com/google/uuid"
)

// Manager owns the live sessions. Flows are in-memory only and scoped to
// this process; closing one releases its countdown.
type Manager struct {
	mu    sync.RWMutex
	flows map[string]*Flow
}

func NewManager() *Manager {
	return &Manager{flows: map[string]*Flow{}}
}

// Open creates a session for one user on one quiz. attempts must be the
// user's prior attempts, most recent first, so the gate can count them.
func (m *Manager) Open(quiz *models.Quiz, userID string, mode Mode, attempts []models.Attempt, submitter Submitter) *Flow {
	f := newFlow(uuid.NewString(), quiz, userID, mode, attempts, submitter)
	m.mu.Lock()
	m.flows[f.id] = f
	m.mu.Unlock()
	return f
}

func (m *Manager) Get(id string) (*Flow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flows[id]
	return f, ok
}

// Close tears down a session and forgets it. Reports whether it existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	f, ok := m.flows[id]
	delete(m.flows, id)
	m.mu.Unlock()
	if ok {
		f.Close()
	}
	return ok
}
