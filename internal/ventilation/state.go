package ventilation

import (
	"context"
	"sync"
	"time"
)

// State is the last command sent for an action.
type State struct {
	On        bool      `json:"on"`
	ProgramID string    `json:"program_id,omitempty"`
	Until     time.Time `json:"until,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Same reports whether two states would command the equipment identically.
func (s State) Same(o State) bool {
	return s.On == o.On && s.ProgramID == o.ProgramID && s.Until.Equal(o.Until)
}

// StateStore remembers the last state per action so restarts do not resend it.
type StateStore interface {
	Load(ctx context.Context, action string) (State, bool, error)
	Save(ctx context.Context, action string, s State) error
}

// MemoryStates is a process-local StateStore.
type MemoryStates struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStates() *MemoryStates {
	return &MemoryStates{states: make(map[string]State)}
}

func (m *MemoryStates) Load(_ context.Context, action string) (State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[action]
	return s, ok, nil
}

func (m *MemoryStates) Save(_ context.Context, action string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[action] = s
	return nil
}
