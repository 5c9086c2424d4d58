package drafts

import (
	"context"
	"sync"
	"time"

	"github.com/warp/wage-engine/labor"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	sessions map[string]map[Step]StepDraft
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]map[Step]StepDraft),
		now:      time.Now,
	}
}

// Save replaces the staged payload of a step.
func (m *Memory) Save(_ context.Context, d StepDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	steps, ok := m.sessions[d.SessionID]
	if !ok {
		steps = make(map[Step]StepDraft)
		m.sessions[d.SessionID] = steps
	}
	d.Payload = append([]byte(nil), d.Payload...)
	d.UpdatedAt = m.now().UTC()
	steps[d.Step] = d
	return nil
}

func (m *Memory) Load(_ context.Context, sessionID string, step Step) (StepDraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.sessions[sessionID][step]
	if !ok {
		return StepDraft{}, labor.ErrDraftNotFound
	}
	return d, nil
}

func (m *Memory) List(_ context.Context, sessionID string) ([]StepDraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]StepDraft, 0, len(m.sessions[sessionID]))
	for _, d := range m.sessions[sessionID] {
		out = append(out, d)
	}
	SortSteps(out)
	return out, nil
}

// Delete drops every step of a session. Deleting an unknown session is not an error.
func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
