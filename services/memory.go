package services

import (
	"context"
	"sync"

	"quizengine/models"
	"quizengine/session"

	"github.com/pkg/errors"
)

// MemoryAttemptRepository keeps attempts in process memory.
type MemoryAttemptRepository struct {
	mu       sync.RWMutex
	attempts map[string]models.Attempt
	answers  map[string][]session.Answer
}

func NewMemoryAttemptRepository() *MemoryAttemptRepository {
	return &MemoryAttemptRepository{
		attempts: map[string]models.Attempt{},
		answers:  map[string][]session.Answer{},
	}
}

func (m *MemoryAttemptRepository) Create(_ context.Context, attempt *models.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[attempt.ID]; ok {
		return errors.Errorf("attempt %s already exists", attempt.ID)
	}
	m.attempts[attempt.ID] = *attempt
	return nil
}

func (m *MemoryAttemptRepository) Get(_ context.Context, attemptID string) (*models.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return nil, errors.Wrapf(ErrAttemptNotFound, "attempt %s", attemptID)
	}
	return &a, nil
}

func (m *MemoryAttemptRepository) RecordAnswer(_ context.Context, attemptID string, answer session.Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.answers[attemptID] {
		if a.QuestionID == answer.QuestionID {
			return errors.Errorf("question %d already answered in attempt %s", answer.QuestionID, attemptID)
		}
	}
	m.answers[attemptID] = append(m.answers[attemptID], answer)
	return nil
}

func (m *MemoryAttemptRepository) Answers(_ context.Context, attemptID string) ([]session.Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]session.Answer, len(m.answers[attemptID]))
	copy(out, m.answers[attemptID])
	return out, nil
}

// MemoryStateStore is a StateStore without expiry.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]AttemptState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: map[string]AttemptState{}}
}

func (m *MemoryStateStore) Save(_ context.Context, state *AttemptState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.AttemptID] = *state
	return nil
}

func (m *MemoryStateStore) Load(_ context.Context, attemptID string) (*AttemptState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[attemptID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStateStore) Delete(attemptID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, attemptID)
}
