package booking

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"clinicore/pkg/platform/sentinel"
)

// InMemoryStore keeps appointments in a map. Used by tests and dev mode.
type InMemoryStore struct {
	mu    sync.RWMutex
	appts map[uuid.UUID]Appointment
}

// NewInMemoryStore creates an empty appointment store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{appts: make(map[uuid.UUID]Appointment)}
}

func (s *InMemoryStore) Save(_ context.Context, appt *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appts[appt.ID] = *appt
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if appt, ok := s.appts[id]; ok {
		copied := appt
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}
