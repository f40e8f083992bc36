package store

import (
	"context"
	"sync"

	"skibazar/internal/registration/models"
	"skibazar/pkg/platform/sentinel"
)

// InMemoryStore keeps registrations in a mutex-guarded map. Insertion order
// is tracked separately so ListAll matches the relational store's ordering.
type InMemoryStore struct {
	mu            sync.RWMutex
	registrations map[string]*models.Registration
	order         []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{registrations: make(map[string]*models.Registration)}
}

func (s *InMemoryStore) Create(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.registrations[reg.Identifier]; exists {
		return sentinel.ErrConflict
	}
	s.registrations[reg.Identifier] = clone(reg)
	s.order = append(s.order, reg.Identifier)
	return nil
}

func (s *InMemoryStore) GetByIdentifier(_ context.Context, identifier string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[identifier]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(reg), nil
}

func (s *InMemoryStore) Replace(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.registrations[reg.Identifier]
	if !ok {
		return sentinel.ErrNotFound
	}
	updated := clone(reg)
	updated.CreatedAt = existing.CreatedAt
	s.registrations[reg.Identifier] = updated
	return nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.Registration, 0, len(s.order))
	for _, identifier := range s.order {
		result = append(result, clone(s.registrations[identifier]))
	}
	return result, nil
}

// clone copies a registration so callers never share item slices with the
// store's internal state.
func clone(reg *models.Registration) *models.Registration {
	copied := *reg
	copied.Items = append([]models.LineItem{}, reg.Items...)
	return &copied
}
