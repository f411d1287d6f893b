package memory

import (
	"context"
	"sync"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// ActivityStore is an in-memory implementation of storage.ActivityStore.
// Scan order is insertion order, which keeps pagination reproducible.
type ActivityStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.Activity
	order []string
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{data: make(map[string]*domain.Activity)}
}

var _ storage.ActivityStore = (*ActivityStore)(nil)

// Insert appends a new activity. Returns ErrDuplicateKey if the id exists.
func (s *ActivityStore) Insert(_ context.Context, a *domain.Activity) error {
	if a == nil || a.ID == "" || !a.Type.Valid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *a
	s.data[a.ID] = &cp
	s.order = append(s.order, a.ID)
	return nil
}

// GetByID retrieves an activity by id. Returns ErrNotFound if absent.
func (s *ActivityStore) GetByID(_ context.Context, id string) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// List retrieves the full ledger in insertion order.
func (s *ActivityStore) List(_ context.Context) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Activity, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.data[id]
		result = append(result, &cp)
	}
	return result, nil
}
