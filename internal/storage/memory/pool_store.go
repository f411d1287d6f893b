package memory

import (
	"context"
	"sync"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// PoolStore is an in-memory implementation of storage.PoolStore.
type PoolStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.LendingPool
	order []string // insertion order, for stable scans
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{data: make(map[string]*domain.LendingPool)}
}

var _ storage.PoolStore = (*PoolStore)(nil)

// Insert adds a new pool. Returns ErrDuplicateKey if the id exists.
func (s *PoolStore) Insert(_ context.Context, p *domain.LendingPool) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *p
	s.data[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return nil
}

// GetByID retrieves a pool by address. Returns ErrNotFound if absent.
func (s *PoolStore) GetByID(_ context.Context, id string) (*domain.LendingPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// List retrieves all pools in insertion order.
func (s *PoolStore) List(_ context.Context) ([]*domain.LendingPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.LendingPool, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.data[id]
		result = append(result, &cp)
	}
	return result, nil
}
