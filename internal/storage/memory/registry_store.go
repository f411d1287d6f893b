package memory

import (
	"context"
	"sync"

	"github.com/wildanre/ponder-etherlink/internal/domain"
	"github.com/wildanre/ponder-etherlink/internal/storage"
)

// TokenSenderStore is an in-memory implementation of storage.TokenSenderStore.
type TokenSenderStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.BasicTokenSender
	order []string
}

// NewTokenSenderStore creates a new in-memory token sender store.
func NewTokenSenderStore() *TokenSenderStore {
	return &TokenSenderStore{data: make(map[string]*domain.BasicTokenSender)}
}

var _ storage.TokenSenderStore = (*TokenSenderStore)(nil)

func (s *TokenSenderStore) Insert(_ context.Context, rec *domain.BasicTokenSender) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *rec
	s.data[rec.ID] = &cp
	s.order = append(s.order, rec.ID)
	return nil
}

func (s *TokenSenderStore) GetByID(_ context.Context, id string) (*domain.BasicTokenSender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *TokenSenderStore) List(_ context.Context) ([]*domain.BasicTokenSender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BasicTokenSender, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.data[id]
		result = append(result, &cp)
	}
	return result, nil
}

// DataStreamStore is an in-memory implementation of storage.DataStreamStore.
type DataStreamStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.PriceDataStream
	order []string
}

// NewDataStreamStore creates a new in-memory data stream store.
func NewDataStreamStore() *DataStreamStore {
	return &DataStreamStore{data: make(map[string]*domain.PriceDataStream)}
}

var _ storage.DataStreamStore = (*DataStreamStore)(nil)

func (s *DataStreamStore) Insert(_ context.Context, rec *domain.PriceDataStream) error {
	if rec == nil || rec.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *rec
	s.data[rec.ID] = &cp
	s.order = append(s.order, rec.ID)
	return nil
}

func (s *DataStreamStore) GetByID(_ context.Context, id string) (*domain.PriceDataStream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *DataStreamStore) List(_ context.Context) ([]*domain.PriceDataStream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PriceDataStream, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.data[id]
		result = append(result, &cp)
	}
	return result, nil
}
