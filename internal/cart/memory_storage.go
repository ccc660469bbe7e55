package cart

import (
	"context"
	"sync"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
)

// MemoryStorage is a map-backed Storage for tests and local runs.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		carts: make(map[string][]domain.CartItem),
	}
}

func (s *MemoryStorage) Load(_ context.Context, cartID string) ([]domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.carts[cartID]
	if !ok {
		return []domain.CartItem{}, nil
	}

	items := make([]domain.CartItem, len(stored))
	copy(items, stored)

	return items, nil
}

func (s *MemoryStorage) Save(_ context.Context, cartID string, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]domain.CartItem, len(items))
	copy(stored, items)
	s.carts[cartID] = stored

	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)

	return nil
}
