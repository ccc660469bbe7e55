package cart

import (
	"context"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
)

// Storage persists a cart under its id. Implementations own the namespace
// and TTL; the store never touches raw keys.
type Storage interface {
	Load(ctx context.Context, cartID string) ([]domain.CartItem, error)
	Save(ctx context.Context, cartID string, items []domain.CartItem) error
	Delete(ctx context.Context, cartID string) error
}

// Notifier receives the user-facing cart events. Rehydrating a cart from
// storage never notifies; only explicit mutations do.
type Notifier interface {
	ItemAdded(item domain.CartItem)
	QuantityUpdated(item domain.CartItem)
	ItemRemoved(item domain.CartItem)
}

type noopNotifier struct{}

func (noopNotifier) ItemAdded(domain.CartItem)       {}
func (noopNotifier) QuantityUpdated(domain.CartItem) {}
func (noopNotifier) ItemRemoved(domain.CartItem)     {}

// Store is the cart state container. All mutation goes through its named
// operations; it is handed to callers as a dependency, never a package
// global.
type Store struct {
	storage  Storage
	notifier Notifier
}

func NewStore(storage Storage, notifier Notifier) *Store {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &Store{
		storage:  storage,
		notifier: notifier,
	}
}

// Items rehydrates the cart. Missing carts come back empty.
func (s *Store) Items(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	return s.storage.Load(ctx, cartID)
}

// AddItem inserts the item with quantity forced to 1, or bumps an existing
// entry by exactly 1. The quantity on the incoming item is ignored either
// way.
func (s *Store) AddItem(ctx context.Context, cartID string, item domain.CartItem) error {
	items, err := s.storage.Load(ctx, cartID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity++

			if err := s.storage.Save(ctx, cartID, items); err != nil {
				return err
			}

			s.notifier.QuantityUpdated(items[i])
			return nil
		}
	}

	item.Quantity = 1
	items = append(items, item)

	if err := s.storage.Save(ctx, cartID, items); err != nil {
		return err
	}

	s.notifier.ItemAdded(item)
	return nil
}

// RemoveItem deletes the entry if present; removing an absent id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, cartID string, itemID int64) error {
	items, err := s.storage.Load(ctx, cartID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == itemID {
			removed := items[i]
			items = append(items[:i], items[i+1:]...)

			if err := s.storage.Save(ctx, cartID, items); err != nil {
				return err
			}

			s.notifier.ItemRemoved(removed)
			return nil
		}
	}

	return nil
}

// UpdateQuantity replaces the item's quantity; zero or negative behaves
// exactly like RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, cartID string, itemID int64, quantity int32) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, itemID)
	}

	items, err := s.storage.Load(ctx, cartID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = quantity

			if err := s.storage.Save(ctx, cartID, items); err != nil {
				return err
			}

			s.notifier.QuantityUpdated(items[i])
			return nil
		}
	}

	return nil
}

// Clear empties the cart unconditionally. No notification is emitted.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	return s.storage.Delete(ctx, cartID)
}

// TotalItems is the sum of quantities, derived on every call.
func (s *Store) TotalItems(ctx context.Context, cartID string) (int32, error) {
	items, err := s.storage.Load(ctx, cartID)
	if err != nil {
		return 0, err
	}

	var total int32
	for _, item := range items {
		total += item.Quantity
	}

	return total, nil
}
