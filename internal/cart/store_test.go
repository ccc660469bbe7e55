package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
)

type recordingNotifier struct {
	added   []domain.CartItem
	updated []domain.CartItem
	removed []domain.CartItem
}

func (n *recordingNotifier) ItemAdded(item domain.CartItem)       { n.added = append(n.added, item) }
func (n *recordingNotifier) QuantityUpdated(item domain.CartItem) { n.updated = append(n.updated, item) }
func (n *recordingNotifier) ItemRemoved(item domain.CartItem)     { n.removed = append(n.removed, item) }

func vinyl(id int64, name string) domain.CartItem {
	return domain.CartItem{
		ID:       id,
		Name:     name,
		Price:    19990,
		Quantity: 99, // must be ignored by AddItem
		Artist:   "Los Prisioneros",
		Category: "Rock Latino",
	}
}

func TestAddItemForcesQuantityOne(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	store := NewStore(NewMemoryStorage(), notifier)

	err := store.AddItem(ctx, "c1", vinyl(1, "La Voz de los '80"))
	require.NoError(t, err)

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(1), items[0].Quantity)
	require.Len(t, notifier.added, 1)
	require.Empty(t, notifier.updated)
}

func TestAddItemIncrementsExisting(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	store := NewStore(NewMemoryStorage(), notifier)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Pateando Piedras")))
	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Pateando Piedras")))
	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Pateando Piedras")))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int32(3), items[0].Quantity)

	require.Len(t, notifier.added, 1)
	require.Len(t, notifier.updated, 2)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	store := NewStore(NewMemoryStorage(), notifier)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Corazones")))
	require.NoError(t, store.UpdateQuantity(ctx, "c1", 1, 0))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, items)
	require.Len(t, notifier.removed, 1)
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), nil)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Corazones")))
	require.NoError(t, store.UpdateQuantity(ctx, "c1", 1, -3))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestUpdateQuantitySetsExactValue(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	store := NewStore(NewMemoryStorage(), notifier)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Unplugged")))
	require.NoError(t, store.UpdateQuantity(ctx, "c1", 1, 5))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, int32(5), items[0].Quantity)
	require.Len(t, notifier.updated, 1)
}

func TestRemoveAbsentItemIsNoop(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	store := NewStore(NewMemoryStorage(), notifier)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Unplugged")))
	require.NoError(t, store.RemoveItem(ctx, "c1", 42))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Empty(t, notifier.removed)
}

func TestClearEmptiesWithoutNotification(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	store := NewStore(NewMemoryStorage(), notifier)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "La Cultura de la Basura")))
	require.NoError(t, store.AddItem(ctx, "c1", vinyl(2, "Pateando Piedras")))

	notifier.added = nil
	notifier.removed = nil

	require.NoError(t, store.Clear(ctx, "c1"))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Empty(t, items)
	require.Empty(t, notifier.removed)
}

func TestTotalItemsSumsQuantities(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), nil)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Corazones")))
	require.NoError(t, store.AddItem(ctx, "c1", vinyl(2, "Unplugged")))
	require.NoError(t, store.UpdateQuantity(ctx, "c1", 2, 4))

	total, err := store.TotalItems(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, int32(5), total)
}

func TestCartsAreIsolatedByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), nil)

	require.NoError(t, store.AddItem(ctx, "c1", vinyl(1, "Corazones")))
	require.NoError(t, store.AddItem(ctx, "c2", vinyl(2, "Unplugged")))

	items, err := store.Items(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].ID)
}
