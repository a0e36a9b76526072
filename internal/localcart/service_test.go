package localcart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
	"github.com/trunglearn/PerfumeShop-sub001/internal/notify"
)

type mockStore struct {
	m     sync.Mutex
	items map[string]int // productID -> quantity
	err   error

	lastSetQuantity int
}

func newMockStore() *mockStore {
	return &mockStore{items: map[string]int{}}
}

func (s *mockStore) Items(context.Context, string) ([]domain.CartLineItem, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var items []domain.CartLineItem
	for id, q := range s.items {
		items = append(items, domain.CartLineItem{ProductID: id, Quantity: q})
	}
	return items, nil
}

func (s *mockStore) Merge(_ context.Context, _ string, item domain.CartLineItem) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items[item.ProductID] += item.Quantity
	return nil
}

func (s *mockStore) SetQuantity(_ context.Context, _, productID string, quantity int) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[productID]; !ok {
		return ErrItemNotFound
	}
	s.items[productID] = quantity
	s.lastSetQuantity = quantity
	return nil
}

func (s *mockStore) Delete(_ context.Context, _, productID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.items, productID)
	return nil
}

func (s *mockStore) Clear(context.Context, string) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.items = map[string]int{}
	return s.err
}

func (s *mockStore) Close() error { return nil }

func TestUpdateQuantity_ClampsToStock(t *testing.T) {
	store := newMockStore()
	store.items["p1"] = 2
	notifier := notify.NewMemoryNotifier()
	svc := NewService(store, notifier)

	err := svc.UpdateQuantity(context.Background(), "guest-1",
		domain.CartLineItem{ProductID: "p1", Quantity: 10}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, store.lastSetQuantity, "quantity above stock is capped")

	err = svc.UpdateQuantity(context.Background(), "guest-1",
		domain.CartLineItem{ProductID: "p1", Quantity: -3}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lastSetQuantity, "quantity below one is floored")
}

func TestUpdateQuantity_MissingItemNotifiesWithoutError(t *testing.T) {
	store := newMockStore()
	notifier := notify.NewMemoryNotifier()
	svc := NewService(store, notifier)

	err := svc.UpdateQuantity(context.Background(), "guest-1",
		domain.CartLineItem{ProductID: "absent", Quantity: 2}, 5)
	require.NoError(t, err, "a missing line is a notification, not an error")

	notifications := notifier.Drain("guest-1")
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

func TestAddProduct_NotifiesSuccess(t *testing.T) {
	store := newMockStore()
	notifier := notify.NewMemoryNotifier()
	svc := NewService(store, notifier)

	err := svc.AddProduct(context.Background(), "guest-1",
		domain.CartLineItem{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	notifications := notifier.Drain("guest-1")
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelSuccess, notifications[0].Level)
}

func TestAddProduct_StorageErrorNotifiesFailure(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("disk full")
	notifier := notify.NewMemoryNotifier()
	svc := NewService(store, notifier)

	err := svc.AddProduct(context.Background(), "guest-1",
		domain.CartLineItem{ProductID: "p1", Quantity: 1})
	require.Error(t, err)

	notifications := notifier.Drain("guest-1")
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

func TestDeleteProduct_Notifies(t *testing.T) {
	store := newMockStore()
	store.items["p1"] = 1
	notifier := notify.NewMemoryNotifier()
	svc := NewService(store, notifier)

	err := svc.DeleteProduct(context.Background(), "guest-1", "p1")
	require.NoError(t, err)

	notifications := notifier.Drain("guest-1")
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelSuccess, notifications[0].Level)
}
