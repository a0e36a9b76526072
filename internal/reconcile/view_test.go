package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
)

type mockLocal struct {
	items []domain.CartLineItem
	err   error
}

func (m *mockLocal) Items(context.Context, string) ([]domain.CartLineItem, error) {
	return m.items, m.err
}

type mockRemote struct {
	cart *remotecart.RemoteCart
	err  error
}

func (m *mockRemote) Get(context.Context, *auth.Identity) (*remotecart.RemoteCart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cart, nil
}

type mockPrices struct {
	snapshots []domain.ProductSnapshot
	err       error
}

func (m *mockPrices) ListForCart(context.Context, []string) ([]domain.ProductSnapshot, error) {
	return m.snapshots, m.err
}

var signedIn = &auth.Identity{Email: "user@shop.vn", AccessToken: "token"}

func price(v int64) *int64 { return &v }

func TestView_GuestUsesLocalStore(t *testing.T) {
	local := &mockLocal{items: []domain.CartLineItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 1},
	}}
	prices := &mockPrices{snapshots: []domain.ProductSnapshot{
		{ID: "p1", OriginalPrice: 100000, DiscountPrice: price(80000)},
		{ID: "p2", OriginalPrice: 50000},
	}}
	svc := NewService(local, &mockRemote{}, prices)

	view, err := svc.View(context.Background(), nil, "guest-1")
	require.NoError(t, err)
	assert.False(t, view.Authenticated)
	assert.Equal(t, 2, view.ItemCount, "guest item count equals local store entry count")
	assert.Equal(t, int64(3*80000+50000), view.TotalPrice)
	assert.False(t, view.Empty)
}

func TestView_AuthenticatedSwitchesToRemote(t *testing.T) {
	// local store still holds lines, but a signed-in session ignores them
	local := &mockLocal{items: []domain.CartLineItem{{ProductID: "p1", Quantity: 5}}}
	remote := &mockRemote{cart: &remotecart.RemoteCart{
		Entries: []domain.ServerCartEntry{
			{ID: "line-1", ProductID: "p9", Quantity: 2,
				Product: domain.ProductSnapshot{ID: "p9", OriginalPrice: 200000}},
		},
		Total: 6,
	}}
	svc := NewService(local, remote, &mockPrices{})

	view, err := svc.View(context.Background(), signedIn, "guest-1")
	require.NoError(t, err)
	assert.True(t, view.Authenticated)
	assert.Equal(t, 6, view.ItemCount, "remote pagination total wins over local contents")
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "line-1", view.Lines[0].LineID)
	assert.Equal(t, int64(400000), view.TotalPrice)
}

func TestView_RemoteNotLoadedRendersEmpty(t *testing.T) {
	remote := &mockRemote{err: errors.New("not loaded yet")}
	svc := NewService(&mockLocal{}, remote, &mockPrices{})

	view, err := svc.View(context.Background(), signedIn, "guest-1")
	require.NoError(t, err)
	assert.True(t, view.Empty)
	assert.Zero(t, view.TotalPrice)
	assert.Empty(t, view.Lines)
}

func TestView_EmptyCartShowsPlaceholder(t *testing.T) {
	svc := NewService(&mockLocal{}, &mockRemote{}, &mockPrices{})

	view, err := svc.View(context.Background(), nil, "guest-1")
	require.NoError(t, err)
	assert.True(t, view.Empty)
	assert.Zero(t, view.TotalPrice)
	assert.Zero(t, view.ItemCount)
}

func TestView_DeletedProductRendersWithDefaults(t *testing.T) {
	local := &mockLocal{items: []domain.CartLineItem{
		{ProductID: "gone", Quantity: 2},
		{ProductID: "p1", Quantity: 1},
	}}
	prices := &mockPrices{snapshots: []domain.ProductSnapshot{
		{ID: "p1", OriginalPrice: 100000},
	}}
	svc := NewService(local, &mockRemote{}, prices)

	view, err := svc.View(context.Background(), nil, "guest-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 2, "a deleted product still renders its line")
	assert.Equal(t, int64(0), view.Lines[0].LineTotal)
	assert.Empty(t, view.Lines[0].Product.Name)
	assert.Equal(t, int64(100000), view.TotalPrice)
}

func TestView_PriceLookupFailureDegrades(t *testing.T) {
	local := &mockLocal{items: []domain.CartLineItem{{ProductID: "p1", Quantity: 2}}}
	prices := &mockPrices{err: errors.New("upstream down")}
	svc := NewService(local, &mockRemote{}, prices)

	view, err := svc.View(context.Background(), nil, "guest-1")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Zero(t, view.TotalPrice, "unpriced lines default to zero instead of failing")
}
