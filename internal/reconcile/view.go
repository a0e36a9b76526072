package reconcile

import (
	"context"
	"log"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
)

// Line is one displayable cart row. Product is zero-valued when the
// referenced product no longer exists upstream; the row still renders,
// with price and stock defaulting to zero.
type Line struct {
	LineID    string                 `json:"id,omitempty"`
	ProductID string                 `json:"productId"`
	Quantity  int                    `json:"quantity"`
	Product   domain.ProductSnapshot `json:"product"`
	LineTotal int64                  `json:"lineTotal"`
}

// View is the reconciled cart: exactly one source is authoritative,
// selected by authentication state.
type View struct {
	Authenticated bool   `json:"authenticated"`
	Lines         []Line `json:"lines"`
	ItemCount     int    `json:"itemCount"`
	TotalPrice    int64  `json:"totalPrice"`
	Empty         bool   `json:"empty"`
}

type localItems interface {
	Items(ctx context.Context, guestID string) ([]domain.CartLineItem, error)
}

type remoteQuery interface {
	Get(ctx context.Context, identity *auth.Identity) (*remotecart.RemoteCart, error)
}

type priceLookup interface {
	ListForCart(ctx context.Context, productIDs []string) ([]domain.ProductSnapshot, error)
}

// Service selects the authoritative cart source per request and computes
// display totals.
type Service struct {
	local    localItems
	remote   remoteQuery
	products priceLookup
}

func NewService(local localItems, remote remoteQuery, products priceLookup) *Service {
	return &Service{
		local:    local,
		remote:   remote,
		products: products,
	}
}

// View builds the reconciled cart. Authenticated sessions read the remote
// cache (empty until loaded); guests read the local store joined with a
// batch price lookup.
func (s *Service) View(ctx context.Context, identity *auth.Identity, guestID string) (*View, error) {
	if identity != nil {
		return s.remoteView(ctx, identity), nil
	}
	return s.guestView(ctx, guestID)
}

func (s *Service) remoteView(ctx context.Context, identity *auth.Identity) *View {
	view := &View{Authenticated: true}

	cart, err := s.remote.Get(ctx, identity)
	if err != nil {
		// Not loaded yet (or fetch failed): render the empty state,
		// the next refresh will fill it in.
		log.Printf("remote cart unavailable, rendering empty: %v", err)
		view.Empty = true
		return view
	}

	for _, entry := range cart.Entries {
		view.Lines = append(view.Lines, Line{
			LineID:    entry.ID,
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Product:   entry.Product,
			LineTotal: domain.LineTotal(entry.Product, entry.Quantity),
		})
		view.TotalPrice += domain.LineTotal(entry.Product, entry.Quantity)
	}
	view.ItemCount = cart.Total
	view.Empty = len(view.Lines) == 0
	return view
}

func (s *Service) guestView(ctx context.Context, guestID string) (*View, error) {
	view := &View{}

	items, err := s.local.Items(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		view.Empty = true
		return view, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	snapshots, err := s.products.ListForCart(ctx, ids)
	if err != nil {
		// Price lookup failure degrades to unpriced lines rather than
		// an unusable cart page.
		log.Printf("cart price lookup failed: %v", err)
	}
	byID := make(map[string]domain.ProductSnapshot, len(snapshots))
	for _, snapshot := range snapshots {
		byID[snapshot.ID] = snapshot
	}

	for _, item := range items {
		snapshot := byID[item.ProductID] // zero value when deleted upstream
		view.Lines = append(view.Lines, Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   snapshot,
			LineTotal: domain.LineTotal(snapshot, item.Quantity),
		})
		view.TotalPrice += domain.LineTotal(snapshot, item.Quantity)
	}
	view.ItemCount = len(items)
	view.Empty = false
	return view, nil
}
