package localcart

import (
	"context"
	"errors"

	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
)

var ErrItemNotFound = errors.New("item not found in guest cart")

// Store persists guest cart lines in durable local storage. Entries live
// until explicitly deleted or cleared; they never expire on their own.
type Store interface {
	// Items returns the guest's lines, most recently added first.
	Items(ctx context.Context, guestID string) ([]domain.CartLineItem, error)
	// Merge adds quantity to an existing line (moving it to the front)
	// or prepends a new one.
	Merge(ctx context.Context, guestID string, item domain.CartLineItem) error
	// SetQuantity replaces the quantity of an existing line.
	// Returns ErrItemNotFound when the product is not in the cart.
	SetQuantity(ctx context.Context, guestID, productID string, quantity int) error
	// Delete removes a line. Deleting an absent line is a no-op.
	Delete(ctx context.Context, guestID, productID string) error
	// Clear removes every line for the guest.
	Clear(ctx context.Context, guestID string) error
	Close() error
}
