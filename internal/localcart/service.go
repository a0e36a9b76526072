package localcart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
	"github.com/trunglearn/PerfumeShop-sub001/internal/notify"
)

// Service applies the guest cart rules on top of the durable store and
// emits the toast notifications the storefront shows for each mutation.
type Service struct {
	store    Store
	notifier notify.Notifier
}

func NewService(store Store, notifier notify.Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
	}
}

func (s *Service) Items(ctx context.Context, guestID string) ([]domain.CartLineItem, error) {
	return s.store.Items(ctx, guestID)
}

// AddProduct merges the quantity into an existing line for the same
// product (moving it to the front) or prepends a new line. The operation
// cannot fail by contract; storage errors are logged and surfaced as a
// failure notification only.
func (s *Service) AddProduct(ctx context.Context, guestID string, item domain.CartLineItem) error {
	if err := s.store.Merge(ctx, guestID, item); err != nil {
		log.Printf("guest cart merge error: %v", err)
		s.notifier.Error(guestID, "Could not add product to cart")
		return err
	}

	s.notifier.Success(guestID, "Product added to cart")
	return nil
}

// UpdateQuantity sets an absolute quantity on an existing line, clamped to
// [1, maxQuantity]. A missing line is a notification, not an error.
func (s *Service) UpdateQuantity(ctx context.Context, guestID string, item domain.CartLineItem, maxQuantity int) error {
	quantity := domain.ClampQuantity(item.Quantity, maxQuantity)

	err := s.store.SetQuantity(ctx, guestID, item.ProductID, quantity)
	if errors.Is(err, ErrItemNotFound) {
		s.notifier.Error(guestID, "Product is not in your cart")
		return nil
	}
	if err != nil {
		log.Printf("guest cart update error: %v", err)
		s.notifier.Error(guestID, "Could not update quantity")
		return err
	}

	s.notifier.Success(guestID, "Quantity updated")
	return nil
}

// DeleteProduct removes a line. Deleting an absent product is a no-op.
func (s *Service) DeleteProduct(ctx context.Context, guestID, productID string) error {
	if err := s.store.Delete(ctx, guestID, productID); err != nil {
		log.Printf("guest cart delete error: %v", err)
		s.notifier.Error(guestID, "Could not remove product")
		return err
	}

	s.notifier.Success(guestID, "Product removed from cart")
	return nil
}

// Clear empties the guest cart, used when an order for the guest completes.
func (s *Service) Clear(ctx context.Context, guestID string) error {
	if err := s.store.Clear(ctx, guestID); err != nil {
		return fmt.Errorf("failed to clear guest cart %s: %w", guestID, err)
	}
	return nil
}
