package domain

import "time"

// CartLineItem is a guest cart line, held only in local durable storage.
type CartLineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ServerCartEntry is an authenticated cart line owned by the upstream API.
// ID is the authoritative identity for update/delete; ProductID is a
// foreign reference into the product catalog.
type ServerCartEntry struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
}

// GuestCart is the full local cart for one guest, most-recently-added first.
type GuestCart struct {
	GuestID   string         `json:"guestId"`
	Items     []CartLineItem `json:"data"`
	UpdatedAt time.Time      `json:"-"`
}

// ClampQuantity bounds a requested quantity to [1, maxQuantity].
// maxQuantity below 1 represents out-of-stock and is not a supported input;
// callers gate on stock before mutating.
func ClampQuantity(quantity, maxQuantity int) int {
	if quantity < 1 {
		return 1
	}
	if quantity > maxQuantity {
		return maxQuantity
	}
	return quantity
}
