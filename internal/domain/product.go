package domain

// ProductSnapshot is the public projection of a product used for cart
// display: price, stock and presentation fields only.
type ProductSnapshot struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Thumbnail         string `json:"thumbnail"`
	OriginalPrice     int64  `json:"originalPrice"`
	DiscountPrice     *int64 `json:"discountPrice"`
	AvailableQuantity int    `json:"availableQuantity"`
}

// EffectivePrice is the unit price used everywhere a line total is
// computed: discount price if present, else original price, else 0.
func (p ProductSnapshot) EffectivePrice() int64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.OriginalPrice
}

// LineTotal is quantity times the effective unit price.
func LineTotal(p ProductSnapshot, quantity int) int64 {
	return int64(quantity) * p.EffectivePrice()
}
