package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
	"github.com/trunglearn/PerfumeShop-sub001/internal/restapi"
)

var ErrProductNotFound = errors.New("product not found")

type getter interface {
	Get(ctx context.Context, path string, query url.Values) (*restapi.Envelope, error)
}

// Client fetches public product snapshots (price, stock, presentation)
// from the upstream API.
type Client struct {
	api getter
}

func NewClient(api getter) *Client {
	return &Client{api: api}
}

// ListForCart batch-fetches snapshots for the given product ids, used to
// price the guest cart. Products deleted upstream are simply absent from
// the result; callers render those lines with defaults.
func (c *Client) ListForCart(ctx context.Context, productIDs []string) ([]domain.ProductSnapshot, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := url.Values{}
	for _, id := range productIDs {
		query.Add("listProductId[]", id)
	}

	env, err := c.api.Get(ctx, "list-product-cart", query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart products: %w", err)
	}

	var snapshots []domain.ProductSnapshot
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &snapshots); err != nil {
			return nil, fmt.Errorf("failed to decode cart products: %w", err)
		}
	}
	return snapshots, nil
}

// PublicInfo fetches the public snapshot of a single product.
func (c *Client) PublicInfo(ctx context.Context, productID string) (*domain.ProductSnapshot, error) {
	env, err := c.api.Get(ctx, "productPublicInfo/"+productID, nil)
	if err != nil {
		var apiErr *restapi.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", productID, err)
	}

	var snapshot domain.ProductSnapshot
	if err := json.Unmarshal(env.Data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", productID, err)
	}
	return &snapshot, nil
}
