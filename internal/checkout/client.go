package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/trunglearn/PerfumeShop-sub001/internal/restapi"
)

type getter interface {
	Get(ctx context.Context, path string, query url.Values) (*restapi.Envelope, error)
}

// Client reads checkout payment state from the upstream API.
type Client struct {
	api getter
}

func NewClient(api getter) *Client {
	return &Client{api: api}
}

func (c *Client) PaymentStatus(ctx context.Context, checkoutID string) (PaymentStatus, error) {
	env, err := c.api.Get(ctx, "checkout/paymentStatus/"+checkoutID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch payment status: %w", err)
	}

	var payload struct {
		Status PaymentStatus `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return "", fmt.Errorf("failed to decode payment status: %w", err)
	}
	return payload.Status, nil
}
