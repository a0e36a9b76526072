package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunglearn/PerfumeShop-sub001/internal/restapi"
)

type getterMock struct {
	lastPath  string
	lastQuery url.Values
	env       *restapi.Envelope
	err       error
}

func (g *getterMock) Get(_ context.Context, path string, query url.Values) (*restapi.Envelope, error) {
	g.lastPath = path
	g.lastQuery = query
	if g.err != nil {
		return nil, g.err
	}
	return g.env, nil
}

func TestListForCart_BuildsBatchQuery(t *testing.T) {
	data, _ := json.Marshal([]map[string]any{
		{"id": "p1", "name": "Chanel No5", "originalPrice": 100000},
		{"id": "p2", "name": "Dior Sauvage", "originalPrice": 200000, "discountPrice": 150000},
	})
	api := &getterMock{env: &restapi.Envelope{IsOk: true, Data: data}}
	client := NewClient(api)

	snapshots, err := client.ListForCart(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, "list-product-cart", api.lastPath)
	assert.Equal(t, []string{"p1", "p2"}, api.lastQuery["listProductId[]"])

	require.Len(t, snapshots, 2)
	assert.Equal(t, int64(100000), snapshots[0].EffectivePrice())
	assert.Equal(t, int64(150000), snapshots[1].EffectivePrice())
}

func TestListForCart_EmptyInputSkipsCall(t *testing.T) {
	api := &getterMock{}
	client := NewClient(api)

	snapshots, err := client.ListForCart(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, snapshots)
	assert.Empty(t, api.lastPath, "no upstream call for an empty cart")
}

func TestPublicInfo(t *testing.T) {
	data, _ := json.Marshal(map[string]any{
		"id": "p1", "name": "Chanel No5", "availableQuantity": 7,
	})
	api := &getterMock{env: &restapi.Envelope{IsOk: true, Data: data}}
	client := NewClient(api)

	snapshot, err := client.PublicInfo(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "productPublicInfo/p1", api.lastPath)
	assert.Equal(t, 7, snapshot.AvailableQuantity)
}

func TestPublicInfo_NotFound(t *testing.T) {
	api := &getterMock{err: &restapi.APIError{Status: http.StatusNotFound, Message: "gone"}}
	client := NewClient(api)

	snapshot, err := client.PublicInfo(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, snapshot)
}
