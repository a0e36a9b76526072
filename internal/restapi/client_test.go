package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"isOk":       true,
			"data":       []map[string]any{{"id": "line-1"}},
			"pagination": map[string]any{"total": 5},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123")
	env, err := client.Get(context.Background(), "cart", nil)
	require.NoError(t, err)
	assert.True(t, env.IsOk)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 5, env.Pagination.Total)
}

func TestGet_QueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"p1", "p2"}, r.URL.Query()["listProductId[]"])
		w.Write([]byte(`{"isOk":true}`))
	}))
	defer srv.Close()

	query := url.Values{}
	query.Add("listProductId[]", "p1")
	query.Add("listProductId[]", "p2")

	client := NewClient(srv.URL, "")
	_, err := client.Get(context.Background(), "list-product-cart", query)
	require.NoError(t, err)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"isOk":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	env, err := client.Get(context.Background(), "cart", nil)
	require.NoError(t, err)
	assert.True(t, env.IsOk)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such product"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Get(context.Background(), "productPublicInfo/x", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "no such product", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses are not retried")
}

func TestPost_SendsJSONBodyWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["productId"])
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Post(context.Background(), "cart/add", map[string]any{"productId": "p1", "quantity": 2})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "mutations are never retried")
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	ctx := context.Background()

	// 5 consecutive failures trip the breaker (retries count individually)
	for i := 0; i < 2; i++ {
		_, err := client.Get(ctx, "cart", nil)
		require.Error(t, err)
	}

	_, err := client.Get(ctx, "cart", nil)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}
