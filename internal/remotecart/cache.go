package remotecart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// RemoteCart is the cached projection of the authenticated user's
// server-side cart. Total comes from the upstream pagination envelope and
// is what the storefront header shows.
type RemoteCart struct {
	Entries []domain.ServerCartEntry `json:"data"`
	Total   int                      `json:"total"`
}

// TotalPrice sums quantity times effective unit price over all entries.
func (c *RemoteCart) TotalPrice() int64 {
	if c == nil {
		return 0
	}
	var total int64
	for _, entry := range c.Entries {
		total += domain.LineTotal(entry.Product, entry.Quantity)
	}
	return total
}

type CartCache interface {
	Get(ctx context.Context, userKey string) (*RemoteCart, error)
	Set(ctx context.Context, userKey string, cart *RemoteCart) error
	Delete(ctx context.Context, userKey string) error
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, userKey string) (*RemoteCart, error) {
	data, err := r.client.Get(ctx, cacheKey(userKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart RemoteCart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, userKey string, cart *RemoteCart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// Jitter keeps a burst of carts from expiring at the same instant.
	ttl := r.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, cacheKey(userKey), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userKey string) error {
	if err := r.client.Del(ctx, cacheKey(userKey)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(userKey string) string {
	return fmt.Sprintf("remote-cart:%s", userKey)
}
