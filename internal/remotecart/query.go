package remotecart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/notify"
	"github.com/trunglearn/PerfumeShop-sub001/internal/restapi"
)

// ErrNotAuthenticated means the operation is disabled: without a session
// token the remote cart is never fetched, not fetched-and-failed.
var ErrNotAuthenticated = errors.New("remote cart requires an authenticated session")

// API is the slice of the upstream client the remote cart needs.
type API interface {
	Get(ctx context.Context, path string, query url.Values) (*restapi.Envelope, error)
	Post(ctx context.Context, path string, body any) (*restapi.Envelope, error)
	Put(ctx context.Context, path string, body any) (*restapi.Envelope, error)
	Delete(ctx context.Context, path string) (*restapi.Envelope, error)
}

// ClientFactory builds an upstream client bound to one user's bearer token.
type ClientFactory func(token string) API

// Query fetches and caches the authenticated user's server-side cart.
// Concurrent fetches for the same user collapse into one via singleflight.
type Query struct {
	clients  ClientFactory
	cache    CartCache
	notifier notify.Notifier
	sfg      singleflight.Group
}

func NewQuery(clients ClientFactory, cache CartCache, notifier notify.Notifier) *Query {
	return &Query{
		clients:  clients,
		cache:    cache,
		notifier: notifier,
	}
}

// Get returns the cached cart, fetching on a miss.
func (q *Query) Get(ctx context.Context, identity *auth.Identity) (*RemoteCart, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	v, err, _ := q.sfg.Do(identity.Email, func() (interface{}, error) {
		cart, err := q.cache.Get(ctx, identity.Email)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, fetchErr := q.fetch(ctx, identity)
		if fetchErr != nil {
			return nil, fetchErr
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if setErr := q.cache.Set(setCtx, identity.Email, cart); setErr != nil {
				log.Printf("cache set error: %v", setErr)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RemoteCart), nil
}

// Reload fetches fresh and rewrites the cache. A failed fetch leaves the
// previous cached value in place, stale but present.
func (q *Query) Reload(ctx context.Context, identity *auth.Identity) (*RemoteCart, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	cart, err := q.fetch(ctx, identity)
	if err != nil {
		return nil, err
	}

	if setErr := q.cache.Set(ctx, identity.Email, cart); setErr != nil {
		log.Printf("cache set error: %v", setErr)
	}
	return cart, nil
}

// Latest is the lightweight most-recent projection for header display,
// uncached by design.
func (q *Query) Latest(ctx context.Context, identity *auth.Identity) (*RemoteCart, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	env, err := q.clients(identity.AccessToken).Get(ctx, "cart-latest", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest cart: %w", err)
	}
	return decodeCart(env)
}

// Add creates or increments a server-side line for the product.
func (q *Query) Add(ctx context.Context, identity *auth.Identity, productID string, quantity int) error {
	if identity == nil {
		return ErrNotAuthenticated
	}

	body := map[string]any{"productId": productID, "quantity": quantity}
	if _, err := q.clients(identity.AccessToken).Post(ctx, "cart/add", body); err != nil {
		log.Printf("remote cart add error: %v", err)
		q.notifier.Error(identity.Email, "Could not add product to cart")
		return err
	}

	q.invalidate(identity.Email)
	q.notifier.Success(identity.Email, "Product added to cart")
	return nil
}

// UpdateQuantity sets an absolute quantity on a server line by its line id.
func (q *Query) UpdateQuantity(ctx context.Context, identity *auth.Identity, lineID string, quantity int) error {
	if identity == nil {
		return ErrNotAuthenticated
	}

	body := map[string]any{"quantity": quantity}
	if _, err := q.clients(identity.AccessToken).Put(ctx, "cart/updateQuantity/"+lineID, body); err != nil {
		log.Printf("remote cart update error: %v", err)
		q.notifier.Error(identity.Email, "Could not update quantity")
		return err
	}

	q.invalidate(identity.Email)
	q.notifier.Success(identity.Email, "Quantity updated")
	return nil
}

// Remove deletes a server line by its line id.
func (q *Query) Remove(ctx context.Context, identity *auth.Identity, lineID string) error {
	if identity == nil {
		return ErrNotAuthenticated
	}

	if _, err := q.clients(identity.AccessToken).Delete(ctx, "cart/delete/"+lineID); err != nil {
		log.Printf("remote cart delete error: %v", err)
		q.notifier.Error(identity.Email, "Could not remove product")
		return err
	}

	q.invalidate(identity.Email)
	q.notifier.Success(identity.Email, "Product removed from cart")
	return nil
}

// Invalidate drops the cached cart for a user, used by the order-completed
// consumer as well as by local mutations.
func (q *Query) Invalidate(userKey string) {
	q.invalidate(userKey)
}

func (q *Query) fetch(ctx context.Context, identity *auth.Identity) (*RemoteCart, error) {
	env, err := q.clients(identity.AccessToken).Get(ctx, "cart", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return decodeCart(env)
}

func (q *Query) invalidate(userKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := q.cache.Delete(ctx, userKey); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func decodeCart(env *restapi.Envelope) (*RemoteCart, error) {
	cart := &RemoteCart{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &cart.Entries); err != nil {
			return nil, fmt.Errorf("failed to decode cart entries: %w", err)
		}
	}
	if env.Pagination != nil {
		cart.Total = env.Pagination.Total
	} else {
		cart.Total = len(cart.Entries)
	}
	return cart, nil
}
