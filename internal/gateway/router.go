package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
)

// NewStorefrontRouter wires the customer-facing cart API.
func NewStorefrontRouter(verifier *auth.Verifier, carts *CartHandler, checkouts *CheckoutHandler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Compress(5))
	r.Use(auth.SessionMiddleware(verifier))
	r.Use(auth.GuestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.With(middleware.Timeout(requestTimeout)).Group(func(r chi.Router) {
				r.Get("/", carts.GetCart)
				r.Get("/latest", carts.GetLatest)
				r.Post("/items", carts.AddItem)
				r.Post("/reload", carts.Reload)
				r.Put("/items/{line_id}", carts.UpdateQuantity)
				r.Delete("/items/{line_id}", carts.RemoveItem)
				r.Put("/guest/items/{product_id}", carts.UpdateGuestQuantity)
				r.Delete("/guest/items/{product_id}", carts.DeleteGuestItem)
			})
		})
		// the payment wait holds the request open for the whole
		// countdown budget, so it skips the generic timeout
		r.Get("/checkout/{checkout_id}/payment", checkouts.WaitForPayment)
		r.With(middleware.Timeout(requestTimeout)).Get("/notifications", carts.Notifications)
	})

	return r
}

// NewAdminRouter wires the back-office product CRUD proxy.
func NewAdminRouter(verifier *auth.Verifier, admin *AdminHandler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(auth.SessionMiddleware(verifier))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Get("/", admin.ListProducts)
		r.Post("/", admin.CreateProduct)
		r.Put("/{product_id}", admin.UpdateProduct)
		r.Delete("/{product_id}", admin.DeleteProduct)
	})

	return r
}
