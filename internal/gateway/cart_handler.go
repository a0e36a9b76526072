package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/domain"
	"github.com/trunglearn/PerfumeShop-sub001/internal/notify"
	"github.com/trunglearn/PerfumeShop-sub001/internal/reconcile"
	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
)

const maxLineQuantity = 99

type cartViewer interface {
	View(ctx context.Context, identity *auth.Identity, guestID string) (*reconcile.View, error)
}

type localCart interface {
	AddProduct(ctx context.Context, guestID string, item domain.CartLineItem) error
	UpdateQuantity(ctx context.Context, guestID string, item domain.CartLineItem, maxQuantity int) error
	DeleteProduct(ctx context.Context, guestID, productID string) error
}

type remoteCart interface {
	Latest(ctx context.Context, identity *auth.Identity) (*remotecart.RemoteCart, error)
	Reload(ctx context.Context, identity *auth.Identity) (*remotecart.RemoteCart, error)
	Add(ctx context.Context, identity *auth.Identity, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, identity *auth.Identity, lineID string, quantity int) error
	Remove(ctx context.Context, identity *auth.Identity, lineID string) error
}

type productInfo interface {
	PublicInfo(ctx context.Context, productID string) (*domain.ProductSnapshot, error)
}

// CartHandler serves the storefront cart API: the reconciled view, guest
// cart mutations, authenticated pass-through mutations, and the header
// projection.
type CartHandler struct {
	view     cartViewer
	local    localCart
	remote   remoteCart
	products productInfo
	notifier notify.Notifier
}

func NewCartHandler(view cartViewer, local localCart, remote remoteCart, products productInfo, notifier notify.Notifier) *CartHandler {
	return &CartHandler{
		view:     view,
		local:    local,
		remote:   remote,
		products: products,
		notifier: notifier,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the reconciled view for the current session, guest or
// authenticated.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	guestID := auth.GuestIDFromContext(r.Context())

	view, err := h.view.View(r.Context(), identity, guestID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load cart")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetLatest returns the lightweight header projection of the remote cart.
func (h *CartHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	cart, err := h.remote.Latest(r.Context(), identity)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// AddItem adds a product to whichever cart is authoritative for the
// session: the server cart when authenticated, the guest store otherwise.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if identity != nil {
		if err := h.remote.Add(r.Context(), identity, req.ProductID, req.Quantity); err != nil {
			handleUpstreamError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
		return
	}

	guestID := auth.GuestIDFromContext(r.Context())
	item := domain.CartLineItem{ProductID: req.ProductID, Quantity: req.Quantity}
	if err := h.local.AddProduct(r.Context(), guestID, item); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not add product")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// UpdateGuestQuantity sets an absolute quantity on a guest line, clamped
// to the product's available stock.
func (h *CartHandler) UpdateGuestQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// The stock lookup failing (or the product being gone) should not
	// block the guest; the clamp falls back to the generic ceiling.
	maxQuantity := maxLineQuantity
	snapshot, err := h.products.PublicInfo(r.Context(), productID)
	if err == nil && snapshot != nil && snapshot.AvailableQuantity >= 1 {
		maxQuantity = snapshot.AvailableQuantity
	}

	guestID := auth.GuestIDFromContext(r.Context())
	item := domain.CartLineItem{ProductID: productID, Quantity: req.Quantity}
	if err := h.local.UpdateQuantity(r.Context(), guestID, item, maxQuantity); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not update quantity")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteGuestItem removes a guest line; removing an absent line succeeds.
func (h *CartHandler) DeleteGuestItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	guestID := auth.GuestIDFromContext(r.Context())
	if err := h.local.DeleteProduct(r.Context(), guestID, productID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not remove product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpdateQuantity sets an absolute quantity on a server-side line by its
// line id.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.remote.UpdateQuantity(r.Context(), identity, lineID, req.Quantity); err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveItem deletes a server-side line by its line id.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	if err := h.remote.Remove(r.Context(), identity, lineID); err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Reload forces a fresh fetch of the remote cart into the cache.
func (h *CartHandler) Reload(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	cart, err := h.remote.Reload(r.Context(), identity)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// Notifications drains the pending toast notifications for the session.
func (h *CartHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionKey(r)
	notifications := h.notifier.Drain(sessionID)
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	respondJSON(w, http.StatusOK, notifications)
}

// sessionKey is the notification channel for the caller: the account email
// when signed in, the guest id otherwise.
func sessionKey(r *http.Request) string {
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		return identity.Email
	}
	return auth.GuestIDFromContext(r.Context())
}
