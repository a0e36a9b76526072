package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
)

const RoleAdmin = "admin"

// AdminHandler is the back-office product CRUD surface: a thin proxy over
// the upstream product endpoints, gated on the admin role.
type AdminHandler struct {
	clients remotecart.ClientFactory
}

func NewAdminHandler(clients remotecart.ClientFactory) *AdminHandler {
	return &AdminHandler{clients: clients}
}

// RequireAdmin rejects callers without an admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "admin session required")
			return
		}
		if identity.Role != RoleAdmin {
			respondError(w, http.StatusForbidden, "permission_denied", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	env, err := h.clients(identity.AccessToken).Get(r.Context(), "product", r.URL.Query())
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	env, err := h.clients(identity.AccessToken).Post(r.Context(), "product", body)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, env)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	env, err := h.clients(identity.AccessToken).Put(r.Context(), "product/"+productID, body)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, env)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	env, err := h.clients(identity.AccessToken).Delete(r.Context(), "product/"+productID)
	if err != nil {
		handleUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, env)
}
