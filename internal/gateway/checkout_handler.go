package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trunglearn/PerfumeShop-sub001/internal/auth"
	"github.com/trunglearn/PerfumeShop-sub001/internal/checkout"
	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
)

// CheckoutHandler exposes the payment confirmation wait of the checkout
// completion flow: it polls the upstream payment status until a terminal
// state or the countdown budget lapses.
type CheckoutHandler struct {
	clients  remotecart.ClientFactory
	interval time.Duration
	budget   time.Duration
}

func NewCheckoutHandler(clients remotecart.ClientFactory, interval, budget time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		clients:  clients,
		interval: interval,
		budget:   budget,
	}
}

type PaymentResultDTO struct {
	CheckoutID string `json:"checkoutId"`
	Status     string `json:"status"`
}

// WaitForPayment blocks until the checkout's payment reaches a terminal
// status. Client disconnects cancel the watch; no polling outlives the
// request.
func (h *CheckoutHandler) WaitForPayment(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to complete checkout")
		return
	}

	checkoutID := chi.URLParam(r, "checkout_id")
	if checkoutID == "" {
		respondError(w, http.StatusBadRequest, "invalid_checkout_id", "checkout_id is required")
		return
	}

	checker := checkout.NewClient(h.clients(identity.AccessToken))
	poller := checkout.NewPoller(checker, h.interval, h.budget)

	watch := poller.Start(r.Context(), checkoutID)
	defer watch.Stop()

	result := <-watch.Done()
	if result.Err != nil {
		respondError(w, http.StatusGatewayTimeout, "timeout", "payment confirmation interrupted")
		return
	}

	respondJSON(w, http.StatusOK, PaymentResultDTO{
		CheckoutID: checkoutID,
		Status:     result.Status.String(),
	})
}
