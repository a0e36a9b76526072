package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/trunglearn/PerfumeShop-sub001/internal/remotecart"
	"github.com/trunglearn/PerfumeShop-sub001/internal/restapi"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleUpstreamError converts upstream client failures to HTTP responses.
func handleUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, remotecart.ErrNotAuthenticated) {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to use the server cart")
		return
	}
	if errors.Is(err, restapi.ErrUpstreamUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "shop api is unavailable")
		return
	}

	var apiErr *restapi.APIError
	if errors.As(err, &apiErr) {
		var code string
		switch apiErr.Status {
		case http.StatusBadRequest:
			code = "invalid_argument"
		case http.StatusUnauthorized:
			code = "unauthenticated"
		case http.StatusForbidden:
			code = "permission_denied"
		case http.StatusNotFound:
			code = "not_found"
		case http.StatusConflict:
			code = "already_exists"
		case http.StatusTooManyRequests:
			code = "rate_limit_exceeded"
		default:
			code = "upstream_error"
		}
		status := apiErr.Status
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
			code = "upstream_error"
		}
		respondError(w, status, code, apiErr.Message)
		return
	}

	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
