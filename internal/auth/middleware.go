package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
)

const GuestCookieName = "guest_id"

type contextKey string

const (
	identityKey contextKey = "identity"
	guestIDKey  contextKey = "guest_id"
)

// SessionMiddleware resolves the optional session cookie into an Identity.
// A missing or unparseable cookie leaves the request unauthenticated; it
// never rejects the request, since every cart view has a guest fallback.
func SessionMiddleware(verifier *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil {
				identity, parseErr := verifier.ParseCookie(cookie.Value)
				if parseErr == nil {
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
					return
				}
				log.Printf("session cookie ignored: %v", parseErr)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GuestIDMiddleware assigns a stable guest identity via cookie, minting a
// new uuid on first contact.
func GuestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		guestID := ""
		if cookie, err := r.Cookie(GuestCookieName); err == nil && cookie.Value != "" {
			guestID = cookie.Value
		} else {
			guestID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     GuestCookieName,
				Value:    guestID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(WithGuestID(r.Context(), guestID)))
	})
}

// WithIdentity and WithGuestID exist so handlers and handler tests can
// populate request context without going through the middleware.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func WithGuestID(ctx context.Context, guestID string) context.Context {
	return context.WithValue(ctx, guestIDKey, guestID)
}

// IdentityFromContext returns the authenticated identity, or nil for guests.
func IdentityFromContext(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GuestIDFromContext(ctx context.Context) string {
	if guestID, ok := ctx.Value(guestIDKey).(string); ok {
		return guestID
	}
	return ""
}
