package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "user"

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrInvalidSession = errors.New("invalid session cookie")
	ErrTokenExpired   = errors.New("access token expired")
)

// SessionCookie is the JSON blob the storefront keeps in its auth cookie.
type SessionCookie struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	TokenType    string `json:"token_type"`
}

// Identity is the authenticated caller derived from a session cookie.
type Identity struct {
	Email       string
	Name        string
	Role        string
	AccessToken string
}

// Verifier turns a raw session cookie value into an Identity. When an HMAC
// secret is configured the access token signature is checked; without one
// only the claims are parsed, which reproduces the storefront's original
// cookie-trust behavior and should not be used where identity matters.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	var key []byte
	if secret != "" {
		key = []byte(secret)
	}
	return &Verifier{secret: key}
}

func (v *Verifier) ParseCookie(rawValue string) (*Identity, error) {
	decoded, err := url.QueryUnescape(rawValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	var sc SessionCookie
	if err := json.Unmarshal([]byte(decoded), &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if sc.AccessToken == "" {
		return nil, ErrInvalidSession
	}

	claims := jwt.MapClaims{}
	if v.secret != nil {
		_, err = jwt.ParseWithClaims(sc.AccessToken, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		})
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
		}
	} else {
		if _, _, err = jwt.NewParser().ParseUnverified(sc.AccessToken, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
		}
		exp, expErr := claims.GetExpirationTime()
		if expErr == nil && exp != nil && exp.Before(time.Now()) {
			return nil, ErrTokenExpired
		}
	}

	return &Identity{
		Email:       sc.Email,
		Name:        sc.Name,
		Role:        sc.Role,
		AccessToken: sc.AccessToken,
	}, nil
}
