// Package session reads the signed, cookie bound session established by
// the external sign-in step and checks it against the wallet a mutation
// claims to act for.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrUnauthorized is the only error the Guard returns. A missing, corrupt,
// expired or foreign session and an address mismatch all look the same.
var ErrUnauthorized = errors.New("unauthorized")

const issuer = "nns"

// Claims binds a session to one wallet address.
type Claims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// Store signs and verifies session tokens with an HMAC key.
type Store struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(secret []byte, ttl time.Duration) *Store {
	return &Store{secret: secret, ttl: ttl, now: time.Now}
}

// Issue creates a token for address. Used by the sign-in collaborator and
// by tests, the guard itself never writes sessions.
func (s *Store) Issue(address string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("session secret is not configured")
	}
	now := s.now()
	claims := &Claims{
		Address: address,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Store) Parse(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("session secret is not configured")
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Guard authorizes mutations against the session found in a cookie.
type Guard struct {
	store      *Store
	cookieName string
	l          *zap.Logger
}

func NewGuard(store *Store, cookieName string, l *zap.Logger) *Guard {
	if l == nil {
		l = zap.NewNop()
	}
	return &Guard{store: store, cookieName: cookieName, l: l}
}

func (g *Guard) CookieName() string {
	return g.cookieName
}

// Authorize succeeds only when token is a valid session bound to exactly
// claimedOwner. The comparison is case sensitive.
func (g *Guard) Authorize(token string, claimedOwner string) error {
	if token == "" || claimedOwner == "" {
		g.l.Debug("session rejected", zap.String("cause", "missing token or owner"))
		return ErrUnauthorized
	}
	claims, err := g.store.Parse(token)
	if err != nil {
		g.l.Debug("session rejected", zap.Error(err))
		return ErrUnauthorized
	}
	if claims.Address != claimedOwner {
		g.l.Debug("session rejected", zap.String("cause", "address mismatch"))
		return ErrUnauthorized
	}
	return nil
}

// Cookie wraps token the way the sign-in step stores it.
func (g *Guard) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     g.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
