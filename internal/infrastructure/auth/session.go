// Package auth verifies the signed session tokens handed to the service by
// the identity provider and resolves them into a domain.Actor.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the session token claims
type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens
type Sessions struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	now        func() time.Time
}

// NewSessions creates a session verifier from the auth configuration
func NewSessions(cfg *config.AuthConfig) *Sessions {
	return &Sessions{
		secret:     []byte(cfg.TokenSecret),
		cookieName: cfg.CookieName,
		ttl:        cfg.TokenTTL,
		now:        time.Now,
	}
}

// CookieName is the cookie the browser surface reads the token from
func (s *Sessions) CookieName() string {
	return s.cookieName
}

// Issue signs a token for subject
func (s *Sessions) Issue(subject string, admin bool) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}

	now := s.now()
	claims := Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify parses token and returns the actor it names
func (s *Sessions) Verify(token string) (*domain.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &domain.Actor{
		Subject:         claims.Subject,
		IsAdministrator: claims.Admin,
	}, nil
}

// Middleware resolves the actor of every request. The cookie is tried
// first, then the Bearer header. Requests without a valid token carry no
// actor; rejecting them is left to the routes.
func (s *Sessions) Middleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, token := range s.tokensFromRequest(r) {
				actor, err := s.Verify(token)
				if err != nil {
					logger.DebugContext(r.Context(), "Ignoring session token",
						slog.String("reason", err.Error()),
					)
					continue
				}

				next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (s *Sessions) tokensFromRequest(r *http.Request) []string {
	var tokens []string
	if c, err := r.Cookie(s.cookieName); err == nil && c.Value != "" {
		tokens = append(tokens, c.Value)
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// RequireSession redirects requests without an actor to loginURL,
// passing the original location in the redirect query parameter.
func RequireSession(loginURL string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ActorFromContext(r.Context()) == nil {
				http.Redirect(w, r, LoginRedirect(loginURL, r), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRedirect builds the login location for an unauthenticated request
func LoginRedirect(loginURL string, r *http.Request) string {
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + "redirect=" + url.QueryEscape(r.URL.RequestURI())
}

type actorKey struct{}

// WithActor stores actor in ctx
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the request actor, or nil when unauthenticated
func ActorFromContext(ctx context.Context) *domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(*domain.Actor)
	return actor
}
