package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mrops-br/products-catalog/internal/domain"
	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessions() *Sessions {
	return NewSessions(&config.AuthConfig{
		TokenSecret: "test-secret",
		CookieName:  "catalog_session",
		TokenTTL:    time.Hour,
	})
}

func TestSessions_IssueAndVerify(t *testing.T) {
	s := newSessions()

	token, err := s.Issue("admin-1", true)
	require.NoError(t, err)

	actor, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, &domain.Actor{Subject: "admin-1", IsAdministrator: true}, actor)

	token, err = s.Issue("user-1", false)
	require.NoError(t, err)
	actor, err = s.Verify(token)
	require.NoError(t, err)
	assert.False(t, actor.IsAdministrator)
}

func TestSessions_VerifyRejects(t *testing.T) {
	s := newSessions()
	token, err := s.Issue("user-1", false)
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		other := NewSessions(&config.AuthConfig{TokenSecret: "nope", TokenTTL: time.Hour})
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := newSessions()
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestSessions_IssueRequiresSubject(t *testing.T) {
	_, err := newSessions().Issue("", true)
	assert.Error(t, err)
}

func TestMiddleware_ResolvesActor(t *testing.T) {
	s := newSessions()
	token, err := s.Issue("admin-1", true)
	require.NoError(t, err)

	var got *domain.Actor
	h := s.Middleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ActorFromContext(r.Context())
	}))

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    *domain.Actor
	}{
		{name: "no token"},
		{
			name:    "cookie",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "catalog_session", Value: token}) },
			want:    &domain.Actor{Subject: "admin-1", IsAdministrator: true},
		},
		{
			name:    "bearer",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			want:    &domain.Actor{Subject: "admin-1", IsAdministrator: true},
		},
		{
			name:    "invalid token",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") },
		},
		{
			name: "stale cookie falls back to bearer",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "catalog_session", Value: "stale"})
				r.Header.Set("Authorization", "Bearer "+token)
			},
			want: &domain.Actor{Subject: "admin-1", IsAdministrator: true},
		},
		{
			name: "invalid cookie and bearer",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "catalog_session", Value: "stale"})
				r.Header.Set("Authorization", "Bearer junk")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/product", nil)
			if tt.prepare != nil {
				tt.prepare(req)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireSession(t *testing.T) {
	h := RequireSession("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product?x=1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fproduct%3Fx%3D1", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/product", nil)
	req = req.WithContext(WithActor(req.Context(), &domain.Actor{Subject: "u"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
