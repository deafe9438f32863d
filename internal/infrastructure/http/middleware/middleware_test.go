package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/products-catalog/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestMethodOverride(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		override    string
		want        string
	}{
		{name: "put", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", override: "PUT", want: http.MethodPut},
		{name: "lowercase delete", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", override: "delete", want: http.MethodDelete},
		{name: "unsupported", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", override: "GET", want: http.MethodPost},
		{name: "json body", method: http.MethodPost, contentType: "application/json", override: "PUT", want: http.MethodPost},
		{name: "not a post", method: http.MethodPut, contentType: "application/x-www-form-urlencoded", override: "DELETE", want: http.MethodPut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got, name string
			h := MethodOverride()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Method
				name = r.PostFormValue("name")
			}))

			form := url.Values{MethodOverrideField: {tt.override}, "name": {"kept"}}
			req := httptest.NewRequest(tt.method, "/product/1", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", tt.contentType)
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
			if tt.contentType != "application/json" {
				assert.Equal(t, "kept", name)
			}
		})
	}
}

func TestMethodOverride_RoutesToOverriddenMethod(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MethodOverride())
	r.Delete("/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	form := url.Values{MethodOverrideField: {"DELETE"}}
	req := httptest.NewRequest(http.MethodPost, "/product/4", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(StructuredLogger(logger))
	r.Get("/product/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/9/edit", nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "HTTP request completed", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "/product/{id}/edit", rec["http.route"])
	assert.Equal(t, float64(http.StatusForbidden), rec["http.response.status_code"])
}

func TestHTTPRouteContext(t *testing.T) {
	var route string
	h := HTTPRouteContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route = telemetry.HTTPRouteFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "/health", route)
}

func TestMetricsMiddlewares_PassThrough(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	h := ActiveRequestsMiddleware(meter)(DurationMillisecondsMiddleware(meter)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}),
	))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestSameOrigin(t *testing.T) {
	// httptest requests are addressed to example.com
	tests := []struct {
		name    string
		method  string
		headers map[string]string
		want    int
	}{
		{name: "no browser headers", method: http.MethodPost, want: http.StatusOK},
		{name: "same origin", method: http.MethodPost, headers: map[string]string{"Origin": "http://example.com"}, want: http.StatusOK},
		{name: "foreign origin", method: http.MethodPost, headers: map[string]string{"Origin": "https://evil.test"}, want: http.StatusForbidden},
		{name: "null origin", method: http.MethodDelete, headers: map[string]string{"Origin": "null"}, want: http.StatusForbidden},
		{name: "foreign referer", method: http.MethodPut, headers: map[string]string{"Referer": "https://evil.test/form"}, want: http.StatusForbidden},
		{name: "same referer", method: http.MethodPatch, headers: map[string]string{"Referer": "http://example.com/product/1/edit"}, want: http.StatusOK},
		{name: "fetch metadata cross-site", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, want: http.StatusForbidden},
		{
			name:    "fetch metadata wins over origin",
			method:  http.MethodPost,
			headers: map[string]string{"Sec-Fetch-Site": "same-origin", "Origin": "http://127.0.0.1:8080"},
			want:    http.StatusOK,
		},
		{name: "safe method", method: http.MethodGet, headers: map[string]string{"Origin": "https://evil.test"}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := SameOrigin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/product/store", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.want == http.StatusOK, called)
		})
	}
}
