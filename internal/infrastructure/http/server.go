package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/products-catalog/internal/infrastructure/auth"
	"github.com/mrops-br/products-catalog/internal/infrastructure/config"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/handler"
	"github.com/mrops-br/products-catalog/internal/infrastructure/http/middleware"
	"github.com/mrops-br/products-catalog/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *config.Config
	products   *handler.ProductHandler
	api        *handler.APIHandler
	sessions   *auth.Sessions
	logger     *slog.Logger
	telemetry  *telemetry.Telemetry
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	products *handler.ProductHandler,
	api *handler.APIHandler,
	sessions *auth.Sessions,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		products:  products,
		api:       api,
		sessions:  sessions,
		logger:    telem.Logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: s.Handler(),
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.MethodOverride())
	s.router.Use(s.sessions.Middleware(s.logger))

	// Add HTTP route to context so all logs include it automatically
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter("products-catalog")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the browser, API and operational routes
func (s *Server) setupRoutes() {
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/product", http.StatusFound)
	})

	s.router.Route("/product", func(r chi.Router) {
		r.Use(middleware.SameOrigin())
		r.Use(auth.RequireSession(s.config.Auth.LoginURL))

		r.Get("/", s.products.Index)
		r.Get("/create", s.products.Create)
		r.Post("/store", s.products.Store)
		r.Get("/{id}/edit", s.products.Edit)
		r.Put("/{id}", s.products.Update)
		r.Patch("/{id}", s.products.Update)
		r.Delete("/{id}", s.products.Destroy)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/products", s.api.ListProducts)
		r.Post("/products", s.api.CreateProduct)
		r.Get("/products/{id}", s.api.GetProduct)
		r.Get("/openapi.json", s.api.OpenAPI)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus exposition of the OpenTelemetry metrics
	s.router.Get("/metrics", promhttp.HandlerFor(s.telemetry.Registry, promhttp.HandlerOpts{}).ServeHTTP)
}

// Handler returns the router wrapped with otelhttp for HTTP metrics and tracing
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
