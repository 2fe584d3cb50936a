package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/catalog-store/internal/infrastructure/config"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-store/internal/infrastructure/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Server represents the storefront HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	handler *handler.StorefrontHandler
	metrics http.Handler
	meter   metric.MeterProvider
	logger  *slog.Logger
}

// NewServer creates a new HTTP server. metricsHandler serves /metrics.
func NewServer(
	cfg *config.ServerConfig,
	handler *handler.StorefrontHandler,
	metricsHandler http.Handler,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		handler: handler,
		metrics: metricsHandler,
		meter:   meterProvider,
		logger:  logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.ActiveRequests(s.meter.Meter("catalog-store")))
}

func (s *Server) setupRoutes() {
	// Routes are registered flat on an inline group so HTTPRouteContext is
	// chained onto each endpoint and sees the full route pattern.
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRouteContext())

		r.Get("/products", s.handler.ListProducts)
		r.Post("/products", s.handler.CreateProduct)
		r.Post("/products/load", s.handler.LoadProducts)
		r.Post("/products/reload", s.handler.ReloadProducts)
		r.Get("/products/{id}", s.handler.GetProduct)
		r.Put("/products/{id}", s.handler.UpdateProduct)
		r.Delete("/products/{id}", s.handler.DeleteProduct)
		r.Post("/products/{id}/like", s.handler.ToggleLike)
		r.Get("/categories", s.handler.ListCategories)

		r.Put("/view/filter", s.handler.SetFilter)
		r.Put("/view/search", s.handler.SetSearch)
		r.Put("/view/categories", s.handler.SetCategories)
		r.Put("/view/page", s.handler.SetPage)

		r.Get("/cart", s.handler.GetCart)
		r.Delete("/cart", s.handler.ClearCart)
		r.Post("/cart/items", s.handler.AddToCart)
		r.Patch("/cart/items/{id}", s.handler.AdjustQuantity)
		r.Delete("/cart/items/{id}", s.handler.RemoveFromCart)

		r.Post("/checkout/delivery", s.handler.SubmitDelivery)
		r.Post("/checkout/payment", s.handler.SubmitPayment)
		r.Delete("/checkout", s.handler.CancelCheckout)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.router.Method(http.MethodGet, "/metrics", s.metrics)
}

// Handler returns the router wrapped with otelhttp for HTTP server spans
// and the standard request duration and size metrics.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMeterProvider(s.meter),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", slog.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
