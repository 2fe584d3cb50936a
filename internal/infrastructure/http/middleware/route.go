package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-store/internal/infrastructure/telemetry"
)

// RoutePattern returns the matched chi pattern, or the raw path before routing
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// HTTPRouteContext adds the HTTP route pattern to the request context so
// every log written while serving the request carries http.route. It must
// run after routing, i.e. inside a chi Group or With chain.
func HTTPRouteContext() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := telemetry.WithHTTPRoute(r.Context(), RoutePattern(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
