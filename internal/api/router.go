package api

import (
	"log/slog"
	"net/http"

	"github.com/Priya8975/newsletter-service/internal/newsletter"
	ws "github.com/Priya8975/newsletter-service/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the HTTP router. metrics and hub may be
// nil, in which case their routes are not mounted.
func NewRouter(svc *newsletter.Service, metrics MetricsSource, hub *ws.Hub, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// CORS for embedded signup forms
	r.Use(corsMiddleware)

	// Handlers
	subHandler := NewSubscriptionHandler(svc)

	r.Get("/health", HealthHandler(metrics))

	// Subscription routes
	r.Post("/newsletter-subscriptions", subHandler.Create)
	r.Get("/newsletter-subscriptions", subHandler.List)

	// Admin metrics
	if metrics != nil {
		dashHandler := NewDashboardHandler(metrics, hub, logger)
		r.Get("/metrics", dashHandler.Metrics)
	}

	// WebSocket endpoint
	if hub != nil {
		r.Get("/ws", hub.HandleWebSocket)
	}

	return r
}

// corsMiddleware lets the signup form be embedded on other origins.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
