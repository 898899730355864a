package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Priya8975/newsletter-service/internal/newsletter"
	"github.com/Priya8975/newsletter-service/internal/store"
	ws "github.com/Priya8975/newsletter-service/internal/websocket"
)

// MetricsSource supplies aggregated subscriber counts.
type MetricsSource interface {
	GetSubscriberMetrics(ctx context.Context) (*store.SubscriberMetrics, error)
}

// DashboardHandler serves admin metrics.
type DashboardHandler struct {
	metrics MetricsSource
	hub     *ws.Hub
	logger  *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(m MetricsSource, hub *ws.Hub, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{metrics: m, hub: hub, logger: logger}
}

// Metrics returns subscriber counts and the number of live admin clients.
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.metrics.GetSubscriberMetrics(r.Context())
	if err != nil {
		h.logger.Error("failed to get metrics", "error", err)
		respondError(w, http.StatusInternalServerError, newsletter.MsgListInternal)
		return
	}

	type metricsResponse struct {
		store.SubscriberMetrics
		WebSocketClients int `json:"websocket_clients"`
	}

	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}

	respondJSON(w, http.StatusOK, metricsResponse{
		SubscriberMetrics: *metrics,
		WebSocketClients:  clients,
	})
}
