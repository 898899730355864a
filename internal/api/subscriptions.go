package api

import (
	"encoding/json"
	"net/http"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/Priya8975/newsletter-service/internal/newsletter"
)

const maxSubscribeBody = 4 << 10

// SubscriptionHandler serves the newsletter subscription endpoints.
type SubscriptionHandler struct {
	service *newsletter.Service
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(svc *newsletter.Service) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// Create handles POST /newsletter-subscriptions.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscribeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubscribeBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, newsletter.MsgInvalidEmail)
		return
	}

	res, err := h.service.Subscribe(r.Context(), req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == newsletter.OutcomeCreated {
		status = http.StatusCreated
	}

	respondJSON(w, status, domain.SubscribeResponse{
		Success: true,
		Message: res.Message,
	})
}

// List handles GET /newsletter-subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	subscribers, err := h.service.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.ListSubscribersResponse{
		Success: true,
		Data:    subscribers,
		Count:   len(subscribers),
	})
}
