package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Priya8975/newsletter-service/internal/domain"
	"github.com/Priya8975/newsletter-service/internal/newsletter"
)

// respondJSON writes body as JSON with the given status code.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError writes the failure shape shared by every endpoint.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.SubscribeResponse{Success: false, Message: message})
}

// respondServiceError maps a newsletter error onto a status code. Only the
// error's user-facing message is written; causes never leave the server.
func respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *newsletter.Error
	if !errors.As(err, &svcErr) {
		respondError(w, http.StatusInternalServerError, newsletter.MsgInternal)
		return
	}

	switch svcErr.Kind {
	case newsletter.KindValidation, newsletter.KindDuplicate:
		respondError(w, http.StatusBadRequest, svcErr.Message)
	case newsletter.KindNotFound:
		respondError(w, http.StatusNotFound, svcErr.Message)
	default:
		respondError(w, http.StatusInternalServerError, svcErr.Message)
	}
}
