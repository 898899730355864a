package api

import (
	"context"
	"net/http"
	"time"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns the health check handler. When db is a Pinger an
// unreachable database turns the response into a 503.
func HealthHandler(db any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:  "healthy",
			Version: "1.0.0",
		}

		if p, ok := db.(Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				resp.Status = "unhealthy"
				respondJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
