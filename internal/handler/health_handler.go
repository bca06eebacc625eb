package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-blog-cms/internal/logger"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	db  Pinger
	log logger.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

func (h *HealthHandler) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, body := http.StatusOK, map[string]string{"status": "ok"}
	if err := h.db.PingContext(ctx); err != nil {
		h.log.Error(err, "Health check failed")
		status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
