package handlers

import (
	"net/http"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/runtime"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	pool   *runtime.Pool
}

// NewHealthHandler creates a new health handler. pool may be nil.
func NewHealthHandler(logger *common.Logger, pool *runtime.Pool) *HealthHandler {
	return &HealthHandler{logger: logger, pool: pool}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	body := map[string]any{"status": "ok"}
	if h.pool != nil {
		body["tools"] = len(h.pool.Descriptors())
		body["live"] = h.pool.Len()
	}
	WriteJSON(w, http.StatusOK, body)
}
