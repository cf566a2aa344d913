package handlers

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/toolrt/internal/bridge"
	"github.com/bobmcallan/toolrt/internal/client"
	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/models"
	"github.com/bobmcallan/toolrt/internal/runtime"
)

// ToolSummary is one entry of GET /api/tools.
type ToolSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	InputLabel  string `json:"from"`
	OutputLabel string `json:"to"`
	Bridge      string `json:"bridge"`
	Options     int    `json:"options"`
	Examples    int    `json:"examples"`
}

// TransformRequest is the body of POST /api/tools/{id}/transform.
type TransformRequest struct {
	Input   string                 `json:"input"`
	Options models.OptionsSnapshot `json:"options,omitempty"`
}

// TransformResponse is the result of a transform.
type TransformResponse struct {
	ID     string `json:"id"`
	Output string `json:"output"`
}

// ToolsHandler serves the tool API over a pool of live instances.
type ToolsHandler struct {
	logger *common.Logger
	pool   *runtime.Pool
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(logger *common.Logger, pool *runtime.Pool) *ToolsHandler {
	return &ToolsHandler{logger: logger, pool: pool}
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	descriptors := h.pool.Descriptors()
	out := make([]ToolSummary, 0, len(descriptors))
	for _, d := range descriptors {
		controls := 0
		for _, g := range d.Options {
			controls += len(g.Controls)
		}
		out = append(out, ToolSummary{
			ID:          d.ID,
			Name:        d.Name,
			InputLabel:  d.InputLabel,
			OutputLabel: d.OutputLabel,
			Bridge:      d.Bridge,
			Options:     controls,
			Examples:    len(d.Examples),
		})
	}
	WriteJSON(w, http.StatusOK, out)
}

// Get handles GET /api/tools/{id}.
func (h *ToolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.pool.Descriptor(r.PathValue("id"))
	if !ok {
		WriteError(w, http.StatusNotFound, "tool not found")
		return
	}
	WriteJSON(w, http.StatusOK, d)
}

// Transform handles POST /api/tools/{id}/transform.
func (h *ToolsHandler) Transform(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req TransformRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tool, err := h.pool.Get(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn().Str("tool", id).Int("status", status).Err(err).Msg("tool unavailable")
		WriteError(w, status, err.Error())
		return
	}

	out, err := tool.Transform(req.Input, req.Options)
	if err != nil {
		WriteError(w, statusFor(err), err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, TransformResponse{ID: id, Output: out})
}

// statusFor maps runtime errors to HTTP status codes.
func statusFor(err error) int {
	var (
		notFound  *client.NotFoundError
		transform *bridge.TransformError
		boot      *runtime.BootstrapError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &transform):
		return http.StatusUnprocessableEntity
	case errors.As(err, &boot):
		return http.StatusBadGateway
	case errors.Is(err, runtime.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}
