package handlers

import (
	"net/http"

	"github.com/bobmcallan/toolrt/internal/common"
	"github.com/bobmcallan/toolrt/internal/runtime"
	"github.com/bobmcallan/toolrt/internal/ui"
	"github.com/bobmcallan/toolrt/internal/ui/memdom"
)

// PageHandler serves HTML pages rendered from live tool instances.
type PageHandler struct {
	logger *common.Logger
	pool   *runtime.Pool
}

// NewPageHandler creates a new page handler.
func NewPageHandler(logger *common.Logger, pool *runtime.Pool) *PageHandler {
	return &PageHandler{logger: logger, pool: pool}
}

// Index handles GET /, listing every tool.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}

	doc := memdom.New()
	ui.Append(doc, doc.Root(), ui.Spec{Tag: "h1", Value: "Tools"})
	list := ui.Append(doc, doc.Root(), ui.Spec{Tag: "ul", Classes: "tool-list"})
	for _, d := range h.pool.Descriptors() {
		item := ui.Append(doc, list, ui.Spec{Tag: "li"})
		ui.Append(doc, item, ui.Spec{Tag: "a", Attrs: map[string]string{"href": "/tools/" + d.ID}, Value: d.Name})
	}

	page, err := doc.HTML("Tools")
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render index")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

// Tool handles GET /tools/{id}, rendering the live instance of a tool.
func (h *PageHandler) Tool(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	id := r.PathValue("id")

	tool, err := h.pool.Get(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn().Str("tool", id).Err(err).Msg("tool page unavailable")
		http.Error(w, err.Error(), status)
		return
	}

	page, err := tool.HTML()
	if err != nil {
		h.logger.Error().Str("tool", id).Err(err).Msg("failed to render tool page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}

func writeHTML(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}
