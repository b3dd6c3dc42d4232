// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ViewsHandler handles the read-only tracker endpoints.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleLog handles GET /log requests. The response is the ordered event
// list of the open point.
func (h *ViewsHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.LogEvents(r.Context()))
}

// HandlePossession handles GET /possession requests.
func (h *ViewsHandler) HandlePossession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Possession(r.Context()))
}

// HandleScore handles GET /score requests.
func (h *ViewsHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Score(r.Context()))
}

// HandleStats handles GET /stats?scope=point|match requests. An absent
// scope means the whole match.
func (h *ViewsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	res, err := h.deps.Stats(r.Context(), r.URL.Query().Get("scope"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandlePlayers handles GET /players requests.
func (h *ViewsHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Players(r.Context()))
}
