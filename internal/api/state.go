package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/superheroes/internal/loading"
	"github.com/joestump/superheroes/internal/store"
)

type stateAPIHandler struct {
	store   *store.Store
	loading *loading.Tracker
}

func registerStateRoutes(r chi.Router, s *store.Store, t *loading.Tracker) {
	h := &stateAPIHandler{store: s, loading: t}
	r.Get("/state", h.Get)
	r.Post("/state/clear-error", h.ClearError)
	r.Post("/state/idle", h.Idle)
	r.Get("/loading", h.Loading)
}

// Get returns the store state and its derived views.
// GET /api/v1/state
//
// @Summary      Get store state
// @Tags         State
// @Produce      json
// @Success      200  {object}  StateResponse
// @Router       /state [get]
func (h *stateAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateResponse(h.store.Snapshot()))
}

// ClearError dismisses the current error.
// POST /api/v1/state/clear-error
//
// @Summary      Clear the store error
// @Tags         State
// @Produce      json
// @Success      200  {object}  StateResponse
// @Router       /state/clear-error [post]
func (h *stateAPIHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.store.ClearError()
	writeJSON(w, http.StatusOK, toStateResponse(h.store.Snapshot()))
}

// Idle abandons in-flight operations and clears the error.
// POST /api/v1/state/idle
//
// @Summary      Reset the store to idle
// @Tags         State
// @Produce      json
// @Success      200  {object}  StateResponse
// @Router       /state/idle [post]
func (h *stateAPIHandler) Idle(w http.ResponseWriter, r *http.Request) {
	h.store.SetIdle()
	writeJSON(w, http.StatusOK, toStateResponse(h.store.Snapshot()))
}

// Loading reports outbound data source requests and store operations in
// flight.
// GET /api/v1/loading
//
// @Summary      Loading indicator
// @Tags         State
// @Produce      json
// @Success      200  {object}  LoadingResponse
// @Router       /loading [get]
func (h *stateAPIHandler) Loading(w http.ResponseWriter, r *http.Request) {
	storeLoading := h.store.IsLoading()
	resp := LoadingResponse{StoreLoading: storeLoading, Loading: storeLoading}
	if h.loading != nil {
		resp.Outbound = h.loading.Active()
		resp.Loading = resp.Loading || h.loading.IsLoading()
	}
	writeJSON(w, http.StatusOK, resp)
}
