package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/superheroes/internal/welcome"
)

type welcomeAPIHandler struct {
	flag *welcome.Flag
}

func registerWelcomeRoutes(r chi.Router, f *welcome.Flag) {
	h := &welcomeAPIHandler{flag: f}
	r.Get("/welcome", h.Get)
	r.Post("/welcome/dismiss", h.Dismiss)
}

// Get reports whether this visitor should still see the welcome message.
// GET /api/v1/welcome
//
// @Summary      Welcome message status
// @Tags         Welcome
// @Produce      json
// @Success      200  {object}  WelcomeResponse
// @Router       /welcome [get]
func (h *welcomeAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WelcomeResponse{Show: h.flag.ShouldShow(r.Context())})
}

// Dismiss records that this visitor has seen the welcome message.
// POST /api/v1/welcome/dismiss
//
// @Summary      Dismiss the welcome message
// @Tags         Welcome
// @Success      204
// @Router       /welcome/dismiss [post]
func (h *welcomeAPIHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.flag.Dismiss(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
