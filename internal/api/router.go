package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/superheroes/internal/confirm"
	"github.com/joestump/superheroes/internal/loading"
	"github.com/joestump/superheroes/internal/notify"
	"github.com/joestump/superheroes/internal/store"
	"github.com/joestump/superheroes/internal/welcome"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Store    *store.Store
	Confirm  *confirm.Broker
	Hub      *notify.Hub
	Loading  *loading.Tracker
	Sessions *scs.SessionManager
	Logger   *zap.Logger
}

// NewAPIRouter creates a chi sub-router for /api/v1. Sessions are loaded only
// for the welcome routes; the streaming routes must not be buffered.
func NewAPIRouter(deps Deps) chi.Router {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("api")

	r := chi.NewRouter()
	r.Use(jsonContentType)

	registerHeroRoutes(r, deps.Store)
	registerConfirmationRoutes(r, deps.Store, deps.Confirm)
	registerStateRoutes(r, deps.Store, deps.Loading)
	registerFeedRoutes(r, deps.Store, deps.Hub, log)

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.LoadAndSave)
		registerWelcomeRoutes(r, welcome.New(deps.Sessions))
	})

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
