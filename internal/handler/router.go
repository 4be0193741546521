package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/joestump/superheroes/docs/swagger"
	"github.com/joestump/superheroes/internal/api"
	"github.com/joestump/superheroes/internal/logging"
)

// NewRouter assembles the full chi router: shared middleware, operational
// endpoints, the Swagger UI, and the API at /api/v1.
func NewRouter(deps api.Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(log.Named("http")))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/api/v1", api.NewAPIRouter(deps))

	return r
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}
