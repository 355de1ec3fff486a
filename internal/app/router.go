package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	drehttp "github.com/cooperval/controladoria/internal/dre/http"
	"github.com/cooperval/controladoria/internal/masterdata/commitments"
	"github.com/cooperval/controladoria/internal/masterdata/groups"
	"github.com/cooperval/controladoria/internal/masterdata/types"
	"github.com/cooperval/controladoria/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	DREHandler         *drehttp.Handler
	TypesHandler       *types.Handler
	GroupsHandler      *groups.Handler
	CommitmentsHandler *commitments.Handler
	WarmupTrigger      http.HandlerFunc
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.DREHandler != nil {
		params.DREHandler.MountRoutes(r)
	}
	if params.TypesHandler != nil {
		params.TypesHandler.MountRoutes(r)
	}
	if params.GroupsHandler != nil {
		params.GroupsHandler.MountRoutes(r)
	}
	if params.CommitmentsHandler != nil {
		params.CommitmentsHandler.MountRoutes(r)
	}
	if params.WarmupTrigger != nil {
		r.Post("/admin/jobs/dre-warmup", params.WarmupTrigger)
	}

	return r
}
