package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine-app/vitrine/internal/auth"
	"github.com/vitrine-app/vitrine/internal/cashflow"
	"github.com/vitrine-app/vitrine/internal/catalog"
	"github.com/vitrine-app/vitrine/internal/customers"
	"github.com/vitrine-app/vitrine/internal/platform/httpx"
	"github.com/vitrine-app/vitrine/internal/reports"
	"github.com/vitrine-app/vitrine/internal/sales"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Sessions         *auth.SessionStore
	AuthHandler      *auth.Handler
	CustomersHandler *customers.Handler
	SalesHandler     *sales.Handler
	CashflowHandler  *cashflow.Handler
	CatalogHandler   *catalog.Handler
	ReportsHandler   *reports.Handler
}

// NewRouter builds the chi.Router. Auth and the dashboard stats endpoint
// are public; everything else sits behind the session middleware.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	params.AuthHandler.MountRoutes(r)
	params.ReportsHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(params.Sessions.Middleware)

		params.CustomersHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.CashflowHandler.MountRoutes(r)
		params.CatalogHandler.MountRoutes(r)
	})

	return r
}
