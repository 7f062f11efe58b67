package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine-app/vitrine/internal/platform/httpx"
	"github.com/vitrine-app/vitrine/internal/shared"
)

// Handler serves the reporting endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the reporting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stats", h.GetStats)
}

// GetStats answers GET /stats?period&method&startDate&endDate with cards,
// top categories and the metrics chart in one payload.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := ParsePeriod(q.Get("period"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	method, err := ParseMethod(q.Get("method"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
		return
	}
	start, err := shared.ParseDate(q.Get("startDate"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "startDate must be an ISO date")
		return
	}
	end, err := shared.ParseDate(q.Get("endDate"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Query", "endDate must be an ISO date")
		return
	}

	window := DateRange{Start: shared.StartOfDay(start), End: shared.EndOfDay(end)}

	stats, err := h.service.Stats(r.Context(), period, method, window)
	if err != nil {
		h.logger.Error("compute stats", slog.Any("error", err),
			slog.String("period", string(period)), slog.String("method", string(method)))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, stats)
}
