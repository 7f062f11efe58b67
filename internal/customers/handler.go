package customers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vitrine-app/vitrine/internal/platform/httpx"
	"github.com/vitrine-app/vitrine/internal/query"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Post("/list", h.List)
		r.Get("/autocomplete", h.Autocomplete)
		r.Patch("/{id}", h.Update)
		r.Get("/{id}/overview", h.Overview)
		r.Get("/{id}/stats", h.Stats)
		r.Get("/{id}/purchases", h.Purchases)
		r.Delete("/{id}", h.Delete)
		r.Delete("/", h.DeleteMany)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create customer", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{"created": created})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "customer not found")
			return
		}
		h.logger.Error("update customer", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.NoContent(w)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	overview, err := h.service.Overview(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "customer not found")
			return
		}
		h.logger.Error("customer overview", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, overview)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "customer not found")
			return
		}
		h.logger.Error("customer stats", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) Purchases(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	purchases, err := h.service.Purchases(r.Context(), id)
	if err != nil {
		h.logger.Error("customer purchases", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, purchases)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "customer not found")
			return
		}
		h.logger.Error("delete customer", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.NoContent(w)
}

func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req DeleteManyCustomersRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	count, err := h.service.DeleteMany(r.Context(), req)
	if err != nil {
		h.logger.Error("delete customers", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Autocomplete(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("customer autocomplete", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if rows == nil {
		rows = []CustomerRow{}
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, search, sort := query.ParseListQuery(r)

	var filter query.FilterSpec
	if err := httpx.DecodeJSON(r, &filter); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	result, err := h.service.List(r.Context(), ListCustomersParams{
		Page:   page,
		Search: search,
		Sort:   sort,
		Filter: filter,
	})
	if err != nil {
		if query.IsClientError(err) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Query", err.Error())
			return
		}
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}
