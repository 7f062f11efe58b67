package sales

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
	r.Route("/sales", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Post("/list", h.List)
		r.Get("/{id}/overview", h.Overview)
		r.Get("/{id}/items", h.Items)
		r.Get("/{id}/installments", h.Installments)
		r.Post("/{id}/installments", h.CreateInstallment)
		r.Delete("/{saleID}/installments/{id}", h.DeleteInstallment)
		r.Delete("/{id}", h.Delete)
		r.Delete("/", h.DeleteMany)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.Create(r.Context(), req); err != nil {
		if errors.Is(err, ErrModelNotFound) || errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Sale", err.Error())
			return
		}
		h.logger.Error("create sale", slog.Any("error", err))
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
			httpx.Problem(w, http.StatusNotFound, "Not Found", "sale not found")
			return
		}
		h.logger.Error("sale overview", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, overview)
}

func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	items, err := h.service.Items(r.Context(), id)
	if err != nil {
		h.logger.Error("sale items", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) Installments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	installments, err := h.service.Installments(r.Context(), id)
	if err != nil {
		h.logger.Error("sale installments", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, installments)
}

func (h *Handler) CreateInstallment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateInstallmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.CreateInstallment(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "sale not found")
			return
		}
		h.logger.Error("create installment", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteInstallment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteInstallment(r.Context(), id); err != nil {
		if errors.Is(err, ErrInstallmentOnly) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "installment not found")
			return
		}
		h.logger.Error("delete installment", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "sale not found")
			return
		}
		h.logger.Error("delete sale", slog.Any("error", err), slog.String("id", id))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.NoContent(w)
}

func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req DeleteManySalesRequest
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
		h.logger.Error("delete sales", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, search, sort := query.ParseListQuery(r)

	var filter query.FilterSpec
	if err := httpx.DecodeJSON(r, &filter); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	result, err := h.service.List(r.Context(), ListSalesParams{
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
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}
