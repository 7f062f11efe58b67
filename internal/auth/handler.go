package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vitrine-app/vitrine/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *SessionStore
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, sessions *SessionStore, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, sessions: sessions, validate: validate}
}

// MountRoutes registers the public auth endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/signin", h.SignIn)
		r.Post("/signout", h.SignOut)
		r.Get("/me", h.Me)
	})
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.SignUp(r.Context(), req); err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			httpx.Problem(w, http.StatusConflict, "Conflict", "email already registered")
			return
		}
		h.logger.Error("sign up", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.NoContent(w)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "incorrect email or password")
		return
	}

	if err := h.sessions.Create(r.Context(), w, user); err != nil {
		h.logger.Error("create session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, Profile{ID: user.ID, Name: user.Name})
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.logger.Warn("destroy session", slog.Any("error", err))
	}
	httpx.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessions.Load(r.Context(), r)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
			return
		}
		h.logger.Error("load session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, profile)
}
