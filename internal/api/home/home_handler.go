package home

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carelink/carelink/internal/api"
	"github.com/carelink/carelink/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateHome(w http.ResponseWriter, r *http.Request)
	ListHomes(w http.ResponseWriter, r *http.Request)
	GetHome(w http.ResponseWriter, r *http.Request)
	UpdateHome(w http.ResponseWriter, r *http.Request)
	DeleteHome(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	homeService Service
	logger      *slog.Logger
}

func NewHandlerImpl(homeService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		homeService: homeService,
		logger:      logger,
	}
}

// CreateHome godoc
// @Summary      Register Organization
// @Description  Creates a care home listing. Registration number and email must be unique.
// @Tags         Home
// @Accept       json
// @Produce      json
// @Param        request body CreateHomeRequest true "Organization"
// @Success      201 {object} types.Home "Created organization"
// @Failure      400 {object} types.Response "Invalid payload"
// @Failure      409 {object} types.Response "Duplicate registration number or email"
// @Security     BearerAuth
// @Router       /homes [post]
func (h *HandlerImpl) CreateHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateHome"))

	var req CreateHomeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.RegistrationNumber) == "" ||
		strings.TrimSpace(req.Email) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Name, registration number and email are required")
		return
	}

	created, err := h.homeService.CreateHome(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrDuplicateRegistration):
			api.ErrorResponse(w, r, http.StatusConflict, "Registration number already registered")
		case errors.Is(err, types.ErrDuplicateEmail):
			api.ErrorResponse(w, r, http.StatusConflict, "Email already registered")
		case errors.Is(err, types.ErrInvalidInput):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to create home", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create organization")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// ListHomes godoc
// @Summary      List Organizations
// @Tags         Home
// @Produce      json
// @Success      200 {array} types.Home "Organizations"
// @Router       /homes [get]
func (h *HandlerImpl) ListHomes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListHomes"))

	homes, err := h.homeService.ListHomes(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list homes", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list organizations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, homes)
}

// GetHome godoc
// @Summary      Get Organization
// @Tags         Home
// @Produce      json
// @Param        id path string true "Home ID"
// @Success      200 {object} types.Home "Organization"
// @Failure      404 {object} types.Response "Not Found"
// @Router       /homes/{id} [get]
func (h *HandlerImpl) GetHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetHome"))

	homeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid home ID format")
		return
	}

	home, err := h.homeService.GetHome(ctx, homeID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Organization not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch home", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch organization")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, home)
}

// UpdateHome godoc
// @Summary      Update Organization
// @Tags         Home
// @Accept       json
// @Produce      json
// @Param        id path string true "Home ID"
// @Param        request body types.UpdateHomeParams true "Fields to update"
// @Success      200 {object} types.Home "Updated organization"
// @Failure      400 {object} types.Response "Invalid payload"
// @Failure      404 {object} types.Response "Not Found"
// @Failure      409 {object} types.Response "Duplicate registration number or email"
// @Security     BearerAuth
// @Router       /homes/{id} [put]
func (h *HandlerImpl) UpdateHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateHome"))

	homeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid home ID format")
		return
	}

	var params types.UpdateHomeParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	home, err := h.homeService.UpdateHome(ctx, homeID, params)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Organization not found")
		case errors.Is(err, types.ErrDuplicateRegistration):
			api.ErrorResponse(w, r, http.StatusConflict, "Registration number already registered")
		case errors.Is(err, types.ErrDuplicateEmail):
			api.ErrorResponse(w, r, http.StatusConflict, "Email already registered")
		case errors.Is(err, types.ErrInvalidInput):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to update home", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update organization")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, home)
}

// DeleteHome godoc
// @Summary      Delete Organization
// @Tags         Home
// @Param        id path string true "Home ID"
// @Success      204 "No Content"
// @Failure      404 {object} types.Response "Not Found"
// @Security     BearerAuth
// @Router       /homes/{id} [delete]
func (h *HandlerImpl) DeleteHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteHome"))

	homeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid home ID format")
		return
	}

	if err := h.homeService.DeleteHome(ctx, homeID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Organization not found")
			return
		}
		l.ErrorContext(ctx, "Failed to delete home", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete organization")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
