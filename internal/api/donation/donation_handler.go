package donation

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carelink/carelink/internal/api"
	"github.com/carelink/carelink/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateDonation(w http.ResponseWriter, r *http.Request)
	ListDonations(w http.ResponseWriter, r *http.Request)
	GetDonation(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	donationService Service
	logger          *slog.Logger
}

func NewHandlerImpl(donationService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		donationService: donationService,
		logger:          logger,
	}
}

// CreateDonation godoc
// @Summary      Record Donation
// @Description  Records a pledge toward an organization. No payment processing.
// @Tags         Donation
// @Accept       json
// @Produce      json
// @Param        request body CreateDonationRequest true "Pledge"
// @Success      201 {object} types.Donation "Recorded pledge"
// @Failure      400 {object} types.Response "Invalid payload"
// @Failure      404 {object} types.Response "Unknown organization"
// @Router       /donations [post]
func (h *HandlerImpl) CreateDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateDonation"))

	var req CreateDonationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.donationService.CreateDonation(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidInput):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Organization not found")
		default:
			l.ErrorContext(ctx, "Failed to record donation", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to record donation")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// ListDonations godoc
// @Summary      List Donations
// @Description  Lists pledges newest first, optionally filtered by organization.
// @Tags         Donation
// @Produce      json
// @Param        registration_number query string false "Filter by organization registry id"
// @Success      200 {array} types.Donation "Pledges"
// @Router       /donations [get]
func (h *HandlerImpl) ListDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListDonations"))

	var (
		donations []types.Donation
		err       error
	)
	if registration := r.URL.Query().Get("registration_number"); registration != "" {
		donations, err = h.donationService.ListDonationsByRegistration(ctx, registration)
	} else {
		donations, err = h.donationService.ListDonations(ctx)
	}
	if err != nil {
		l.ErrorContext(ctx, "Failed to list donations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list donations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, donations)
}

// GetDonation godoc
// @Summary      Get Donation
// @Tags         Donation
// @Produce      json
// @Param        id path string true "Donation ID"
// @Success      200 {object} types.Donation "Pledge"
// @Failure      404 {object} types.Response "Not Found"
// @Router       /donations/{id} [get]
func (h *HandlerImpl) GetDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetDonation"))

	donationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid donation ID format")
		return
	}

	donation, err := h.donationService.GetDonation(ctx, donationID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Donation not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch donation", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch donation")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, donation)
}
