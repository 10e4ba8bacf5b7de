// Package paiementread implements the HTTP handler returning the payment
// attached to one of the caller's applications.
package paiementread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Handler serves payment reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the contest business logic the handler needs.
type Service interface {
	ReadMyPaiement(ctx context.Context, inscriptionID, userID int64) (*models.Paiement, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get the payment of one of the caller's applications
// @Tags Paiements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application id"
// @Success 200 {object} response.Response "Payment"
// @Failure 404 {object} response.ErrorResponse "No payment for this application"
// @Router /concours/inscriptions/{id}/paiement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paiement.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.GetUserID(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	inscriptionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	p, err := h.service.ReadMyPaiement(r.Context(), inscriptionID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("paiement introuvable"))
			return
		}
		log.Error("failed to read paiement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read paiement"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"paiement": p,
	}))
}
