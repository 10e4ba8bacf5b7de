// Package abonnementread implements the HTTP handler returning the
// caller's subscription with the remaining time before July 31.
package abonnementread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/subscription"
)

// Handler serves subscription reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the subscription business logic the handler needs.
type Service interface {
	Get(ctx context.Context, userID int64) (*models.Abonnement, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get the caller's subscription
// @Tags Formation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Subscription with remaining days"
// @Failure 404 {object} response.ErrorResponse "Never subscribed"
// @Router /formation/abonnement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formation.abonnementread"

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

	a, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoAbonnement) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Response{
				Status: response.StatusError,
				Error:  "aucun abonnement",
				Data:   map[string]any{"abonnement_requis": true},
			})
			return
		}
		log.Error("failed to read subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription"))
		return
	}

	now := time.Now()
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"abonnement":     a,
		"est_actif":      a.EstActif(now),
		"jours_restants": a.JoursRestants(now),
		"mois_restants":  a.MoisRestants(now),
	}))
}
