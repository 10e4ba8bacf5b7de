// Package matieres implements the HTTP handler listing the subject catalog
// of the QCM module. The catalog is visible without a subscription; the
// subscription state rides along so the client can prompt for a purchase.
package matieres

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// Handler serves the subject catalog.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the training business logic the handler needs.
type Service interface {
	ListMatieres(ctx context.Context, userID int64) ([]*models.Matiere, *models.Abonnement, bool, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List the subjects
// @Description Lists the subjects with the caller's subscription state. Visible without an active subscription.
// @Tags Formation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Subject catalog"
// @Router /formation/matieres [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formation.matieres"

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

	matieres, abonnement, actif, err := h.service.ListMatieres(r.Context(), userID)
	if err != nil {
		log.Error("failed to list subjects", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subjects"))
		return
	}

	data := map[string]any{
		"matieres":         matieres,
		"abonnement":       abonnement,
		"abonnement_actif": actif,
	}
	if !actif {
		data["message"] = "un abonnement actif est requis pour accéder aux chapitres"
	}
	render.JSON(w, r, response.StatusOKWithData(data))
}
