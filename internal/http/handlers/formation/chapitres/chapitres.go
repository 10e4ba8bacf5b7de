// Package chapitres implements the HTTP handler listing a subject's
// chapters annotated with the caller's progression status.
package chapitres

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/progression"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Handler serves the chapter list of a subject.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the training business logic the handler needs.
type Service interface {
	ListChapitres(ctx context.Context, userID, matiereID int64) ([]*models.Chapitre, *models.Matiere, *models.Abonnement, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List a subject's chapters
// @Description Lists the chapters with the caller's status on each (verrouille, en_cours or termine).
// @Tags Formation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject id"
// @Success 200 {object} response.Response "Chapter list"
// @Failure 403 {object} response.ErrorResponse "Active subscription required"
// @Failure 404 {object} response.ErrorResponse "Unknown subject"
// @Router /formation/matieres/{id}/chapitres [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formation.chapitres"

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

	matiereID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	chapitres, matiere, abonnement, err := h.service.ListChapitres(r.Context(), userID, matiereID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubscriptionRequired):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.SubscriptionRequired())
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("matière introuvable"))
		default:
			log.Error("failed to list chapters", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list chapters"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"chapitres":   chapitres,
		"matiere_nom": matiere.Nom,
		"abonnement": map[string]any{
			"jours_restants": abonnement.JoursRestants(time.Now()),
			"date_fin":       abonnement.DateFin,
		},
	}))
}
