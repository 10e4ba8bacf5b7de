// Package inscriptionlist implements the HTTP handler listing the caller's
// contest applications.
package inscriptionlist

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

// Handler serves the caller's application list.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the contest business logic the handler needs.
type Service interface {
	ListMyInscriptions(ctx context.Context, userID int64) ([]*models.Inscription, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List the caller's applications
// @Tags Inscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Application list"
// @Router /concours/mes-inscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inscription.list"

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

	inscriptions, err := h.service.ListMyInscriptions(r.Context(), userID)
	if err != nil {
		log.Error("failed to list inscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list inscriptions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"inscriptions": inscriptions,
		"count":        len(inscriptions),
	}))
}
