// Package maprogression implements the HTTP handler returning every
// progression row of the caller across all subjects.
package maprogression

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

// Handler serves progression reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the training business logic the handler needs.
type Service interface {
	MaProgression(ctx context.Context, userID int64) ([]*models.Progression, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get the caller's training progression
// @Tags Formation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Progression rows"
// @Router /formation/ma-progression [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formation.maprogression"

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

	progressions, err := h.service.MaProgression(r.Context(), userID)
	if err != nil {
		log.Error("failed to read progression", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read progression"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"progressions": progressions,
	}))
}
