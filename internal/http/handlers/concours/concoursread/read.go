// Package concoursread implements the HTTP handler returning one contest
// with its remaining capacity.
package concoursread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Handler serves single-contest reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the contest business logic the handler needs.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Concours, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get one contest
// @Tags Concours
// @Produce json
// @Param id path int true "Contest id"
// @Success 200 {object} response.Response "Contest"
// @Failure 404 {object} response.ErrorResponse "Unknown contest"
// @Router /concours/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.concours.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	concours, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("contest not found", slog.Int64("concours_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("concours introuvable"))
			return
		}
		log.Error("failed to read contest", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read contest"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"concours":         concours,
		"places_restantes": concours.PlacesRestantes(),
	}))
}
