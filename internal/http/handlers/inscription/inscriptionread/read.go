// Package inscriptionread implements the HTTP handler returning one of the
// caller's applications. An application of another user answers 404, not
// 403, so ids cannot be probed.
package inscriptionread

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

// Handler serves single-application reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the contest business logic the handler needs.
type Service interface {
	ReadMyInscription(ctx context.Context, id, userID int64) (*models.Inscription, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get one of the caller's applications
// @Tags Inscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application id"
// @Success 200 {object} response.Response "Application"
// @Failure 404 {object} response.ErrorResponse "Unknown application"
// @Router /concours/inscriptions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inscription.read"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	ins, err := h.service.ReadMyInscription(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("inscription introuvable"))
			return
		}
		log.Error("failed to read inscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read inscription"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"inscription": ins,
	}))
}
