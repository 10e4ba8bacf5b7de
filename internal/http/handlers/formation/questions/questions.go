// Package questions implements the HTTP handler returning a chapter's
// questions, stripped of the answers and explanations. The chapter must be
// unlocked for the caller.
package questions

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
	services "github.com/Ing-Nahine/concours-backend/internal/services/progression"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Handler serves quiz question lists.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the training business logic the handler needs.
type Service interface {
	ListQuestions(ctx context.Context, userID, chapitreID int64) ([]models.Question, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Get a chapter's quiz questions
// @Description Returns the questions without answers or explanations. The chapter must be unlocked.
// @Tags Formation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chapter id"
// @Success 200 {object} response.Response "Question list"
// @Failure 403 {object} response.ErrorResponse "Chapter locked or no subscription"
// @Failure 404 {object} response.ErrorResponse "Unknown chapter"
// @Router /formation/chapitres/{id}/questions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formation.questions"

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

	chapitreID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	questions, err := h.service.ListQuestions(r.Context(), userID, chapitreID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubscriptionRequired):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.SubscriptionRequired())
		case errors.Is(err, services.ErrChapterLocked):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("chapitre verrouillé"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("chapitre introuvable"))
		default:
			log.Error("failed to list questions", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list questions"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"questions": questions,
		"count":     len(questions),
	}))
}
