// Package submitqcm implements the HTTP handler grading a quiz submission.
// The chapter is marked termine, the best score kept and the next chapter
// unlocked; the corrections come back in the response.
package submitqcm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/progression"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Handler serves quiz submissions.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the training business logic the handler needs.
type Service interface {
	SubmitQCM(ctx context.Context, userID int64, req models.DummySubmitQCM) (*services.QuizResult, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Submit a quiz
// @Description Grades the answers, records the attempt and unlocks the next chapter.
// @Tags Formation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummySubmitQCM true "Chapter id and answers"
// @Success 200 {object} response.Response "Score, corrections and unlocked chapter"
// @Failure 400 {object} response.ErrorResponse "Malformed body or unknown chapter"
// @Failure 403 {object} response.ErrorResponse "Active subscription required"
// @Router /formation/qcm/soumettre [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.formation.submitqcm"

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

	var req models.DummySubmitQCM
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.SubmitQCM(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubscriptionRequired):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.SubscriptionRequired())
		case errors.Is(err, repository.ErrNotFound):
			// An unknown chapter is a bad submission, not a missing page.
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("chapitre_id invalide"))
		default:
			log.Error("failed to grade submission", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not grade submission"))
		}
		return
	}

	log.Info("quiz submitted",
		slog.Int64("chapitre_id", req.ChapitreID),
		slog.Int("score", result.Score))
	render.JSON(w, r, response.StatusOKWithData(result))
}
