// Package validateinscription implements the HTTP handler applying an
// admin decision on a pending application: confirmer assigns the registration
// number, rejeter requires a reason. Either way the candidate is mailed.
package validateinscription

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/admin"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Handler serves application decisions.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the back-office business logic the handler needs.
type Service interface {
	ValidateInscription(ctx context.Context, id int64, req models.DummyValidation) (*models.Inscription, error)
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
// @Summary Validate or reject an application
// @Description Applies an admin decision. "confirmer" assigns the registration number, "rejeter" needs a reason.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application id"
// @Param request body models.DummyValidation true "Decision"
// @Success 200 {object} response.Response "Updated application"
// @Failure 400 {object} response.ErrorResponse "Unknown action or missing reason"
// @Failure 409 {object} response.ErrorResponse "Application already processed"
// @Router /api/admin/inscriptions/{id}/valider [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.validateinscription"

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

	var req models.DummyValidation
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

	ins, err := h.service.ValidateInscription(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrActionInconnue):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("action inconnue, attendu confirmer ou rejeter"))
		case errors.Is(err, services.ErrRaisonRequise):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("une raison de rejet est requise"))
		case errors.Is(err, repository.ErrAlreadyProcessed):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("cette inscription a déjà été traitée"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("inscription introuvable"))
		default:
			log.Error("failed to validate inscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not validate inscription"))
		}
		return
	}

	log.Info("inscription decision applied",
		slog.Int64("inscription_id", id),
		slog.String("action", req.Action))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"inscription": ins,
	}))
}
