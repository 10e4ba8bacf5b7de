// Package inscriptioncreate implements the HTTP handler submitting a
// contest application. The request is multipart: the candidate fields
// travel as form values, the CNI scan and the identity photo as files.
package inscriptioncreate

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/concours"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// maxMemory bounds the in-memory part of the multipart parse; bigger files
// spill to disk.
const maxMemory = 10 << 20

// Handler serves application submissions.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the contest business logic the handler needs.
type Service interface {
	CreateInscription(ctx context.Context, userID int64, req models.DummyInscription,
		cni, photo *multipart.FileHeader) (*models.Inscription, error)
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
// @Summary Apply to a contest
// @Description Submits a contest application with the CNI scan and identity photo. The application starts in en_attente.
// @Tags Inscriptions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response "Created application"
// @Failure 400 {object} response.ErrorResponse "Invalid form data or file"
// @Failure 409 {object} response.ErrorResponse "Already registered, contest closed or full"
// @Router /concours/inscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inscription.create"

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

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	concoursID, err := strconv.ParseInt(r.FormValue("concours_id"), 10, 64)
	if err != nil {
		log.Error("failed to parse concours_id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid concours_id"))
		return
	}

	req := models.DummyInscription{
		ConcoursID:    concoursID,
		Nom:           r.FormValue("nom"),
		Prenom:        r.FormValue("prenom"),
		DateNaissance: r.FormValue("date_naissance"),
		Ville:         r.FormValue("ville"),
		Sexe:          r.FormValue("sexe"),
		Telephone:     r.FormValue("telephone"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	cni, err := formFile(r, "cni")
	if err != nil {
		log.Error("cni file missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("le fichier cni est requis"))
		return
	}
	photo, err := formFile(r, "photo")
	if err != nil {
		log.Error("photo file missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("le fichier photo est requis"))
		return
	}

	ins, err := h.service.CreateInscription(r.Context(), userID, req, cni, photo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConcoursFerme):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("les inscriptions à ce concours sont fermées"))
		case errors.Is(err, services.ErrConcoursComplet):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("ce concours est complet"))
		case errors.Is(err, services.ErrDejaInscrit):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("vous êtes déjà inscrit à ce concours"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("concours introuvable"))
		default:
			log.Error("failed to create inscription", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		}
		return
	}

	log.Info("inscription submitted",
		slog.Int64("inscription_id", ins.ID),
		slog.Int64("concours_id", concoursID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"inscription": ins,
	}))
}

func formFile(r *http.Request, field string) (*multipart.FileHeader, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	return header, nil
}
