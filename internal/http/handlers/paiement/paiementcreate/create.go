// Package paiementcreate implements the HTTP handler attaching a mobile
// money payment proof to one of the caller's applications. The request is
// multipart: the payment fields travel as form values, the screenshot as a
// file.
package paiementcreate

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

const maxMemory = 10 << 20

// Handler serves payment proof submissions.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the contest business logic the handler needs.
type Service interface {
	CreatePaiement(ctx context.Context, userID int64, req models.DummyPaiement,
		capture *multipart.FileHeader) (*models.Paiement, error)
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
// @Summary Submit a payment proof
// @Description Attaches a mobile money payment proof with its screenshot to one of the caller's applications.
// @Tags Paiements
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response "Created payment"
// @Failure 404 {object} response.ErrorResponse "Unknown application"
// @Failure 409 {object} response.ErrorResponse "Payment already submitted"
// @Router /concours/paiement [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paiement.create"

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

	inscriptionID, err := strconv.ParseInt(r.FormValue("inscription_id"), 10, 64)
	if err != nil {
		log.Error("failed to parse inscription_id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid inscription_id"))
		return
	}
	montant, err := strconv.Atoi(r.FormValue("montant"))
	if err != nil {
		log.Error("failed to parse montant", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid montant"))
		return
	}

	req := models.DummyPaiement{
		InscriptionID:        inscriptionID,
		MethodePaiement:      r.FormValue("methode_paiement"),
		ReferenceTransaction: r.FormValue("reference_transaction"),
		Montant:              montant,
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	f, capture, err := r.FormFile("capture_ecran")
	if err != nil {
		log.Error("capture_ecran file missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("le fichier capture_ecran est requis"))
		return
	}
	_ = f.Close()

	p, err := h.service.CreatePaiement(r.Context(), userID, req, capture)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("inscription introuvable"))
		case errors.Is(err, services.ErrPaiementDejaSoumis):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("un paiement a déjà été soumis pour cette inscription"))
		default:
			log.Error("failed to create paiement", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		}
		return
	}

	log.Info("paiement submitted",
		slog.Int64("paiement_id", p.ID),
		slog.Int64("inscription_id", inscriptionID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"paiement": p,
	}))
}
