// Package pendinginscriptions implements the HTTP handler listing the
// applications awaiting an admin decision.
package pendinginscriptions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// Handler serves the pending application list.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the back-office business logic the handler needs.
type Service interface {
	PendingInscriptions(ctx context.Context) ([]*models.Inscription, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List pending applications
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Pending applications"
// @Router /api/admin/inscriptions/en-attente [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pendinginscriptions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	inscriptions, err := h.service.PendingInscriptions(r.Context())
	if err != nil {
		log.Error("failed to list pending inscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list pending inscriptions"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"inscriptions": inscriptions,
		"count":        len(inscriptions),
	}))
}
