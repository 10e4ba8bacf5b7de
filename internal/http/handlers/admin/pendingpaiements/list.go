// Package pendingpaiements implements the HTTP handler listing the payment
// proofs awaiting an admin decision.
package pendingpaiements

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

// Handler serves the pending payment list.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the back-office business logic the handler needs.
type Service interface {
	PendingPaiements(ctx context.Context) ([]*models.Paiement, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List pending payments
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Pending payments"
// @Router /api/admin/paiements/en-attente [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pendingpaiements"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	paiements, err := h.service.PendingPaiements(r.Context())
	if err != nil {
		log.Error("failed to list pending paiements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list pending paiements"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"paiements": paiements,
		"count":     len(paiements),
	}))
}
