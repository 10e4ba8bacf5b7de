// Package dashboard implements the HTTP handler returning the admin
// dashboard counters.
package dashboard

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

// Handler serves the dashboard.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the back-office business logic the handler needs.
type Service interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Admin dashboard counters
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Counters"
// @Router /api/admin/dashboard/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to build dashboard stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build stats"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(stats))
}
