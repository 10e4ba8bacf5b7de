// Package concourslist implements the HTTP handler listing the public
// contest catalog. The list can be narrowed with the type, est_ouvert and
// search query parameters.
package concourslist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// Handler serves the contest catalog.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service is the contest business logic the handler needs.
type Service interface {
	List(ctx context.Context, filter models.ConcoursFilter) ([]*models.Concours, error)
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary List contests
// @Description Lists the contests, optionally filtered by type, openness and a free-text search.
// @Tags Concours
// @Produce json
// @Param type query string false "Direct or Professionnel"
// @Param est_ouvert query bool false "Only open (or closed) contests"
// @Param search query string false "Free-text search on name and place"
// @Success 200 {object} response.Response "Contest list"
// @Router /concours [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.concours.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var filter models.ConcoursFilter
	if t := r.URL.Query().Get("type"); t != "" {
		filter.Type = &t
	}
	if o := r.URL.Query().Get("est_ouvert"); o != "" {
		ouvert, err := strconv.ParseBool(o)
		if err != nil {
			log.Error("failed to parse est_ouvert", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid est_ouvert parameter"))
			return
		}
		filter.EstOuvert = &ouvert
	}
	filter.Search = r.URL.Query().Get("search")

	concours, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list contests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list contests"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"concours": concours,
		"count":    len(concours),
	}))
}
