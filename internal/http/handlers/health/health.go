// Package health implements the liveness endpoint.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
)

// Handler answers liveness probes.
type Handler struct{}

// New creates a new Handler.
func New() *Handler {
	return &Handler{}
}

// ServeHTTP godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response "Service is up"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"alive": true,
	}))
}
