// Package logout implements the HTTP handler ending a session. Tokens are
// stateless so the server has nothing to revoke; the endpoint exists so
// clients have a uniform place to land when discarding their token.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
)

// Handler serves logout requests.
type Handler struct {
	log *slog.Logger
}

// New creates a new Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Log out
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Logged out"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	).Info("user logged out")

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "déconnexion réussie",
	}))
}
