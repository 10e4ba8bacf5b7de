// Package resetrequest implements the HTTP handler starting the password
// reset flow: a 6-digit code is mailed to the account address.
//
// The response is the same whether the email exists or not, so the endpoint
// cannot be used to probe which addresses are registered.
package resetrequest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/passwordreset"
)

// Handler serves reset code requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the reset business logic the handler needs.
type Service interface {
	Request(ctx context.Context, email string) error
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
// @Summary Request a password reset code
// @Tags PasswordReset
// @Accept json
// @Produce json
// @Param request body models.DummyResetRequest true "Account email"
// @Success 200 {object} response.Response "Code sent if the account exists"
// @Failure 429 {object} response.ErrorResponse "Too many requests"
// @Router /auth/password-reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reset.request"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyResetRequest
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

	if err := h.service.Request(r.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			log.Info("reset rate limit hit")
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("trop de demandes, réessayez plus tard"))
			return
		}
		log.Error("failed to process reset request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process request"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "si un compte existe avec cet email, un code a été envoyé",
	}))
}
