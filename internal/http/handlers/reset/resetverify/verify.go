// Package resetverify implements the HTTP handler exchanging a reset code
// for a short-lived reset token.
package resetverify

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

// Handler serves reset code verification.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service is the reset business logic the handler needs.
type Service interface {
	Verify(ctx context.Context, email, code string) (string, error)
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
// @Summary Verify a password reset code
// @Tags PasswordReset
// @Accept json
// @Produce json
// @Param request body models.DummyResetVerify true "Email and code"
// @Success 200 {object} response.Response "Reset token"
// @Failure 400 {object} response.ErrorResponse "Invalid or expired code"
// @Router /auth/password-reset/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reset.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyResetVerify
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

	token, err := h.service.Verify(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			log.Info("invalid reset code")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("code invalide ou expiré"))
			return
		}
		log.Error("failed to verify reset code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not verify code"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reset_token": token,
	}))
}
