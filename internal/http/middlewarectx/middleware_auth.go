// Package middlewarectx contains the HTTP middleware handling JWT tokens.
//
// JWTMiddleware checks the Authorization header, validates the token through
// the auth service and, on success, puts the user id, email and role into
// the request context for the handlers downstream.
//
// A failed check answers HTTP 401 Unauthorized with an error message.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Ing-Nahine/concours-backend/internal/http/response"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
)

// Key is the type of the request-context keys set by this package.
type Key string

const (
	// UserID holds the authenticated user id (int64).
	UserID Key = "user_id"
	// Email holds the authenticated email.
	Email Key = "email"
	// Role holds the authenticated role ("user" or "admin").
	Role Key = "role"
)

// Service validates a bearer token and returns the embedded identity.
type Service interface {
	ValidateToken(ctx context.Context, token string) (userID int64, email, role string, err error)
}

// JWTMiddleware returns HTTP middleware checking the JWT in the
// Authorization header.
//
// When the token is valid the user id, email and role are added to the
// request context, otherwise the request is rejected with 401.
func JWTMiddleware(auth Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			userID, email, role, err := auth.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, userID)
			ctx = context.WithValue(ctx, Email, email)
			ctx = context.WithValue(ctx, Role, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserID).(int64)
	return id, ok
}
