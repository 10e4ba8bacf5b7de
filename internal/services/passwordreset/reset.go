// Package services implements the OTP password-reset flow: a 6-digit code
// mailed to the account address, exchanged for a short-lived token, which in
// turn authorizes setting a new password. All state lives in redis under
// TTL-bound keys.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/Ing-Nahine/concours-backend/internal/lib/otp"
	"github.com/Ing-Nahine/concours-backend/internal/lib/password"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Key lifetimes. The code outlives a typical mail delivery delay, the
// exchange token barely outlives the form submit.
const (
	codeTTL         = 10 * time.Minute
	tokenTTL        = 5 * time.Minute
	rateLimitWindow = time.Hour
	rateLimitMax    = 3
)

// Reset failures surfaced to handlers.
var (
	ErrInvalidCode  = errors.New("invalid or expired code")
	ErrInvalidToken = errors.New("invalid or expired reset token")
	ErrRateLimited  = errors.New("too many reset requests")
)

// UserRepository is the storage contract the reset flow needs.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// Cache is the redis contract for reset state.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Notifier publishes notification events.
type Notifier interface {
	Publish(notif models.Notification) error
}

// ResetService drives the three-step reset flow.
type ResetService struct {
	users    UserRepository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// NewResetService creates a new ResetService.
func NewResetService(users UserRepository, cache Cache, notifier Notifier, log *slog.Logger) *ResetService {
	return &ResetService{
		users:    users,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

func codeKey(email string) string  { return "password_reset_" + email }
func limitKey(email string) string { return "password_reset_limit_" + email }
func tokenKey(token string) string { return "password_reset_token_" + token }

// Request generates a code and mails it. An unknown email returns nil all
// the same so the endpoint cannot be used to probe which addresses exist.
func (s *ResetService) Request(ctx context.Context, email string) error {
	count, err := s.cache.Incr(ctx, limitKey(email), rateLimitWindow)
	if err != nil {
		return err
	}
	if count > rateLimitMax {
		return ErrRateLimited
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, codeKey(email), code, codeTTL); err != nil {
		return err
	}

	if err := s.notifier.Publish(models.Notification{
		Type:       models.NotifResetCode,
		Email:      user.Email,
		NomComplet: user.FullName(),
		Code:       code,
	}); err != nil {
		// Delivery trouble is an operational problem, not the caller's.
		s.log.Error("failed to publish reset code notification", sl.Err(err))
	}
	return nil
}

// Verify exchanges a valid code for a one-shot reset token. The code is
// consumed on success.
func (s *ResetService) Verify(ctx context.Context, email, code string) (string, error) {
	var stored string
	found, err := s.cache.Get(ctx, codeKey(email), &stored)
	if err != nil {
		return "", err
	}
	if !found || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", ErrInvalidCode
	}

	token, err := otp.GenerateToken()
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, tokenKey(token), email, tokenTTL); err != nil {
		return "", err
	}
	if err := s.cache.Invalidate(ctx, codeKey(email)); err != nil {
		s.log.Warn("failed to invalidate used reset code", sl.Err(err))
	}
	return token, nil
}

// Confirm sets the new password for the account the token was issued to and
// consumes the token.
func (s *ResetService) Confirm(ctx context.Context, token, rawPassword string) error {
	var email string
	found, err := s.cache.Get(ctx, tokenKey(token), &email)
	if err != nil {
		return err
	}
	if !found {
		return ErrInvalidToken
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateUserPassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	for _, key := range []string{codeKey(email), tokenKey(token), limitKey(email)} {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.log.Warn("failed to invalidate reset key", slog.String("key", key), sl.Err(err))
		}
	}

	if err := s.notifier.Publish(models.Notification{
		Type:       models.NotifPasswordChanged,
		Email:      user.Email,
		NomComplet: user.FullName(),
	}); err != nil {
		s.log.Warn("failed to publish password change notification", sl.Err(err))
	}
	return nil
}
