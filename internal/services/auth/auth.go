// Package services contains the account business logic: registration,
// login, profile management and token validation.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Ing-Nahine/concours-backend/internal/lib/jwt"
	"github.com/Ing-Nahine/concours-backend/internal/lib/password"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Auth failures surfaced to handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account disabled")
)

// UserRepository is the storage contract for accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, nom, prenom, telephone string) error
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// Notifier publishes notification events.
type Notifier interface {
	Publish(notif models.Notification) error
}

// AuthService handles registration, login and JWT validation.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	notifier Notifier
	log      *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, notifier Notifier, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		notifier: notifier,
		log:      log,
	}
}

// Register creates an account with a hashed password and logs the user in
// immediately, returning the new user and an access token.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (*models.User, string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Email:        req.Email,
		Nom:          req.Nom,
		Prenom:       req.Prenom,
		Telephone:    req.Telephone,
		PasswordHash: hashed,
		IsActive:     true,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	created, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtMaker.GenerateToken(created.ID, created.Email, created.Role())
	if err != nil {
		return nil, "", err
	}
	s.log.Info("registered new user", slog.Int64("user_id", created.ID))
	return created, token, nil
}

// Login checks the password and issues an access token. A missing account
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Role())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken parses a bearer token and returns the embedded identity.
func (s *AuthService) ValidateToken(_ context.Context, token string) (userID int64, email, role string, err error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return 0, "", "", err
	}
	userID, err = claims.UserID()
	if err != nil {
		return 0, "", "", err
	}
	return userID, claims.Email, claims.Role, nil
}

// Profile returns the authenticated user's account.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// UpdateProfile applies a partial profile update; empty fields keep their
// current value.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req models.DummyUpdateProfile) (*models.User, error) {
	current, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	nom, prenom, telephone := current.Nom, current.Prenom, current.Telephone
	if req.Nom != "" {
		nom = req.Nom
	}
	if req.Prenom != "" {
		prenom = req.Prenom
	}
	if req.Telephone != "" {
		telephone = req.Telephone
	}
	if err := s.users.UpdateUserProfile(ctx, userID, nom, prenom, telephone); err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, userID)
}

// ChangePassword verifies the current password and stores the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req models.DummyChangePassword) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, req.OldPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdateUserPassword(ctx, userID, hashed); err != nil {
		return err
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
