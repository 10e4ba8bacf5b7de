package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// CreateUser inserts a new account and returns its ID. A duplicate email
// yields ErrDuplicate.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "repository.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, nom, prenom, telephone, password_hash, is_admin)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Nom, user.Prenom, user.Telephone,
		user.PasswordHash, user.IsAdmin).Scan(&newID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail returns a user by email or ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repository.GetUserByEmail"

	query := `SELECT id, email, nom, prenom, telephone, password_hash, photo_path,
				is_admin, is_active, created_at, updated_at
			  FROM users WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUserByID returns a user by id or ErrNotFound.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "repository.GetUserByID"

	query := `SELECT id, email, nom, prenom, telephone, password_hash, photo_path,
				is_admin, is_active, created_at, updated_at
			  FROM users WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, id), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Nom, &u.Prenom, &u.Telephone,
		&u.PasswordHash, &u.PhotoPath, &u.IsAdmin, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// UpdateUserProfile overwrites the mutable profile fields.
func (s *Storage) UpdateUserProfile(ctx context.Context, id int64, nom, prenom, telephone string) error {
	const op = "repository.UpdateUserProfile"

	query := `UPDATE users SET nom = $2, prenom = $3, telephone = $4, updated_at = NOW()
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, nom, prenom, telephone)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateUserPassword stores a new password hash.
func (s *Storage) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	const op = "repository.UpdateUserPassword"

	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// CountActiveCandidates counts active non-admin accounts.
func (s *Storage) CountActiveCandidates(ctx context.Context) (int, error) {
	const op = "repository.CountActiveCandidates"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE is_active AND NOT is_admin`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountCandidatesSince counts non-admin accounts created after the cutoff.
func (s *Storage) CountCandidatesSince(ctx context.Context, since time.Time) (int, error) {
	const op = "repository.CountCandidatesSince"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE NOT is_admin AND created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
