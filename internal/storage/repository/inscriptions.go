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

const inscriptionColumns = `i.id, i.user_id, i.concours_id, c.nom, i.nom, i.prenom,
	i.date_naissance, i.ville, i.sexe, i.cni_path, i.photo_path, i.telephone,
	i.statut, i.numero_inscription, i.raison_rejet, i.created_at, i.updated_at`

// CreateInscription inserts a new application with statut en_attente.
// A second application of the same user to the same contest yields
// ErrDuplicate.
func (s *Storage) CreateInscription(ctx context.Context, ins models.Inscription) (int64, error) {
	const op = "repository.CreateInscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO inscriptions (user_id, concours_id, nom, prenom, date_naissance,
				ville, sexe, cni_path, photo_path, telephone)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		ins.UserID, ins.ConcoursID, ins.Nom, ins.Prenom, ins.DateNaissance,
		ins.Ville, ins.Sexe, ins.CNIPath, ins.PhotoPath, ins.Telephone).Scan(&newID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListInscriptionsByUser returns all applications of one user, newest first.
func (s *Storage) ListInscriptionsByUser(ctx context.Context, userID int64) ([]*models.Inscription, error) {
	const op = "repository.ListInscriptionsByUser"

	query := `SELECT ` + inscriptionColumns + `
			  FROM inscriptions i JOIN concours c ON c.id = i.concours_id
			  WHERE i.user_id = $1
			  ORDER BY i.created_at DESC`
	return s.queryInscriptions(ctx, op, query, userID)
}

// ListInscriptionsByStatut returns all applications in one status, newest
// first. Used by the admin pending list.
func (s *Storage) ListInscriptionsByStatut(ctx context.Context, statut string) ([]*models.Inscription, error) {
	const op = "repository.ListInscriptionsByStatut"

	query := `SELECT ` + inscriptionColumns + `
			  FROM inscriptions i JOIN concours c ON c.id = i.concours_id
			  WHERE i.statut = $1
			  ORDER BY i.created_at DESC`
	return s.queryInscriptions(ctx, op, query, statut)
}

// ReadInscription returns one application by id, or ErrNotFound.
func (s *Storage) ReadInscription(ctx context.Context, id int64) (*models.Inscription, error) {
	const op = "repository.ReadInscription"

	query := `SELECT ` + inscriptionColumns + `
			  FROM inscriptions i JOIN concours c ON c.id = i.concours_id
			  WHERE i.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	ins, err := scanInscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ins, nil
}

// ReadInscriptionForUser returns one application only when it belongs to
// the given user; anything else is ErrNotFound (ownership is not leaked).
func (s *Storage) ReadInscriptionForUser(ctx context.Context, id, userID int64) (*models.Inscription, error) {
	const op = "repository.ReadInscriptionForUser"

	query := `SELECT ` + inscriptionColumns + `
			  FROM inscriptions i JOIN concours c ON c.id = i.concours_id
			  WHERE i.id = $1 AND i.user_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userID)
	ins, err := scanInscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ins, nil
}

// ConfirmInscription transitions a pending application to confirmee and
// assigns its registration number from the per-year atomic counter, all in
// one transaction. The number is assigned exactly once; confirming a row
// that is not en_attente yields ErrAlreadyProcessed.
func (s *Storage) ConfirmInscription(ctx context.Context, id int64, year int) (*models.Inscription, error) {
	const op = "repository.ConfirmInscription"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var statut string
	var numero *string
	err = tx.QueryRowContext(ctx,
		`SELECT statut, numero_inscription FROM inscriptions WHERE id = $1 FOR UPDATE`,
		id).Scan(&statut, &numero)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if statut != models.InscriptionEnAttente {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyProcessed)
	}

	if numero == nil {
		var seq int
		err = tx.QueryRowContext(ctx,
			`INSERT INTO inscription_counters (year, seq) VALUES ($1, 1)
			 ON CONFLICT (year) DO UPDATE SET seq = inscription_counters.seq + 1
			 RETURNING seq`, year).Scan(&seq)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		n := fmt.Sprintf("INS-%d-%06d", year, seq)
		numero = &n
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inscriptions SET statut = $2, numero_inscription = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, models.InscriptionConfirmee, *numero)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.ReadInscription(ctx, id)
}

// RejectInscription transitions a pending application to annulee with the
// given reason. An assigned registration number, if any, is kept untouched.
func (s *Storage) RejectInscription(ctx context.Context, id int64, raison string) (*models.Inscription, error) {
	const op = "repository.RejectInscription"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE inscriptions SET statut = $2, raison_rejet = $3, updated_at = NOW()
		 WHERE id = $1 AND statut = $4`,
		id, models.InscriptionAnnulee, raison, models.InscriptionEnAttente)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		if _, err := s.ReadInscription(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyProcessed)
	}
	return s.ReadInscription(ctx, id)
}

// CountInscriptionsByStatut counts applications in one status.
func (s *Storage) CountInscriptionsByStatut(ctx context.Context, statut string) (int, error) {
	const op = "repository.CountInscriptionsByStatut"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inscriptions WHERE statut = $1`, statut).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountInscriptionsSince counts applications created after the cutoff.
func (s *Storage) CountInscriptionsSince(ctx context.Context, since time.Time) (int, error) {
	const op = "repository.CountInscriptionsSince"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inscriptions WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func (s *Storage) queryInscriptions(ctx context.Context, op, query string, args ...any) ([]*models.Inscription, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Inscription
	for rows.Next() {
		ins, err := scanInscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ins)
	}
	return result, rows.Err()
}

func scanInscription(row rowScanner) (*models.Inscription, error) {
	var ins models.Inscription
	err := row.Scan(&ins.ID, &ins.UserID, &ins.ConcoursID, &ins.ConcoursNom,
		&ins.Nom, &ins.Prenom, &ins.DateNaissance, &ins.Ville, &ins.Sexe,
		&ins.CNIPath, &ins.PhotoPath, &ins.Telephone, &ins.Statut,
		&ins.NumeroInscription, &ins.RaisonRejet, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ins, nil
}
