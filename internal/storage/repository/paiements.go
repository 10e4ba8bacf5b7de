package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

const paiementColumns = `p.id, p.inscription_id, p.methode_paiement,
	p.reference_transaction, p.montant, p.capture_path, p.statut,
	p.raison_rejet, p.created_at, p.updated_at`

// CreatePaiement inserts a payment proof for an inscription. A second
// payment for the same inscription yields ErrDuplicate.
func (s *Storage) CreatePaiement(ctx context.Context, p models.Paiement) (int64, error) {
	const op = "repository.CreatePaiement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO paiements (inscription_id, methode_paiement,
				reference_transaction, montant, capture_path)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		p.InscriptionID, p.MethodePaiement, p.ReferenceTransaction,
		p.Montant, p.CapturePath).Scan(&newID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPaiement returns one payment by id or ErrNotFound.
func (s *Storage) ReadPaiement(ctx context.Context, id int64) (*models.Paiement, error) {
	const op = "repository.ReadPaiement"

	query := `SELECT ` + paiementColumns + ` FROM paiements p WHERE p.id = $1`
	p, err := scanPaiement(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ReadPaiementByInscription returns the payment attached to an inscription
// or ErrNotFound.
func (s *Storage) ReadPaiementByInscription(ctx context.Context, inscriptionID int64) (*models.Paiement, error) {
	const op = "repository.ReadPaiementByInscription"

	query := `SELECT ` + paiementColumns + ` FROM paiements p WHERE p.inscription_id = $1`
	p, err := scanPaiement(s.DB.QueryRowContext(ctx, query, inscriptionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPaiementsByStatut returns payments in one status, newest first.
func (s *Storage) ListPaiementsByStatut(ctx context.Context, statut string) ([]*models.Paiement, error) {
	const op = "repository.ListPaiementsByStatut"

	query := `SELECT ` + paiementColumns + `
			  FROM paiements p WHERE p.statut = $1
			  ORDER BY p.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, statut)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Paiement
	for rows.Next() {
		p, err := scanPaiement(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// UpdatePaiementStatut moves a pending payment to valide or rejete. The
// transition is one-way: a payment that already left en_attente yields
// ErrAlreadyProcessed.
func (s *Storage) UpdatePaiementStatut(ctx context.Context, id int64, statut string, raisonRejet *string) (*models.Paiement, error) {
	const op = "repository.UpdatePaiementStatut"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE paiements SET statut = $2, raison_rejet = $3, updated_at = NOW()
		 WHERE id = $1 AND statut = $4`,
		id, statut, raisonRejet, models.PaiementEnAttente)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		if _, err := s.ReadPaiement(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyProcessed)
	}
	return s.ReadPaiement(ctx, id)
}

// CountPaiementsByStatut counts payments in one status.
func (s *Storage) CountPaiementsByStatut(ctx context.Context, statut string) (int, error) {
	const op = "repository.CountPaiementsByStatut"

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM paiements WHERE statut = $1`, statut).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

func scanPaiement(row rowScanner) (*models.Paiement, error) {
	var p models.Paiement
	err := row.Scan(&p.ID, &p.InscriptionID, &p.MethodePaiement,
		&p.ReferenceTransaction, &p.Montant, &p.CapturePath, &p.Statut,
		&p.RaisonRejet, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
