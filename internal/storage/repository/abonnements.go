package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

const abonnementColumns = `id, user_id, date_debut, date_fin, statut,
	montant_paye, reference_paiement, created_at, updated_at`

// GetAbonnementByUser returns the user's subscription or ErrNotFound.
func (s *Storage) GetAbonnementByUser(ctx context.Context, userID int64) (*models.Abonnement, error) {
	const op = "repository.GetAbonnementByUser"

	query := `SELECT ` + abonnementColumns + ` FROM abonnements WHERE user_id = $1`
	a, err := scanAbonnement(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// UpsertAbonnement creates the user's subscription, or renews an existing
// row in place (one row per user, never deleted).
func (s *Storage) UpsertAbonnement(ctx context.Context, a models.Abonnement) (*models.Abonnement, error) {
	const op = "repository.UpsertAbonnement"

	query := `INSERT INTO abonnements (user_id, date_debut, date_fin, statut,
				montant_paye, reference_paiement)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_id) DO UPDATE SET
				date_debut = EXCLUDED.date_debut,
				date_fin = EXCLUDED.date_fin,
				statut = EXCLUDED.statut,
				montant_paye = EXCLUDED.montant_paye,
				reference_paiement = EXCLUDED.reference_paiement,
				updated_at = NOW()
			  RETURNING ` + abonnementColumns
	res, err := scanAbonnement(s.DB.QueryRowContext(ctx, query,
		a.UserID, a.DateDebut, a.DateFin, a.Statut, a.MontantPaye, a.ReferencePaiement))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ExpireAbonnement flips an active subscription to expire. Idempotent: a
// row that is not actif is left untouched.
func (s *Storage) ExpireAbonnement(ctx context.Context, id int64, asOf time.Time) error {
	const op = "repository.ExpireAbonnement"

	_, err := s.DB.ExecContext(ctx,
		`UPDATE abonnements SET statut = $2, updated_at = NOW()
		 WHERE id = $1 AND statut = $3 AND date_fin < $4`,
		id, models.AbonnementExpire, models.AbonnementActif, asOf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanAbonnement(row rowScanner) (*models.Abonnement, error) {
	var a models.Abonnement
	err := row.Scan(&a.ID, &a.UserID, &a.DateDebut, &a.DateFin, &a.Statut,
		&a.MontantPaye, &a.ReferencePaiement, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
