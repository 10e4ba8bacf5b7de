package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// ListConcours returns all contests matching the filter, newest first.
// TotalInscrits counts only confirmed inscriptions.
func (s *Storage) ListConcours(ctx context.Context, filter models.ConcoursFilter) ([]*models.Concours, error) {
	const op = "repository.ListConcours"

	query := `SELECT c.id, c.nom, c.type, c.description, c.date_inscription, c.date_concours,
				c.lieu, c.frais_inscription, c.places_disponibles, c.conditions, c.est_ouvert,
				c.image_path, c.created_at, c.updated_at,
				(SELECT COUNT(*) FROM inscriptions i
				 WHERE i.concours_id = c.id AND i.statut = 'confirmee') AS total_inscrits
			  FROM concours c
			  WHERE ($1::text IS NULL OR c.type = $1)
				AND ($2::boolean IS NULL OR c.est_ouvert = $2)
				AND ($3 = '' OR c.nom ILIKE '%' || $3 || '%'
					OR c.description ILIKE '%' || $3 || '%'
					OR c.lieu ILIKE '%' || $3 || '%')
			  ORDER BY c.created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, filter.Type, filter.EstOuvert, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Concours
	for rows.Next() {
		c, err := scanConcours(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// ReadConcours returns one contest by id or ErrNotFound.
func (s *Storage) ReadConcours(ctx context.Context, id int64) (*models.Concours, error) {
	const op = "repository.ReadConcours"

	query := `SELECT c.id, c.nom, c.type, c.description, c.date_inscription, c.date_concours,
				c.lieu, c.frais_inscription, c.places_disponibles, c.conditions, c.est_ouvert,
				c.image_path, c.created_at, c.updated_at,
				(SELECT COUNT(*) FROM inscriptions i
				 WHERE i.concours_id = c.id AND i.statut = 'confirmee') AS total_inscrits
			  FROM concours c WHERE c.id = $1`

	rows, err := s.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	c, err := scanConcours(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CountConcours returns (open, total).
func (s *Storage) CountConcours(ctx context.Context) (open int, total int, err error) {
	const op = "repository.CountConcours"

	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FILTER (WHERE est_ouvert), COUNT(*) FROM concours`).Scan(&open, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return open, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConcours(row rowScanner) (*models.Concours, error) {
	var c models.Concours
	var conditions []byte
	err := row.Scan(&c.ID, &c.Nom, &c.Type, &c.Description, &c.DateInscription,
		&c.DateConcours, &c.Lieu, &c.FraisInscription, &c.PlacesDisponibles,
		&conditions, &c.EstOuvert, &c.ImagePath, &c.CreatedAt, &c.UpdatedAt,
		&c.TotalInscrits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(conditions, &c.Conditions); err != nil {
		return nil, err
	}
	return &c, nil
}
