package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

const progressionColumns = `p.id, p.user_id, p.chapitre_id, p.statut, p.score,
	p.temps_ecoule, p.tentatives, p.meilleur_score, p.created_at, p.updated_at`

// GetProgression returns the (user, chapter) progression row or ErrNotFound.
func (s *Storage) GetProgression(ctx context.Context, userID, chapitreID int64) (*models.Progression, error) {
	const op = "repository.GetProgression"

	query := `SELECT ` + progressionColumns + `
			  FROM progressions p
			  WHERE p.user_id = $1 AND p.chapitre_id = $2`
	p, err := scanProgression(s.DB.QueryRowContext(ctx, query, userID, chapitreID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetOrCreateProgression returns the (user, chapter) progression, creating it
// with the given status when missing. A concurrent create is absorbed by the
// ON CONFLICT clause; the winner's row is returned either way.
func (s *Storage) GetOrCreateProgression(ctx context.Context, userID, chapitreID int64, statut string) (*models.Progression, error) {
	const op = "repository.GetOrCreateProgression"

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO progressions (user_id, chapitre_id, statut)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, chapitre_id) DO NOTHING`,
		userID, chapitreID, statut)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetProgression(ctx, userID, chapitreID)
}

// ListProgressionsByUser returns every progression of the user with chapter
// and subject labels, ordered by subject then chapter.
func (s *Storage) ListProgressionsByUser(ctx context.Context, userID int64) ([]*models.Progression, error) {
	const op = "repository.ListProgressionsByUser"

	query := `SELECT ` + progressionColumns + `, ch.titre, m.nom
			  FROM progressions p
			  JOIN chapitres ch ON ch.id = p.chapitre_id
			  JOIN matieres m ON m.id = ch.matiere_id
			  WHERE p.user_id = $1
			  ORDER BY m.ordre, m.nom, ch.ordre, ch.numero`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Progression
	for rows.Next() {
		var p models.Progression
		err := rows.Scan(&p.ID, &p.UserID, &p.ChapitreID, &p.Statut, &p.Score,
			&p.TempsEcoule, &p.Tentatives, &p.MeilleurScore, &p.CreatedAt,
			&p.UpdatedAt, &p.ChapitreTitre, &p.MatiereNom)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

// ProgressionStatuses returns chapitreID -> statut for all chapters of one
// subject the user has a row for. Chapters absent from the map are locked.
func (s *Storage) ProgressionStatuses(ctx context.Context, userID, matiereID int64) (map[int64]string, error) {
	const op = "repository.ProgressionStatuses"

	query := `SELECT p.chapitre_id, p.statut
			  FROM progressions p
			  JOIN chapitres ch ON ch.id = p.chapitre_id
			  WHERE p.user_id = $1 AND ch.matiere_id = $2`
	rows, err := s.DB.QueryContext(ctx, query, userID, matiereID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[int64]string)
	for rows.Next() {
		var id int64
		var statut string
		if err := rows.Scan(&id, &statut); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[id] = statut
	}
	return result, rows.Err()
}

// RecordQuizResult persists a quiz submission in one transaction: the
// chapter's progression moves to termine with the new score (best score only
// ever grows), and the next chapter of the same subject, if any, is unlocked
// to en_cours. Returns the unlocked chapter, or nil when the chapter was the
// last of its subject.
func (s *Storage) RecordQuizResult(ctx context.Context, userID, chapitreID int64, score, tempsEcoule int) (*models.Progression, *models.Chapitre, error) {
	const op = "repository.RecordQuizResult"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var prog models.Progression
	err = tx.QueryRowContext(ctx,
		`INSERT INTO progressions (user_id, chapitre_id, statut, score,
			temps_ecoule, tentatives, meilleur_score)
		 VALUES ($1, $2, $3, $4, $5, 1, $4)
		 ON CONFLICT (user_id, chapitre_id) DO UPDATE SET
			statut = $3,
			score = $4,
			temps_ecoule = $5,
			tentatives = progressions.tentatives + 1,
			meilleur_score = GREATEST(COALESCE(progressions.meilleur_score, 0), $4),
			updated_at = NOW()
		 RETURNING id, user_id, chapitre_id, statut, score, temps_ecoule,
			tentatives, meilleur_score, created_at, updated_at`,
		userID, chapitreID, models.ProgressionTermine, score, tempsEcoule).Scan(
		&prog.ID, &prog.UserID, &prog.ChapitreID, &prog.Statut, &prog.Score,
		&prog.TempsEcoule, &prog.Tentatives, &prog.MeilleurScore,
		&prog.CreatedAt, &prog.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var next models.Chapitre
	err = tx.QueryRowContext(ctx,
		`SELECT n.id, n.matiere_id, n.numero, n.titre, n.ordre
		 FROM chapitres n
		 JOIN chapitres cur ON cur.matiere_id = n.matiere_id
		 WHERE cur.id = $1 AND n.ordre = cur.ordre + 1`,
		chapitreID).Scan(&next.ID, &next.MatiereID, &next.Numero, &next.Titre, &next.Ordre)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.Commit(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return &prog, nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	// A chapter already en_cours or termine is never demoted.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO progressions (user_id, chapitre_id, statut)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, chapitre_id) DO NOTHING`,
		userID, next.ID, models.ProgressionEnCours)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return &prog, &next, nil
}

func scanProgression(row rowScanner) (*models.Progression, error) {
	var p models.Progression
	err := row.Scan(&p.ID, &p.UserID, &p.ChapitreID, &p.Statut, &p.Score,
		&p.TempsEcoule, &p.Tentatives, &p.MeilleurScore, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
