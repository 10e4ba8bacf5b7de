package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// ListMatieres returns the whole subject catalog in display order.
func (s *Storage) ListMatieres(ctx context.Context) ([]*models.Matiere, error) {
	const op = "repository.ListMatieres"

	query := `SELECT m.id, m.nom, m.icon, m.color, m.ordre,
				(SELECT COUNT(*) FROM chapitres ch WHERE ch.matiere_id = m.id)
			  FROM matieres m
			  ORDER BY m.ordre, m.nom`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Matiere
	for rows.Next() {
		var m models.Matiere
		if err := rows.Scan(&m.ID, &m.Nom, &m.Icon, &m.Color, &m.Ordre, &m.NombreChapitres); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}

// ReadMatiere returns one subject by id or ErrNotFound.
func (s *Storage) ReadMatiere(ctx context.Context, id int64) (*models.Matiere, error) {
	const op = "repository.ReadMatiere"

	query := `SELECT m.id, m.nom, m.icon, m.color, m.ordre,
				(SELECT COUNT(*) FROM chapitres ch WHERE ch.matiere_id = m.id)
			  FROM matieres m WHERE m.id = $1`
	var m models.Matiere
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Nom, &m.Icon, &m.Color, &m.Ordre, &m.NombreChapitres)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// ListChapitres returns the chapters of a subject in display order.
func (s *Storage) ListChapitres(ctx context.Context, matiereID int64) ([]*models.Chapitre, error) {
	const op = "repository.ListChapitres"

	query := `SELECT ch.id, ch.matiere_id, ch.numero, ch.titre, ch.ordre,
				(SELECT COUNT(*) FROM questions q WHERE q.chapitre_id = ch.id)
			  FROM chapitres ch
			  WHERE ch.matiere_id = $1
			  ORDER BY ch.ordre, ch.numero`
	rows, err := s.DB.QueryContext(ctx, query, matiereID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Chapitre
	for rows.Next() {
		var ch models.Chapitre
		if err := rows.Scan(&ch.ID, &ch.MatiereID, &ch.Numero, &ch.Titre, &ch.Ordre, &ch.NombreQuestions); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ch)
	}
	return result, rows.Err()
}

// ReadChapitre returns one chapter by id or ErrNotFound.
func (s *Storage) ReadChapitre(ctx context.Context, id int64) (*models.Chapitre, error) {
	const op = "repository.ReadChapitre"

	query := `SELECT ch.id, ch.matiere_id, ch.numero, ch.titre, ch.ordre,
				(SELECT COUNT(*) FROM questions q WHERE q.chapitre_id = ch.id)
			  FROM chapitres ch WHERE ch.id = $1`
	var ch models.Chapitre
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&ch.ID, &ch.MatiereID, &ch.Numero, &ch.Titre, &ch.Ordre, &ch.NombreQuestions)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ch, nil
}

// ListQuestions returns the questions of a chapter in display order,
// including correct answers and explanations. Callers decide what to strip
// before rendering.
func (s *Storage) ListQuestions(ctx context.Context, chapitreID int64) ([]*models.Question, error) {
	const op = "repository.ListQuestions"

	query := `SELECT id, chapitre_id, question, options, correct_answer, explication, ordre
			  FROM questions
			  WHERE chapitre_id = $1
			  ORDER BY ordre, id`
	rows, err := s.DB.QueryContext(ctx, query, chapitreID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Question
	for rows.Next() {
		var q models.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.ChapitreID, &q.Question, &options,
			&q.CorrectAnswer, &q.Explication, &q.Ordre); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &q)
	}
	return result, rows.Err()
}

// CorrectAnswers returns questionID -> correct index for every question of
// a chapter. The scorer matches submitted ids against this map.
func (s *Storage) CorrectAnswers(ctx context.Context, chapitreID int64) (map[int64]int, error) {
	const op = "repository.CorrectAnswers"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, correct_answer FROM questions WHERE chapitre_id = $1`, chapitreID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[int64]int)
	for rows.Next() {
		var id int64
		var correct int
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[id] = correct
	}
	return result, rows.Err()
}
