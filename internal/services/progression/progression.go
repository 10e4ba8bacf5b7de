// Package services implements the QCM training module: the subject catalog,
// chapter-by-chapter unlocking, quiz delivery and grading. Chapter and
// question access is gated on an active subscription; the catalog and the
// caller's own history are not.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Ing-Nahine/concours-backend/internal/models"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Access failures surfaced to handlers.
var (
	ErrSubscriptionRequired = errors.New("active subscription required")
	ErrChapterLocked        = errors.New("chapter locked")
)

// FormationRepository is the storage contract for the QCM content and the
// per-user progression state.
type FormationRepository interface {
	ListMatieres(ctx context.Context) ([]*models.Matiere, error)
	ReadMatiere(ctx context.Context, id int64) (*models.Matiere, error)
	ListChapitres(ctx context.Context, matiereID int64) ([]*models.Chapitre, error)
	ReadChapitre(ctx context.Context, id int64) (*models.Chapitre, error)
	ListQuestions(ctx context.Context, chapitreID int64) ([]*models.Question, error)
	CorrectAnswers(ctx context.Context, chapitreID int64) (map[int64]int, error)

	GetProgression(ctx context.Context, userID, chapitreID int64) (*models.Progression, error)
	GetOrCreateProgression(ctx context.Context, userID, chapitreID int64, statut string) (*models.Progression, error)
	ListProgressionsByUser(ctx context.Context, userID int64) ([]*models.Progression, error)
	ProgressionStatuses(ctx context.Context, userID, matiereID int64) (map[int64]string, error)
	RecordQuizResult(ctx context.Context, userID, chapitreID int64, score, tempsEcoule int) (*models.Progression, *models.Chapitre, error)
}

// AccessChecker gates the module on the subscription state.
type AccessChecker interface {
	HasAccess(ctx context.Context, userID int64) (bool, *models.Abonnement, error)
}

// Correction is the per-question feedback returned after a submission.
type Correction struct {
	QuestionID    int64  `json:"question_id"`
	ReponseIndex  int    `json:"reponse_index"`
	CorrectAnswer int    `json:"correct_answer"`
	Correcte      bool   `json:"correcte"`
	Explication   string `json:"explication,omitempty"`
}

// QuizResult is the outcome of a graded submission.
type QuizResult struct {
	Score            int              `json:"score"`
	NbCorrectes      int              `json:"nb_correctes"`
	NbReponses       int              `json:"nb_reponses"`
	MeilleurScore    int              `json:"meilleur_score"`
	Tentatives       int              `json:"tentatives"`
	Corrections      []Correction     `json:"corrections"`
	ChapitreDebloque *models.Chapitre `json:"chapitre_debloque,omitempty"`
}

// ProgressionService serves the training catalog and grades submissions.
type ProgressionService struct {
	repo   FormationRepository
	access AccessChecker
	log    *slog.Logger
}

// NewProgressionService creates a new ProgressionService.
func NewProgressionService(repo FormationRepository, access AccessChecker, log *slog.Logger) *ProgressionService {
	return &ProgressionService{
		repo:   repo,
		access: access,
		log:    log,
	}
}

func (s *ProgressionService) requireAccess(ctx context.Context, userID int64) (*models.Abonnement, error) {
	ok, a, err := s.access.HasAccess(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubscriptionRequired
	}
	return a, nil
}

// ListMatieres returns the subject catalog with the caller's subscription
// state. The catalog itself is visible without a subscription so the client
// can show what the platform offers and prompt for a purchase.
func (s *ProgressionService) ListMatieres(ctx context.Context, userID int64) ([]*models.Matiere, *models.Abonnement, bool, error) {
	actif, a, err := s.access.HasAccess(ctx, userID)
	if err != nil {
		return nil, nil, false, err
	}
	matieres, err := s.repo.ListMatieres(ctx)
	if err != nil {
		return nil, nil, false, err
	}
	return matieres, a, actif, nil
}

// ListChapitres returns a subject's chapters annotated with the caller's
// progression status, along with the subject and the subscription backing
// the access. On first visit the opening chapter is unlocked so there is
// always somewhere to start.
func (s *ProgressionService) ListChapitres(ctx context.Context, userID, matiereID int64) ([]*models.Chapitre, *models.Matiere, *models.Abonnement, error) {
	a, err := s.requireAccess(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	matiere, err := s.repo.ReadMatiere(ctx, matiereID)
	if err != nil {
		return nil, nil, nil, err
	}
	chapitres, err := s.repo.ListChapitres(ctx, matiereID)
	if err != nil {
		return nil, nil, nil, err
	}
	statuses, err := s.repo.ProgressionStatuses(ctx, userID, matiereID)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(statuses) == 0 && len(chapitres) > 0 {
		first := chapitres[0]
		if _, err := s.repo.GetOrCreateProgression(ctx, userID, first.ID, models.ProgressionEnCours); err != nil {
			return nil, nil, nil, err
		}
		statuses[first.ID] = models.ProgressionEnCours
		s.log.Info("unlocked first chapter",
			slog.Int64("user_id", userID),
			slog.Int64("chapitre_id", first.ID))
	}

	for _, ch := range chapitres {
		if statut, ok := statuses[ch.ID]; ok {
			ch.Statut = statut
		} else {
			ch.Statut = models.ProgressionVerrouille
		}
	}
	return chapitres, matiere, a, nil
}

// ListQuestions returns a chapter's questions stripped of answers and
// explanations. The chapter must be unlocked for the caller.
func (s *ProgressionService) ListQuestions(ctx context.Context, userID, chapitreID int64) ([]models.Question, error) {
	if _, err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireUnlocked(ctx, userID, chapitreID); err != nil {
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, chapitreID)
	if err != nil {
		return nil, err
	}
	public := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return public, nil
}

// SubmitQCM grades a submission, persists the result (completing the chapter
// and unlocking the next one) and returns the corrections. The lock state
// only guards question delivery; a submission always completes its chapter,
// creating the progression row if the caller never fetched the questions.
func (s *ProgressionService) SubmitQCM(ctx context.Context, userID int64, req models.DummySubmitQCM) (*QuizResult, error) {
	if _, err := s.requireAccess(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.ReadChapitre(ctx, req.ChapitreID); err != nil {
		return nil, err
	}

	key, err := s.repo.CorrectAnswers(ctx, req.ChapitreID)
	if err != nil {
		return nil, err
	}
	score, nbCorrectes := Score(req.Reponses, key)

	prog, debloque, err := s.repo.RecordQuizResult(ctx, userID, req.ChapitreID, score, req.TempsEcoule)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.ListQuestions(ctx, req.ChapitreID)
	if err != nil {
		return nil, err
	}
	explications := make(map[int64]string, len(questions))
	for _, q := range questions {
		explications[q.ID] = q.Explication
	}

	corrections := make([]Correction, 0, len(req.Reponses))
	for _, r := range req.Reponses {
		want, known := key[r.QuestionID]
		c := Correction{
			QuestionID:   r.QuestionID,
			ReponseIndex: r.ReponseIndex,
			Correcte:     known && r.ReponseIndex == want,
		}
		if known {
			c.CorrectAnswer = want
			c.Explication = explications[r.QuestionID]
		}
		corrections = append(corrections, c)
	}

	result := &QuizResult{
		Score:            score,
		NbCorrectes:      nbCorrectes,
		NbReponses:       len(req.Reponses),
		Tentatives:       prog.Tentatives,
		Corrections:      corrections,
		ChapitreDebloque: debloque,
	}
	if prog.MeilleurScore != nil {
		result.MeilleurScore = *prog.MeilleurScore
	}
	s.log.Info("quiz graded",
		slog.Int64("user_id", userID),
		slog.Int64("chapitre_id", req.ChapitreID),
		slog.Int("score", score))
	return result, nil
}

// MaProgression returns every progression row of the caller. The history
// stays readable after the subscription lapses.
func (s *ProgressionService) MaProgression(ctx context.Context, userID int64) ([]*models.Progression, error) {
	return s.repo.ListProgressionsByUser(ctx, userID)
}

// requireUnlocked verifies the chapter exists and the caller has reached
// it. A missing progression row means the chapter is still locked.
func (s *ProgressionService) requireUnlocked(ctx context.Context, userID, chapitreID int64) error {
	if _, err := s.repo.ReadChapitre(ctx, chapitreID); err != nil {
		return err
	}
	prog, err := s.repo.GetProgression(ctx, userID, chapitreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChapterLocked
		}
		return err
	}
	if prog.Statut == models.ProgressionVerrouille {
		return ErrChapterLocked
	}
	return nil
}
