package models

import (
	"time"

	"github.com/Ing-Nahine/concours-backend/internal/lib/schoolyear"
)

// Abonnement statuses.
const (
	AbonnementActif    = "actif"
	AbonnementExpire   = "expire"
	AbonnementSuspendu = "suspendu"
)

// Progression statuses.
const (
	ProgressionVerrouille = "verrouille"
	ProgressionEnCours    = "en_cours"
	ProgressionTermine    = "termine"
)

// Abonnement is the academic-year subscription gating the QCM module.
// DateFin is always July 31 (see lib/schoolyear). Rows are never deleted:
// an expired subscription stays around with statut "expire".
type Abonnement struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	DateDebut         time.Time `json:"date_debut"`
	DateFin           time.Time `json:"date_fin"`
	Statut            string    `json:"statut"`
	MontantPaye       int       `json:"montant_paye"`
	ReferencePaiement string    `json:"reference_paiement"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EstActif reports whether the subscription grants access on the given day.
// The stored statut may lag behind reality until CheckAndExpire persists the
// transition; EstActif never trusts the statut alone.
func (a *Abonnement) EstActif(today time.Time) bool {
	return a.Statut == AbonnementActif && !a.DateFin.Before(truncateToDay(today))
}

// JoursRestants returns the days left before expiry, 0 when inactive.
func (a *Abonnement) JoursRestants(today time.Time) int {
	if !a.EstActif(today) {
		return 0
	}
	return schoolyear.DaysRemaining(a.DateFin, today)
}

// MoisRestants approximates the remaining months (days/30, rounded).
func (a *Abonnement) MoisRestants(today time.Time) int {
	if !a.EstActif(today) {
		return 0
	}
	return schoolyear.MonthsRemaining(a.DateFin, today)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DummyAbonnement receives a subscription purchase.
type DummyAbonnement struct {
	MontantPaye       int    `json:"montant_paye" validate:"required,gt=0"`
	ReferencePaiement string `json:"reference_paiement,omitempty" validate:"omitempty"`
}

// Matiere is an ordered catalog entry of the QCM module.
type Matiere struct {
	ID              int64  `json:"id"`
	Nom             string `json:"nom"`
	Icon            string `json:"icon"`
	Color           string `json:"color"`
	Ordre           int    `json:"ordre"`
	NombreChapitres int    `json:"nombre_chapitres"`
}

// Chapitre belongs to a matiere; (matiere, numero) is unique.
type Chapitre struct {
	ID              int64  `json:"id"`
	MatiereID       int64  `json:"matiere_id"`
	Numero          int    `json:"numero"`
	Titre           string `json:"titre"`
	Ordre           int    `json:"ordre"`
	NombreQuestions int    `json:"nombre_questions"`
	// Statut is the caller's progression status, filled per request.
	Statut string `json:"statut,omitempty"`
}

// Question is a single QCM item. Options always holds exactly 4 entries and
// CorrectAnswer indexes into it (0-3); both are enforced at validation time.
type Question struct {
	ID            int64    `json:"id"`
	ChapitreID    int64    `json:"chapitre_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer,omitempty"`
	Explication   string   `json:"explication,omitempty"`
	Ordre         int      `json:"ordre"`
}

// Public strips the fields a candidate must not see before answering.
func (q Question) Public() Question {
	q.CorrectAnswer = 0
	q.Explication = ""
	return q
}

// Progression is the per-(user, chapitre) unlock/completion state.
// MeilleurScore is monotonically non-decreasing; Termine is terminal.
type Progression struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ChapitreID    int64     `json:"chapitre_id"`
	ChapitreTitre string    `json:"chapitre_titre,omitempty"`
	MatiereNom    string    `json:"matiere_nom,omitempty"`
	Statut        string    `json:"statut"`
	Score         *int      `json:"score"`
	TempsEcoule   *int      `json:"temps_ecoule"`
	Tentatives    int       `json:"tentatives"`
	MeilleurScore *int      `json:"meilleur_score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DummyReponse is one submitted answer.
type DummyReponse struct {
	QuestionID   int64 `json:"question_id" validate:"required"`
	ReponseIndex int   `json:"reponse_index" validate:"gte=0,lte=3"`
}

// DummySubmitQCM receives a quiz submission for a chapter.
type DummySubmitQCM struct {
	ChapitreID  int64          `json:"chapitre_id" validate:"required"`
	TempsEcoule int            `json:"temps_ecoule" validate:"gte=0"`
	Reponses    []DummyReponse `json:"reponses" validate:"required,dive"`
}
