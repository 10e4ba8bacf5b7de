// Package services implements the back-office logic: the dashboard
// counters and the inscription/payment validation workflows with their
// outbound notifications.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
)

// Validation actions accepted by the admin endpoints. Inscriptions are
// confirmed, payments are validated; both can be rejected.
const (
	ActionConfirmer = "confirmer"
	ActionValider   = "valider"
	ActionRejeter   = "rejeter"
)

// Validation failures surfaced to handlers.
var (
	ErrRaisonRequise  = errors.New("rejection reason required")
	ErrActionInconnue = errors.New("unknown action")
)

// AdminRepository is the storage contract for the back office.
type AdminRepository interface {
	ListInscriptionsByStatut(ctx context.Context, statut string) ([]*models.Inscription, error)
	ConfirmInscription(ctx context.Context, id int64, year int) (*models.Inscription, error)
	RejectInscription(ctx context.Context, id int64, raison string) (*models.Inscription, error)
	CountInscriptionsByStatut(ctx context.Context, statut string) (int, error)
	CountInscriptionsSince(ctx context.Context, since time.Time) (int, error)

	ListPaiementsByStatut(ctx context.Context, statut string) ([]*models.Paiement, error)
	UpdatePaiementStatut(ctx context.Context, id int64, statut string, raisonRejet *string) (*models.Paiement, error)
	CountPaiementsByStatut(ctx context.Context, statut string) (int, error)

	ReadInscription(ctx context.Context, id int64) (*models.Inscription, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CountActiveCandidates(ctx context.Context) (int, error)
	CountCandidatesSince(ctx context.Context, since time.Time) (int, error)
	CountConcours(ctx context.Context) (open int, total int, err error)
}

// Notifier publishes notification events.
type Notifier interface {
	Publish(notif models.Notification) error
}

// AdminService drives the validation workflows.
type AdminService struct {
	repo     AdminRepository
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewAdminService creates a new AdminService.
func NewAdminService(repo AdminRepository, notifier Notifier, log *slog.Logger) *AdminService {
	return &AdminService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Stats assembles the dashboard counters.
func (s *AdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	var stats models.DashboardStats
	var err error
	if stats.InscriptionsDuJour, err = s.repo.CountInscriptionsSince(ctx, startOfDay); err != nil {
		return nil, err
	}
	if stats.InscriptionsEnAttente, err = s.repo.CountInscriptionsByStatut(ctx, models.InscriptionEnAttente); err != nil {
		return nil, err
	}
	if stats.InscriptionsConfirmees, err = s.repo.CountInscriptionsByStatut(ctx, models.InscriptionConfirmee); err != nil {
		return nil, err
	}
	if stats.PaiementsEnAttente, err = s.repo.CountPaiementsByStatut(ctx, models.PaiementEnAttente); err != nil {
		return nil, err
	}
	if stats.PaiementsValides, err = s.repo.CountPaiementsByStatut(ctx, models.PaiementValide); err != nil {
		return nil, err
	}
	if stats.CandidatsActifs, err = s.repo.CountActiveCandidates(ctx); err != nil {
		return nil, err
	}
	if stats.NouveauxCandidatsSemaine, err = s.repo.CountCandidatesSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if stats.ConcoursOuverts, stats.ConcoursTotal, err = s.repo.CountConcours(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PendingInscriptions lists applications awaiting a decision.
func (s *AdminService) PendingInscriptions(ctx context.Context) ([]*models.Inscription, error) {
	return s.repo.ListInscriptionsByStatut(ctx, models.InscriptionEnAttente)
}

// ValidateInscription applies an admin decision. Confirmation assigns the
// registration number; rejection requires a reason. Either way the candidate
// is notified by email, best effort.
func (s *AdminService) ValidateInscription(ctx context.Context, id int64, req models.DummyValidation) (*models.Inscription, error) {
	var ins *models.Inscription
	var err error

	switch req.Action {
	case ActionConfirmer:
		ins, err = s.repo.ConfirmInscription(ctx, id, s.now().Year())
	case ActionRejeter:
		if req.RaisonRejet == "" {
			return nil, ErrRaisonRequise
		}
		ins, err = s.repo.RejectInscription(ctx, id, req.RaisonRejet)
	default:
		return nil, ErrActionInconnue
	}
	if err != nil {
		return nil, err
	}

	s.notifyInscription(ctx, ins)
	return ins, nil
}

func (s *AdminService) notifyInscription(ctx context.Context, ins *models.Inscription) {
	user, err := s.repo.GetUserByID(ctx, ins.UserID)
	if err != nil {
		s.log.Warn("failed to load user for notification", sl.Err(err))
		return
	}
	notif := models.Notification{
		Email:       user.Email,
		NomComplet:  user.FullName(),
		ConcoursNom: ins.ConcoursNom,
	}
	if ins.Statut == models.InscriptionConfirmee {
		notif.Type = models.NotifInscriptionConfirmee
		if ins.NumeroInscription != nil {
			notif.NumeroInscription = *ins.NumeroInscription
		}
	} else {
		notif.Type = models.NotifInscriptionRejetee
		if ins.RaisonRejet != nil {
			notif.RaisonRejet = *ins.RaisonRejet
		}
	}
	if err := s.notifier.Publish(notif); err != nil {
		s.log.Warn("failed to publish inscription notification", sl.Err(err))
	}
}

// PendingPaiements lists payments awaiting a decision.
func (s *AdminService) PendingPaiements(ctx context.Context) ([]*models.Paiement, error) {
	return s.repo.ListPaiementsByStatut(ctx, models.PaiementEnAttente)
}

// ValidatePaiement applies an admin decision on a payment proof and notifies
// the candidate. Confirming the inscription itself stays a separate decision.
func (s *AdminService) ValidatePaiement(ctx context.Context, id int64, req models.DummyValidation) (*models.Paiement, error) {
	var p *models.Paiement
	var err error

	switch req.Action {
	case ActionValider:
		p, err = s.repo.UpdatePaiementStatut(ctx, id, models.PaiementValide, nil)
	case ActionRejeter:
		if req.RaisonRejet == "" {
			return nil, ErrRaisonRequise
		}
		raison := req.RaisonRejet
		p, err = s.repo.UpdatePaiementStatut(ctx, id, models.PaiementRejete, &raison)
	default:
		return nil, ErrActionInconnue
	}
	if err != nil {
		return nil, err
	}

	s.notifyPaiement(ctx, p)
	return p, nil
}

func (s *AdminService) notifyPaiement(ctx context.Context, p *models.Paiement) {
	ins, err := s.repo.ReadInscription(ctx, p.InscriptionID)
	if err != nil {
		s.log.Warn("failed to load inscription for notification", sl.Err(err))
		return
	}
	user, err := s.repo.GetUserByID(ctx, ins.UserID)
	if err != nil {
		s.log.Warn("failed to load user for notification", sl.Err(err))
		return
	}
	notif := models.Notification{
		Email:       user.Email,
		NomComplet:  user.FullName(),
		ConcoursNom: ins.ConcoursNom,
	}
	if p.Statut == models.PaiementValide {
		notif.Type = models.NotifPaiementValide
	} else {
		notif.Type = models.NotifPaiementRejete
		if p.RaisonRejet != nil {
			notif.RaisonRejet = *p.RaisonRejet
		}
	}
	if err := s.notifier.Publish(notif); err != nil {
		s.log.Warn("failed to publish paiement notification", sl.Err(err))
	}
}
