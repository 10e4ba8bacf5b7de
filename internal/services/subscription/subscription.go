// Package services implements the academic-year subscription that gates the
// QCM module. Subscriptions always expire on July 31; the stored status is
// reconciled lazily, on read.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Ing-Nahine/concours-backend/internal/lib/schoolyear"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// ErrNoAbonnement reports the user never subscribed.
var ErrNoAbonnement = errors.New("no subscription")

// AbonnementRepository is the storage contract for subscriptions.
type AbonnementRepository interface {
	GetAbonnementByUser(ctx context.Context, userID int64) (*models.Abonnement, error)
	UpsertAbonnement(ctx context.Context, a models.Abonnement) (*models.Abonnement, error)
	ExpireAbonnement(ctx context.Context, id int64, asOf time.Time) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Notifier publishes notification events.
type Notifier interface {
	Publish(notif models.Notification) error
}

// SubscriptionService manages the yearly subscription lifecycle.
type SubscriptionService struct {
	repo     AbonnementRepository
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(repo AbonnementRepository, notifier Notifier, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Get returns the user's subscription after reconciling a stale actif status
// against today's date. ErrNoAbonnement when the user never subscribed.
func (s *SubscriptionService) Get(ctx context.Context, userID int64) (*models.Abonnement, error) {
	a, err := s.repo.GetAbonnementByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoAbonnement
		}
		return nil, err
	}
	return s.checkAndExpire(ctx, a)
}

// HasAccess reports whether the user currently holds an active subscription.
// Used by the QCM module as its access gate.
func (s *SubscriptionService) HasAccess(ctx context.Context, userID int64) (bool, *models.Abonnement, error) {
	a, err := s.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoAbonnement) {
			return false, nil, nil
		}
		return false, nil, err
	}
	return a.EstActif(s.now()), a, nil
}

// Subscribe opens (or renews) the subscription for the current school year.
// The end date is always the coming July 31.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int64, req models.DummyAbonnement) (*models.Abonnement, error) {
	today := s.now()
	a, err := s.repo.UpsertAbonnement(ctx, models.Abonnement{
		UserID:            userID,
		DateDebut:         today,
		DateFin:           schoolyear.EndDate(today),
		Statut:            models.AbonnementActif,
		MontantPaye:       req.MontantPaye,
		ReferencePaiement: req.ReferencePaiement,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription opened",
		slog.Int64("user_id", userID),
		slog.String("date_fin", a.DateFin.Format("2006-01-02")))

	if user, err := s.repo.GetUserByID(ctx, userID); err == nil {
		if err := s.notifier.Publish(models.Notification{
			Type:       models.NotifAbonnementCree,
			Email:      user.Email,
			NomComplet: user.FullName(),
			DateFin:    a.DateFin.Format("02/01/2006"),
		}); err != nil {
			s.log.Warn("failed to publish subscription notification", sl.Err(err))
		}
	} else {
		s.log.Warn("failed to load user for notification", sl.Err(err))
	}
	return a, nil
}

// checkAndExpire persists the actif -> expire transition when the end date
// has passed. The returned value always reflects the reconciled status.
func (s *SubscriptionService) checkAndExpire(ctx context.Context, a *models.Abonnement) (*models.Abonnement, error) {
	today := s.now()
	if a.Statut == models.AbonnementActif && a.DateFin.Before(truncateToDay(today)) {
		if err := s.repo.ExpireAbonnement(ctx, a.ID, today); err != nil {
			return nil, err
		}
		a.Statut = models.AbonnementExpire
		s.log.Info("subscription expired on read", slog.Int64("abonnement_id", a.ID))
	}
	return a, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
