package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/admin"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

type AdminRepoMock struct {
	mock.Mock
}

func (m *AdminRepoMock) ListInscriptionsByStatut(ctx context.Context, statut string) ([]*models.Inscription, error) {
	args := m.Called(ctx, statut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Inscription), args.Error(1)
}

func (m *AdminRepoMock) ConfirmInscription(ctx context.Context, id int64, year int) (*models.Inscription, error) {
	args := m.Called(ctx, id, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inscription), args.Error(1)
}

func (m *AdminRepoMock) RejectInscription(ctx context.Context, id int64, raison string) (*models.Inscription, error) {
	args := m.Called(ctx, id, raison)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inscription), args.Error(1)
}

func (m *AdminRepoMock) CountInscriptionsByStatut(ctx context.Context, statut string) (int, error) {
	args := m.Called(ctx, statut)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) CountInscriptionsSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) ListPaiementsByStatut(ctx context.Context, statut string) ([]*models.Paiement, error) {
	args := m.Called(ctx, statut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Paiement), args.Error(1)
}

func (m *AdminRepoMock) UpdatePaiementStatut(ctx context.Context, id int64, statut string, raisonRejet *string) (*models.Paiement, error) {
	args := m.Called(ctx, id, statut, raisonRejet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Paiement), args.Error(1)
}

func (m *AdminRepoMock) CountPaiementsByStatut(ctx context.Context, statut string) (int, error) {
	args := m.Called(ctx, statut)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) ReadInscription(ctx context.Context, id int64) (*models.Inscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inscription), args.Error(1)
}

func (m *AdminRepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *AdminRepoMock) CountActiveCandidates(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) CountCandidatesSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *AdminRepoMock) CountConcours(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Publish(notif models.Notification) error {
	args := m.Called(notif)
	return args.Error(0)
}

func TestAdminService_ValidateInscription(t *testing.T) {
	numero := "INS-2026-000042"
	raison := "dossier incomplet"
	testUser := &models.User{ID: 3, Email: "awa@example.com", Nom: "Ouedraogo", Prenom: "Awa"}

	t.Run("confirm assigns number and notifies", func(t *testing.T) {
		repo := new(AdminRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAdminService(repo, notifier, sl.DiscardLogger())

		repo.On("ConfirmInscription", mock.Anything, int64(55), time.Now().Year()).
			Return(&models.Inscription{
				ID:                55,
				UserID:            3,
				ConcoursNom:       "ENA Direct 2026",
				Statut:            models.InscriptionConfirmee,
				NumeroInscription: &numero,
			}, nil).Once()
		repo.On("GetUserByID", mock.Anything, int64(3)).Return(testUser, nil).Once()
		notifier.On("Publish", mock.MatchedBy(func(n models.Notification) bool {
			return n.Type == models.NotifInscriptionConfirmee &&
				n.NumeroInscription == numero &&
				n.ConcoursNom == "ENA Direct 2026"
		})).Return(nil).Once()

		got, err := svc.ValidateInscription(context.Background(), 55,
			models.DummyValidation{Action: services.ActionConfirmer})
		require.NoError(t, err)
		assert.Equal(t, models.InscriptionConfirmee, got.Statut)

		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		svc := services.NewAdminService(new(AdminRepoMock), new(NotifierMock), sl.DiscardLogger())

		_, err := svc.ValidateInscription(context.Background(), 55,
			models.DummyValidation{Action: services.ActionRejeter})
		require.ErrorIs(t, err, services.ErrRaisonRequise)
	})

	t.Run("reject with reason notifies", func(t *testing.T) {
		repo := new(AdminRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAdminService(repo, notifier, sl.DiscardLogger())

		repo.On("RejectInscription", mock.Anything, int64(55), raison).
			Return(&models.Inscription{
				ID:          55,
				UserID:      3,
				Statut:      models.InscriptionAnnulee,
				RaisonRejet: &raison,
			}, nil).Once()
		repo.On("GetUserByID", mock.Anything, int64(3)).Return(testUser, nil).Once()
		notifier.On("Publish", mock.MatchedBy(func(n models.Notification) bool {
			return n.Type == models.NotifInscriptionRejetee && n.RaisonRejet == raison
		})).Return(nil).Once()

		_, err := svc.ValidateInscription(context.Background(), 55,
			models.DummyValidation{Action: services.ActionRejeter, RaisonRejet: raison})
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("unknown action", func(t *testing.T) {
		svc := services.NewAdminService(new(AdminRepoMock), new(NotifierMock), sl.DiscardLogger())

		_, err := svc.ValidateInscription(context.Background(), 55,
			models.DummyValidation{Action: "approve"})
		require.ErrorIs(t, err, services.ErrActionInconnue)
	})

	t.Run("already processed", func(t *testing.T) {
		repo := new(AdminRepoMock)
		svc := services.NewAdminService(repo, new(NotifierMock), sl.DiscardLogger())

		repo.On("ConfirmInscription", mock.Anything, int64(55), time.Now().Year()).
			Return(nil, repository.ErrAlreadyProcessed).Once()

		_, err := svc.ValidateInscription(context.Background(), 55,
			models.DummyValidation{Action: services.ActionConfirmer})
		require.ErrorIs(t, err, repository.ErrAlreadyProcessed)
	})
}

func TestAdminService_ValidatePaiement(t *testing.T) {
	testUser := &models.User{ID: 3, Email: "awa@example.com", Nom: "Ouedraogo", Prenom: "Awa"}

	t.Run("validate notifies candidate", func(t *testing.T) {
		repo := new(AdminRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAdminService(repo, notifier, sl.DiscardLogger())

		repo.On("UpdatePaiementStatut", mock.Anything, int64(9), models.PaiementValide, (*string)(nil)).
			Return(&models.Paiement{ID: 9, InscriptionID: 55, Statut: models.PaiementValide}, nil).Once()
		repo.On("ReadInscription", mock.Anything, int64(55)).
			Return(&models.Inscription{ID: 55, UserID: 3, ConcoursNom: "ENA Direct 2026"}, nil).Once()
		repo.On("GetUserByID", mock.Anything, int64(3)).Return(testUser, nil).Once()
		notifier.On("Publish", mock.MatchedBy(func(n models.Notification) bool {
			return n.Type == models.NotifPaiementValide
		})).Return(nil).Once()

		got, err := svc.ValidatePaiement(context.Background(), 9,
			models.DummyValidation{Action: services.ActionValider})
		require.NoError(t, err)
		assert.Equal(t, models.PaiementValide, got.Statut)
		notifier.AssertExpectations(t)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		svc := services.NewAdminService(new(AdminRepoMock), new(NotifierMock), sl.DiscardLogger())

		_, err := svc.ValidatePaiement(context.Background(), 9,
			models.DummyValidation{Action: services.ActionRejeter})
		require.ErrorIs(t, err, services.ErrRaisonRequise)
	})
}

func TestAdminService_Stats(t *testing.T) {
	repo := new(AdminRepoMock)
	svc := services.NewAdminService(repo, new(NotifierMock), sl.DiscardLogger())

	repo.On("CountInscriptionsSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(4, nil).Once()
	repo.On("CountInscriptionsByStatut", mock.Anything, models.InscriptionEnAttente).Return(12, nil).Once()
	repo.On("CountInscriptionsByStatut", mock.Anything, models.InscriptionConfirmee).Return(30, nil).Once()
	repo.On("CountPaiementsByStatut", mock.Anything, models.PaiementEnAttente).Return(7, nil).Once()
	repo.On("CountPaiementsByStatut", mock.Anything, models.PaiementValide).Return(25, nil).Once()
	repo.On("CountActiveCandidates", mock.Anything).Return(100, nil).Once()
	repo.On("CountCandidatesSince", mock.Anything, mock.AnythingOfType("time.Time")).Return(9, nil).Once()
	repo.On("CountConcours", mock.Anything).Return(3, 8, nil).Once()

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.InscriptionsDuJour)
	assert.Equal(t, 12, stats.InscriptionsEnAttente)
	assert.Equal(t, 30, stats.InscriptionsConfirmees)
	assert.Equal(t, 7, stats.PaiementsEnAttente)
	assert.Equal(t, 25, stats.PaiementsValides)
	assert.Equal(t, 100, stats.CandidatsActifs)
	assert.Equal(t, 9, stats.NouveauxCandidatsSemaine)
	assert.Equal(t, 3, stats.ConcoursOuverts)
	assert.Equal(t, 8, stats.ConcoursTotal)

	repo.AssertExpectations(t)
}
