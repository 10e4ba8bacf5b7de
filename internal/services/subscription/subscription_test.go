package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ing-Nahine/concours-backend/internal/lib/schoolyear"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/subscription"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

type AbonnementRepoMock struct {
	mock.Mock
}

func (m *AbonnementRepoMock) GetAbonnementByUser(ctx context.Context, userID int64) (*models.Abonnement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Abonnement), args.Error(1)
}

func (m *AbonnementRepoMock) UpsertAbonnement(ctx context.Context, a models.Abonnement) (*models.Abonnement, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Abonnement), args.Error(1)
}

func (m *AbonnementRepoMock) ExpireAbonnement(ctx context.Context, id int64, asOf time.Time) error {
	args := m.Called(ctx, id, asOf)
	return args.Error(0)
}

func (m *AbonnementRepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Publish(notif models.Notification) error {
	args := m.Called(notif)
	return args.Error(0)
}

func TestSubscriptionService_Get(t *testing.T) {
	t.Run("no subscription", func(t *testing.T) {
		repo := new(AbonnementRepoMock)
		svc := services.NewSubscriptionService(repo, new(NotifierMock), sl.DiscardLogger())

		repo.On("GetAbonnementByUser", mock.Anything, int64(3)).
			Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Get(context.Background(), 3)
		require.ErrorIs(t, err, services.ErrNoAbonnement)
	})

	t.Run("active subscription is returned untouched", func(t *testing.T) {
		repo := new(AbonnementRepoMock)
		svc := services.NewSubscriptionService(repo, new(NotifierMock), sl.DiscardLogger())

		repo.On("GetAbonnementByUser", mock.Anything, int64(3)).Return(&models.Abonnement{
			ID:      1,
			UserID:  3,
			Statut:  models.AbonnementActif,
			DateFin: time.Now().AddDate(0, 6, 0),
		}, nil).Once()

		got, err := svc.Get(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, models.AbonnementActif, got.Statut)
		repo.AssertNotCalled(t, "ExpireAbonnement", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stale actif is expired on read", func(t *testing.T) {
		repo := new(AbonnementRepoMock)
		svc := services.NewSubscriptionService(repo, new(NotifierMock), sl.DiscardLogger())

		repo.On("GetAbonnementByUser", mock.Anything, int64(3)).Return(&models.Abonnement{
			ID:      1,
			UserID:  3,
			Statut:  models.AbonnementActif,
			DateFin: time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
		}, nil).Once()
		repo.On("ExpireAbonnement", mock.Anything, int64(1), mock.AnythingOfType("time.Time")).
			Return(nil).Once()

		got, err := svc.Get(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, models.AbonnementExpire, got.Statut)
		repo.AssertExpectations(t)
	})
}

func TestSubscriptionService_HasAccess(t *testing.T) {
	t.Run("never subscribed", func(t *testing.T) {
		repo := new(AbonnementRepoMock)
		svc := services.NewSubscriptionService(repo, new(NotifierMock), sl.DiscardLogger())

		repo.On("GetAbonnementByUser", mock.Anything, int64(3)).
			Return(nil, repository.ErrNotFound).Once()

		ok, a, err := svc.HasAccess(context.Background(), 3)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, a)
	})

	t.Run("active grants access", func(t *testing.T) {
		repo := new(AbonnementRepoMock)
		svc := services.NewSubscriptionService(repo, new(NotifierMock), sl.DiscardLogger())

		repo.On("GetAbonnementByUser", mock.Anything, int64(3)).Return(&models.Abonnement{
			ID:      1,
			Statut:  models.AbonnementActif,
			DateFin: time.Now().AddDate(0, 6, 0),
		}, nil).Once()

		ok, a, err := svc.HasAccess(context.Background(), 3)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NotNil(t, a)
	})

	t.Run("expired denies access", func(t *testing.T) {
		repo := new(AbonnementRepoMock)
		svc := services.NewSubscriptionService(repo, new(NotifierMock), sl.DiscardLogger())

		repo.On("GetAbonnementByUser", mock.Anything, int64(3)).Return(&models.Abonnement{
			ID:      1,
			Statut:  models.AbonnementExpire,
			DateFin: time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
		}, nil).Once()

		ok, a, err := svc.HasAccess(context.Background(), 3)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NotNil(t, a)
	})
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	repo := new(AbonnementRepoMock)
	notifier := new(NotifierMock)
	svc := services.NewSubscriptionService(repo, notifier, sl.DiscardLogger())

	wantFin := schoolyear.EndDate(time.Now())
	stored := &models.Abonnement{
		ID:          1,
		UserID:      3,
		Statut:      models.AbonnementActif,
		DateFin:     wantFin,
		MontantPaye: 5000,
	}

	repo.On("UpsertAbonnement", mock.Anything, mock.MatchedBy(func(a models.Abonnement) bool {
		return a.UserID == 3 &&
			a.Statut == models.AbonnementActif &&
			a.DateFin.Equal(wantFin) &&
			a.MontantPaye == 5000
	})).Return(stored, nil).Once()
	repo.On("GetUserByID", mock.Anything, int64(3)).
		Return(&models.User{ID: 3, Email: "awa@example.com", Nom: "Ouedraogo", Prenom: "Awa"}, nil).Once()
	notifier.On("Publish", mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotifAbonnementCree && n.DateFin == wantFin.Format("02/01/2006")
	})).Return(nil).Once()

	got, err := svc.Subscribe(context.Background(), 3, models.DummyAbonnement{MontantPaye: 5000})
	require.NoError(t, err)
	assert.Equal(t, models.AbonnementActif, got.Statut)

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}
