package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ing-Nahine/concours-backend/internal/lib/password"
	"github.com/Ing-Nahine/concours-backend/internal/lib/sl"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/passwordreset"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// fakeCache is an in-memory stand-in for the redis wrapper, TTLs ignored.
type fakeCache struct {
	data     map[string]any
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]any{}, counters: map[string]int64{}}
}

func (c *fakeCache) Get(_ context.Context, key string, result any) (bool, error) {
	val, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if p, ok := result.(*string); ok {
		*p = val.(string)
	}
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, key string) error {
	delete(c.data, key)
	delete(c.counters, key)
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.counters[key]++
	return c.counters[key], nil
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Publish(notif models.Notification) error {
	args := m.Called(notif)
	return args.Error(0)
}

func TestResetService_Request(t *testing.T) {
	testUser := &models.User{ID: 4, Email: "awa@example.com", Nom: "Ouedraogo", Prenom: "Awa"}

	t.Run("stores a code and mails it", func(t *testing.T) {
		repo := new(UserRepoMock)
		cache := newFakeCache()
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, cache, notifier, sl.DiscardLogger())

		repo.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(testUser, nil).Once()
		notifier.On("Publish", mock.MatchedBy(func(n models.Notification) bool {
			return n.Type == models.NotifResetCode && len(n.Code) == 6
		})).Return(nil).Once()

		err := svc.Request(context.Background(), "awa@example.com")
		require.NoError(t, err)
		assert.Contains(t, cache.data, "password_reset_awa@example.com")
		notifier.AssertExpectations(t)
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		repo := new(UserRepoMock)
		cache := newFakeCache()
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, cache, notifier, sl.DiscardLogger())

		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, repository.ErrNotFound).Once()

		err := svc.Request(context.Background(), "ghost@example.com")
		require.NoError(t, err)
		assert.Empty(t, cache.data)
		notifier.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("notifier failure is absorbed", func(t *testing.T) {
		repo := new(UserRepoMock)
		cache := newFakeCache()
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, cache, notifier, sl.DiscardLogger())

		repo.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(testUser, nil).Once()
		notifier.On("Publish", mock.Anything).Return(errors.New("broker down")).Once()

		err := svc.Request(context.Background(), "awa@example.com")
		require.NoError(t, err)
		assert.Contains(t, cache.data, "password_reset_awa@example.com")
	})

	t.Run("fourth request in the window is rejected", func(t *testing.T) {
		repo := new(UserRepoMock)
		cache := newFakeCache()
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, cache, notifier, sl.DiscardLogger())

		repo.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(testUser, nil).Times(3)
		notifier.On("Publish", mock.Anything).Return(nil).Times(3)

		for range 3 {
			require.NoError(t, svc.Request(context.Background(), "awa@example.com"))
		}
		err := svc.Request(context.Background(), "awa@example.com")
		require.ErrorIs(t, err, services.ErrRateLimited)
	})
}

func TestResetService_VerifyAndConfirm(t *testing.T) {
	testUser := &models.User{ID: 4, Email: "awa@example.com", Nom: "Ouedraogo", Prenom: "Awa"}

	t.Run("full flow", func(t *testing.T) {
		repo := new(UserRepoMock)
		cache := newFakeCache()
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, cache, notifier, sl.DiscardLogger())

		cache.data["password_reset_awa@example.com"] = "123456"
		cache.counters["password_reset_limit_awa@example.com"] = 2

		token, err := svc.Verify(context.Background(), "awa@example.com", "123456")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		// The code is single use.
		assert.NotContains(t, cache.data, "password_reset_awa@example.com")

		repo.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(testUser, nil).Once()
		repo.On("UpdateUserPassword", mock.Anything, int64(4), mock.MatchedBy(func(hash string) bool {
			return password.CompareHash(hash, "brandnewpass1") == nil
		})).Return(nil).Once()
		notifier.On("Publish", mock.MatchedBy(func(n models.Notification) bool {
			return n.Type == models.NotifPasswordChanged
		})).Return(nil).Once()

		err = svc.Confirm(context.Background(), token, "brandnewpass1")
		require.NoError(t, err)
		// A successful reset clears the hourly request window.
		assert.NotContains(t, cache.counters, "password_reset_limit_awa@example.com")
		// The token is single use too.
		err = svc.Confirm(context.Background(), token, "brandnewpass1")
		require.ErrorIs(t, err, services.ErrInvalidToken)

		repo.AssertExpectations(t)
	})

	t.Run("wrong code", func(t *testing.T) {
		svc := services.NewResetService(new(UserRepoMock), newFakeCache(), new(NotifierMock), sl.DiscardLogger())

		_, err := svc.Verify(context.Background(), "awa@example.com", "000000")
		require.ErrorIs(t, err, services.ErrInvalidCode)
	})

	t.Run("expired code", func(t *testing.T) {
		cache := newFakeCache()
		cache.data["password_reset_awa@example.com"] = "123456"
		svc := services.NewResetService(new(UserRepoMock), cache, new(NotifierMock), sl.DiscardLogger())

		_, err := svc.Verify(context.Background(), "awa@example.com", "654321")
		require.ErrorIs(t, err, services.ErrInvalidCode)
	})
}
