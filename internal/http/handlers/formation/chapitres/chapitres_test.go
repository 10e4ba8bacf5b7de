package chapitres_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/chapitres"
	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/progression"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListChapitres(ctx context.Context, userID, matiereID int64) ([]*models.Chapitre, *models.Matiere, *models.Abonnement, error) {
	args := m.Called(ctx, userID, matiereID)
	chs, _ := args.Get(0).([]*models.Chapitre)
	mat, _ := args.Get(1).(*models.Matiere)
	abo, _ := args.Get(2).(*models.Abonnement)
	return chs, mat, abo, args.Error(3)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestChapitresHandler(t *testing.T) {
	tests := []struct {
		name           string
		urlID          string
		authenticated  bool
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "chapter list carries the subject and subscription summary",
			urlID:         "1",
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("ListChapitres", mock.Anything, int64(9), int64(1)).
					Return([]*models.Chapitre{
						{ID: 10, MatiereID: 1, Numero: 1, Titre: "Institutions", Statut: models.ProgressionEnCours},
					}, &models.Matiere{ID: 1, Nom: "Culture générale"},
						&models.Abonnement{
							Statut:  models.AbonnementActif,
							DateFin: time.Date(2027, 7, 31, 0, 0, 0, 0, time.UTC),
						}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"matiere_nom":"Culture générale"`,
		},
		{
			name:          "no subscription",
			urlID:         "1",
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("ListChapitres", mock.Anything, int64(9), int64(1)).
					Return(nil, nil, nil, services.ErrSubscriptionRequired)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `abonnement_requis`,
		},
		{
			name:          "unknown subject",
			urlID:         "42",
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("ListChapitres", mock.Anything, int64(9), int64(42)).
					Return(nil, nil, nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `matière introuvable`,
		},
		{
			name:           "unauthenticated",
			urlID:          "1",
			authenticated:  false,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `user identification missing`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			handler := chapitres.New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodGet, "/formation/matieres/"+tt.urlID+"/chapitres", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			if tt.authenticated {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, int64(9)))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			serviceMock.AssertExpectations(t)
		})
	}
}
