package submitqcm_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/formation/submitqcm"
	"github.com/Ing-Nahine/concours-backend/internal/http/middlewarectx"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/progression"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SubmitQCM(ctx context.Context, userID int64, req models.DummySubmitQCM) (*services.QuizResult, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*services.QuizResult)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSubmitQCMHandler(t *testing.T) {
	body := `{"chapitre_id":5,"temps_ecoule":120,"reponses":[{"question_id":1,"reponse_index":2}]}`
	parsed := models.DummySubmitQCM{
		ChapitreID:  5,
		TempsEcoule: 120,
		Reponses:    []models.DummyReponse{{QuestionID: 1, ReponseIndex: 2}},
	}

	tests := []struct {
		name           string
		body           string
		authenticated  bool
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:          "graded submission",
			body:          body,
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("SubmitQCM", mock.Anything, int64(9), parsed).
					Return(&services.QuizResult{
						Score:       100,
						NbCorrectes: 1,
						NbReponses:  1,
						Corrections: []services.Correction{
							{QuestionID: 1, ReponseIndex: 2, CorrectAnswer: 2, Correcte: true},
						},
						ChapitreDebloque: &models.Chapitre{ID: 6, Titre: "Les institutions"},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"chapitre_debloque"`,
		},
		{
			name:          "unknown chapter is a validation failure",
			body:          body,
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("SubmitQCM", mock.Anything, int64(9), parsed).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `chapitre_id invalide`,
		},
		{
			name:          "no subscription",
			body:          body,
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("SubmitQCM", mock.Anything, int64(9), parsed).
					Return(nil, services.ErrSubscriptionRequired)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `abonnement actif requis`,
		},
		{
			name:           "missing chapitre_id fails validation",
			body:           `{"temps_ecoule":120,"reponses":[{"question_id":1,"reponse_index":2}]}`,
			authenticated:  true,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `ChapitreID`,
		},
		{
			name:           "unauthenticated",
			body:           body,
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

			handler := submitqcm.New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodPost, "/formation/qcm/soumettre", strings.NewReader(tt.body))
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
