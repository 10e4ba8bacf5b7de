package validateinscription_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Ing-Nahine/concours-backend/internal/http/handlers/admin/validateinscription"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	services "github.com/Ing-Nahine/concours-backend/internal/services/admin"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ValidateInscription(ctx context.Context, id int64, req models.DummyValidation) (*models.Inscription, error) {
	args := m.Called(ctx, id, req)
	ins, _ := args.Get(0).(*models.Inscription)
	return ins, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestValidateInscriptionHandler(t *testing.T) {
	numero := "INS-2026-000042"

	tests := []struct {
		name           string
		urlID          string
		body           string
		setupMock      func(*ServiceMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "confirmation returns the assigned number",
			urlID: "12",
			body:  `{"action":"confirmer"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ValidateInscription", mock.Anything, int64(12),
					models.DummyValidation{Action: "confirmer"}).
					Return(&models.Inscription{
						ID:                12,
						Statut:            models.InscriptionConfirmee,
						NumeroInscription: &numero,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `INS-2026-000042`,
		},
		{
			name:  "rejection without reason",
			urlID: "12",
			body:  `{"action":"rejeter"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ValidateInscription", mock.Anything, int64(12),
					models.DummyValidation{Action: "rejeter"}).
					Return(nil, services.ErrRaisonRequise)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `une raison de rejet est requise`,
		},
		{
			name:  "unknown action",
			urlID: "12",
			body:  `{"action":"archiver"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ValidateInscription", mock.Anything, int64(12),
					models.DummyValidation{Action: "archiver"}).
					Return(nil, services.ErrActionInconnue)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `action inconnue`,
		},
		{
			name:  "already processed",
			urlID: "12",
			body:  `{"action":"confirmer"}`,
			setupMock: func(m *ServiceMock) {
				m.On("ValidateInscription", mock.Anything, int64(12), mock.Anything).
					Return(nil, repository.ErrAlreadyProcessed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `déjà été traitée`,
		},
		{
			name:           "bad id in url",
			urlID:          "abc",
			body:           `{"action":"confirmer"}`,
			setupMock:      func(_ *ServiceMock) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `failed to decode id from url`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			handler := validateinscription.New(newNoopLogger(), serviceMock)

			req := httptest.NewRequest(http.MethodPost,
				"/api/admin/inscriptions/"+tt.urlID+"/valider", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			serviceMock.AssertExpectations(t)
		})
	}
}
