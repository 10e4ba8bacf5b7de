// Package services implements the candidate-facing contest logic: the
// public catalog, inscription submission with document uploads and payment
// proof submission.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/Ing-Nahine/concours-backend/internal/lib/uploads"
	"github.com/Ing-Nahine/concours-backend/internal/models"
	"github.com/Ing-Nahine/concours-backend/internal/storage/repository"
)

// Inscription failures surfaced to handlers.
var (
	ErrConcoursFerme      = errors.New("contest closed for registration")
	ErrConcoursComplet    = errors.New("contest is full")
	ErrDejaInscrit        = errors.New("already registered to this contest")
	ErrPaiementDejaSoumis = errors.New("payment already submitted")
)

// ConcoursRepository is the storage contract for contests and applications.
type ConcoursRepository interface {
	ListConcours(ctx context.Context, filter models.ConcoursFilter) ([]*models.Concours, error)
	ReadConcours(ctx context.Context, id int64) (*models.Concours, error)
	CreateInscription(ctx context.Context, ins models.Inscription) (int64, error)
	ListInscriptionsByUser(ctx context.Context, userID int64) ([]*models.Inscription, error)
	ReadInscriptionForUser(ctx context.Context, id, userID int64) (*models.Inscription, error)
	CreatePaiement(ctx context.Context, p models.Paiement) (int64, error)
	ReadPaiementByInscription(ctx context.Context, inscriptionID int64) (*models.Paiement, error)
}

// ConcoursService serves the contest catalog and candidate applications.
type ConcoursService struct {
	repo  ConcoursRepository
	files uploads.Store
	log   *slog.Logger
}

// NewConcoursService creates a new ConcoursService.
func NewConcoursService(repo ConcoursRepository, files uploads.Store, log *slog.Logger) *ConcoursService {
	return &ConcoursService{
		repo:  repo,
		files: files,
		log:   log,
	}
}

// List returns the contests matching the filter.
func (s *ConcoursService) List(ctx context.Context, filter models.ConcoursFilter) ([]*models.Concours, error) {
	return s.repo.ListConcours(ctx, filter)
}

// Read returns one contest.
func (s *ConcoursService) Read(ctx context.Context, id int64) (*models.Concours, error) {
	return s.repo.ReadConcours(ctx, id)
}

// CreateInscription validates the contest is open and has capacity, stores
// the CNI and photo files and inserts the application in en_attente.
func (s *ConcoursService) CreateInscription(ctx context.Context, userID int64, req models.DummyInscription,
	cni, photo *multipart.FileHeader) (*models.Inscription, error) {
	concours, err := s.repo.ReadConcours(ctx, req.ConcoursID)
	if err != nil {
		return nil, err
	}
	if !concours.EstOuvert {
		return nil, ErrConcoursFerme
	}
	if concours.EstComplet() {
		return nil, ErrConcoursComplet
	}

	dateNaissance, err := time.Parse("2006-01-02", req.DateNaissance)
	if err != nil {
		return nil, fmt.Errorf("invalid date_naissance: %w", err)
	}

	cniPath, err := s.files.Save(cni, uploads.KindDocument)
	if err != nil {
		return nil, fmt.Errorf("cni: %w", err)
	}
	photoPath, err := s.files.Save(photo, uploads.KindPhoto)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}

	id, err := s.repo.CreateInscription(ctx, models.Inscription{
		UserID:        userID,
		ConcoursID:    req.ConcoursID,
		Nom:           req.Nom,
		Prenom:        req.Prenom,
		DateNaissance: dateNaissance,
		Ville:         req.Ville,
		Sexe:          req.Sexe,
		CNIPath:       cniPath,
		PhotoPath:     photoPath,
		Telephone:     req.Telephone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDejaInscrit
		}
		return nil, err
	}
	s.log.Info("created inscription",
		slog.Int64("inscription_id", id),
		slog.Int64("concours_id", req.ConcoursID))
	return s.repo.ReadInscriptionForUser(ctx, id, userID)
}

// ListMyInscriptions returns the caller's applications.
func (s *ConcoursService) ListMyInscriptions(ctx context.Context, userID int64) ([]*models.Inscription, error) {
	return s.repo.ListInscriptionsByUser(ctx, userID)
}

// ReadMyInscription returns one application when it belongs to the caller.
func (s *ConcoursService) ReadMyInscription(ctx context.Context, id, userID int64) (*models.Inscription, error) {
	return s.repo.ReadInscriptionForUser(ctx, id, userID)
}

// CreatePaiement attaches a payment proof to the caller's application. One
// payment per inscription; a second submission is rejected.
func (s *ConcoursService) CreatePaiement(ctx context.Context, userID int64, req models.DummyPaiement,
	capture *multipart.FileHeader) (*models.Paiement, error) {
	// Ownership check doubles as an existence check.
	if _, err := s.repo.ReadInscriptionForUser(ctx, req.InscriptionID, userID); err != nil {
		return nil, err
	}

	capturePath, err := s.files.Save(capture, uploads.KindScreenshot)
	if err != nil {
		return nil, fmt.Errorf("capture_ecran: %w", err)
	}

	id, err := s.repo.CreatePaiement(ctx, models.Paiement{
		InscriptionID:        req.InscriptionID,
		MethodePaiement:      req.MethodePaiement,
		ReferenceTransaction: req.ReferenceTransaction,
		Montant:              req.Montant,
		CapturePath:          capturePath,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPaiementDejaSoumis
		}
		return nil, err
	}
	s.log.Info("created paiement",
		slog.Int64("paiement_id", id),
		slog.Int64("inscription_id", req.InscriptionID))
	return s.repo.ReadPaiementByInscription(ctx, req.InscriptionID)
}

// ReadMyPaiement returns the payment attached to the caller's application.
func (s *ConcoursService) ReadMyPaiement(ctx context.Context, inscriptionID, userID int64) (*models.Paiement, error) {
	if _, err := s.repo.ReadInscriptionForUser(ctx, inscriptionID, userID); err != nil {
		return nil, err
	}
	return s.repo.ReadPaiementByInscription(ctx, inscriptionID)
}
