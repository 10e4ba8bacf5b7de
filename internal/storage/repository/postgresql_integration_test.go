package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ing-Nahine/concours-backend/internal/models"
)

func TestStorage_ConfirmInscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	concoursID := factory.CreateConcours(t, "ENA Direct 2026", models.ConcoursDirect, 100)

	t.Run("assigns sequential numbers", func(t *testing.T) {
		userA := factory.CreateUser(t, "a@example.com", "Ouedraogo", "Awa")
		userB := factory.CreateUser(t, "b@example.com", "Sawadogo", "Issa")
		insA := factory.CreateInscription(t, userA, concoursID)
		insB := factory.CreateInscription(t, userB, concoursID)

		gotA, err := storage.ConfirmInscription(context.Background(), insA, 2026)
		require.NoError(t, err)
		gotB, err := storage.ConfirmInscription(context.Background(), insB, 2026)
		require.NoError(t, err)

		require.NotNil(t, gotA.NumeroInscription)
		require.NotNil(t, gotB.NumeroInscription)
		assert.Equal(t, "INS-2026-000001", *gotA.NumeroInscription)
		assert.Equal(t, "INS-2026-000002", *gotB.NumeroInscription)
		assert.Equal(t, models.InscriptionConfirmee, gotA.Statut)
	})

	t.Run("second confirmation is rejected", func(t *testing.T) {
		user := factory.CreateUser(t, "c@example.com", "Kabore", "Fatou")
		ins := factory.CreateInscription(t, user, concoursID)

		_, err := storage.ConfirmInscription(context.Background(), ins, 2026)
		require.NoError(t, err)
		_, err = storage.ConfirmInscription(context.Background(), ins, 2026)
		require.ErrorIs(t, err, ErrAlreadyProcessed)
	})

	t.Run("missing inscription", func(t *testing.T) {
		_, err := storage.ConfirmInscription(context.Background(), 999999, 2026)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent confirmations get distinct numbers", func(t *testing.T) {
		const n = 8
		ids := make([]int64, n)
		for i := range n {
			user := factory.CreateUser(t, fmt.Sprintf("conc%d@example.com", i), "Traore", "Ali")
			ids[i] = factory.CreateInscription(t, user, concoursID)
		}

		var wg sync.WaitGroup
		results := make([]*models.Inscription, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := storage.ConfirmInscription(context.Background(), ids[i], 2026)
				require.NoError(t, err)
				results[i] = got
			}()
		}
		wg.Wait()

		seen := make(map[string]bool)
		for _, got := range results {
			require.NotNil(t, got.NumeroInscription)
			assert.False(t, seen[*got.NumeroInscription], "duplicate numero %s", *got.NumeroInscription)
			seen[*got.NumeroInscription] = true
		}
	})
}

func TestStorage_RejectInscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	concoursID := factory.CreateConcours(t, "ENAM Professionnel", models.ConcoursProfessionnel, 50)
	user := factory.CreateUser(t, "r@example.com", "Zongo", "Paul")
	ins := factory.CreateInscription(t, user, concoursID)

	got, err := storage.RejectInscription(context.Background(), ins, "dossier incomplet")
	require.NoError(t, err)
	assert.Equal(t, models.InscriptionAnnulee, got.Statut)
	require.NotNil(t, got.RaisonRejet)
	assert.Equal(t, "dossier incomplet", *got.RaisonRejet)

	_, err = storage.RejectInscription(context.Background(), ins, "encore")
	require.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestStorage_RecordQuizResult(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := factory.CreateUser(t, "qcm@example.com", "Nikiema", "Rose")
	matiere := factory.CreateMatiere(t, "Culture générale", 1)
	ch1 := factory.CreateChapitre(t, matiere, 1, "Institutions")
	ch2 := factory.CreateChapitre(t, matiere, 2, "Histoire")
	ch3 := factory.CreateChapitre(t, matiere, 3, "Géographie")

	t.Run("completes chapter and unlocks next", func(t *testing.T) {
		prog, next, err := storage.RecordQuizResult(context.Background(), user, ch1, 80, 120)
		require.NoError(t, err)
		assert.Equal(t, models.ProgressionTermine, prog.Statut)
		require.NotNil(t, prog.Score)
		assert.Equal(t, 80, *prog.Score)
		assert.Equal(t, 1, prog.Tentatives)
		require.NotNil(t, next)
		assert.Equal(t, ch2, next.ID)

		unlocked, err := storage.GetProgression(context.Background(), user, ch2)
		require.NoError(t, err)
		assert.Equal(t, models.ProgressionEnCours, unlocked.Statut)
	})

	t.Run("best score never decreases", func(t *testing.T) {
		prog, _, err := storage.RecordQuizResult(context.Background(), user, ch1, 40, 90)
		require.NoError(t, err)
		require.NotNil(t, prog.Score)
		assert.Equal(t, 40, *prog.Score)
		require.NotNil(t, prog.MeilleurScore)
		assert.Equal(t, 80, *prog.MeilleurScore)
		assert.Equal(t, 2, prog.Tentatives)
	})

	t.Run("retake does not demote next chapter", func(t *testing.T) {
		_, _, err := storage.RecordQuizResult(context.Background(), user, ch2, 100, 60)
		require.NoError(t, err)
		_, next, err := storage.RecordQuizResult(context.Background(), user, ch1, 90, 60)
		require.NoError(t, err)
		require.NotNil(t, next)

		done, err := storage.GetProgression(context.Background(), user, ch2)
		require.NoError(t, err)
		assert.Equal(t, models.ProgressionTermine, done.Statut)
	})

	t.Run("last chapter unlocks nothing", func(t *testing.T) {
		_, next, err := storage.RecordQuizResult(context.Background(), user, ch3, 50, 200)
		require.NoError(t, err)
		assert.Nil(t, next)
	})
}

func TestStorage_GetOrCreateProgression(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := factory.CreateUser(t, "p@example.com", "Sankara", "Marie")
	matiere := factory.CreateMatiere(t, "Droit", 1)
	ch := factory.CreateChapitre(t, matiere, 1, "Introduction")

	first, err := storage.GetOrCreateProgression(context.Background(), user, ch, models.ProgressionEnCours)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressionEnCours, first.Statut)

	// A second call returns the same row untouched.
	again, err := storage.GetOrCreateProgression(context.Background(), user, ch, models.ProgressionVerrouille)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, models.ProgressionEnCours, again.Statut)
}

func TestStorage_UpsertAbonnement(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	user := factory.CreateUser(t, "abo@example.com", "Compaore", "Jean")

	debut := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	created, err := storage.UpsertAbonnement(context.Background(), models.Abonnement{
		UserID:      user,
		DateDebut:   debut,
		DateFin:     fin,
		Statut:      models.AbonnementActif,
		MontantPaye: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AbonnementActif, created.Statut)

	// Renewal rewrites the same row instead of inserting a second one.
	renewed, err := storage.UpsertAbonnement(context.Background(), models.Abonnement{
		UserID:      user,
		DateDebut:   debut.AddDate(1, 0, 0),
		DateFin:     fin.AddDate(1, 0, 0),
		Statut:      models.AbonnementActif,
		MontantPaye: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, renewed.ID)
	assert.Equal(t, fin.AddDate(1, 0, 0).Format("2006-01-02"), renewed.DateFin.Format("2006-01-02"))

	err = storage.ExpireAbonnement(context.Background(), renewed.ID, renewed.DateFin.AddDate(0, 0, 1))
	require.NoError(t, err)
	got, err := storage.GetAbonnementByUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, models.AbonnementExpire, got.Statut)
}

func TestStorage_CreateInscription_Duplicate(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	concoursID := factory.CreateConcours(t, "Police Nationale", models.ConcoursDirect, 30)
	user := factory.CreateUser(t, "dup@example.com", "Ilboudo", "Sami")

	factory.CreateInscription(t, user, concoursID)
	_, err := storage.CreateInscription(context.Background(), models.Inscription{
		UserID:        user,
		ConcoursID:    concoursID,
		Nom:           "Ilboudo",
		Prenom:        "Sami",
		DateNaissance: time.Date(2002, 1, 15, 0, 0, 0, 0, time.UTC),
		Ville:         "Bobo-Dioulasso",
		Sexe:          "M",
		CNIPath:       "cni/y.jpg",
		PhotoPath:     "photos/y.jpg",
		Telephone:     "71000000",
	})
	require.ErrorIs(t, err, ErrDuplicate)
}
