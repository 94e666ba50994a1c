package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/store"
)

func strPtr(s string) *string { return &s }

func TestSavePatient_AssignsIDToUnsavedPatient(t *testing.T) {
	repo := NewPatientRepository(store.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	patient := models.Patient{
		ID:       models.UnsavedPatientID,
		Name:     "Maria Silva",
		Phone:    strPtr("11 99999-0000"),
		OwnerUID: "u1",
	}

	id, err := repo.SavePatient(ctx, patient)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	got, err := repo.GetPatient(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, id, got.ID)
	require.Equal(t, patient.Name, got.Name)
	require.Equal(t, patient.Phone, got.Phone)
	require.Equal(t, patient.OwnerUID, got.OwnerUID)
	require.Nil(t, got.Notes)
}

func TestSavePatient_OverwritesExistingID(t *testing.T) {
	repo := NewPatientRepository(store.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	id, err := repo.SavePatient(ctx, models.Patient{ID: models.UnsavedPatientID, Name: "Maria", OwnerUID: "u1"})
	require.NoError(t, err)

	again, err := repo.SavePatient(ctx, models.Patient{ID: id, Name: "Maria Silva", OwnerUID: "u1"})
	require.NoError(t, err)
	require.Equal(t, id, again)

	got, err := repo.GetPatient(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Maria Silva", got.Name)

	all, err := repo.Patients(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestGetPatient_AbsentReturnsNil(t *testing.T) {
	repo := NewPatientRepository(store.NewMemoryStore(), zap.NewNop())

	got, err := repo.GetPatient(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPatients_ScopedToOwnerAndSortedByName(t *testing.T) {
	repo := NewPatientRepository(store.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	for _, p := range []models.Patient{
		{ID: models.UnsavedPatientID, Name: "carlos", OwnerUID: "u1"},
		{ID: models.UnsavedPatientID, Name: "Ana", OwnerUID: "u1"},
		{ID: models.UnsavedPatientID, Name: "Bruno", OwnerUID: "u2"},
	} {
		_, err := repo.SavePatient(ctx, p)
		require.NoError(t, err)
	}

	patients, err := repo.Patients(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, patients, 2)
	require.Equal(t, "Ana", patients[0].Name)
	require.Equal(t, "carlos", patients[1].Name)
}

func TestListenPatients_DeliversSortedUpdates(t *testing.T) {
	s := store.NewMemoryStore()
	repo := NewPatientRepository(s, zap.NewNop())
	ctx := context.Background()

	var updates [][]models.Patient
	sub := repo.ListenPatients("u1",
		func(patients []models.Patient) { updates = append(updates, patients) },
		func(err error) { t.Fatalf("unexpected listen error: %v", err) },
	)
	defer sub.Cancel()

	require.Len(t, updates, 1)
	require.Empty(t, updates[0])

	_, err := repo.SavePatient(ctx, models.Patient{ID: models.UnsavedPatientID, Name: "Zeca", OwnerUID: "u1"})
	require.NoError(t, err)
	_, err = repo.SavePatient(ctx, models.Patient{ID: models.UnsavedPatientID, Name: "ana", OwnerUID: "u1"})
	require.NoError(t, err)

	require.Len(t, updates, 3)
	latest := updates[len(updates)-1]
	require.Len(t, latest, 2)
	require.Equal(t, "ana", latest[0].Name)
	require.Equal(t, "Zeca", latest[1].Name)
}

func TestUpdatePatientFields_MergesAndClears(t *testing.T) {
	repo := NewPatientRepository(store.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	id, err := repo.SavePatient(ctx, models.Patient{
		ID:       models.UnsavedPatientID,
		Name:     "Maria",
		Phone:    strPtr("123"),
		Notes:    strPtr("old notes"),
		OwnerUID: "u1",
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePatientFields(ctx, id, "Maria Silva", strPtr("456"), nil))

	got, err := repo.GetPatient(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Maria Silva", got.Name)
	require.NotNil(t, got.Phone)
	require.Equal(t, "456", *got.Phone)
	require.Nil(t, got.Notes)
	require.Equal(t, "u1", got.OwnerUID)

	require.ErrorIs(t, repo.UpdatePatientFields(ctx, 999, "x", nil, nil), store.ErrNotFound)
}
