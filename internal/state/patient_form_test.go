package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/store"
)

func newPatientFormFixture(t *testing.T) (*PatientForm, *repository.PatientRepository) {
	t.Helper()
	repo := repository.NewPatientRepository(store.NewMemoryStore(), zap.NewNop())
	return NewPatientForm(repo), repo
}

func TestPatientForm_SaveRequiresName(t *testing.T) {
	form, repo := newPatientFormFixture(t)
	ctx := context.Background()

	form.SavePatient(ctx, models.UnsavedPatientID, "u1", "", nil, nil)

	st := form.State.Get()
	require.Equal(t, "Name is required.", st.Err)
	require.False(t, st.Saved)

	patients, err := repo.Patients(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, patients)
}

func TestPatientForm_SaveNewPatientAssignsID(t *testing.T) {
	form, repo := newPatientFormFixture(t)
	ctx := context.Background()

	form.SavePatient(ctx, models.UnsavedPatientID, "u1", "Maria Silva", strPtr("123"), nil)

	st := form.State.Get()
	require.True(t, st.Saved)
	require.Greater(t, st.SavedID, int64(0))
	require.Empty(t, st.Err)
	require.False(t, st.Loading)

	got, err := repo.GetPatient(ctx, st.SavedID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Maria Silva", got.Name)
}

func TestPatientForm_SaveExistingKeepsID(t *testing.T) {
	form, repo := newPatientFormFixture(t)
	ctx := context.Background()

	id, err := repo.SavePatient(ctx, models.Patient{ID: models.UnsavedPatientID, Name: "Maria", OwnerUID: "u1"})
	require.NoError(t, err)

	form.SavePatient(ctx, id, "u1", "Maria Silva", nil, nil)

	st := form.State.Get()
	require.True(t, st.Saved)
	require.Equal(t, id, st.SavedID)

	patients, err := repo.Patients(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, patients, 1)
	require.Equal(t, "Maria Silva", patients[0].Name)
}

func TestPatientForm_LoadPatient(t *testing.T) {
	form, repo := newPatientFormFixture(t)
	ctx := context.Background()

	id, err := repo.SavePatient(ctx, models.Patient{ID: models.UnsavedPatientID, Name: "Maria", OwnerUID: "u1"})
	require.NoError(t, err)

	form.LoadPatient(ctx, id, "u1")
	st := form.State.Get()
	require.NotNil(t, st.Patient)
	require.Equal(t, "Maria", st.Patient.Name)
	require.Empty(t, st.Err)

	// An owner mismatch reads like an absent patient.
	form.LoadPatient(ctx, id, "intruder")
	st = form.State.Get()
	require.Nil(t, st.Patient)
	require.Equal(t, "Patient not found.", st.Err)
}

func TestPatientForm_LoadUnsavedSentinelIsNoOp(t *testing.T) {
	form, _ := newPatientFormFixture(t)

	form.LoadPatient(context.Background(), models.UnsavedPatientID, "u1")

	st := form.State.Get()
	require.Nil(t, st.Patient)
	require.Empty(t, st.Err)
	require.False(t, st.Loading)
}
