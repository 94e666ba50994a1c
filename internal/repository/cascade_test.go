package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/store"
)

// failingStore wraps a real store and fails deletes in collections whose path
// contains the configured fragment.
type failingStore struct {
	store.Store
	failFragment string
	err          error
}

func (f *failingStore) Delete(ctx context.Context, collection, id string) error {
	if strings.Contains(collection, f.failFragment) {
		return f.err
	}
	return f.Store.Delete(ctx, collection, id)
}

// seedAggregate persists one patient with a few of each child record and
// returns the patient id.
func seedAggregate(t *testing.T, s store.Store) int64 {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	patients := NewPatientRepository(s, logger)
	consultations := NewConsultationRepository(s, logger)
	measurements := NewMeasurementRepository(s, logger)
	plans := NewMealPlanRepository(s, logger)

	patientID, err := patients.SavePatient(ctx, models.Patient{
		ID: models.UnsavedPatientID, Name: "Maria", OwnerUID: "u1",
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := consultations.SaveConsultation(ctx, models.Consultation{
			PatientID: patientID, Date: int64(1000 + i), OwnerUID: "u1",
		})
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := measurements.SaveMeasurement(ctx, models.Measurement{
			PatientID: patientID, Date: int64(2000 + i), Weight: 70, HeightCm: 175, OwnerUID: "u1",
		})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := plans.SavePlan(ctx, models.MealPlan{
			PatientID: patientID, Date: int64(3000 + i), OwnerUID: "u1",
		})
		require.NoError(t, err)
	}
	return patientID
}

func countDocs(t *testing.T, s store.Store, collection string) int {
	t.Helper()
	snaps, err := s.GetAll(context.Background(), collection, nil)
	require.NoError(t, err)
	return len(snaps)
}

func TestDeletePatientCascade_RemovesWholeAggregate(t *testing.T) {
	s := store.NewMemoryStore()
	patientID := seedAggregate(t, s)
	deleter := NewCascadeDeleter(s, zap.NewNop())

	require.NoError(t, deleter.DeletePatientCascade(context.Background(), patientID))

	require.Zero(t, countDocs(t, s, childCollection(patientID, consultationsCollection)))
	require.Zero(t, countDocs(t, s, childCollection(patientID, measurementsCollection)))
	require.Zero(t, countDocs(t, s, childCollection(patientID, plansCollection)))
	require.Zero(t, countDocs(t, s, patientsCollection))
}

func TestDeletePatientCascade_StopsAtFirstFailingStage(t *testing.T) {
	inner := store.NewMemoryStore()
	patientID := seedAggregate(t, inner)

	boom := errors.New("backend unavailable")
	s := &failingStore{Store: inner, failFragment: "/measurements", err: boom}
	deleter := NewCascadeDeleter(s, zap.NewNop())

	err := deleter.DeletePatientCascade(context.Background(), patientID)
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "deleting measurements")

	// The consultations stage completed; later stages were never reached.
	require.Zero(t, countDocs(t, inner, childCollection(patientID, consultationsCollection)))
	require.Equal(t, 3, countDocs(t, inner, childCollection(patientID, measurementsCollection)))
	require.Equal(t, 2, countDocs(t, inner, childCollection(patientID, plansCollection)))
	require.Equal(t, 1, countDocs(t, inner, patientsCollection))
}

func TestDeletePatient_LeavesChildrenBehind(t *testing.T) {
	s := store.NewMemoryStore()
	patientID := seedAggregate(t, s)
	deleter := NewCascadeDeleter(s, zap.NewNop())

	require.NoError(t, deleter.DeletePatient(context.Background(), patientID))

	require.Zero(t, countDocs(t, s, patientsCollection))
	require.Equal(t, 2, countDocs(t, s, childCollection(patientID, consultationsCollection)))
}
