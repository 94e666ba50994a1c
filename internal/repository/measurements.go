package repository

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/store"
)

// MeasurementRepository manages anthropometric measurement documents stored
// under patients/{patientId}/measurements.
type MeasurementRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewMeasurementRepository creates a MeasurementRepository on top of a
// document store.
func NewMeasurementRepository(s store.Store, logger *zap.Logger) *MeasurementRepository {
	return &MeasurementRepository{store: s, logger: logger}
}

// ListenMeasurements opens a live query over one patient's measurements
// scoped to the owner, sorted descending by date.
func (r *MeasurementRepository) ListenMeasurements(patientID int64, ownerUID string, onUpdate func([]models.Measurement), onError func(error)) store.Subscription {
	collection := childCollection(patientID, measurementsCollection)
	return r.store.Listen(collection, ownerFilter(ownerUID), func(snaps []store.Snapshot) {
		onUpdate(decodeMeasurements(snaps))
	}, onError)
}

// Measurements is the one-shot variant of ListenMeasurements.
func (r *MeasurementRepository) Measurements(ctx context.Context, patientID int64, ownerUID string) ([]models.Measurement, error) {
	snaps, err := r.store.GetAll(ctx, childCollection(patientID, measurementsCollection), ownerFilter(ownerUID))
	if err != nil {
		return nil, err
	}
	return decodeMeasurements(snaps), nil
}

// SaveMeasurement persists the measurement under its patient and returns the
// document id. An unsaved measurement (empty id) gets a store-generated id.
func (r *MeasurementRepository) SaveMeasurement(ctx context.Context, measurement models.Measurement) (string, error) {
	if measurement.ID == "" {
		measurement.ID = r.store.NewID()
	}
	collection := childCollection(measurement.PatientID, measurementsCollection)
	if err := r.store.Set(ctx, collection, measurement.ID, measurement.ToDocument()); err != nil {
		return "", err
	}
	r.logger.Debug("measurement saved",
		zap.Int64("patientId", measurement.PatientID),
		zap.String("measurementId", measurement.ID))
	return measurement.ID, nil
}

// DeleteMeasurement removes exactly one measurement document.
func (r *MeasurementRepository) DeleteMeasurement(ctx context.Context, patientID int64, measurementID string) error {
	return r.store.Delete(ctx, childCollection(patientID, measurementsCollection), measurementID)
}

func decodeMeasurements(snaps []store.Snapshot) []models.Measurement {
	items := make([]models.Measurement, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, models.MeasurementFromDocument(snap.ID, snap.Data))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	return items
}
