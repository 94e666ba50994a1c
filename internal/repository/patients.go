package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/store"
)

// PatientRepository manages patient documents in the top-level patients
// collection.
type PatientRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewPatientRepository creates a PatientRepository on top of a document store.
func NewPatientRepository(s store.Store, logger *zap.Logger) *PatientRepository {
	return &PatientRepository{store: s, logger: logger}
}

// ListenPatients opens a live query over the current user's patients. Every
// update delivers the full result set sorted ascending by name,
// case-insensitive. The caller owns cancellation of the subscription.
func (r *PatientRepository) ListenPatients(ownerUID string, onUpdate func([]models.Patient), onError func(error)) store.Subscription {
	return r.store.Listen(patientsCollection, ownerFilter(ownerUID), func(snaps []store.Snapshot) {
		onUpdate(decodePatients(snaps))
	}, onError)
}

// Patients is the one-shot variant of ListenPatients, used by the HTTP layer.
func (r *PatientRepository) Patients(ctx context.Context, ownerUID string) ([]models.Patient, error) {
	snaps, err := r.store.GetAll(ctx, patientsCollection, ownerFilter(ownerUID))
	if err != nil {
		return nil, err
	}
	return decodePatients(snaps), nil
}

// GetPatient reads a single patient by id. Returns (nil, nil) when the
// document does not exist.
func (r *PatientRepository) GetPatient(ctx context.Context, patientID int64) (*models.Patient, error) {
	doc, err := r.store.Get(ctx, patientsCollection, patientDocID(patientID))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	patient := models.PatientFromDocument(doc)
	return &patient, nil
}

// SavePatient persists the patient and returns its id. An unsaved patient
// (sentinel id) gets a current-time-millis id assigned before the write; an
// existing patient is overwritten at the same id, last writer wins.
func (r *PatientRepository) SavePatient(ctx context.Context, patient models.Patient) (int64, error) {
	if !patient.Saved() {
		patient.ID = time.Now().UnixMilli()
	}
	if err := r.store.Set(ctx, patientsCollection, patientDocID(patient.ID), patient.ToDocument()); err != nil {
		return 0, err
	}
	r.logger.Debug("patient saved", zap.Int64("patientId", patient.ID))
	return patient.ID, nil
}

// DeletePatient removes only the patient document, leaving any children
// orphaned. Use CascadeDeleter for a full aggregate delete.
func (r *PatientRepository) DeletePatient(ctx context.Context, patientID int64) error {
	return r.store.Delete(ctx, patientsCollection, patientDocID(patientID))
}

// UpdatePatientFields merges the named fields into an existing patient
// document without requiring the full record. A nil phone or notes clears
// the field.
func (r *PatientRepository) UpdatePatientFields(ctx context.Context, patientID int64, name string, phone, notes *string) error {
	fields := store.Document{
		"name":  name,
		"phone": nil,
		"notes": nil,
	}
	if phone != nil {
		fields["phone"] = *phone
	}
	if notes != nil {
		fields["notes"] = *notes
	}
	return r.store.Update(ctx, patientsCollection, patientDocID(patientID), fields)
}

func decodePatients(snaps []store.Snapshot) []models.Patient {
	patients := make([]models.Patient, 0, len(snaps))
	for _, snap := range snaps {
		patients = append(patients, models.PatientFromDocument(snap.Data))
	}
	sort.Slice(patients, func(i, j int) bool {
		return strings.ToLower(patients[i].Name) < strings.ToLower(patients[j].Name)
	})
	return patients
}
