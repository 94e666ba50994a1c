package state

import (
	"context"
	"sync"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/store"
)

// patientNotFoundMessage is shown both for a truly absent patient and for an
// owner mismatch. The two cases are deliberately indistinguishable.
const patientNotFoundMessage = "Patient not found."

// PatientDetail is the state behind the patient profile screen: the patient
// record plus three concurrent listeners over its consultations, measurements
// and meal plans. Each listener owns a disjoint state slice and fires
// independently; there is no cross-listener ordering guarantee.
type PatientDetail struct {
	patients      *repository.PatientRepository
	consultations *repository.ConsultationRepository
	measurements  *repository.MeasurementRepository
	plans         *repository.MealPlanRepository

	mu        sync.Mutex
	started   bool
	patientID int64
	ownerUID  string
	subs      []store.Subscription

	Patient       *Observable[*models.Patient]
	Consultations *Observable[[]models.Consultation]
	Measurements  *Observable[[]models.Measurement]
	Plans         *Observable[[]models.MealPlan]
	Err           *Observable[string]
}

// NewPatientDetail creates the state holder for the patient profile screen.
func NewPatientDetail(
	patients *repository.PatientRepository,
	consultations *repository.ConsultationRepository,
	measurements *repository.MeasurementRepository,
	plans *repository.MealPlanRepository,
) *PatientDetail {
	return &PatientDetail{
		patients:      patients,
		consultations: consultations,
		measurements:  measurements,
		plans:         plans,
		Patient:       NewObservable[*models.Patient](nil),
		Consultations: NewObservable([]models.Consultation{}),
		Measurements:  NewObservable([]models.Measurement{}),
		Plans:         NewObservable([]models.MealPlan{}),
		Err:           NewObservable(""),
	}
}

// Start fetches the patient and opens the three child listeners. Idempotent:
// a second call while listeners are active is a no-op.
func (d *PatientDetail) Start(ctx context.Context, patientID int64, ownerUID string) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.patientID = patientID
	d.ownerUID = ownerUID
	d.mu.Unlock()

	if ownerUID == "" {
		d.Err.Set(ErrNotAuthenticated.Error())
		return
	}

	d.loadPatient(ctx)

	subs := []store.Subscription{
		d.consultations.ListenConsultations(patientID, ownerUID,
			func(items []models.Consultation) { d.Consultations.Set(items) },
			func(err error) { d.Err.Set(err.Error()) },
		),
		d.measurements.ListenMeasurements(patientID, ownerUID,
			func(items []models.Measurement) { d.Measurements.Set(items) },
			func(err error) { d.Err.Set(err.Error()) },
		),
		d.plans.ListenPlans(patientID, ownerUID,
			func(items []models.MealPlan) { d.Plans.Set(items) },
			func(err error) { d.Err.Set(err.Error()) },
		),
	}

	d.mu.Lock()
	d.subs = subs
	d.mu.Unlock()
}

// loadPatient fetches the patient record and validates ownership. A record
// owned by someone else is reported as not found, not as an access error.
func (d *PatientDetail) loadPatient(ctx context.Context) {
	patient, err := d.patients.GetPatient(ctx, d.patientID)
	if err != nil {
		d.Err.Set(err.Error())
		return
	}
	if patient == nil || patient.OwnerUID != d.ownerUID {
		d.Err.Set(patientNotFoundMessage)
		return
	}
	d.Patient.Set(patient)
}

// DeletePatient removes only the patient document (no cascade).
func (d *PatientDetail) DeletePatient(ctx context.Context) error {
	return d.patients.DeletePatient(ctx, d.patientID)
}

// DeleteConsultation removes one consultation of the current patient.
func (d *PatientDetail) DeleteConsultation(ctx context.Context, consultationID string) error {
	return d.consultations.DeleteConsultation(ctx, d.patientID, consultationID)
}

// DeleteMeasurement removes one measurement of the current patient.
func (d *PatientDetail) DeleteMeasurement(ctx context.Context, measurementID string) error {
	return d.measurements.DeleteMeasurement(ctx, d.patientID, measurementID)
}

// DeletePlan removes one meal plan of the current patient.
func (d *PatientDetail) DeletePlan(ctx context.Context, planID string) error {
	return d.plans.DeletePlan(ctx, d.patientID, planID)
}

// Stop cancels every open listener, however many were opened.
func (d *PatientDetail) Stop() {
	d.mu.Lock()
	subs := d.subs
	d.subs = nil
	d.started = false
	d.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}
