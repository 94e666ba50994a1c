package state

import (
	"context"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
)

// genericSaveError stands in when the store reports a failure with no usable
// message.
const genericSaveError = "Something went wrong. Try again."

// PatientFormState is the observable snapshot of the patient form.
type PatientFormState struct {
	Patient *models.Patient // loaded record when editing
	Loading bool
	Err     string
	Saved   bool
	SavedID int64 // assigned id after a successful save
}

// PatientForm is the state behind the create/edit patient screen.
type PatientForm struct {
	repo  *repository.PatientRepository
	State *Observable[PatientFormState]
}

// NewPatientForm creates the state holder for the patient form.
func NewPatientForm(repo *repository.PatientRepository) *PatientForm {
	return &PatientForm{repo: repo, State: NewObservable(PatientFormState{})}
}

// LoadPatient fetches an existing patient for editing. An owner mismatch is
// reported as not found. Loading the unsaved sentinel is a no-op.
func (f *PatientForm) LoadPatient(ctx context.Context, patientID int64, ownerUID string) {
	if patientID == models.UnsavedPatientID {
		return
	}

	cur := f.State.Get()
	cur.Loading = true
	f.State.Set(cur)

	patient, err := f.repo.GetPatient(ctx, patientID)
	next := f.State.Get()
	next.Loading = false
	switch {
	case err != nil:
		next.Err = err.Error()
	case patient == nil || patient.OwnerUID != ownerUID:
		next.Patient = nil
		next.Err = patientNotFoundMessage
	default:
		next.Patient = patient
		next.Err = ""
	}
	f.State.Set(next)
}

// SavePatient validates and persists the form. Name is required and is
// rejected before any store call.
func (f *PatientForm) SavePatient(ctx context.Context, patientID int64, ownerUID, name string, phone, notes *string) {
	if name == "" {
		cur := f.State.Get()
		cur.Err = "Name is required."
		f.State.Set(cur)
		return
	}

	cur := f.State.Get()
	cur.Loading = true
	cur.Err = ""
	cur.Saved = false
	f.State.Set(cur)

	patient := models.Patient{
		ID:       patientID,
		Name:     name,
		Phone:    phone,
		Notes:    notes,
		OwnerUID: ownerUID,
	}

	id, err := f.repo.SavePatient(ctx, patient)
	if err != nil {
		next := f.State.Get()
		next.Loading = false
		next.Err = saveErrorMessage(err)
		f.State.Set(next)
		return
	}
	f.State.Set(PatientFormState{Saved: true, SavedID: id})
}

func saveErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return genericSaveError
	}
	return err.Error()
}
