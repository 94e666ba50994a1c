package state

import (
	"context"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
)

// FormState is the observable snapshot shared by the simple record forms.
type FormState struct {
	Loading bool
	Err     string
	Saved   bool
	SavedID string // assigned document id after a successful save
}

// ConsultationForm is the state behind the consultation record form.
type ConsultationForm struct {
	repo  *repository.ConsultationRepository
	State *Observable[FormState]
}

// NewConsultationForm creates the state holder for the consultation form.
func NewConsultationForm(repo *repository.ConsultationRepository) *ConsultationForm {
	return &ConsultationForm{repo: repo, State: NewObservable(FormState{})}
}

// SaveConsultation validates and persists the form. The date is required and
// is rejected before any store call.
func (f *ConsultationForm) SaveConsultation(ctx context.Context, patientID int64, ownerUID string, dateMillis int64, mainComplaint, recall24h, evolution string) {
	if dateMillis == 0 {
		cur := f.State.Get()
		cur.Err = "Date is required."
		f.State.Set(cur)
		return
	}

	cur := f.State.Get()
	cur.Loading = true
	cur.Err = ""
	cur.Saved = false
	f.State.Set(cur)

	consultation := models.Consultation{
		PatientID:     patientID,
		Date:          dateMillis,
		MainComplaint: mainComplaint,
		Recall24h:     recall24h,
		Evolution:     evolution,
		OwnerUID:      ownerUID,
	}

	id, err := f.repo.SaveConsultation(ctx, consultation)
	if err != nil {
		next := f.State.Get()
		next.Loading = false
		next.Err = saveErrorMessage(err)
		f.State.Set(next)
		return
	}
	f.State.Set(FormState{Saved: true, SavedID: id})
}
