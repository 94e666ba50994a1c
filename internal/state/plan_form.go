package state

import (
	"context"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
)

// PlanForm is the state behind the meal plan form.
type PlanForm struct {
	repo  *repository.MealPlanRepository
	State *Observable[FormState]
}

// NewPlanForm creates the state holder for the meal plan form.
func NewPlanForm(repo *repository.MealPlanRepository) *PlanForm {
	return &PlanForm{repo: repo, State: NewObservable(FormState{})}
}

// SavePlan validates and persists the form. The date is required and is
// rejected before any store call.
func (f *PlanForm) SavePlan(ctx context.Context, patientID int64, ownerUID string, dateMillis int64, meals []models.MealEntry, notes *string) {
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

	plan := models.MealPlan{
		PatientID: patientID,
		Date:      dateMillis,
		Meals:     meals,
		Notes:     notes,
		OwnerUID:  ownerUID,
	}

	id, err := f.repo.SavePlan(ctx, plan)
	if err != nil {
		next := f.State.Get()
		next.Loading = false
		next.Err = saveErrorMessage(err)
		f.State.Set(next)
		return
	}
	f.State.Set(FormState{Saved: true, SavedID: id})
}
