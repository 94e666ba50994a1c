package state

import (
	"context"
	"fmt"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
)

// bmiPlaceholder is displayed while the inputs cannot produce a BMI.
const bmiPlaceholder = "--"

// MeasurementFormState is the observable snapshot of the measurement form,
// including the live BMI preview.
type MeasurementFormState struct {
	IMC            string // formatted, or "--" while inputs are invalid
	Classification string
	Loading        bool
	Err            string
	Saved          bool
	SavedID        string
}

// MeasurementForm is the state behind the measurement record form. The BMI
// preview follows the inputs as they change; the persisted value is always
// recomputed from the save-time inputs, never taken from the preview.
type MeasurementForm struct {
	repo  *repository.MeasurementRepository
	State *Observable[MeasurementFormState]
}

// NewMeasurementForm creates the state holder for the measurement form.
func NewMeasurementForm(repo *repository.MeasurementRepository) *MeasurementForm {
	return &MeasurementForm{
		repo:  repo,
		State: NewObservable(MeasurementFormState{IMC: bmiPlaceholder, Classification: bmiPlaceholder}),
	}
}

// CalculateIMC updates the live BMI preview from the current inputs. Nil or
// non-positive inputs reset the preview to the placeholder.
func (f *MeasurementForm) CalculateIMC(weightKg, heightCm *float64) {
	cur := f.State.Get()
	if weightKg == nil || heightCm == nil {
		cur.IMC = bmiPlaceholder
		cur.Classification = bmiPlaceholder
		f.State.Set(cur)
		return
	}

	imc, err := models.BMI(*weightKg, *heightCm)
	if err != nil {
		cur.IMC = bmiPlaceholder
		cur.Classification = bmiPlaceholder
		f.State.Set(cur)
		return
	}

	cur.IMC = fmt.Sprintf("%.2f", imc)
	cur.Classification = models.ClassifyBMI(imc)
	f.State.Set(cur)
}

// SaveMeasurement validates and persists the form. Date, weight and height
// are required; BMI is recomputed here from the authoritative inputs.
func (f *MeasurementForm) SaveMeasurement(ctx context.Context, patientID int64, ownerUID string, dateMillis int64, weightKg, heightCm, waistCm *float64) {
	if dateMillis == 0 || weightKg == nil || heightCm == nil || *weightKg <= 0 || *heightCm <= 0 {
		cur := f.State.Get()
		cur.Err = "Fill in date, weight and height."
		f.State.Set(cur)
		return
	}

	imc, err := models.BMI(*weightKg, *heightCm)
	if err != nil {
		cur := f.State.Get()
		cur.Err = err.Error()
		f.State.Set(cur)
		return
	}

	waist := 0.0
	if waistCm != nil {
		waist = *waistCm
	}
	measurement := models.Measurement{
		PatientID:         patientID,
		Date:              dateMillis,
		Weight:            *weightKg,
		HeightCm:          *heightCm,
		WaistCm:           waist,
		IMC:               imc,
		IMCClassification: models.ClassifyBMI(imc),
		OwnerUID:          ownerUID,
	}

	cur := f.State.Get()
	cur.Loading = true
	cur.Err = ""
	cur.Saved = false
	f.State.Set(cur)

	id, err := f.repo.SaveMeasurement(ctx, measurement)
	if err != nil {
		next := f.State.Get()
		next.Loading = false
		next.Err = saveErrorMessage(err)
		f.State.Set(next)
		return
	}
	f.State.Set(MeasurementFormState{
		IMC:            bmiPlaceholder,
		Classification: bmiPlaceholder,
		Saved:          true,
		SavedID:        id,
	})
}
