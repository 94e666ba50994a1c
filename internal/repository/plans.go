package repository

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/store"
)

// MealPlanRepository manages meal plan documents stored under
// patients/{patientId}/plans.
type MealPlanRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewMealPlanRepository creates a MealPlanRepository on top of a document
// store.
func NewMealPlanRepository(s store.Store, logger *zap.Logger) *MealPlanRepository {
	return &MealPlanRepository{store: s, logger: logger}
}

// ListenPlans opens a live query over one patient's meal plans scoped to the
// owner, sorted descending by date.
func (r *MealPlanRepository) ListenPlans(patientID int64, ownerUID string, onUpdate func([]models.MealPlan), onError func(error)) store.Subscription {
	collection := childCollection(patientID, plansCollection)
	return r.store.Listen(collection, ownerFilter(ownerUID), func(snaps []store.Snapshot) {
		onUpdate(decodePlans(snaps))
	}, onError)
}

// Plans is the one-shot variant of ListenPlans.
func (r *MealPlanRepository) Plans(ctx context.Context, patientID int64, ownerUID string) ([]models.MealPlan, error) {
	snaps, err := r.store.GetAll(ctx, childCollection(patientID, plansCollection), ownerFilter(ownerUID))
	if err != nil {
		return nil, err
	}
	return decodePlans(snaps), nil
}

// SavePlan persists the plan under its patient and returns the document id.
// An unsaved plan (empty id) gets a store-generated id.
func (r *MealPlanRepository) SavePlan(ctx context.Context, plan models.MealPlan) (string, error) {
	if plan.ID == "" {
		plan.ID = r.store.NewID()
	}
	collection := childCollection(plan.PatientID, plansCollection)
	if err := r.store.Set(ctx, collection, plan.ID, plan.ToDocument()); err != nil {
		return "", err
	}
	r.logger.Debug("meal plan saved",
		zap.Int64("patientId", plan.PatientID),
		zap.String("planId", plan.ID))
	return plan.ID, nil
}

// DeletePlan removes exactly one meal plan document.
func (r *MealPlanRepository) DeletePlan(ctx context.Context, patientID int64, planID string) error {
	return r.store.Delete(ctx, childCollection(patientID, plansCollection), planID)
}

func decodePlans(snaps []store.Snapshot) []models.MealPlan {
	items := make([]models.MealPlan, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, models.MealPlanFromDocument(snap.ID, snap.Data))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	return items
}
