package handlers

import (
	"github.com/gin-gonic/gin"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/utils"
)

// MealPlanHandler handles meal plan requests.
type MealPlanHandler struct {
	Repo     *repository.MealPlanRepository
	Patients *repository.PatientRepository
}

// NewMealPlanHandler creates a new MealPlanHandler.
func NewMealPlanHandler(repo *repository.MealPlanRepository, patients *repository.PatientRepository) *MealPlanHandler {
	return &MealPlanHandler{Repo: repo, Patients: patients}
}

// ListPlans returns one patient's meal plans, newest first.
func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	items, err := h.Repo.Plans(c.Request.Context(), patientID, ownerUID)
	if err != nil {
		utils.InternalServerError(c, "Failed to list meal plans: "+err.Error())
		return
	}
	utils.Success(c, "Meal plans fetched successfully", items)
}

// MealEntryRequest is one meal inside a plan creation request.
type MealEntryRequest struct {
	Name         string `json:"name" binding:"required"`
	Items        string `json:"items"` // newline-delimited food items
	Observations string `json:"observations"`
}

// CreatePlanRequest represents the request body for creating a meal plan.
type CreatePlanRequest struct {
	Date  int64              `json:"date" binding:"required"` // epoch millis
	Meals []MealEntryRequest `json:"meals" binding:"dive"`
	Notes *string            `json:"notes"`
}

// CreatePlan records a meal plan under the patient.
func (h *MealPlanHandler) CreatePlan(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	meals := make([]models.MealEntry, len(req.Meals))
	for i, meal := range req.Meals {
		meals[i] = models.MealEntry{
			Name:         meal.Name,
			Items:        meal.Items,
			Observations: meal.Observations,
		}
	}

	plan := models.MealPlan{
		PatientID: patientID,
		Date:      req.Date,
		Meals:     meals,
		Notes:     req.Notes,
		OwnerUID:  ownerUID,
	}

	id, err := h.Repo.SavePlan(c.Request.Context(), plan)
	if err != nil {
		utils.InternalServerError(c, "Failed to create meal plan: "+err.Error())
		return
	}
	plan.ID = id
	utils.Created(c, "Meal plan created successfully", plan)
}

// DeletePlan removes exactly one meal plan.
func (h *MealPlanHandler) DeletePlan(c *gin.Context) {
	_, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	if err := h.Repo.DeletePlan(c.Request.Context(), patientID, c.Param("planId")); err != nil {
		utils.InternalServerError(c, "Failed to delete meal plan: "+err.Error())
		return
	}
	utils.Success(c, "Meal plan deleted successfully", nil)
}
