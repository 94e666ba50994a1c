package handlers

import (
	"github.com/gin-gonic/gin"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/utils"
)

// MeasurementHandler handles anthropometric measurement requests.
type MeasurementHandler struct {
	Repo     *repository.MeasurementRepository
	Patients *repository.PatientRepository
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(repo *repository.MeasurementRepository, patients *repository.PatientRepository) *MeasurementHandler {
	return &MeasurementHandler{Repo: repo, Patients: patients}
}

// ListMeasurements returns one patient's measurements, newest first.
func (h *MeasurementHandler) ListMeasurements(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	items, err := h.Repo.Measurements(c.Request.Context(), patientID, ownerUID)
	if err != nil {
		utils.InternalServerError(c, "Failed to list measurements: "+err.Error())
		return
	}
	utils.Success(c, "Measurements fetched successfully", items)
}

// CreateMeasurementRequest represents the request body for creating a
// measurement. BMI is never accepted from the client; it is recomputed here
// from the submitted weight and height.
type CreateMeasurementRequest struct {
	Date     int64   `json:"date" binding:"required"` // epoch millis
	Weight   float64 `json:"weight" binding:"required,gt=0"`
	HeightCm float64 `json:"heightCm" binding:"required,gt=0"`
	WaistCm  float64 `json:"waistCm" binding:"omitempty,gt=0"`
}

// CreateMeasurement records a measurement under the patient.
func (h *MeasurementHandler) CreateMeasurement(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	var req CreateMeasurementRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	imc, err := models.BMI(req.Weight, req.HeightCm)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	measurement := models.Measurement{
		PatientID:         patientID,
		Date:              req.Date,
		Weight:            req.Weight,
		HeightCm:          req.HeightCm,
		WaistCm:           req.WaistCm,
		IMC:               imc,
		IMCClassification: models.ClassifyBMI(imc),
		OwnerUID:          ownerUID,
	}

	id, err := h.Repo.SaveMeasurement(c.Request.Context(), measurement)
	if err != nil {
		utils.InternalServerError(c, "Failed to create measurement: "+err.Error())
		return
	}
	measurement.ID = id
	utils.Created(c, "Measurement created successfully", measurement)
}

// DeleteMeasurement removes exactly one measurement.
func (h *MeasurementHandler) DeleteMeasurement(c *gin.Context) {
	_, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	if err := h.Repo.DeleteMeasurement(c.Request.Context(), patientID, c.Param("measurementId")); err != nil {
		utils.InternalServerError(c, "Failed to delete measurement: "+err.Error())
		return
	}
	utils.Success(c, "Measurement deleted successfully", nil)
}
