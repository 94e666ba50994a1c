package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"nutrition-app-server/internal/middleware"
	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/utils"
)

// patientNotFound is returned both when the document is absent and when it
// belongs to another user. The two cases must stay indistinguishable.
const patientNotFound = "Patient not found"

// PatientHandler handles patient record requests.
type PatientHandler struct {
	Repo    *repository.PatientRepository
	Deleter *repository.CascadeDeleter
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(repo *repository.PatientRepository, deleter *repository.CascadeDeleter) *PatientHandler {
	return &PatientHandler{Repo: repo, Deleter: deleter}
}

// ListPatients returns the current user's patients, name-ascending.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	ownerUID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patients, err := h.Repo.Patients(c.Request.Context(), ownerUID)
	if err != nil {
		utils.InternalServerError(c, "Failed to list patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// GetPatient returns one patient. A patient owned by another user is
// reported as not found.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	ownerUID, patient, ok := h.ownedPatient(c)
	if !ok {
		return
	}
	_ = ownerUID
	utils.Success(c, "Patient fetched successfully", patient)
}

// CreatePatientRequest represents the request body for creating a patient.
type CreatePatientRequest struct {
	Name            string  `json:"name" binding:"required"`
	Phone           *string `json:"phone"`
	LastAppointment *string `json:"lastAppointment"`
	Notes           *string `json:"notes"`
}

// CreatePatient creates a new patient owned by the current user.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	ownerUID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient := models.Patient{
		ID:              models.UnsavedPatientID,
		Name:            req.Name,
		Phone:           req.Phone,
		LastAppointment: req.LastAppointment,
		Notes:           req.Notes,
		OwnerUID:        ownerUID,
	}

	id, err := h.Repo.SavePatient(c.Request.Context(), patient)
	if err != nil {
		utils.InternalServerError(c, "Failed to create patient: "+err.Error())
		return
	}
	patient.ID = id
	utils.Created(c, "Patient created successfully", patient)
}

// UpdatePatientRequest represents the request body for a partial patient
// update. Omitted phone/notes clear the fields.
type UpdatePatientRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// UpdatePatient merges the named fields into an existing patient.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	_, patient, ok := h.ownedPatient(c)
	if !ok {
		return
	}

	var req UpdatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Repo.UpdatePatientFields(c.Request.Context(), patient.ID, req.Name, req.Phone, req.Notes); err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}
	utils.Success(c, "Patient updated successfully", nil)
}

// DeletePatient removes a patient. With ?cascade=true every dependent record
// is removed first; without it, children are left behind.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	_, patient, ok := h.ownedPatient(c)
	if !ok {
		return
	}

	cascade := c.Query("cascade") == "true"
	var err error
	if cascade {
		err = h.Deleter.DeletePatientCascade(c.Request.Context(), patient.ID)
	} else {
		err = h.Deleter.DeletePatient(c.Request.Context(), patient.ID)
	}
	if err != nil {
		// Cascade failures may leave a partially deleted aggregate; the
		// error names the failing stage so the caller can see it.
		utils.InternalServerError(c, "Failed to delete patient: "+err.Error())
		return
	}
	utils.Success(c, "Patient deleted successfully", nil)
}

// ownedPatient parses the :patientId param, fetches the record and checks
// ownership. On any miss it writes the not-found response and returns
// ok=false.
func (h *PatientHandler) ownedPatient(c *gin.Context) (ownerUID string, patient *models.Patient, ok bool) {
	ownerUID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return "", nil, false
	}

	patientID, err := strconv.ParseInt(c.Param("patientId"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid patient id")
		return "", nil, false
	}

	patient, err = h.Repo.GetPatient(c.Request.Context(), patientID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patient: "+err.Error())
		return "", nil, false
	}
	if patient == nil || patient.OwnerUID != ownerUID {
		utils.NotFound(c, patientNotFound)
		return "", nil, false
	}
	return ownerUID, patient, true
}
