package handlers

import (
	"github.com/gin-gonic/gin"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/utils"
)

// ConsultationHandler handles consultation record requests.
type ConsultationHandler struct {
	Repo     *repository.ConsultationRepository
	Patients *repository.PatientRepository
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(repo *repository.ConsultationRepository, patients *repository.PatientRepository) *ConsultationHandler {
	return &ConsultationHandler{Repo: repo, Patients: patients}
}

// ListConsultations returns one patient's consultations, newest first.
func (h *ConsultationHandler) ListConsultations(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	items, err := h.Repo.Consultations(c.Request.Context(), patientID, ownerUID)
	if err != nil {
		utils.InternalServerError(c, "Failed to list consultations: "+err.Error())
		return
	}
	utils.Success(c, "Consultations fetched successfully", items)
}

// CreateConsultationRequest represents the request body for creating a
// consultation.
type CreateConsultationRequest struct {
	Date          int64  `json:"date" binding:"required"` // epoch millis
	MainComplaint string `json:"mainComplaint"`
	Recall24h     string `json:"recall24h"`
	Evolution     string `json:"evolution"`
}

// CreateConsultation records a consultation under the patient.
func (h *ConsultationHandler) CreateConsultation(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	var req CreateConsultationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	consultation := models.Consultation{
		PatientID:     patientID,
		Date:          req.Date,
		MainComplaint: req.MainComplaint,
		Recall24h:     req.Recall24h,
		Evolution:     req.Evolution,
		OwnerUID:      ownerUID,
	}

	id, err := h.Repo.SaveConsultation(c.Request.Context(), consultation)
	if err != nil {
		utils.InternalServerError(c, "Failed to create consultation: "+err.Error())
		return
	}
	consultation.ID = id
	utils.Created(c, "Consultation created successfully", consultation)
}

// DeleteConsultation removes exactly one consultation.
func (h *ConsultationHandler) DeleteConsultation(c *gin.Context) {
	_, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	if err := h.Repo.DeleteConsultation(c.Request.Context(), patientID, c.Param("consultationId")); err != nil {
		utils.InternalServerError(c, "Failed to delete consultation: "+err.Error())
		return
	}
	utils.Success(c, "Consultation deleted successfully", nil)
}
