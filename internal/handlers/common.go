package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"nutrition-app-server/internal/middleware"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/utils"
)

// requireOwnedPatient authenticates the request and verifies that the
// :patientId route param names a patient owned by the current user. Child
// records must reference an existing patient at creation time, and a patient
// owned by someone else looks exactly like a missing one.
func requireOwnedPatient(c *gin.Context, patients *repository.PatientRepository) (ownerUID string, patientID int64, ok bool) {
	ownerUID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return "", 0, false
	}

	patientID, err := strconv.ParseInt(c.Param("patientId"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid patient id")
		return "", 0, false
	}

	patient, err := patients.GetPatient(c.Request.Context(), patientID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patient: "+err.Error())
		return "", 0, false
	}
	if patient == nil || patient.OwnerUID != ownerUID {
		utils.NotFound(c, patientNotFound)
		return "", 0, false
	}
	return ownerUID, patientID, true
}
