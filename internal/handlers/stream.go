package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"nutrition-app-server/internal/middleware"
	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/utils"
)

// StreamHandler exposes the repository listeners over server-sent events.
// Each connection owns one store subscription, cancelled when the client
// disconnects. Every event carries the full current result set, so dropping
// intermediate snapshots under backpressure is safe: only the latest matters.
type StreamHandler struct {
	Patients      *repository.PatientRepository
	Consultations *repository.ConsultationRepository
	Measurements  *repository.MeasurementRepository
	Plans         *repository.MealPlanRepository
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(
	patients *repository.PatientRepository,
	consultations *repository.ConsultationRepository,
	measurements *repository.MeasurementRepository,
	plans *repository.MealPlanRepository,
) *StreamHandler {
	return &StreamHandler{
		Patients:      patients,
		Consultations: consultations,
		Measurements:  measurements,
		Plans:         plans,
	}
}

// StreamPatients streams the current user's patient list.
func (h *StreamHandler) StreamPatients(c *gin.Context) {
	ownerUID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	updates := make(chan interface{}, 1)
	errs := make(chan error, 1)
	sub := h.Patients.ListenPatients(ownerUID,
		func(patients []models.Patient) { pushLatest(updates, patients) },
		func(err error) { pushError(errs, err) },
	)
	defer sub.Cancel()

	streamEvents(c, "patients", updates, errs)
}

// StreamConsultations streams one patient's consultations.
func (h *StreamHandler) StreamConsultations(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	updates := make(chan interface{}, 1)
	errs := make(chan error, 1)
	sub := h.Consultations.ListenConsultations(patientID, ownerUID,
		func(items []models.Consultation) { pushLatest(updates, items) },
		func(err error) { pushError(errs, err) },
	)
	defer sub.Cancel()

	streamEvents(c, "consultations", updates, errs)
}

// StreamMeasurements streams one patient's measurements.
func (h *StreamHandler) StreamMeasurements(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	updates := make(chan interface{}, 1)
	errs := make(chan error, 1)
	sub := h.Measurements.ListenMeasurements(patientID, ownerUID,
		func(items []models.Measurement) { pushLatest(updates, items) },
		func(err error) { pushError(errs, err) },
	)
	defer sub.Cancel()

	streamEvents(c, "measurements", updates, errs)
}

// StreamPlans streams one patient's meal plans.
func (h *StreamHandler) StreamPlans(c *gin.Context) {
	ownerUID, patientID, ok := requireOwnedPatient(c, h.Patients)
	if !ok {
		return
	}

	updates := make(chan interface{}, 1)
	errs := make(chan error, 1)
	sub := h.Plans.ListenPlans(patientID, ownerUID,
		func(items []models.MealPlan) { pushLatest(updates, items) },
		func(err error) { pushError(errs, err) },
	)
	defer sub.Cancel()

	streamEvents(c, "plans", updates, errs)
}

// pushLatest keeps the newest snapshot in the 1-slot channel, displacing an
// undelivered older one.
func pushLatest(ch chan interface{}, v interface{}) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func pushError(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// streamEvents writes snapshots as SSE until the listener fails or the
// client disconnects.
func streamEvents(c *gin.Context, event string, updates <-chan interface{}, errs <-chan error) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case v := <-updates:
			c.SSEvent(event, v)
			return true
		case err := <-errs:
			c.SSEvent("error", err.Error())
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})
}
