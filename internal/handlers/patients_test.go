package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/store"
	"nutrition-app-server/internal/utils"
)

// testRouter wires the patient record routes over a memory store, with a stub
// auth middleware that injects the given user id.
func testRouter(t *testing.T, s store.Store, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	patients := repository.NewPatientRepository(s, logger)
	consultations := repository.NewConsultationRepository(s, logger)
	measurements := repository.NewMeasurementRepository(s, logger)
	deleter := repository.NewCascadeDeleter(s, logger)

	patientHandler := NewPatientHandler(patients, deleter)
	consultationHandler := NewConsultationHandler(consultations, patients)
	measurementHandler := NewMeasurementHandler(measurements, patients)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})

	router.GET("/patients", patientHandler.ListPatients)
	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients/:patientId", patientHandler.GetPatient)
	router.PATCH("/patients/:patientId", patientHandler.UpdatePatient)
	router.DELETE("/patients/:patientId", patientHandler.DeletePatient)
	router.GET("/patients/:patientId/consultations", consultationHandler.ListConsultations)
	router.POST("/patients/:patientId/consultations", consultationHandler.CreateConsultation)
	router.GET("/patients/:patientId/measurements", measurementHandler.ListMeasurements)
	router.POST("/patients/:patientId/measurements", measurementHandler.CreateMeasurement)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, utils.ResponseData) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp utils.ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func createPatientViaAPI(t *testing.T, router *gin.Engine, name string) int64 {
	t.Helper()
	w, resp := doJSON(t, router, http.MethodPost, "/patients", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var patient models.Patient
	require.NoError(t, json.Unmarshal(raw, &patient))
	require.Greater(t, patient.ID, int64(0))
	return patient.ID
}

func TestCreateAndListPatients(t *testing.T) {
	router := testRouter(t, store.NewMemoryStore(), "u1")

	createPatientViaAPI(t, router, "Maria Silva")
	createPatientViaAPI(t, router, "Ana")

	w, resp := doJSON(t, router, http.MethodGet, "/patients", nil)
	require.Equal(t, http.StatusOK, w.Code)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var patients []models.Patient
	require.NoError(t, json.Unmarshal(raw, &patients))
	require.Len(t, patients, 2)
	require.Equal(t, "Ana", patients[0].Name)
	require.Equal(t, "Maria Silva", patients[1].Name)
}

func TestCreatePatient_RequiresName(t *testing.T) {
	router := testRouter(t, store.NewMemoryStore(), "u1")

	w, _ := doJSON(t, router, http.MethodPost, "/patients", gin.H{"phone": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPatient_CrossOwnerReadsAsNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	owner := testRouter(t, s, "u1")
	intruder := testRouter(t, s, "u2")

	id := createPatientViaAPI(t, owner, "Maria")

	w, _ := doJSON(t, owner, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, intruder, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Patient not found", resp.Error)
}

func TestUpdatePatient_MergesFields(t *testing.T) {
	s := store.NewMemoryStore()
	router := testRouter(t, s, "u1")

	id := createPatientViaAPI(t, router, "Maria")

	w, _ := doJSON(t, router, http.MethodPatch, fmt.Sprintf("/patients/%d", id),
		gin.H{"name": "Maria Silva", "phone": "456"})
	require.Equal(t, http.StatusOK, w.Code)

	_, resp := doJSON(t, router, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var patient models.Patient
	require.NoError(t, json.Unmarshal(raw, &patient))
	require.Equal(t, "Maria Silva", patient.Name)
	require.NotNil(t, patient.Phone)
	require.Equal(t, "456", *patient.Phone)
}

func TestCreateMeasurement_ComputesBMIServerSide(t *testing.T) {
	router := testRouter(t, store.NewMemoryStore(), "u1")
	id := createPatientViaAPI(t, router, "Maria")

	w, resp := doJSON(t, router, http.MethodPost, fmt.Sprintf("/patients/%d/measurements", id),
		gin.H{"date": 1700000000000, "weight": 70, "heightCm": 175, "imc": 99})
	require.Equal(t, http.StatusCreated, w.Code)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var measurement models.Measurement
	require.NoError(t, json.Unmarshal(raw, &measurement))
	require.InDelta(t, 22.857142, measurement.IMC, 0.0001)
	require.Equal(t, "Normal weight", measurement.IMCClassification)
}

func TestCreateMeasurement_RejectsNonPositiveInputs(t *testing.T) {
	router := testRouter(t, store.NewMemoryStore(), "u1")
	id := createPatientViaAPI(t, router, "Maria")

	w, _ := doJSON(t, router, http.MethodPost, fmt.Sprintf("/patients/%d/measurements", id),
		gin.H{"date": 1700000000000, "weight": -1, "heightCm": 175})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateChildRecord_UnknownPatientIs404(t *testing.T) {
	router := testRouter(t, store.NewMemoryStore(), "u1")

	w, _ := doJSON(t, router, http.MethodPost, "/patients/42/consultations",
		gin.H{"date": 1700000000000, "mainComplaint": "fatigue"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePatient_CascadeRemovesChildren(t *testing.T) {
	s := store.NewMemoryStore()
	router := testRouter(t, s, "u1")
	id := createPatientViaAPI(t, router, "Maria")

	w, _ := doJSON(t, router, http.MethodPost, fmt.Sprintf("/patients/%d/consultations", id),
		gin.H{"date": 1700000000000, "mainComplaint": "fatigue"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/patients/%d?cascade=true", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	snaps, err := s.GetAll(context.Background(), fmt.Sprintf("patients/%d/consultations", id), nil)
	require.NoError(t, err)
	require.Empty(t, snaps)
}
