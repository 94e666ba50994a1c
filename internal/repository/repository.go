// Package repository translates typed domain records to and from documents in
// the store's fixed collection layout:
//
//	patients/{patientId}
//	patients/{patientId}/consultations/{consultationId}
//	patients/{patientId}/measurements/{measurementId}
//	patients/{patientId}/plans/{planId}
//
// Repositories carry no business logic beyond id assignment, path construction
// and sort order.
package repository

import (
	"fmt"
	"strconv"

	"nutrition-app-server/internal/store"
)

const (
	patientsCollection      = "patients"
	consultationsCollection = "consultations"
	measurementsCollection  = "measurements"
	plansCollection         = "plans"
)

// patientDocID is the document id of a patient inside the top-level
// patients collection.
func patientDocID(patientID int64) string {
	return strconv.FormatInt(patientID, 10)
}

// childCollection is the collection path of one patient's sub-collection.
// Children always live under their parent's path, never flattened.
func childCollection(patientID int64, name string) string {
	return fmt.Sprintf("%s/%d/%s", patientsCollection, patientID, name)
}

// ownerFilter scopes a query to records tagged with the given user id.
func ownerFilter(ownerUID string) *store.Filter {
	return &store.Filter{Field: "ownerUid", Value: ownerUID}
}
