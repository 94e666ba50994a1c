package models

import (
	"nutrition-app-server/internal/store"
)

// UnsavedPatientID is the sentinel id of a patient not yet persisted.
const UnsavedPatientID int64 = -1

// Patient is a patient cared for by one nutritionist. Consultations,
// measurements and meal plans hang off the patient as sub-collections.
type Patient struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Phone           *string `json:"phone,omitempty"`
	LastAppointment *string `json:"lastAppointment,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	OwnerUID        string  `json:"ownerUid"`
}

// Saved reports whether the patient has been persisted already.
func (p Patient) Saved() bool {
	return p.ID != UnsavedPatientID
}

// ToDocument encodes the patient as a flat store document.
func (p Patient) ToDocument() store.Document {
	doc := store.Document{
		"id":       p.ID,
		"name":     p.Name,
		"ownerUid": p.OwnerUID,
	}
	if p.Phone != nil {
		doc["phone"] = *p.Phone
	}
	if p.LastAppointment != nil {
		doc["lastAppointment"] = *p.LastAppointment
	}
	if p.Notes != nil {
		doc["notes"] = *p.Notes
	}
	return doc
}

// PatientFromDocument decodes a store document into a Patient. A document
// without an id field decodes to the unsaved sentinel.
func PatientFromDocument(doc store.Document) Patient {
	id := UnsavedPatientID
	if _, ok := doc["id"]; ok {
		id = docInt64(doc, "id")
	}
	return Patient{
		ID:              id,
		Name:            docString(doc, "name"),
		Phone:           docOptionalString(doc, "phone"),
		LastAppointment: docOptionalString(doc, "lastAppointment"),
		Notes:           docOptionalString(doc, "notes"),
		OwnerUID:        docString(doc, "ownerUid"),
	}
}
