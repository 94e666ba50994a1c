package models

import (
	"nutrition-app-server/internal/store"
)

// Consultation is a single nutrition appointment record, stored as a child of
// its patient. An empty ID means not yet persisted.
type Consultation struct {
	ID            string `json:"id"`
	PatientID     int64  `json:"patientId"`
	Date          int64  `json:"date"` // epoch millis
	MainComplaint string `json:"mainComplaint"`
	Recall24h     string `json:"recall24h"`
	Evolution     string `json:"evolution"`
	OwnerUID      string `json:"ownerUid"`
}

// ToDocument encodes the consultation as a flat store document.
func (c Consultation) ToDocument() store.Document {
	return store.Document{
		"patientId":     c.PatientID,
		"date":          c.Date,
		"mainComplaint": c.MainComplaint,
		"recall24h":     c.Recall24h,
		"evolution":     c.Evolution,
		"ownerUid":      c.OwnerUID,
	}
}

// ConsultationFromDocument decodes a store document into a Consultation.
// The id lives in the document path, so the caller supplies it.
func ConsultationFromDocument(id string, doc store.Document) Consultation {
	return Consultation{
		ID:            id,
		PatientID:     docInt64(doc, "patientId"),
		Date:          docInt64(doc, "date"),
		MainComplaint: docString(doc, "mainComplaint"),
		Recall24h:     docString(doc, "recall24h"),
		Evolution:     docString(doc, "evolution"),
		OwnerUID:      docString(doc, "ownerUid"),
	}
}
