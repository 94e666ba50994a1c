package models

import (
	"nutrition-app-server/internal/store"
)

// Measurement is an anthropometric reading for a patient. IMC and its
// classification are derived from weight and height and are always written
// together with the inputs that produced them.
type Measurement struct {
	ID                string  `json:"id"`
	PatientID         int64   `json:"patientId"`
	Date              int64   `json:"date"` // epoch millis
	Weight            float64 `json:"weight"` // kg
	HeightCm          float64 `json:"heightCm"`
	WaistCm           float64 `json:"waistCm"`
	IMC               float64 `json:"imc"`
	IMCClassification string  `json:"imcClassification"`
	OwnerUID          string  `json:"ownerUid"`
}

// ToDocument encodes the measurement as a flat store document.
func (m Measurement) ToDocument() store.Document {
	return store.Document{
		"patientId":         m.PatientID,
		"date":              m.Date,
		"weight":            m.Weight,
		"heightCm":          m.HeightCm,
		"waistCm":           m.WaistCm,
		"imc":               m.IMC,
		"imcClassification": m.IMCClassification,
		"ownerUid":          m.OwnerUID,
	}
}

// MeasurementFromDocument decodes a store document into a Measurement.
func MeasurementFromDocument(id string, doc store.Document) Measurement {
	return Measurement{
		ID:                id,
		PatientID:         docInt64(doc, "patientId"),
		Date:              docInt64(doc, "date"),
		Weight:            docFloat64(doc, "weight"),
		HeightCm:          docFloat64(doc, "heightCm"),
		WaistCm:           docFloat64(doc, "waistCm"),
		IMC:               docFloat64(doc, "imc"),
		IMCClassification: docString(doc, "imcClassification"),
		OwnerUID:          docString(doc, "ownerUid"),
	}
}
