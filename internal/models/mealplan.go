package models

import (
	"nutrition-app-server/internal/store"
)

// MealEntry is one meal inside a meal plan (breakfast, lunch, ...). Items is
// newline-delimited free text, one food item per line.
type MealEntry struct {
	Name         string `json:"name"`
	Items        string `json:"items"`
	Observations string `json:"observations"`
}

// MealPlan is a prescribed daily meal plan, stored as a child of its patient.
type MealPlan struct {
	ID        string      `json:"id"`
	PatientID int64       `json:"patientId"`
	Date      int64       `json:"date"` // epoch millis
	Meals     []MealEntry `json:"meals"`
	Notes     *string     `json:"notes,omitempty"`
	OwnerUID  string      `json:"ownerUid"`
}

// ToDocument encodes the plan as a store document with nested meal entries.
func (p MealPlan) ToDocument() store.Document {
	meals := make([]store.Document, len(p.Meals))
	for i, meal := range p.Meals {
		meals[i] = store.Document{
			"name":         meal.Name,
			"items":        meal.Items,
			"observations": meal.Observations,
		}
	}
	doc := store.Document{
		"patientId": p.PatientID,
		"date":      p.Date,
		"meals":     meals,
		"ownerUid":  p.OwnerUID,
	}
	if p.Notes != nil {
		doc["notes"] = *p.Notes
	}
	return doc
}

// MealPlanFromDocument decodes a store document into a MealPlan.
func MealPlanFromDocument(id string, doc store.Document) MealPlan {
	return MealPlan{
		ID:        id,
		PatientID: docInt64(doc, "patientId"),
		Date:      docInt64(doc, "date"),
		Meals:     mealsFromValue(doc["meals"]),
		Notes:     docOptionalString(doc, "notes"),
		OwnerUID:  docString(doc, "ownerUid"),
	}
}

// mealsFromValue accepts both the in-memory representation ([]store.Document)
// and the JSON round-trip representation ([]interface{} of maps).
func mealsFromValue(v interface{}) []MealEntry {
	var docs []store.Document
	switch slice := v.(type) {
	case []store.Document:
		docs = slice
	case []interface{}:
		for _, item := range slice {
			if doc, ok := item.(map[string]interface{}); ok {
				docs = append(docs, doc)
			}
		}
	default:
		return nil
	}

	meals := make([]MealEntry, 0, len(docs))
	for _, doc := range docs {
		meals = append(meals, MealEntry{
			Name:         docString(doc, "name"),
			Items:        docString(doc, "items"),
			Observations: docString(doc, "observations"),
		})
	}
	return meals
}
