package models

import (
	"nutrition-app-server/internal/store"
)

// Field readers for decoding store documents. Numeric fields may come back as
// int64 (memory store) or float64 (JSON round-trip through Redis), so every
// reader normalizes; missing or mistyped fields decode to the zero value.

func docString(doc store.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func docOptionalString(doc store.Document, key string) *string {
	if v, ok := doc[key].(string); ok {
		return &v
	}
	return nil
}

func docInt64(doc store.Document, key string) int64 {
	switch v := doc[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func docFloat64(doc store.Document, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}
