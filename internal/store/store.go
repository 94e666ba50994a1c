package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document exists at the given path.
var ErrNotFound = errors.New("document not found")

// Document is the flat field map persisted for a single record. Values are
// limited to strings, numbers, booleans and nested []Document slices.
type Document = map[string]interface{}

// Snapshot couples a document with its id inside its collection.
type Snapshot struct {
	ID   string
	Data Document
}

// Filter is an equality predicate applied to a single document field.
type Filter struct {
	Field string
	Value interface{}
}

// Matches reports whether the document satisfies the filter.
func (f *Filter) Matches(doc Document) bool {
	if f == nil {
		return true
	}
	return doc[f.Field] == f.Value
}

// Subscription is the handle returned by Listen. Cancelling it stops further
// callbacks; late deliveries racing with Cancel are dropped.
type Subscription interface {
	Cancel()
}

// Store is the document database the repositories talk to. Collections are
// addressed by hierarchical path strings, e.g. "patients" or
// "patients/1712345678/consultations".
type Store interface {
	// Get reads a single document. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes the full document at collection/id, overwriting any
	// previous content (last writer wins).
	Set(ctx context.Context, collection, id string, doc Document) error

	// Update merges the given fields into an existing document without
	// touching the rest of it.
	Update(ctx context.Context, collection, id string, fields Document) error

	// Delete removes exactly one document. Deleting an absent document is
	// not an error.
	Delete(ctx context.Context, collection, id string) error

	// GetAll returns every document in the collection matching the filter,
	// in unspecified order.
	GetAll(ctx context.Context, collection string, filter *Filter) ([]Snapshot, error)

	// Listen opens a live query: onUpdate receives the full matching result
	// set immediately and again after every change to the collection.
	// onError receives listen failures. The caller owns cancellation.
	Listen(collection string, filter *Filter, onUpdate func([]Snapshot), onError func(error)) Subscription

	// NewID returns a fresh store-generated document id.
	NewID() string
}
