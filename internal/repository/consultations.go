package repository

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/store"
)

// ConsultationRepository manages consultation documents stored under
// patients/{patientId}/consultations.
type ConsultationRepository struct {
	store  store.Store
	logger *zap.Logger
}

// NewConsultationRepository creates a ConsultationRepository on top of a
// document store.
func NewConsultationRepository(s store.Store, logger *zap.Logger) *ConsultationRepository {
	return &ConsultationRepository{store: s, logger: logger}
}

// ListenConsultations opens a live query over one patient's consultations
// scoped to the owner. Every update delivers the full result set sorted
// descending by date.
func (r *ConsultationRepository) ListenConsultations(patientID int64, ownerUID string, onUpdate func([]models.Consultation), onError func(error)) store.Subscription {
	collection := childCollection(patientID, consultationsCollection)
	return r.store.Listen(collection, ownerFilter(ownerUID), func(snaps []store.Snapshot) {
		onUpdate(decodeConsultations(snaps))
	}, onError)
}

// Consultations is the one-shot variant of ListenConsultations.
func (r *ConsultationRepository) Consultations(ctx context.Context, patientID int64, ownerUID string) ([]models.Consultation, error) {
	snaps, err := r.store.GetAll(ctx, childCollection(patientID, consultationsCollection), ownerFilter(ownerUID))
	if err != nil {
		return nil, err
	}
	return decodeConsultations(snaps), nil
}

// SaveConsultation persists the consultation under its patient and returns
// the document id. An unsaved consultation (empty id) gets a store-generated
// id; an existing one is overwritten in place.
func (r *ConsultationRepository) SaveConsultation(ctx context.Context, consultation models.Consultation) (string, error) {
	if consultation.ID == "" {
		consultation.ID = r.store.NewID()
	}
	collection := childCollection(consultation.PatientID, consultationsCollection)
	if err := r.store.Set(ctx, collection, consultation.ID, consultation.ToDocument()); err != nil {
		return "", err
	}
	r.logger.Debug("consultation saved",
		zap.Int64("patientId", consultation.PatientID),
		zap.String("consultationId", consultation.ID))
	return consultation.ID, nil
}

// DeleteConsultation removes exactly one consultation document.
func (r *ConsultationRepository) DeleteConsultation(ctx context.Context, patientID int64, consultationID string) error {
	return r.store.Delete(ctx, childCollection(patientID, consultationsCollection), consultationID)
}

func decodeConsultations(snaps []store.Snapshot) []models.Consultation {
	items := make([]models.Consultation, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, models.ConsultationFromDocument(snap.ID, snap.Data))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	return items
}
