package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nutrition-app-server/internal/store"
)

// CascadeDeleter orchestrates deletion of a patient aggregate. The store has
// no cross-collection transaction, so the cascade runs as staged best-effort
// deletion with fail-fast reporting: consultations, then measurements, then
// plans, then the patient document itself. Deletions inside one stage run
// concurrently; a stage starts only after the previous one fully succeeded.
type CascadeDeleter struct {
	store  store.Store
	logger *zap.Logger
}

// NewCascadeDeleter creates a CascadeDeleter on top of a document store.
func NewCascadeDeleter(s store.Store, logger *zap.Logger) *CascadeDeleter {
	return &CascadeDeleter{store: s, logger: logger}
}

// DeletePatient removes only the patient document. Children stay behind as
// orphans; use DeletePatientCascade for the full aggregate.
func (d *CascadeDeleter) DeletePatient(ctx context.Context, patientID int64) error {
	return d.store.Delete(ctx, patientsCollection, patientDocID(patientID))
}

// DeletePatientCascade removes a patient together with every dependent
// record. On the first failing stage it stops and reports that stage's
// error; already-deleted stages are not rolled back, so a partially
// cascaded patient is a visible, reportable state.
func (d *CascadeDeleter) DeletePatientCascade(ctx context.Context, patientID int64) error {
	stages := []string{consultationsCollection, measurementsCollection, plansCollection}
	for _, stage := range stages {
		if err := d.deleteChildren(ctx, patientID, stage); err != nil {
			d.logger.Warn("cascade delete aborted",
				zap.Int64("patientId", patientID),
				zap.String("stage", stage),
				zap.Error(err))
			return fmt.Errorf("deleting %s: %w", stage, err)
		}
	}

	if err := d.store.Delete(ctx, patientsCollection, patientDocID(patientID)); err != nil {
		return fmt.Errorf("deleting patient document: %w", err)
	}
	d.logger.Info("patient cascade deleted", zap.Int64("patientId", patientID))
	return nil
}

// deleteChildren fetches the current members of one sub-collection and
// deletes them concurrently, waiting for all of them before returning.
func (d *CascadeDeleter) deleteChildren(ctx context.Context, patientID int64, name string) error {
	collection := childCollection(patientID, name)
	snaps, err := d.store.GetAll(ctx, collection, nil)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, snap := range snaps {
		id := snap.ID
		g.Go(func() error {
			return d.store.Delete(ctx, collection, id)
		})
	}
	return g.Wait()
}
