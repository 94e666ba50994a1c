package state

import (
	"context"
	"errors"
	"strings"
	"sync"

	"nutrition-app-server/internal/models"
	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/store"
)

// ErrNotAuthenticated is reported when a patient-scoped operation runs
// without a signed-in user.
var ErrNotAuthenticated = errors.New("user not authenticated")

// PatientList is the state behind the patient list screen: the live patient
// list, a free-text filter over it, and the cascade delete action.
type PatientList struct {
	repo    *repository.PatientRepository
	deleter *repository.CascadeDeleter

	mu       sync.Mutex
	started  bool
	sub      store.Subscription
	query    string
	ownerUID string

	// Patients is the full result set; Filtered is Patients after the
	// current query.
	Patients *Observable[[]models.Patient]
	Filtered *Observable[[]models.Patient]
	Loading  *Observable[bool]
	Err      *Observable[string]
}

// NewPatientList creates the state holder for the patient list screen.
func NewPatientList(repo *repository.PatientRepository, deleter *repository.CascadeDeleter) *PatientList {
	return &PatientList{
		repo:     repo,
		deleter:  deleter,
		Patients: NewObservable([]models.Patient{}),
		Filtered: NewObservable([]models.Patient{}),
		Loading:  NewObservable(false),
		Err:      NewObservable(""),
	}
}

// Start opens the live patient listener for the given owner. A second call
// while a listener is active is a no-op, so at most one subscription exists.
func (l *PatientList) Start(ownerUID string) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.ownerUID = ownerUID
	l.mu.Unlock()

	l.Loading.Set(true)
	sub := l.repo.ListenPatients(ownerUID,
		func(patients []models.Patient) {
			l.Loading.Set(false)
			l.updatePatients(patients)
		},
		func(err error) {
			l.Loading.Set(false)
			l.Err.Set(err.Error())
		},
	)

	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()
}

// SetQuery re-applies the filter against the last known result set without
// re-querying the store.
func (l *PatientList) SetQuery(query string) {
	l.mu.Lock()
	l.query = query
	l.mu.Unlock()

	l.Filtered.Set(filterPatients(l.Patients.Get(), query))
}

// DeletePatient removes the patient and every dependent record.
func (l *PatientList) DeletePatient(ctx context.Context, patientID int64) error {
	l.mu.Lock()
	uid := l.ownerUID
	l.mu.Unlock()
	if uid == "" {
		return ErrNotAuthenticated
	}
	return l.deleter.DeletePatientCascade(ctx, patientID)
}

// Stop cancels the listener. Safe to call even if Start never ran.
func (l *PatientList) Stop() {
	l.mu.Lock()
	sub := l.sub
	l.sub = nil
	l.started = false
	l.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

func (l *PatientList) updatePatients(patients []models.Patient) {
	l.mu.Lock()
	query := l.query
	l.mu.Unlock()

	l.Patients.Set(patients)
	l.Filtered.Set(filterPatients(patients, query))
}

// filterPatients is a case-insensitive substring match over name and phone.
func filterPatients(patients []models.Patient, query string) []models.Patient {
	if strings.TrimSpace(query) == "" {
		return patients
	}
	q := strings.ToLower(query)
	filtered := make([]models.Patient, 0, len(patients))
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.Name), q) {
			filtered = append(filtered, p)
			continue
		}
		if p.Phone != nil && strings.Contains(strings.ToLower(*p.Phone), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
