package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrition-app-server/internal/repository"
	"nutrition-app-server/internal/store"
)

func TestConsultationForm_SaveRequiresDate(t *testing.T) {
	repo := repository.NewConsultationRepository(store.NewMemoryStore(), zap.NewNop())
	form := NewConsultationForm(repo)
	ctx := context.Background()

	form.SaveConsultation(ctx, 7, "u1", 0, "fatigue", "", "")

	st := form.State.Get()
	require.Equal(t, "Date is required.", st.Err)
	require.False(t, st.Saved)

	items, err := repo.Consultations(ctx, 7, "u1")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestConsultationForm_SavePersistsRecord(t *testing.T) {
	repo := repository.NewConsultationRepository(store.NewMemoryStore(), zap.NewNop())
	form := NewConsultationForm(repo)
	ctx := context.Background()

	form.SaveConsultation(ctx, 7, "u1", 1700000000000, "fatigue", "coffee, bread", "stable")

	st := form.State.Get()
	require.True(t, st.Saved)
	require.NotEmpty(t, st.SavedID)
	require.Empty(t, st.Err)

	items, err := repo.Consultations(ctx, 7, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, st.SavedID, items[0].ID)
	require.Equal(t, "fatigue", items[0].MainComplaint)
}
