package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, nil)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "patients", "1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "patients", "1", Document{"name": "Maria", "ownerUid": "u1"}))

	doc, err := s.Get(ctx, "patients", "1")
	require.NoError(t, err)
	require.Equal(t, "Maria", doc["name"])

	require.NoError(t, s.Update(ctx, "patients", "1", Document{"phone": "123"}))
	doc, err = s.Get(ctx, "patients", "1")
	require.NoError(t, err)
	require.Equal(t, "Maria", doc["name"])
	require.Equal(t, "123", doc["phone"])

	require.NoError(t, s.Delete(ctx, "patients", "1"))
	_, err = s.Get(ctx, "patients", "1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_GetAllFiltersByField(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "patients", "1", Document{"ownerUid": "u1"}))
	require.NoError(t, s.Set(ctx, "patients", "2", Document{"ownerUid": "u2"}))

	snaps, err := s.GetAll(ctx, "patients", &Filter{Field: "ownerUid", Value: "u1"})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Equal(t, "1", snaps[0].ID)
}

func TestRedisStore_ListenReceivesWrites(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	updates := make(chan []Snapshot, 8)
	sub := s.Listen("patients", nil,
		func(snaps []Snapshot) { updates <- snaps },
		func(err error) { t.Errorf("unexpected listen error: %v", err) },
	)
	defer sub.Cancel()

	// Initial snapshot of the empty collection.
	select {
	case snaps := <-updates:
		require.Empty(t, snaps)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	require.NoError(t, s.Set(ctx, "patients", "1", Document{"name": "Maria"}))

	select {
	case snaps := <-updates:
		require.Len(t, snaps, 1)
		require.Equal(t, "Maria", snaps[0].Data["name"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for write notification")
	}
}
