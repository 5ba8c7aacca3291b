package hybrid

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptaflow/comptaflow/internal/model"
)

func openDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func change(entityID string) model.ChangeRecord {
	return model.ChangeRecord{
		Table:     "accounts",
		EntityID:  entityID,
		Action:    model.AuditCreate,
		Payload:   []byte(`{"id":"` + entityID + `"}`),
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestQueue_FIFO(t *testing.T) {
	db, _ := openDB(t)
	q, err := OpenQueue(db)
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, q.Enqueue(ctx, change(id)))
	}
	assert.Equal(t, 3, q.Len())

	items := q.Snapshot()
	require.Len(t, items, 3)
	assert.Equal(t, "a1", items[0].EntityID)
	assert.Equal(t, "a3", items[2].EntityID)
	assert.NotEmpty(t, items[0].ID)
}

func TestQueue_Remove(t *testing.T) {
	db, _ := openDB(t)
	q, err := OpenQueue(db)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, change("a1")))
	require.NoError(t, q.Enqueue(ctx, change("a2")))

	items := q.Snapshot()
	require.NoError(t, q.Remove(ctx, items[0].ID))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, "a2", q.Snapshot()[0].EntityID)
}

func TestQueue_Update(t *testing.T) {
	db, _ := openDB(t)
	q, err := OpenQueue(db)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, change("a1")))

	item := q.Snapshot()[0]
	item.Retries = 2
	item.LastError = "replica rejected change"
	item.NextAttempt = item.Timestamp.Add(time.Minute)
	require.NoError(t, q.Update(ctx, item))

	got := q.Snapshot()[0]
	assert.Equal(t, 2, got.Retries)
	assert.Equal(t, "replica rejected change", got.LastError)
}

func TestQueue_SurvivesReopen(t *testing.T) {
	db, path := openDB(t)
	q, err := OpenQueue(db)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, change("a1")))
	item := q.Snapshot()[0]
	item.Retries = 1
	require.NoError(t, q.Update(ctx, item))
	require.NoError(t, q.Enqueue(ctx, change("a2")))
	require.NoError(t, db.Close())

	db2, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db2.Close()

	reopened, err := OpenQueue(db2)
	require.NoError(t, err)
	require.Equal(t, 2, reopened.Len())

	items := reopened.Snapshot()
	assert.Equal(t, "a1", items[0].EntityID)
	assert.Equal(t, 1, items[0].Retries)
	assert.Equal(t, "a2", items[1].EntityID)
}
