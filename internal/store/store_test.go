package store

import (
	"context"
	"testing"

	"github.com/jdelgato/chatgate/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// backdate shifts a record's timestamp so ordering tests don't depend on
// wall-clock resolution.
func backdate(t *testing.T, db *DB, id int64, ts string) {
	t.Helper()
	_, err := db.sql.Exec(`UPDATE exchanges SET created_at = ? WHERE id = ?`, ts, id)
	require.NoError(t, err)
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running migrate again should be a no-op
	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	var name string
	err := db.sql.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='exchanges'",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "exchanges", name)
}

// --- Exchange Store tests ---

func TestExchangeStore_Append(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)
	ctx := context.Background()

	ex, err := es.Append(ctx, "abc123", "Hello", "Hi there!")
	require.NoError(t, err)
	assert.NotZero(t, ex.ID)
	assert.Equal(t, "abc123", ex.SessionID)
	assert.Equal(t, "Hello", ex.Query)
	assert.Equal(t, "Hi there!", ex.Response)
	assert.False(t, ex.CreatedAt.IsZero())
}

func TestExchangeStore_ListAll_Empty(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)

	got, err := es.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExchangeStore_ListAll_DescendingOrder(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)
	ctx := context.Background()

	first, err := es.Append(ctx, "s1", "q1", "r1")
	require.NoError(t, err)
	second, err := es.Append(ctx, "s2", "q2", "r2")
	require.NoError(t, err)
	third, err := es.Append(ctx, "s1", "q3", "r3")
	require.NoError(t, err)

	backdate(t, db, first.ID, "2026-01-01 10:00:00.000")
	backdate(t, db, second.ID, "2026-01-01 11:00:00.000")
	backdate(t, db, third.ID, "2026-01-01 12:00:00.000")

	got, err := es.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "q3", got[0].Query)
	assert.Equal(t, "q2", got[1].Query)
	assert.Equal(t, "q1", got[2].Query)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].CreatedAt.After(got[i-1].CreatedAt),
			"timestamps must be non-increasing")
	}
}

func TestExchangeStore_ListAll_TimestampTieBreaksOnID(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)
	ctx := context.Background()

	a, err := es.Append(ctx, "s1", "older", "r")
	require.NoError(t, err)
	b, err := es.Append(ctx, "s1", "newer", "r")
	require.NoError(t, err)

	backdate(t, db, a.ID, "2026-01-01 10:00:00.000")
	backdate(t, db, b.ID, "2026-01-01 10:00:00.000")

	got, err := es.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Query)
}

func TestExchangeStore_ListBySession(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)
	ctx := context.Background()

	_, err := es.Append(ctx, "abc123", "Hello", "Hi there!")
	require.NoError(t, err)
	_, err = es.Append(ctx, "other", "ignore me", "ok")
	require.NoError(t, err)

	got, err := es.ListBySession(ctx, "abc123")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "abc123", got[0].SessionID)
	assert.Equal(t, "Hello", got[0].Query)
	assert.Equal(t, "Hi there!", got[0].Response)
}

func TestExchangeStore_ListBySession_NoMatches(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)
	ctx := context.Background()

	_, err := es.Append(ctx, "abc123", "q", "r")
	require.NoError(t, err)

	got, err := es.ListBySession(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExchangeStore_ListAll_Idempotent(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)
	ctx := context.Background()

	_, err := es.Append(ctx, "s1", "q1", "r1")
	require.NoError(t, err)
	_, err = es.Append(ctx, "s2", "q2", "r2")
	require.NoError(t, err)

	first, err := es.ListAll(ctx)
	require.NoError(t, err)
	second, err := es.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExchangeStore_DeleteAll(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)
	ctx := context.Background()

	_, err := es.Append(ctx, "s1", "q1", "r1")
	require.NoError(t, err)
	_, err = es.Append(ctx, "s2", "q2", "r2")
	require.NoError(t, err)

	n, err := es.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := es.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExchangeStore_DeleteAll_Empty(t *testing.T) {
	db := testDB(t)
	es := NewExchangeStore(db)

	n, err := es.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
