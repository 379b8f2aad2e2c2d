package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	// Every connection would get its own empty in-memory database.
	database.SetMaxOpenConns(1)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func createTestPriva(t *testing.T, db *sqlx.DB, s *PrivaStore, row *PrivaRow) {
	t.Helper()
	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, s.CreatePriva(ctx, tx, row))
	require.NoError(t, tx.Commit())
}

func TestCreateAndGetPriva(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	s := NewPrivaStore(db)

	row := &PrivaRow{ID: uuid.New(), Type: "ten_wins", Status: -1, State: `{"type":"ten_wins"}`}
	createTestPriva(t, db, s, row)

	got, err := s.GetPriva(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)
	assert.Equal(t, "ten_wins", got.Type)
	assert.Equal(t, -1, got.Status)
	assert.JSONEq(t, row.State, got.State)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetPrivaNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := NewPrivaStore(db).GetPriva(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreatePrivaRollback(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	s := NewPrivaStore(db)
	ctx := context.Background()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	row := &PrivaRow{ID: uuid.New(), Type: "common", Status: -1, State: "{}"}
	require.NoError(t, s.CreatePriva(ctx, tx, row))
	require.NoError(t, tx.Rollback())

	_, err = s.GetPriva(ctx, row.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSavePriva(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	s := NewPrivaStore(db)
	ctx := context.Background()

	row := &PrivaRow{ID: uuid.New(), Type: "common", Status: -1, State: `{"status":-1}`}
	createTestPriva(t, db, s, row)

	row.Status = 0
	row.State = `{"status":0}`
	require.NoError(t, s.SavePriva(ctx, row))

	got, err := s.GetPriva(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Status)
	assert.JSONEq(t, `{"status":0}`, got.State)

	missing := &PrivaRow{ID: uuid.New(), State: "{}"}
	assert.ErrorIs(t, s.SavePriva(ctx, missing), sql.ErrNoRows)
}

func TestListAndDeletePrivas(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	s := NewPrivaStore(db)
	ctx := context.Background()

	first := &PrivaRow{ID: uuid.New(), Type: "common", Status: -1, State: "{}"}
	second := &PrivaRow{ID: uuid.New(), Type: "n_wins", Status: 2, State: "{}"}
	createTestPriva(t, db, s, first)
	createTestPriva(t, db, s, second)

	rows, err := s.ListPrivas(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	var ids []uuid.UUID
	for _, r := range rows {
		ids = append(ids, r.ID)
		assert.Empty(t, r.State)
	}
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)

	deleted, err := s.DeletePriva(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeletePriva(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	rows, err = s.ListPrivas(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)
}
