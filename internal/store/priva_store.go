package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PrivaRow is one stored priva. State holds the JSON encoded priva.Record.
type PrivaRow struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Type      string    `db:"priva_type" json:"type"`
	Status    int       `db:"status" json:"status"`
	State     string    `db:"state" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const (
	insertPrivaQuery = `INSERT INTO privas (id, priva_type, status, state)
		VALUES (:id, :priva_type, :status, :state)`
	updatePrivaQuery = `UPDATE privas SET status = :status, state = :state, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`
)

type PrivaStore struct {
	db *sqlx.DB
}

func NewPrivaStore(db *sqlx.DB) *PrivaStore {
	return &PrivaStore{db: db}
}

func (s *PrivaStore) CreatePriva(ctx context.Context, tx *sqlx.Tx, row *PrivaRow) error {
	_, err := tx.NamedExecContext(ctx, insertPrivaQuery, row)
	return err
}

// SavePriva overwrites the state of an existing priva. It returns
// sql.ErrNoRows when the priva does not exist.
func (s *PrivaStore) SavePriva(ctx context.Context, row *PrivaRow) error {
	res, err := s.db.NamedExecContext(ctx, updatePrivaQuery, row)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PrivaStore) GetPriva(ctx context.Context, id uuid.UUID) (*PrivaRow, error) {
	var row PrivaRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM privas WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *PrivaStore) ListPrivas(ctx context.Context) ([]PrivaRow, error) {
	var rows []PrivaRow
	err := s.db.SelectContext(ctx, &rows, "SELECT id, priva_type, status, '' AS state, created_at, updated_at FROM privas ORDER BY created_at DESC, id")
	return rows, err
}

// DeletePriva reports whether a priva was removed.
func (s *PrivaStore) DeletePriva(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM privas WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n > 0, nil
}
