package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emree-sen/idea-box-app/internal/db"
)

// SQLiteRecordRepo implements RecordRepo on the records table.
type SQLiteRecordRepo struct {
	db db.DBTX
}

// NewSQLiteRecordRepo creates a record repo over a *sql.DB or a *sql.Tx.
func NewSQLiteRecordRepo(q db.DBTX) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: q}
}

func (r *SQLiteRecordRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading record %q: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRecordRepo) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, nowUTC())
	if err != nil {
		return fmt.Errorf("writing record %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRecordRepo) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing record %q: %w", key, err)
	}
	return nil
}
