package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"homecalc/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS calculations (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	input_json  TEXT NOT NULL,
	result_json TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations (created_at);`

// SQLiteCalculationRepository persists calculation history to a SQLite file.
type SQLiteCalculationRepository struct {
	db         *sql.DB
	maxRecords int
}

// NewSQLiteCalculationRepository opens (or creates) the database at path.
// Use ":memory:" for a throwaway store.
func NewSQLiteCalculationRepository(ctx context.Context, path string, maxRecords int) (*SQLiteCalculationRepository, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	if maxRecords <= 0 {
		maxRecords = DefaultHistoryLimit
	}

	return &SQLiteCalculationRepository{db: db, maxRecords: maxRecords}, nil
}

func (r *SQLiteCalculationRepository) Save(ctx context.Context, record domain.CalculationRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO calculations (id, kind, input_json, result_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, string(record.Kind), string(record.Input), string(record.Result), record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert calculation %s: %w", record.ID, err)
	}

	// rotate: keep only the newest maxRecords rows
	_, err = tx.ExecContext(ctx,
		`DELETE FROM calculations WHERE id NOT IN (
			SELECT id FROM calculations ORDER BY created_at DESC LIMIT ?
		)`,
		r.maxRecords,
	)
	if err != nil {
		return fmt.Errorf("rotate calculations: %w", err)
	}

	return tx.Commit()
}

func (r *SQLiteCalculationRepository) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if limit <= 0 {
		limit = r.maxRecords
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, input_json, result_json, created_at
		 FROM calculations ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	records := []domain.CalculationRecord{}
	for rows.Next() {
		var (
			rec            domain.CalculationRecord
			kind           string
			input, result  string
			createdAtNanos int64
		)
		if err := rows.Scan(&rec.ID, &kind, &input, &result, &createdAtNanos); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		rec.Kind = domain.CalculationKind(kind)
		rec.Input = []byte(input)
		rec.Result = []byte(result)
		rec.CreatedAt = time.Unix(0, createdAtNanos).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteCalculationRepository) Close() error {
	return r.db.Close()
}
