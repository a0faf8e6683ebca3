package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"homecalc/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS calculations (
	id          UUID PRIMARY KEY,
	kind        TEXT NOT NULL,
	input_json  JSONB NOT NULL,
	result_json JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations (created_at DESC);`

// PostgresCalculationRepository stores calculation history in PostgreSQL.
type PostgresCalculationRepository struct {
	pool       *pgxpool.Pool
	maxRecords int
}

func NewPostgresCalculationRepository(ctx context.Context, dsn string, maxRecords int) (*PostgresCalculationRepository, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	if maxRecords <= 0 {
		maxRecords = DefaultHistoryLimit
	}

	return &PostgresCalculationRepository{pool: pool, maxRecords: maxRecords}, nil
}

func (r *PostgresCalculationRepository) Save(ctx context.Context, record domain.CalculationRecord) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO calculations (id, kind, input_json, result_json, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			record.ID, string(record.Kind), []byte(record.Input), []byte(record.Result), record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert calculation %s: %w", record.ID, err)
		}

		_, err = tx.Exec(ctx,
			`DELETE FROM calculations WHERE id NOT IN (
				SELECT id FROM calculations ORDER BY created_at DESC LIMIT $1
			)`,
			r.maxRecords,
		)
		if err != nil {
			return fmt.Errorf("rotate calculations: %w", err)
		}
		return nil
	})
}

func (r *PostgresCalculationRepository) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if limit <= 0 {
		limit = r.maxRecords
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id::text, kind, input_json, result_json, created_at
		 FROM calculations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	records := []domain.CalculationRecord{}
	for rows.Next() {
		var (
			rec           domain.CalculationRecord
			kind          string
			input, result []byte
		)
		if err := rows.Scan(&rec.ID, &kind, &input, &result, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		rec.Kind = domain.CalculationKind(kind)
		rec.Input = input
		rec.Result = result
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresCalculationRepository) Close() error {
	r.pool.Close()
	return nil
}
