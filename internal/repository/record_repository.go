package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/submission"
)

// RecordStore inserts mapped form records into a lead table.
type RecordStore interface {
	Insert(ctx context.Context, collection domain.Collection, record map[string]any) error
}

type recordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository returns a Postgres-backed implementation.
func NewRecordRepository(pool *pgxpool.Pool) RecordStore {
	return &recordRepository{pool: pool}
}

func (r *recordRepository) Insert(ctx context.Context, collection domain.Collection, record map[string]any) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	cols := submission.Columns(record)
	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = record[col]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "),
		placeholders(len(cols), func(i int) string { return fmt.Sprintf("$%d", i+1) }))

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if isPgUniqueViolation(err) {
			return duplicate("insert "+table, err)
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}
