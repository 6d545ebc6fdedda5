package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

// LeadRepository lists any lead collection and moves request rows between statuses.
type LeadRepository interface {
	List(ctx context.Context, collection domain.Collection) ([]domain.Lead, error)
	GetStatus(ctx context.Context, collection domain.Collection, id string) (string, error)
	// UpdateStatus applies from -> to only if the row is still in from.
	UpdateStatus(ctx context.Context, collection domain.Collection, id, from, to, adminID string) error
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository returns a Postgres-backed implementation.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

func (r *leadRepository) List(ctx context.Context, collection domain.Collection) ([]domain.Lead, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC", leadColumns(collection, "::text"), table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		lead := domain.Lead{Collection: collection}
		if err := rows.Scan(
			&lead.ID,
			&lead.FirstName,
			&lead.LastName,
			&lead.Email,
			&lead.Company,
			&lead.Status,
			&lead.RespondedBy,
			&lead.CreatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *leadRepository) GetStatus(ctx context.Context, collection domain.Collection, id string) (string, error) {
	table, err := tableFor(collection)
	if err != nil {
		return "", err
	}
	var status string
	err = r.pool.QueryRow(ctx, fmt.Sprintf("SELECT status FROM %s WHERE id=$1", table), id).Scan(&status)
	return status, err
}

func (r *leadRepository) UpdateStatus(ctx context.Context, collection domain.Collection, id, from, to, adminID string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
        UPDATE %s SET status=$1, responded_by=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4`, table)

	cmd, err := r.pool.Exec(ctx, query, to, adminID, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
