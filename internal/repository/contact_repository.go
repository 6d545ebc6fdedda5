package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

// ContactRepository reads and triages contact_submissions.
type ContactRepository interface {
	List(ctx context.Context) ([]domain.ContactSubmission, error)
	GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error)
	// MarkRead moves an unread row to read and reports whether it changed anything.
	MarkRead(ctx context.Context, id string) (bool, error)
	// Respond stores the admin response; concurrent calls are last-write-wins.
	Respond(ctx context.Context, id, response, adminID string) (*domain.ContactSubmission, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a Postgres-backed implementation.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id, first_name, last_name, email, company, phone, inquiry_type, message,
               status, admin_response, responded_by, created_at, updated_at`

func (r *contactRepository) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	const query = `
        SELECT ` + contactColumns + `
        FROM contact_submissions
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContactSubmission
	for rows.Next() {
		s, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	const query = `
        SELECT ` + contactColumns + `
        FROM contact_submissions WHERE id=$1`
	return scanContact(r.pool.QueryRow(ctx, query, id))
}

func (r *contactRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	const query = `
        UPDATE contact_submissions SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`

	cmd, err := r.pool.Exec(ctx, query, domain.ContactStatusRead, id, domain.ContactStatusUnread)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() > 0 {
		return true, nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *contactRepository) Respond(ctx context.Context, id, response, adminID string) (*domain.ContactSubmission, error) {
	const query = `
        UPDATE contact_submissions SET status=$1, admin_response=$2, responded_by=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING ` + contactColumns

	return scanContact(r.pool.QueryRow(ctx, query, domain.ContactStatusResponded, response, adminID, id))
}

func scanContact(row pgx.Row) (*domain.ContactSubmission, error) {
	var s domain.ContactSubmission
	if err := row.Scan(
		&s.ID,
		&s.FirstName,
		&s.LastName,
		&s.Email,
		&s.Company,
		&s.Phone,
		&s.InquiryType,
		&s.Message,
		&s.Status,
		&s.AdminResponse,
		&s.RespondedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
