package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/submission"
)

type sqliteRecordRepository struct {
	db *sqlx.DB
}

// NewSQLiteRecordRepository returns a RecordStore on the embedded database.
func NewSQLiteRecordRepository(db *sqlx.DB) RecordStore {
	return &sqliteRecordRepository{db: db}
}

func (r *sqliteRecordRepository) Insert(ctx context.Context, collection domain.Collection, record map[string]any) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	now := sqliteNow()
	args := make(map[string]any, len(record)+3)
	for col, value := range record {
		args[col] = value
	}
	args["id"] = uuid.NewString()
	args["created_at"] = now
	args["updated_at"] = now

	cols := submission.Columns(args)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "),
		placeholders(len(cols), func(i int) string { return ":" + cols[i] }))

	if _, err := r.db.NamedExecContext(ctx, query, args); err != nil {
		if isSQLiteUniqueViolation(err) {
			return duplicate("insert "+table, err)
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

type contactRow struct {
	ID            string               `db:"id"`
	FirstName     string               `db:"first_name"`
	LastName      string               `db:"last_name"`
	Email         string               `db:"email"`
	Company       *string              `db:"company"`
	Phone         *string              `db:"phone"`
	InquiryType   *string              `db:"inquiry_type"`
	Message       string               `db:"message"`
	Status        domain.ContactStatus `db:"status"`
	AdminResponse *string              `db:"admin_response"`
	RespondedBy   *string              `db:"responded_by"`
	CreatedAt     string               `db:"created_at"`
	UpdatedAt     string               `db:"updated_at"`
}

func (row contactRow) toDomain() (*domain.ContactSubmission, error) {
	created, err := parseSQLiteTime(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseSQLiteTime(row.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.ContactSubmission{
		ID:            row.ID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		Email:         row.Email,
		Company:       row.Company,
		Phone:         row.Phone,
		InquiryType:   row.InquiryType,
		Message:       row.Message,
		Status:        row.Status,
		AdminResponse: row.AdminResponse,
		RespondedBy:   row.RespondedBy,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

type sqliteContactRepository struct {
	db *sqlx.DB
}

// NewSQLiteContactRepository returns a ContactRepository on the embedded database.
func NewSQLiteContactRepository(db *sqlx.DB) ContactRepository {
	return &sqliteContactRepository{db: db}
}

func (r *sqliteContactRepository) List(ctx context.Context) ([]domain.ContactSubmission, error) {
	var rows []contactRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT `+contactColumns+` FROM contact_submissions ORDER BY created_at DESC, rowid DESC`); err != nil {
		return nil, err
	}
	result := make([]domain.ContactSubmission, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, nil
}

func (r *sqliteContactRepository) GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	var row contactRow
	if err := r.db.GetContext(ctx, &row,
		`SELECT `+contactColumns+` FROM contact_submissions WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *sqliteContactRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_submissions SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		domain.ContactStatusRead, sqliteNow(), id, domain.ContactStatusUnread)
	if err != nil {
		return false, err
	}
	if noRows(res) == nil {
		return true, nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *sqliteContactRepository) Respond(ctx context.Context, id, response, adminID string) (*domain.ContactSubmission, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_submissions SET status = ?, admin_response = ?, responded_by = ?, updated_at = ? WHERE id = ?`,
		domain.ContactStatusResponded, response, adminID, sqliteNow(), id)
	if err != nil {
		return nil, err
	}
	if err := noRows(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

type leadRow struct {
	ID          string  `db:"id"`
	FirstName   *string `db:"first_name"`
	LastName    *string `db:"last_name"`
	Email       string  `db:"email"`
	Company     *string `db:"company"`
	Status      string  `db:"status"`
	RespondedBy *string `db:"responded_by"`
	CreatedAt   string  `db:"created_at"`
}

type sqliteLeadRepository struct {
	db *sqlx.DB
}

// NewSQLiteLeadRepository returns a LeadRepository on the embedded database.
func NewSQLiteLeadRepository(db *sqlx.DB) LeadRepository {
	return &sqliteLeadRepository{db: db}
}

func (r *sqliteLeadRepository) List(ctx context.Context, collection domain.Collection) ([]domain.Lead, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	var rows []leadRow
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC, rowid DESC", leadColumns(collection, ""), table)
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	leads := make([]domain.Lead, 0, len(rows))
	for _, row := range rows {
		created, err := parseSQLiteTime(row.CreatedAt)
		if err != nil {
			return nil, err
		}
		leads = append(leads, domain.Lead{
			ID:          row.ID,
			Collection:  collection,
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			Email:       row.Email,
			Company:     row.Company,
			Status:      row.Status,
			RespondedBy: row.RespondedBy,
			CreatedAt:   created,
		})
	}
	return leads, nil
}

func (r *sqliteLeadRepository) GetStatus(ctx context.Context, collection domain.Collection, id string) (string, error) {
	table, err := tableFor(collection)
	if err != nil {
		return "", err
	}
	var status string
	err = r.db.GetContext(ctx, &status, fmt.Sprintf("SELECT status FROM %s WHERE id = ?", table), id)
	return status, err
}

func (r *sqliteLeadRepository) UpdateStatus(ctx context.Context, collection domain.Collection, id, from, to, adminID string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET status = ?, responded_by = ?, updated_at = ? WHERE id = ? AND status = ?", table),
		to, adminID, sqliteNow(), id, from)
	if err != nil {
		return err
	}
	return noRows(res)
}
