package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

type profileRow struct {
	ID        string      `db:"id"`
	UserID    string      `db:"user_id"`
	FirstName *string     `db:"first_name"`
	LastName  *string     `db:"last_name"`
	Role      domain.Role `db:"role"`
	CreatedAt string      `db:"created_at"`
	UpdatedAt string      `db:"updated_at"`
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewSQLiteUserRepository returns a UserRepository on the embedded database.
func NewSQLiteUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := sqliteNow()
	user.ID = uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, now, now); err != nil {
		if isSQLiteUniqueViolation(err) {
			return duplicate("insert user", err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if profile.Role == "" {
		profile.Role = domain.RoleUser
	}
	profile.ID = uuid.NewString()
	profile.UserID = user.ID
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, first_name, last_name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.UserID, profile.FirstName, profile.LastName, profile.Role, now, now); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	ts, err := parseSQLiteTime(now)
	if err != nil {
		return err
	}
	user.CreatedAt, user.UpdatedAt = ts, ts
	profile.CreatedAt, profile.UpdatedAt = ts, ts
	return nil
}

func (r *sqliteUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?`, id)
}

func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?`, email)
}

func (r *sqliteUserRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		return nil, err
	}
	created, err := parseSQLiteTime(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseSQLiteTime(row.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}

type sqliteProfileRepository struct {
	db *sqlx.DB
}

// NewSQLiteProfileRepository returns a ProfileRepository on the embedded database.
func NewSQLiteProfileRepository(db *sqlx.DB) ProfileRepository {
	return &sqliteProfileRepository{db: db}
}

func (r *sqliteProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var row profileRow
	if err := r.db.GetContext(ctx, &row,
		`SELECT id, user_id, first_name, last_name, role, created_at, updated_at FROM profiles WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	created, err := parseSQLiteTime(row.CreatedAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseSQLiteTime(row.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		ID:        row.ID,
		UserID:    row.UserID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Role:      row.Role,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

func (r *sqliteProfileRepository) SetRole(ctx context.Context, userID string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET role = ?, updated_at = ? WHERE user_id = ?`, role, sqliteNow(), userID)
	if err != nil {
		return err
	}
	return noRows(res)
}
