// Package submission turns validated drafts into exactly one insert against a named
// collection and classifies what happened.
package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Outcome classifies a submission attempt.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeConflict
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeConflict:
		return "conflict"
	default:
		return "failed"
	}
}

// Result carries the outcome and, when not OK, the underlying error.
type Result struct {
	Outcome Outcome
	Err     error
}

// Store inserts a single record into a collection.
type Store interface {
	Insert(ctx context.Context, collection domain.Collection, record map[string]any) error
}

// Client performs at-most-once inserts. It never retries.
type Client struct {
	store  Store
	logger *zap.Logger
}

func NewClient(store Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{store: store, logger: logger}
}

// Submit maps draft through mapping and inserts it into collection.
func (c *Client) Submit(ctx context.Context, collection domain.Collection, mapping Mapping, draft map[string]string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("submission store panicked", zap.String("collection", string(collection)), zap.Any("panic", r))
			res = Result{Outcome: OutcomeFailed, Err: fmt.Errorf("store panic: %v", r)}
		}
	}()

	err := c.store.Insert(ctx, collection, mapping.Record(draft))
	if err == nil {
		return Result{Outcome: OutcomeOK}
	}
	if IsUniqueViolation(err) {
		c.logger.Info("submission rejected as duplicate", zap.String("collection", string(collection)))
		return Result{Outcome: OutcomeConflict, Err: err}
	}
	c.logger.Warn("submission insert failed", zap.String("collection", string(collection)), zap.Error(err))
	return Result{Outcome: OutcomeFailed, Err: err}
}

// IsUniqueViolation reports whether err stems from a uniqueness constraint.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, domain.ErrDuplicate) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
