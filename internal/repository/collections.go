package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

// ErrUnknownCollection is returned for collection names outside the lead tables.
var ErrUnknownCollection = errors.New("unknown collection")

var knownCollections = map[domain.Collection]bool{
	domain.CollectionContact:    true,
	domain.CollectionDemo:       true,
	domain.CollectionTrial:      true,
	domain.CollectionQuote:      true,
	domain.CollectionNewsletter: true,
}

func tableFor(collection domain.Collection) (string, error) {
	if !knownCollections[collection] {
		return "", fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return string(collection), nil
}

// leadColumns returns the select list shared by every lead table.
func leadColumns(collection domain.Collection, nullCast string) string {
	if collection == domain.CollectionNewsletter {
		return "id, first_name, last_name, email, NULL" + nullCast + " AS company, status, NULL" + nullCast + " AS responded_by, created_at"
	}
	return "id, first_name, last_name, email, company, status, responded_by, created_at"
}

func placeholders(n int, next func(i int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = next(i)
	}
	return strings.Join(parts, ", ")
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func duplicate(op string, err error) error {
	return fmt.Errorf("%s: %w (%v)", op, domain.ErrDuplicate, err)
}
