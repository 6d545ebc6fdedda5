package submission

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

type fakeStore struct {
	calls      int
	collection domain.Collection
	record     map[string]any
	err        error
	panicWith  any
}

func (f *fakeStore) Insert(_ context.Context, collection domain.Collection, record map[string]any) error {
	f.calls++
	f.collection = collection
	f.record = record
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.err
}

var newsletterMapping = Mapping{
	Fields: []FieldMapping{
		{Field: "email", Column: "email"},
		{Field: "firstName", Column: "first_name", Optional: true},
	},
	Fixed: map[string]any{"status": "active", "subscription_type": "general"},
}

func TestClient_Submit_OK(t *testing.T) {
	store := &fakeStore{}
	res := NewClient(store, nil).Submit(context.Background(), domain.CollectionNewsletter, newsletterMapping,
		map[string]string{"email": "a@b.co", "firstName": ""})

	if res.Outcome != OutcomeOK || res.Err != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if store.calls != 1 || store.collection != domain.CollectionNewsletter {
		t.Fatalf("unexpected store usage: %d calls to %q", store.calls, store.collection)
	}
	if v, ok := store.record["first_name"]; !ok || v != nil {
		t.Errorf("empty optional field should map to nil, got %#v", v)
	}
	if store.record["status"] != "active" || store.record["subscription_type"] != "general" {
		t.Errorf("fixed columns missing: %#v", store.record)
	}
}

func TestClient_Submit_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Outcome
	}{
		{"domain duplicate", fmt.Errorf("insert: %w", domain.ErrDuplicate), OutcomeConflict},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, OutcomeConflict},
		{"other postgres error", &pgconn.PgError{Code: "23502"}, OutcomeFailed},
		{"transport error", errors.New("connection refused"), OutcomeFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{err: tc.err}
			res := NewClient(store, nil).Submit(context.Background(), domain.CollectionDemo, newsletterMapping, map[string]string{})
			if res.Outcome != tc.want {
				t.Errorf("got %v, want %v", res.Outcome, tc.want)
			}
			if store.calls != 1 {
				t.Errorf("expected exactly one insert, got %d", store.calls)
			}
		})
	}
}

func TestClient_Submit_PanicIsFailure(t *testing.T) {
	store := &fakeStore{panicWith: "boom"}
	res := NewClient(store, nil).Submit(context.Background(), domain.CollectionQuote, newsletterMapping, map[string]string{})
	if res.Outcome != OutcomeFailed || res.Err == nil {
		t.Fatalf("expected failed outcome, got %+v", res)
	}
}

func TestMapping_Record_Derived(t *testing.T) {
	m := Mapping{
		Fields: []FieldMapping{{Field: "company", Column: "company", Optional: true}},
		Derived: []DerivedColumn{{
			Column:  "message",
			Compose: func(d map[string]string) any { return "Goal: " + d["goal"] },
		}},
	}
	record := m.Record(map[string]string{"company": "Acme", "goal": "scale"})
	if record["company"] != "Acme" || record["message"] != "Goal: scale" {
		t.Fatalf("unexpected record %#v", record)
	}
	if cols := Columns(record); len(cols) != 2 || cols[0] != "company" {
		t.Errorf("unexpected columns %v", cols)
	}
}
