package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/config"
	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/persistence"
	"github.com/spec-kit/lead-capture-service/internal/submission"
)

func openTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	cfg := &config.Config{
		Store:  config.StoreConfig{Driver: config.StoreDriverSQLite, RunMigrations: true},
		SQLite: config.SQLiteConfig{Path: ":memory:"},
	}
	store, err := persistence.OpenStore(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)
	return New(store)
}

func insertContact(t *testing.T, repos *Repositories, first string) {
	t.Helper()
	err := repos.Records.Insert(context.Background(), domain.CollectionContact, map[string]any{
		"first_name": first,
		"last_name":  "Doe",
		"email":      "john@acme.com",
		"company":    nil,
		"message":    "need pricing",
		"status":     "unread",
	})
	if err != nil {
		t.Fatalf("insert contact: %v", err)
	}
}

func TestSQLiteContacts_InsertAndListNewestFirst(t *testing.T) {
	repos := openTestRepositories(t)
	insertContact(t, repos, "First")
	insertContact(t, repos, "Second")

	rows, err := repos.Contacts.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].FirstName != "Second" || rows[1].FirstName != "First" {
		t.Errorf("expected newest first, got %s, %s", rows[0].FirstName, rows[1].FirstName)
	}
	if rows[0].Status != domain.ContactStatusUnread || rows[0].Company != nil || rows[0].ID == "" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	if rows[0].CreatedAt.IsZero() {
		t.Error("created_at should be parsed")
	}
}

func TestSQLiteContacts_MarkReadIsMonotonic(t *testing.T) {
	repos := openTestRepositories(t)
	insertContact(t, repos, "John")
	rows, _ := repos.Contacts.List(context.Background())
	id := rows[0].ID

	changed, err := repos.Contacts.MarkRead(context.Background(), id)
	if err != nil || !changed {
		t.Fatalf("first mark-read: changed=%v err=%v", changed, err)
	}
	changed, err = repos.Contacts.MarkRead(context.Background(), id)
	if err != nil || changed {
		t.Fatalf("second mark-read should be a no-op: changed=%v err=%v", changed, err)
	}

	responded, err := repos.Contacts.Respond(context.Background(), id, "We'll call you", "admin-1")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if responded.Status != domain.ContactStatusResponded || *responded.AdminResponse != "We'll call you" || *responded.RespondedBy != "admin-1" {
		t.Errorf("unexpected responded row %+v", responded)
	}

	changed, err = repos.Contacts.MarkRead(context.Background(), id)
	if err != nil || changed {
		t.Fatalf("responded rows must not regress: changed=%v err=%v", changed, err)
	}
	got, _ := repos.Contacts.GetByID(context.Background(), id)
	if got.Status != domain.ContactStatusResponded {
		t.Errorf("status regressed to %s", got.Status)
	}

	if _, err := repos.Contacts.MarkRead(context.Background(), "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestSQLiteRecords_NewsletterDuplicate(t *testing.T) {
	repos := openTestRepositories(t)
	record := map[string]any{"email": "jane@acme.com", "first_name": nil, "last_name": nil, "status": "active", "subscription_type": "general"}

	if err := repos.Records.Insert(context.Background(), domain.CollectionNewsletter, record); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := repos.Records.Insert(context.Background(), domain.CollectionNewsletter, record)
	if !errors.Is(err, domain.ErrDuplicate) || !submission.IsUniqueViolation(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestSQLiteRecords_UnknownCollection(t *testing.T) {
	repos := openTestRepositories(t)
	err := repos.Records.Insert(context.Background(), domain.Collection("users"), map[string]any{"email": "x"})
	if !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestSQLiteLeads_StatusTransition(t *testing.T) {
	repos := openTestRepositories(t)
	err := repos.Records.Insert(context.Background(), domain.CollectionDemo, map[string]any{
		"first_name": "Ana", "last_name": "Lee", "email": "ana@shop.io", "company": "Shop", "status": "pending",
	})
	if err != nil {
		t.Fatalf("insert demo: %v", err)
	}

	leads, err := repos.Leads.List(context.Background(), domain.CollectionDemo)
	if err != nil || len(leads) != 1 {
		t.Fatalf("list: %v (%d rows)", err, len(leads))
	}
	lead := leads[0]
	if lead.Status != "pending" || lead.Company == nil || *lead.Company != "Shop" || lead.Collection != domain.CollectionDemo {
		t.Errorf("unexpected lead %+v", lead)
	}

	if err := repos.Leads.UpdateStatus(context.Background(), domain.CollectionDemo, lead.ID, "pending", "approved", "admin-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := repos.Leads.UpdateStatus(context.Background(), domain.CollectionDemo, lead.ID, "pending", "rejected", "admin-1"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("stale transition should match no rows, got %v", err)
	}
	status, err := repos.Leads.GetStatus(context.Background(), domain.CollectionDemo, lead.ID)
	if err != nil || status != "approved" {
		t.Fatalf("expected approved, got %q (%v)", status, err)
	}
}

func TestSQLiteLeads_NewsletterList(t *testing.T) {
	repos := openTestRepositories(t)
	record := map[string]any{"email": "jane@acme.com", "first_name": "Jane", "last_name": nil, "status": "active", "subscription_type": "general"}
	if err := repos.Records.Insert(context.Background(), domain.CollectionNewsletter, record); err != nil {
		t.Fatalf("insert: %v", err)
	}
	leads, err := repos.Leads.List(context.Background(), domain.CollectionNewsletter)
	if err != nil || len(leads) != 1 {
		t.Fatalf("list: %v (%d rows)", err, len(leads))
	}
	if leads[0].Company != nil || leads[0].LastName != nil || *leads[0].FirstName != "Jane" {
		t.Errorf("unexpected lead %+v", leads[0])
	}
}

func TestSQLiteUsers_CreateWithProfile(t *testing.T) {
	repos := openTestRepositories(t)
	first := "Ada"
	user := &domain.User{Email: "ada@payflow.io", PasswordHash: "hash"}
	profile := &domain.Profile{FirstName: &first}

	if err := repos.Users.CreateWithProfile(context.Background(), user, profile); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" || profile.UserID != user.ID || profile.Role != domain.RoleUser {
		t.Fatalf("unexpected ids user=%+v profile=%+v", user, profile)
	}

	got, err := repos.Users.GetByEmail(context.Background(), "ada@payflow.io")
	if err != nil || got.ID != user.ID {
		t.Fatalf("get by email: %+v, %v", got, err)
	}

	dup := &domain.User{Email: "ada@payflow.io", PasswordHash: "other"}
	if err := repos.Users.CreateWithProfile(context.Background(), dup, &domain.Profile{}); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	if err := repos.Profiles.SetRole(context.Background(), user.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	p, err := repos.Profiles.GetByUserID(context.Background(), user.ID)
	if err != nil || !p.IsAdmin() || *p.FirstName != "Ada" {
		t.Fatalf("unexpected profile %+v, %v", p, err)
	}
}
