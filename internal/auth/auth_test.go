package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

type fakeUsers struct {
	users map[string]*domain.User
}

func (f *fakeUsers) CreateWithProfile(context.Context, *domain.User, *domain.Profile) error {
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

type fakeProfiles struct {
	profiles map[string]*domain.Profile
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProfiles) SetRole(context.Context, string, domain.Role) error {
	return nil
}

type memoryRevocations struct {
	revoked map[string]time.Time
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.revoked[tokenID] = until
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func newTestApp(t *testing.T, tokens *TokenManager, revocations *memoryRevocations) *fiber.App {
	t.Helper()
	users := &fakeUsers{users: map[string]*domain.User{
		"admin-1":  {ID: "admin-1", Email: "admin@payflow.io"},
		"member-1": {ID: "member-1", Email: "member@payflow.io"},
	}}
	profiles := &fakeProfiles{profiles: map[string]*domain.Profile{
		"admin-1":  {UserID: "admin-1", Role: domain.RoleAdmin},
		"member-1": {UserID: "member-1", Role: domain.RoleUser},
	}}
	mw := NewSessionMiddleware(tokens, users, profiles, revocations, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.SendStatus(domainErr.HTTPStatus)
		},
	})
	app.Use(mw.Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		sess := SessionFromContext(c)
		if sess.Loading() {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(sess.UserID())
	})
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Post("/logout", RequireSignedIn(), func(c *fiber.Ctx) error {
		if err := SessionFromContext(c).SignOut(c.UserContext()); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func get(t *testing.T, app *fiber.App, method, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	buf := make([]byte, 128)
	n, _ := resp.Body.Read(buf)
	return resp.StatusCode, string(buf[:n])
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	issued, err := tm.GenerateToken("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := tm.ParseToken(issued.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.ID != issued.ID || claims.Role != domain.RoleAdmin {
		t.Errorf("unexpected claims %+v", claims)
	}

	other := NewTokenManager("different", 5)
	if _, err := other.ParseToken(issued.Token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ComparePassword(hash, "correct horse") != nil {
		t.Error("expected match")
	}
	if err := ComparePassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := ComparePassword("not-a-hash", "correct horse"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("malformed hash should read as a mismatch, got %v", err)
	}
}

func TestSessionMiddleware_AnonymousAndSignedIn(t *testing.T) {
	tokens := NewTokenManager("secret", 5)
	app := newTestApp(t, tokens, &memoryRevocations{revoked: map[string]time.Time{}})

	if status, body := get(t, app, "GET", "/whoami", ""); status != 200 || body != "" {
		t.Fatalf("anonymous: %d %q", status, body)
	}
	if status, _ := get(t, app, "GET", "/whoami", "garbage"); status != 200 {
		t.Fatalf("invalid token should continue anonymously, got %d", status)
	}

	issued, _ := tokens.GenerateToken("member-1", domain.RoleUser)
	if status, body := get(t, app, "GET", "/whoami", issued.Token); status != 200 || body != "member-1" {
		t.Fatalf("signed in: %d %q", status, body)
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := NewTokenManager("secret", 5)
	app := newTestApp(t, tokens, &memoryRevocations{revoked: map[string]time.Time{}})

	if status, _ := get(t, app, "GET", "/admin", ""); status != fiber.StatusUnauthorized {
		t.Errorf("anonymous: expected 401, got %d", status)
	}
	member, _ := tokens.GenerateToken("member-1", domain.RoleAdmin)
	if status, _ := get(t, app, "GET", "/admin", member.Token); status != fiber.StatusForbidden {
		t.Errorf("role claim must not override the profile: expected 403, got %d", status)
	}
	admin, _ := tokens.GenerateToken("admin-1", domain.RoleAdmin)
	if status, _ := get(t, app, "GET", "/admin", admin.Token); status != fiber.StatusNoContent {
		t.Errorf("admin: expected 204, got %d", status)
	}
}

func TestSessionMiddleware_SignOutRevokesToken(t *testing.T) {
	tokens := NewTokenManager("secret", 5)
	revocations := &memoryRevocations{revoked: map[string]time.Time{}}
	app := newTestApp(t, tokens, revocations)
	issued, _ := tokens.GenerateToken("admin-1", domain.RoleAdmin)

	if status, _ := get(t, app, "POST", "/logout", issued.Token); status != fiber.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", status)
	}
	if _, ok := revocations.revoked[issued.ID]; !ok {
		t.Fatal("token id should be revoked")
	}
	if status, body := get(t, app, "GET", "/whoami", issued.Token); status != 200 || body != "" {
		t.Fatalf("revoked token should be anonymous, got %d %q", status, body)
	}
}
