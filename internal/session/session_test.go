package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

type fakeRevoker struct {
	tokenID string
	until   time.Time
	err     error
}

func (f *fakeRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	f.tokenID = tokenID
	f.until = until
	return f.err
}

func TestContext_Lifecycle(t *testing.T) {
	revoker := &fakeRevoker{}
	sess := New(revoker)
	if !sess.Loading() || sess.SignedIn() {
		t.Fatal("new context should be loading and signed out")
	}

	expires := time.Now().Add(time.Hour)
	sess.Establish(&domain.User{ID: "u1"}, &domain.Profile{UserID: "u1", Role: domain.RoleAdmin}, "tok-1", expires)

	if sess.Loading() || !sess.SignedIn() || !sess.IsAdmin() || sess.UserID() != "u1" {
		t.Fatal("expected signed-in admin")
	}

	if err := sess.SignOut(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.SignedIn() || sess.IsAdmin() || sess.Profile() != nil {
		t.Error("identity should be cleared after sign-out")
	}
	if revoker.tokenID != "tok-1" || !revoker.until.Equal(expires) {
		t.Errorf("unexpected revocation %+v", revoker)
	}
}

func TestContext_ProfileIsCopy(t *testing.T) {
	sess := New(nil)
	sess.Establish(&domain.User{ID: "u1"}, &domain.Profile{Role: domain.RoleUser}, "", time.Time{})

	p := sess.Profile()
	p.Role = domain.RoleAdmin
	if sess.IsAdmin() {
		t.Fatal("mutating the returned profile must not change the session role")
	}
}

func TestContext_SignOutClearsOnRevokeError(t *testing.T) {
	sess := New(&fakeRevoker{err: errors.New("redis down")})
	sess.Establish(&domain.User{ID: "u1"}, nil, "tok", time.Now())

	if err := sess.SignOut(context.Background()); err == nil {
		t.Fatal("expected revoke error")
	}
	if sess.SignedIn() {
		t.Error("identity should be cleared even when revocation fails")
	}
}

func TestContext_FinishWithoutIdentity(t *testing.T) {
	sess := New(nil)
	sess.Finish()
	if sess.Loading() || sess.SignedIn() || sess.UserID() != "" {
		t.Fatal("expected finished, signed-out context")
	}
	if err := sess.SignOut(context.Background()); err != nil {
		t.Fatalf("sign-out of anonymous session should succeed: %v", err)
	}
}
