package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/notify"
	"github.com/spec-kit/lead-capture-service/internal/session"
)

type fakeBackend struct {
	rows         []domain.ContactSubmission
	listCalls    int
	markCalls    int
	respondCalls int
	markErr      error
	respondErr   error
	lastAdmin    string
}

func (f *fakeBackend) ListContactSubmissions(context.Context) ([]domain.ContactSubmission, error) {
	f.listCalls++
	out := make([]domain.ContactSubmission, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeBackend) MarkContactRead(context.Context, string) error {
	f.markCalls++
	return f.markErr
}

func (f *fakeBackend) RespondToContact(_ context.Context, id, response, adminID string) (*domain.ContactSubmission, error) {
	f.respondCalls++
	f.lastAdmin = adminID
	if f.respondErr != nil {
		return nil, f.respondErr
	}
	return &domain.ContactSubmission{ID: id, Status: domain.ContactStatusResponded, AdminResponse: &response, RespondedBy: &adminID}, nil
}

func adminSession() *session.Context {
	sess := session.New(nil)
	sess.Establish(&domain.User{ID: "admin-1"}, &domain.Profile{UserID: "admin-1", Role: domain.RoleAdmin}, "tok", time.Now().Add(time.Hour))
	return sess
}

func seededBackend() *fakeBackend {
	return &fakeBackend{rows: []domain.ContactSubmission{
		{ID: "s2", FirstName: "Jane", Status: domain.ContactStatusUnread},
		{ID: "s1", FirstName: "John", Status: domain.ContactStatusRead},
		{ID: "s0", FirstName: "Old", Status: domain.ContactStatusResponded},
	}}
}

func loadedView(t *testing.T, backend *fakeBackend, recorder *notify.Recorder) *View {
	t.Helper()
	if recorder == nil {
		recorder = notify.NewRecorder()
	}
	view := NewView(adminSession(), backend, recorder, nil)
	if err := view.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return view
}

func statusOf(v *View, id string) domain.ContactStatus {
	for _, row := range v.Submissions() {
		if row.ID == id {
			return row.Status
		}
	}
	return ""
}

func TestView_Load_DeniesBeforeFetch(t *testing.T) {
	anonymous := session.New(nil)
	anonymous.Finish()
	member := session.New(nil)
	member.Establish(&domain.User{ID: "u"}, &domain.Profile{Role: domain.RoleUser}, "", time.Time{})

	for name, sess := range map[string]*session.Context{"signed out": anonymous, "non-admin": member} {
		backend := seededBackend()
		err := NewView(sess, backend, nil, nil).Load(context.Background())
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("%s: expected ErrAccessDenied, got %v", name, err)
		}
		if backend.listCalls != 0 {
			t.Errorf("%s: fetched before access check", name)
		}
	}
}

func TestView_Filter(t *testing.T) {
	view := loadedView(t, seededBackend(), nil)
	if got := view.Filter(domain.ContactStatusUnread); len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("unexpected unread rows %+v", got)
	}
	if got := view.Submissions(); len(got) != 3 || got[0].ID != "s2" {
		t.Errorf("expected backend order preserved, got %+v", got)
	}
}

func TestView_Select_MarksReadOnce(t *testing.T) {
	backend := seededBackend()
	view := loadedView(t, backend, nil)

	for i := 0; i < 3; i++ {
		if err := view.Select(context.Background(), "s2"); err != nil {
			t.Fatalf("select: %v", err)
		}
	}
	if backend.markCalls != 1 {
		t.Fatalf("expected one remote mark-read, got %d", backend.markCalls)
	}
	if statusOf(view, "s2") != domain.ContactStatusRead {
		t.Errorf("expected read, got %s", statusOf(view, "s2"))
	}

	if err := view.Select(context.Background(), "s1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if backend.markCalls != 1 {
		t.Error("selecting a read row must not issue an update")
	}
	if selected, ok := view.Selected(); !ok || selected.ID != "s1" {
		t.Errorf("unexpected selection %+v", selected)
	}
}

func TestView_Select_FailedMarkReadKeepsLocalRead(t *testing.T) {
	backend := seededBackend()
	backend.markErr = errors.New("network down")
	view := loadedView(t, backend, nil)

	if err := view.Select(context.Background(), "s2"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if backend.markCalls != 1 {
		t.Fatalf("expected one remote call, got %d", backend.markCalls)
	}
	if statusOf(view, "s2") != domain.ContactStatusRead {
		t.Fatalf("local status should stay read after a failed update, got %s", statusOf(view, "s2"))
	}
}

func TestView_Respond_WhitespaceRejectedLocally(t *testing.T) {
	backend := seededBackend()
	view := loadedView(t, backend, nil)

	if err := view.Respond(context.Background(), "s1", "  \n\t "); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if backend.respondCalls != 0 {
		t.Error("no remote update expected")
	}
	if statusOf(view, "s1") != domain.ContactStatusRead {
		t.Error("status must be unchanged")
	}
}

func TestView_Respond_Success(t *testing.T) {
	backend := seededBackend()
	recorder := notify.NewRecorder()
	view := loadedView(t, backend, recorder)
	_ = view.Select(context.Background(), "s1")
	view.SetResponseDraft("Thanks, we'll call you")

	if err := view.Respond(context.Background(), "s1", view.ResponseDraft()); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if backend.respondCalls != 1 || backend.lastAdmin != "admin-1" {
		t.Fatalf("unexpected backend usage calls=%d admin=%q", backend.respondCalls, backend.lastAdmin)
	}
	if statusOf(view, "s1") != domain.ContactStatusResponded {
		t.Error("local row should be responded")
	}
	if view.ResponseDraft() != "" {
		t.Error("draft should be cleared")
	}
	if _, ok := view.Selected(); ok {
		t.Error("selection should be cleared")
	}
	last, _ := recorder.Last()
	if last.Title != "Response sent" {
		t.Errorf("unexpected notification %+v", last)
	}
}

func TestView_Respond_UnreadPassesThroughRead(t *testing.T) {
	backend := seededBackend()
	view := loadedView(t, backend, nil)

	if err := view.Respond(context.Background(), "s2", "hello"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if backend.markCalls != 1 || backend.respondCalls != 1 {
		t.Errorf("expected mark-read then respond, got mark=%d respond=%d", backend.markCalls, backend.respondCalls)
	}
}

func TestView_Respond_FailureLeavesState(t *testing.T) {
	backend := seededBackend()
	backend.respondErr = errors.New("timeout")
	recorder := notify.NewRecorder()
	view := loadedView(t, backend, recorder)
	_ = view.Select(context.Background(), "s1")
	view.SetResponseDraft("draft text")

	if err := view.Respond(context.Background(), "s1", "draft text"); err == nil {
		t.Fatal("expected error")
	}
	if statusOf(view, "s1") != domain.ContactStatusRead || view.ResponseDraft() != "draft text" {
		t.Error("local state must be unchanged after failure")
	}
	last, _ := recorder.Last()
	if last.Title != "Error" || last.Description != "Failed to save response." {
		t.Errorf("unexpected notification %+v", last)
	}
}

func TestView_Respond_AlreadyResponded(t *testing.T) {
	backend := seededBackend()
	view := loadedView(t, backend, nil)
	if err := view.Respond(context.Background(), "s0", "again"); !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("expected ErrAlreadyResponded, got %v", err)
	}
	if err := view.Respond(context.Background(), "missing", "x"); !errors.Is(err, ErrUnknownSubmission) {
		t.Fatalf("expected ErrUnknownSubmission, got %v", err)
	}
	if backend.respondCalls != 0 {
		t.Error("no remote update expected")
	}
}
