// Package triage implements the admin view over contact submissions: list, select
// (which marks unread rows read) and respond.
package triage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/notify"
	"github.com/spec-kit/lead-capture-service/internal/session"
)

var (
	ErrAccessDenied      = errors.New("triage requires an admin session")
	ErrEmptyResponse     = errors.New("response text is empty")
	ErrAlreadyResponded  = errors.New("submission already responded")
	ErrUnknownSubmission = errors.New("submission not loaded")
)

// Backend is the remote side of the triage view.
type Backend interface {
	ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error)
	MarkContactRead(ctx context.Context, id string) error
	RespondToContact(ctx context.Context, id, response, adminID string) (*domain.ContactSubmission, error)
}

// View holds the loaded submissions, the active selection and the response draft.
type View struct {
	session  *session.Context
	backend  Backend
	notifier notify.Notifier
	logger   *zap.Logger

	mu            sync.Mutex
	rows          []domain.ContactSubmission
	selected      string
	draft         string
	readRequested map[string]bool
}

func NewView(sess *session.Context, backend Backend, notifier notify.Notifier, logger *zap.Logger) *View {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View{
		session:       sess,
		backend:       backend,
		notifier:      notifier,
		logger:        logger,
		readRequested: map[string]bool{},
	}
}

// Load checks access and fetches every submission, newest first. Signed-out and
// non-admin sessions get ErrAccessDenied before anything is fetched.
func (v *View) Load(ctx context.Context) error {
	if v.session == nil || !v.session.IsAdmin() {
		return ErrAccessDenied
	}
	rows, err := v.backend.ListContactSubmissions(ctx)
	if err != nil {
		v.logger.Error("failed to load contact submissions", zap.Error(err))
		v.notifier.Notify(notify.Failure("Error", "Failed to load contact submissions."))
		return err
	}
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
	return nil
}

// Submissions returns the loaded rows in load order.
func (v *View) Submissions() []domain.ContactSubmission {
	return v.Filter("")
}

// Filter narrows the loaded rows by status for display. An empty status keeps all rows.
func (v *View) Filter(status domain.ContactStatus) []domain.ContactSubmission {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.ContactSubmission, 0, len(v.rows))
	for _, row := range v.rows {
		if status == "" || row.Status == status {
			out = append(out, row)
		}
	}
	return out
}

// Selected returns the active row.
func (v *View) Selected() (domain.ContactSubmission, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == "" {
		return domain.ContactSubmission{}, false
	}
	idx := v.indexOf(v.selected)
	if idx < 0 {
		return domain.ContactSubmission{}, false
	}
	return v.rows[idx], true
}

// Select makes id the active row. An unread row is flipped to read locally before the
// remote update, and the remote update is issued at most once per row. A failed remote
// update leaves the local status at read.
func (v *View) Select(ctx context.Context, id string) error {
	v.mu.Lock()
	idx := v.indexOf(id)
	if idx < 0 {
		v.mu.Unlock()
		return ErrUnknownSubmission
	}
	v.selected = id
	markRead := v.rows[idx].Status == domain.ContactStatusUnread && !v.readRequested[id]
	if markRead {
		v.rows[idx].Status = domain.ContactStatusRead
		v.readRequested[id] = true
	}
	v.mu.Unlock()

	if !markRead {
		return nil
	}
	if err := v.backend.MarkContactRead(ctx, id); err != nil {
		v.logger.Warn("mark as read failed; keeping local status", zap.String("submission_id", id), zap.Error(err))
	}
	return nil
}

// SetResponseDraft stores the text being typed for the selected row.
func (v *View) SetResponseDraft(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = text
}

func (v *View) ResponseDraft() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// Respond saves text as the admin response for id in one remote update. Whitespace-only
// text is rejected without contacting the backend.
func (v *View) Respond(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyResponse
	}

	v.mu.Lock()
	idx := v.indexOf(id)
	if idx < 0 {
		v.mu.Unlock()
		return ErrUnknownSubmission
	}
	status := v.rows[idx].Status
	v.mu.Unlock()

	switch status {
	case domain.ContactStatusResponded:
		return ErrAlreadyResponded
	case domain.ContactStatusUnread:
		// responded is only reachable through read.
		if err := v.Select(ctx, id); err != nil {
			return err
		}
	}

	adminID := v.session.UserID()
	updated, err := v.backend.RespondToContact(ctx, id, text, adminID)
	if err != nil {
		v.logger.Error("failed to save admin response", zap.String("submission_id", id), zap.Error(err))
		v.notifier.Notify(notify.Failure("Error", "Failed to save response."))
		return err
	}

	v.mu.Lock()
	if idx := v.indexOf(id); idx >= 0 {
		if updated != nil {
			v.rows[idx] = *updated
		} else {
			row := &v.rows[idx]
			row.Status = domain.ContactStatusResponded
			row.AdminResponse = &text
			row.RespondedBy = &adminID
		}
	}
	v.draft = ""
	v.selected = ""
	v.mu.Unlock()

	v.notifier.Notify(notify.Success("Response sent", "Admin response has been saved."))
	return nil
}

func (v *View) indexOf(id string) int {
	for i := range v.rows {
		if v.rows[i].ID == id {
			return i
		}
	}
	return -1
}
