package events

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

func TestDispatcher_PublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventSubmissionReceived, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("mail down")
	})
	d.Subscribe(EventSubmissionReceived, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventSubmissionRead, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), New(EventSubmissionReceived, domain.CollectionContact, "s1", Actor{}, nil))
	if err == nil {
		t.Fatal("expected handler error to be reported")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestNew_StampsEvent(t *testing.T) {
	e := New(EventSubmissionResponded, domain.CollectionContact, "s1", ActorFor("admin-1"), nil)
	if e.ID == "" || e.Timestamp.IsZero() || e.Actor.UserID == nil || *e.Actor.UserID != "admin-1" {
		t.Fatalf("unexpected event %+v", e)
	}
	if ActorFor("").UserID != nil {
		t.Error("empty user id should be anonymous")
	}
}

func TestDispatcher_PanickingHandlerIsContained(t *testing.T) {
	d := NewInMemoryDispatcher()
	ran := false
	d.Subscribe(EventLeadStatusChanged, func(context.Context, Event) error {
		panic("boom")
	})
	d.Subscribe(EventLeadStatusChanged, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), New(EventLeadStatusChanged, domain.CollectionDemo, "d1", Actor{}, nil))
	if err == nil || !ran {
		t.Fatalf("expected the panic reported and later handlers run, err=%v ran=%v", err, ran)
	}
}
