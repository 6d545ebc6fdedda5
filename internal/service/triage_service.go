package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/events"
	"github.com/spec-kit/lead-capture-service/internal/repository"
)

// TriageService is the backend of the admin triage view.
type TriageService struct {
	contacts   repository.ContactRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func NewTriageService(contacts repository.ContactRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TriageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{contacts: contacts, dispatcher: dispatcher, logger: logger}
}

// ListContactSubmissions returns every contact submission, newest first.
func (s *TriageService) ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	return s.contacts.List(ctx)
}

// MarkContactRead moves an unread submission to read. Rows past unread are left alone.
func (s *TriageService) MarkContactRead(ctx context.Context, id string) error {
	changed, err := s.contacts.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if changed {
		publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventSubmissionRead, domain.CollectionContact, id, events.Actor{}, nil))
	}
	return nil
}

// RespondToContact records the admin response. An unread row is marked read first so the
// stored status never skips read. Concurrent responses are last-write-wins.
func (s *TriageService) RespondToContact(ctx context.Context, id, response, adminID string) (*domain.ContactSubmission, error) {
	current, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.ContactStatusUnread {
		if err := s.MarkContactRead(ctx, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.contacts.Respond(ctx, id, response, adminID)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventSubmissionResponded, domain.CollectionContact, id, events.ActorFor(adminID),
		events.SubmissionRespondedPayload{
			Name:     updated.FullName(),
			Email:    updated.Email,
			Response: response,
		}))
	return updated, nil
}
