package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/events"
	"github.com/spec-kit/lead-capture-service/internal/repository"
	"github.com/spec-kit/lead-capture-service/internal/submission"
	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

// LeadService accepts form submissions and triages demo, trial and quote requests.
type LeadService struct {
	client     *submission.Client
	leads      repository.LeadRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	Records    repository.RecordStore
	Leads      repository.LeadRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

func NewLeadService(deps LeadDependencies) *LeadService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadService{
		client:     submission.NewClient(deps.Records, logger),
		leads:      deps.Leads,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Submit inserts one draft and announces it when the insert succeeds.
func (s *LeadService) Submit(ctx context.Context, collection domain.Collection, mapping submission.Mapping, draft map[string]string) submission.Result {
	res := s.client.Submit(ctx, collection, mapping, draft)
	if res.Outcome != submission.OutcomeOK {
		return res
	}

	record := mapping.Record(draft)
	form := string(collection)
	if inquiry, ok := record["inquiry_type"].(string); ok && inquiry != "" {
		form = inquiry
	}
	message, _ := record["message"].(string)
	company, _ := record["company"].(string)
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventSubmissionReceived, collection, "", events.Actor{},
		events.SubmissionReceivedPayload{
			Form:    form,
			Name:    strings.TrimSpace(draft["firstName"] + " " + draft["lastName"]),
			Email:   draft["email"],
			Company: company,
			Message: message,
		}))
	return res
}

// List returns the rows of a lead collection, newest first.
func (s *LeadService) List(ctx context.Context, collection domain.Collection) ([]domain.Lead, error) {
	leads, err := s.leads.List(ctx, collection)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownCollection) {
			return nil, apperrors.NewNotFound("collection", map[string]any{"collection": collection})
		}
		return nil, err
	}
	return leads, nil
}

// UpdateStatus moves a demo, trial or quote request along pending -> approved|rejected.
func (s *LeadService) UpdateStatus(ctx context.Context, collection domain.Collection, id string, next domain.RequestStatus, adminID string) error {
	switch collection {
	case domain.CollectionDemo, domain.CollectionTrial, domain.CollectionQuote:
	default:
		return apperrors.NewValidationError(fmt.Sprintf("%s rows have no request status", collection), nil)
	}
	if !next.Valid() {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": next})
	}

	current, err := s.leads.GetStatus(ctx, collection, id)
	if err != nil {
		return err
	}
	from := domain.RequestStatus(current)
	if !from.CanTransitionTo(next) {
		return apperrors.NewValidationError("invalid status transition", map[string]any{"from": from, "to": next})
	}

	if err := s.leads.UpdateStatus(ctx, collection, id, string(from), string(next), adminID); err != nil {
		if isNotFound(err) {
			return apperrors.NewConflict("status changed concurrently", map[string]any{"id": id})
		}
		return err
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventLeadStatusChanged, collection, id, events.ActorFor(adminID),
		events.LeadStatusChangedPayload{OldStatus: string(from), NewStatus: string(next)}))
	return nil
}
