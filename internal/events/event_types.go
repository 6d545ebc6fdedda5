package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lead-capture-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionReceived  EventType = "submission_received"
	EventSubmissionRead      EventType = "submission_read"
	EventSubmissionResponded EventType = "submission_responded"
	EventLeadStatusChanged   EventType = "lead_status_changed"
)

// Actor is the signed-in user behind an event. Public form submissions have none.
type Actor struct {
	UserID *string `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string            `json:"id"`
	Type         EventType         `json:"type"`
	Collection   domain.Collection `json:"collection"`
	SubmissionID string            `json:"submission_id,omitempty"`
	Actor        Actor             `json:"actor"`
	Timestamp    time.Time         `json:"timestamp"`
	Payload      interface{}       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, collection domain.Collection, submissionID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		Collection:   collection,
		SubmissionID: submissionID,
		Actor:        actor,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}

// ActorFor builds an actor for userID; empty means anonymous.
func ActorFor(userID string) Actor {
	if userID == "" {
		return Actor{}
	}
	return Actor{UserID: &userID}
}

// SubmissionReceivedPayload payload.
type SubmissionReceivedPayload struct {
	Form    string `json:"form"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Message string `json:"message,omitempty"`
}

// SubmissionRespondedPayload payload.
type SubmissionRespondedPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Response string `json:"response"`
}

// LeadStatusChangedPayload payload.
type LeadStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
