package domain

import (
	"errors"
	"time"
)

// ErrDuplicate is returned by stores when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// Collection names a submission table.
type Collection string

const (
	CollectionContact    Collection = "contact_submissions"
	CollectionDemo       Collection = "demo_requests"
	CollectionTrial      Collection = "trial_requests"
	CollectionQuote      Collection = "quote_requests"
	CollectionNewsletter Collection = "newsletter_subscriptions"
)

// ContactStatus is the triage vocabulary of contact submissions.
type ContactStatus string

const (
	ContactStatusUnread    ContactStatus = "unread"
	ContactStatusRead      ContactStatus = "read"
	ContactStatusResponded ContactStatus = "responded"
)

// Valid reports whether s belongs to the contact vocabulary.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusUnread, ContactStatusRead, ContactStatusResponded:
		return true
	}
	return false
}

// CanTransitionTo enforces unread -> read -> responded, one step at a time.
func (s ContactStatus) CanTransitionTo(next ContactStatus) bool {
	switch s {
	case ContactStatusUnread:
		return next == ContactStatusRead
	case ContactStatusRead:
		return next == ContactStatusResponded
	}
	return false
}

// RequestStatus is the vocabulary of demo, trial and quote requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Valid reports whether s belongs to the request vocabulary.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: {},
	RequestStatusRejected: {},
}

// CanTransitionTo reports whether next is reachable from s.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, candidate := range requestTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// SubscriptionStatus is the newsletter vocabulary.
type SubscriptionStatus string

const (
	SubscriptionStatusActive       SubscriptionStatus = "active"
	SubscriptionStatusUnsubscribed SubscriptionStatus = "unsubscribed"
)

// ContactSubmission is a row of contact_submissions.
type ContactSubmission struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Company       *string
	Phone         *string
	InquiryType   *string
	Message       string
	Status        ContactStatus
	AdminResponse *string
	RespondedBy   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins first and last name.
func (s ContactSubmission) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Lead is the summary shared by every lead collection.
type Lead struct {
	ID          string
	Collection  Collection
	FirstName   *string
	LastName    *string
	Email       string
	Company     *string
	Status      string
	RespondedBy *string
	CreatedAt   time.Time
}
