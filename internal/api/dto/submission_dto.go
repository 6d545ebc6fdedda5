package dto

import (
	"time"

	"github.com/spec-kit/lead-capture-service/internal/notify"
)

// ContactSubmission is one row of the triage list.
type ContactSubmission struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Company       *string   `json:"company,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	InquiryType   *string   `json:"inquiry_type,omitempty"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	AdminResponse *string   `json:"admin_response,omitempty"`
	RespondedBy   *string   `json:"responded_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TriageResponse carries the view state after an admin action.
type TriageResponse struct {
	Submissions   []ContactSubmission   `json:"submissions,omitempty"`
	Selected      *ContactSubmission    `json:"selected,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// RespondRequest payload for POST /admin/submissions/:id/respond.
type RespondRequest struct {
	Response string `json:"response" validate:"required,max=5000"`
}

// Lead is one row of a lead collection.
type Lead struct {
	ID          string    `json:"id"`
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	Email       string    `json:"email"`
	Company     *string   `json:"company,omitempty"`
	Status      string    `json:"status"`
	RespondedBy *string   `json:"responded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeadStatusRequest payload for POST /admin/leads/:kind/:id/status.
type LeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
