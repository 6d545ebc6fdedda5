package dto

import "github.com/spec-kit/lead-capture-service/internal/notify"

// FormField describes one input of a public form.
type FormField struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Required  bool     `json:"required"`
	MaxLength int      `json:"max_length,omitempty"`
	Email     bool     `json:"email,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// FormDefinition is the public shape of a form.
type FormDefinition struct {
	Kind   string      `json:"kind"`
	Title  string      `json:"title"`
	Fields []FormField `json:"fields"`
}

// SubmitResponse is returned for an accepted submission.
type SubmitResponse struct {
	Outcome      string              `json:"outcome"`
	Notification notify.Notification `json:"notification"`
}
