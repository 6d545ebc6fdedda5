// Package validation holds the declarative rules applied to lead-capture drafts before
// anything is written to the store.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field declares the rules of one form field. Rules run in a fixed order:
// presence, maximum length, email shape, option membership.
type Field struct {
	Name            string
	Label           string
	Required        bool
	RequiredMessage string
	MaxLen          int
	Email           bool
	Options         []string
}

// Schema is an ordered list of field rules for one form type.
type Schema struct {
	Name   string
	Fields []Field
}

// Error is the single rejection produced by Validate.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail accepts local@domain.tld shaped addresses.
func IsEmail(value string) bool {
	if !emailShape.MatchString(value) {
		return false
	}
	return validate.Var(value, "email") == nil
}

// Validate returns nil when every rule holds, otherwise an *Error for the first violation
// in declaration order. Fields missing from values are treated as empty.
func (s Schema) Validate(values map[string]string) error {
	for _, field := range s.Fields {
		if err := field.check(values[field.Name]); err != nil {
			return err
		}
	}
	return nil
}

// Field looks up a declared field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (f Field) check(value string) error {
	trimmed := strings.TrimSpace(value)
	if f.Required && trimmed == "" {
		return &Error{Field: f.Name, Message: f.requiredMessage()}
	}
	if f.MaxLen > 0 && utf8.RuneCountInString(value) > f.MaxLen {
		return &Error{Field: f.Name, Message: fmt.Sprintf("%s must be at most %d characters", f.label(), f.MaxLen)}
	}
	if f.Email && trimmed != "" && !IsEmail(value) {
		return &Error{Field: f.Name, Message: "Invalid email address"}
	}
	if len(f.Options) > 0 && trimmed != "" && !contains(f.Options, value) {
		return &Error{Field: f.Name, Message: fmt.Sprintf("%s has an unsupported value", f.label())}
	}
	return nil
}

func (f Field) requiredMessage() string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return f.label() + " is required"
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
