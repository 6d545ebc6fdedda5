package validation

import (
	"errors"
	"strings"
	"testing"
)

func contactSchema() Schema {
	return Schema{
		Name: "contact",
		Fields: []Field{
			{Name: "firstName", Label: "First name", Required: true, MaxLen: 50},
			{Name: "lastName", Label: "Last name", Required: true, MaxLen: 50},
			{Name: "email", Label: "Email", Required: true, RequiredMessage: "Invalid email address", MaxLen: 255, Email: true},
			{Name: "inquiryType", Label: "Inquiry type", Options: []string{"sales", "support"}},
			{Name: "message", Label: "Message", Required: true, MaxLen: 1000},
		},
	}
}

func validValues() map[string]string {
	return map[string]string{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     "john@acme.com",
		"message":   "need pricing",
	}
}

func TestSchema_Validate_Accepts(t *testing.T) {
	if err := contactSchema().Validate(validValues()); err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestSchema_Validate_RequiredWhitespace(t *testing.T) {
	for _, field := range []string{"firstName", "lastName", "email", "message"} {
		values := validValues()
		values[field] = "   \t"
		err := contactSchema().Validate(values)
		var vErr *Error
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected *Error, got %v", field, err)
		}
		if vErr.Field != field {
			t.Errorf("%s: rejection reported for %s", field, vErr.Field)
		}
	}
}

func TestSchema_Validate_FirstViolationWins(t *testing.T) {
	values := validValues()
	values["firstName"] = ""
	values["email"] = "nope"

	err := contactSchema().Validate(values)
	if err == nil || err.Error() != "First name is required" {
		t.Fatalf("expected first name message, got %v", err)
	}
}

func TestSchema_Validate_MaxLength(t *testing.T) {
	values := validValues()
	values["lastName"] = strings.Repeat("é", 51)

	err := contactSchema().Validate(values)
	if err == nil || err.Error() != "Last name must be at most 50 characters" {
		t.Fatalf("unexpected error %v", err)
	}

	values["lastName"] = strings.Repeat("é", 50)
	if err := contactSchema().Validate(values); err != nil {
		t.Fatalf("50 runes should pass, got %v", err)
	}
}

func TestSchema_Validate_Options(t *testing.T) {
	values := validValues()
	values["inquiryType"] = "lunch"
	if err := contactSchema().Validate(values); err == nil {
		t.Fatal("expected option rejection")
	}
	values["inquiryType"] = "sales"
	if err := contactSchema().Validate(values); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestIsEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"john@acme.com", true},
		{"first.last+tag@mail.example.org", true},
		{"johnacme.com", false},
		{"john@acme", false},
		{"john@", false},
		{"@acme.com", false},
		{"jo hn@acme.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsEmail(tc.in); got != tc.want {
			t.Errorf("IsEmail(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStruct_ReportsFirstField(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}

	err := Struct(payload{Email: "bad", Password: "longenough"})
	var vErr *Error
	if !errors.As(err, &vErr) || vErr.Field != "email" {
		t.Fatalf("expected email error, got %v", err)
	}
	if err := Struct(payload{Email: "a@b.co", Password: "longenough"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
