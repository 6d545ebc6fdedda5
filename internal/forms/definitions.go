// Package forms implements the generic lead-capture form engine and the six form
// definitions that parameterize it.
package forms

import (
	"fmt"

	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/notify"
	"github.com/spec-kit/lead-capture-service/internal/submission"
	"github.com/spec-kit/lead-capture-service/internal/validation"
)

// Kind identifies a form type on the public surface.
type Kind string

const (
	KindContact    Kind = "contact"
	KindDemo       Kind = "demo"
	KindTrial      Kind = "trial"
	KindQuote      Kind = "quote"
	KindNewsletter Kind = "newsletter"
	KindGetStarted Kind = "get_started"
)

// Definition is everything that differs between two forms.
type Definition struct {
	Kind       Kind
	Title      string
	Collection domain.Collection
	Schema     validation.Schema
	Mapping    submission.Mapping
	Success    notify.Notification
	// Conflict is shown for uniqueness violations. Nil falls back to Failure.
	Conflict *notify.Notification
	Failure  notify.Notification
}

// FieldNames lists the draft keys in declaration order.
func (d Definition) FieldNames() []string {
	names := make([]string, 0, len(d.Schema.Fields))
	for _, f := range d.Schema.Fields {
		names = append(names, f.Name)
	}
	return names
}

var (
	firstNameRequired = validation.Field{Name: "firstName", Label: "First name", Required: true, MaxLen: 50}
	lastNameRequired  = validation.Field{Name: "lastName", Label: "Last name", Required: true, MaxLen: 50}
	emailRequired     = validation.Field{Name: "email", Label: "Email", Required: true, RequiredMessage: "Invalid email address", MaxLen: 255, Email: true}
	companyOptional   = validation.Field{Name: "company", Label: "Company name", MaxLen: 100}
	companyRequired   = validation.Field{Name: "company", Label: "Company name", Required: true, RequiredMessage: "Company name is required", MaxLen: 100}
	phoneOptional     = validation.Field{Name: "phone", Label: "Phone number", MaxLen: 20}
	jobTitleOptional  = validation.Field{Name: "jobTitle", Label: "Job title", MaxLen: 100}
)

var (
	contactColumns = []submission.FieldMapping{
		{Field: "firstName", Column: "first_name"},
		{Field: "lastName", Column: "last_name"},
		{Field: "email", Column: "email"},
	}
	timelineOptions = []string{"asap", "1-month", "1-3-months", "3-6-months", "6+ months"}
)

func optional(field, column string) submission.FieldMapping {
	return submission.FieldMapping{Field: field, Column: column, Optional: true}
}

func columns(extra ...submission.FieldMapping) []submission.FieldMapping {
	out := make([]submission.FieldMapping, 0, len(contactColumns)+len(extra))
	out = append(out, contactColumns...)
	return append(out, extra...)
}

func submissionFailed(what string) notify.Notification {
	return notify.Failure("Submission Failed", fmt.Sprintf("There was an error %s. Please try again.", what))
}

var definitions = []Definition{
	{
		Kind:       KindContact,
		Title:      "Contact Us",
		Collection: domain.CollectionContact,
		Schema: validation.Schema{Name: string(KindContact), Fields: []validation.Field{
			firstNameRequired, lastNameRequired, emailRequired, companyOptional, phoneOptional,
			{Name: "inquiryType", Label: "Inquiry type", Options: []string{"sales", "support", "partnership", "billing", "other"}},
			{Name: "message", Label: "Message", Required: true, MaxLen: 1000},
		}},
		Mapping: submission.Mapping{
			Fields: columns(
				optional("company", "company"),
				optional("phone", "phone"),
				optional("inquiryType", "inquiry_type"),
				submission.FieldMapping{Field: "message", Column: "message"},
			),
			Fixed: map[string]any{"status": string(domain.ContactStatusUnread)},
		},
		Success: notify.Success("Message Sent Successfully!", "Thank you for contacting us. We'll get back to you within 24 hours."),
		Failure: submissionFailed("sending your message"),
	},
	{
		Kind:       KindDemo,
		Title:      "Request a Demo",
		Collection: domain.CollectionDemo,
		Schema: validation.Schema{Name: string(KindDemo), Fields: []validation.Field{
			firstNameRequired, lastNameRequired, emailRequired, companyOptional, phoneOptional, jobTitleOptional,
			{Name: "companySize", Label: "Company size", Options: []string{"1-10", "11-50", "51-200", "201-1000", "1000+"}},
			{Name: "industry", Label: "Industry", Options: []string{"retail", "restaurant", "healthcare", "education", "nonprofit", "saas", "finance", "other"}},
			{Name: "currentPaymentProvider", Label: "Current payment provider", MaxLen: 100},
			{Name: "monthlyVolume", Label: "Monthly transaction volume", Options: []string{"0-10k", "10k-50k", "50k-100k", "100k-500k", "500k-1m", "1m+"}},
			{Name: "preferredDemoDate", Label: "Preferred demo date", MaxLen: 10},
			{Name: "preferredDemoTime", Label: "Preferred time", Options: []string{"9am-11am", "11am-1pm", "1pm-3pm", "3pm-5pm"}},
			{Name: "message", Label: "Additional information", MaxLen: 1000},
		}},
		Mapping: submission.Mapping{
			Fields: columns(
				optional("company", "company"),
				optional("phone", "phone"),
				optional("jobTitle", "job_title"),
				optional("companySize", "company_size"),
				optional("industry", "industry"),
				optional("currentPaymentProvider", "current_payment_provider"),
				optional("monthlyVolume", "monthly_volume"),
				optional("preferredDemoDate", "preferred_demo_date"),
				optional("preferredDemoTime", "preferred_demo_time"),
				optional("message", "message"),
			),
			Fixed: map[string]any{"status": string(domain.RequestStatusPending)},
		},
		Success: notify.Success("Demo Request Submitted!", "Thank you for your interest. We'll contact you within 24 hours to schedule your demo."),
		Failure: submissionFailed("submitting your demo request"),
	},
	{
		Kind:       KindTrial,
		Title:      "Start a Free Trial",
		Collection: domain.CollectionTrial,
		Schema: validation.Schema{Name: string(KindTrial), Fields: []validation.Field{
			firstNameRequired, lastNameRequired, emailRequired, companyRequired, phoneOptional, jobTitleOptional,
			{Name: "businessType", Label: "Business type", Options: []string{"e-commerce", "retail", "restaurant", "subscription", "marketplace", "saas", "professional-services", "other"}},
			{Name: "expectedMonthlyVolume", Label: "Expected monthly volume", Options: []string{"0-5k", "5k-25k", "25k-100k", "100k-500k", "500k+"}},
			{Name: "integrationTimeline", Label: "Integration timeline", Options: timelineOptions},
			{Name: "message", Label: "Message", MaxLen: 1000},
		}},
		Mapping: submission.Mapping{
			Fields: columns(
				submission.FieldMapping{Field: "company", Column: "company"},
				optional("phone", "phone"),
				optional("jobTitle", "job_title"),
				optional("businessType", "business_type"),
				optional("expectedMonthlyVolume", "expected_monthly_volume"),
				optional("integrationTimeline", "integration_timeline"),
				optional("message", "message"),
			),
			Fixed: map[string]any{"status": string(domain.RequestStatusPending)},
		},
		Success: notify.Success("Free Trial Request Submitted!", "We'll review your application and get back to you within 24 hours with trial access details."),
		Failure: submissionFailed("submitting your trial request"),
	},
	{
		Kind:       KindQuote,
		Title:      "Request a Quote",
		Collection: domain.CollectionQuote,
		Schema: validation.Schema{Name: string(KindQuote), Fields: []validation.Field{
			firstNameRequired, lastNameRequired, emailRequired, companyRequired, phoneOptional,
			{Name: "businessType", Label: "Business type", Options: []string{"e-commerce", "retail", "restaurant", "subscription", "marketplace", "saas", "high-risk", "other"}},
			{Name: "currentProvider", Label: "Current payment provider", MaxLen: 100},
			{Name: "monthlyTransactionVolume", Label: "Monthly transaction volume", Options: []string{"0-10k", "10k-50k", "50k-100k", "100k-500k", "500k-1m", "1m-5m", "5m+"}},
			{Name: "averageTransactionAmount", Label: "Average transaction amount", Options: []string{"0-25", "25-100", "100-500", "500-1k", "1k-5k", "5k+"}},
			{Name: "integrationType", Label: "Integration type", Options: []string{"api", "plugin", "pos", "mobile", "invoice", "custom"}},
			{Name: "specificRequirements", Label: "Specific requirements", MaxLen: 1000},
			{Name: "timeline", Label: "Implementation timeline", Options: append(append([]string{}, timelineOptions...), "planning")},
		}},
		Mapping: submission.Mapping{
			Fields: columns(
				submission.FieldMapping{Field: "company", Column: "company"},
				optional("phone", "phone"),
				optional("businessType", "business_type"),
				optional("currentProvider", "current_provider"),
				optional("monthlyTransactionVolume", "monthly_transaction_volume"),
				optional("averageTransactionAmount", "average_transaction_amount"),
				optional("integrationType", "integration_type"),
				optional("specificRequirements", "specific_requirements"),
				optional("timeline", "timeline"),
			),
			Fixed: map[string]any{"status": string(domain.RequestStatusPending)},
		},
		Success: notify.Success("Quote Request Submitted!", "We'll analyze your requirements and send you a custom quote within 24 hours."),
		Failure: submissionFailed("submitting your quote request"),
	},
	{
		Kind:       KindNewsletter,
		Title:      "Newsletter",
		Collection: domain.CollectionNewsletter,
		Schema: validation.Schema{Name: string(KindNewsletter), Fields: []validation.Field{
			emailRequired,
			{Name: "firstName", Label: "First name", MaxLen: 50},
			{Name: "lastName", Label: "Last name", MaxLen: 50},
		}},
		Mapping: submission.Mapping{
			Fields: []submission.FieldMapping{
				{Field: "email", Column: "email"},
				optional("firstName", "first_name"),
				optional("lastName", "last_name"),
			},
			Fixed: map[string]any{
				"status":            string(domain.SubscriptionStatusActive),
				"subscription_type": "general",
			},
		},
		Success:  notify.Success("Successfully Subscribed!", "Thank you for subscribing. You'll receive our latest updates and insights."),
		Conflict: &alreadySubscribed,
		Failure:  notify.Failure("Subscription Failed", "There was an error subscribing to our newsletter. Please try again."),
	},
	{
		Kind:       KindGetStarted,
		Title:      "Get Started",
		Collection: domain.CollectionContact,
		Schema: validation.Schema{Name: string(KindGetStarted), Fields: []validation.Field{
			firstNameRequired, lastNameRequired, emailRequired, companyOptional, phoneOptional,
			{Name: "businessType", Label: "Business type", Options: []string{"e-commerce", "retail", "restaurant", "service-business", "subscription", "marketplace", "saas", "nonprofit", "other"}},
			{Name: "monthlyVolume", Label: "Expected monthly payment volume", Options: []string{"just-starting", "0-5k", "5k-25k", "25k-100k", "100k-500k", "500k+"}},
			{Name: "primaryGoal", Label: "Primary goal", Options: []string{"start-accepting-payments", "lower-costs", "better-features", "improve-checkout", "integrate-systems", "scale-business", "better-support"}},
		}},
		Mapping: submission.Mapping{
			Fields: columns(
				optional("company", "company"),
				optional("phone", "phone"),
			),
			Fixed: map[string]any{
				"status":       string(domain.ContactStatusUnread),
				"inquiry_type": string(KindGetStarted),
			},
			Derived: []submission.DerivedColumn{{Column: "message", Compose: getStartedMessage}},
		},
		Success: notify.Success("Let's Get Started!", "Thank you for your interest. Our team will contact you within 24 hours to help you get started."),
		Failure: submissionFailed("submitting your information"),
	},
}

var alreadySubscribed = notify.Failure("Already Subscribed", "This email is already subscribed to our newsletter.")

func getStartedMessage(draft map[string]string) any {
	return fmt.Sprintf("Business Type: %s\nMonthly Volume: %s\nPrimary Goal: %s",
		draft["businessType"], draft["monthlyVolume"], draft["primaryGoal"])
}

// Definitions returns every form definition in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup finds the definition for kind.
func Lookup(kind Kind) (Definition, bool) {
	for _, d := range definitions {
		if d.Kind == kind {
			return d, true
		}
	}
	return Definition{}, false
}
