package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/forms/:kind", "POST", 201, 10*time.Millisecond)
	m.RecordRequest("/api/forms/:kind", "POST", 201, 30*time.Millisecond)
	m.RecordError("/api/forms/:kind", "POST", "CONFLICT")
	m.RecordSubmission("newsletter", "conflict")

	snap := m.Snapshot()
	if len(snap.Requests) != 1 || snap.Requests[0].Count != 2 || snap.Requests[0].AvgMs != 20 {
		t.Fatalf("unexpected requests %+v", snap.Requests)
	}
	if len(snap.Errors) != 1 || snap.Errors[0].Key != "/api/forms/:kind|POST|CONFLICT" {
		t.Fatalf("unexpected errors %+v", snap.Errors)
	}
	if len(snap.Submissions) != 1 || snap.Submissions[0].Key != "newsletter|conflict" {
		t.Fatalf("unexpected submissions %+v", snap.Submissions)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordSubmission("contact", "ok")
	if snap := m.Snapshot(); snap.Requests != nil {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestRequestLogger_RecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
	snap := m.Snapshot()
	if len(snap.Requests) != 1 || snap.Requests[0].Key != "/items/:id|GET|204" {
		t.Fatalf("unexpected requests %+v", snap.Requests)
	}
}
