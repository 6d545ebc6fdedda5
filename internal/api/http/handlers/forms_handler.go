package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/api/dto"
	"github.com/spec-kit/lead-capture-service/internal/forms"
	"github.com/spec-kit/lead-capture-service/internal/notify"
	"github.com/spec-kit/lead-capture-service/internal/observability"
	"github.com/spec-kit/lead-capture-service/internal/submission"
	"github.com/spec-kit/lead-capture-service/internal/validation"
	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

// FormInstanceHeader identifies one rendered form so repeated posts of it share a guard.
const FormInstanceHeader = "X-Form-Instance"

// FormsHandler exposes the public lead-capture forms.
type FormsHandler struct {
	submitter forms.Submitter
	guard     forms.InFlightGuard
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewFormsHandler constructs handler. guard may be nil.
func NewFormsHandler(submitter forms.Submitter, guard forms.InFlightGuard, metrics *observability.Metrics, logger *zap.Logger) *FormsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormsHandler{submitter: submitter, guard: guard, metrics: metrics, logger: logger}
}

// List GET /api/forms.
func (h *FormsHandler) List(c *fiber.Ctx) error {
	defs := forms.Definitions()
	items := make([]dto.FormDefinition, 0, len(defs))
	for _, def := range defs {
		items = append(items, formDefinition(def))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Submit POST /api/forms/:kind.
func (h *FormsHandler) Submit(c *fiber.Ctx) error {
	kind := forms.Kind(c.Params("kind"))
	def, ok := forms.Lookup(kind)
	if !ok {
		return apperrors.NewNotFound("form", map[string]any{"kind": kind})
	}

	var body map[string]string
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	recorder := notify.NewRecorder()
	opts := []forms.Option{forms.WithLogger(h.logger)}
	if instance := strings.TrimSpace(c.Get(FormInstanceHeader)); instance != "" && h.guard != nil {
		opts = append(opts, forms.WithGuard(h.guard, string(kind)+":"+instance))
	}
	form := forms.New(def, h.submitter, recorder, opts...)
	for name, value := range body {
		if err := form.SetField(name, value); err != nil {
			return apperrors.NewValidationError("unknown field", map[string]any{"field": name})
		}
	}

	res, err := form.Submit(c.UserContext())
	if err != nil {
		var vErr *validation.Error
		switch {
		case errors.Is(err, forms.ErrInFlight):
			h.metrics.RecordSubmission(string(kind), "in_flight")
			return apperrors.NewConflict("submission already in progress", nil)
		case errors.As(err, &vErr):
			h.metrics.RecordSubmission(string(kind), "invalid")
			n, _ := recorder.Last()
			return apperrors.NewValidationError(vErr.Message, map[string]any{"field": vErr.Field, "notification": n})
		default:
			return err
		}
	}

	h.metrics.RecordSubmission(string(kind), res.Outcome.String())
	n, _ := recorder.Last()
	switch res.Outcome {
	case submission.OutcomeOK:
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"data": dto.SubmitResponse{Outcome: res.Outcome.String(), Notification: n},
		})
	case submission.OutcomeConflict:
		return apperrors.NewConflict(n.Description, map[string]any{"notification": n})
	default:
		return apperrors.NewBadGateway("SUBMISSION_FAILED", n.Description, res.Err, map[string]any{"notification": n})
	}
}

func formDefinition(def forms.Definition) dto.FormDefinition {
	out := dto.FormDefinition{Kind: string(def.Kind), Title: def.Title}
	for _, f := range def.Schema.Fields {
		out.Fields = append(out.Fields, dto.FormField{
			Name:      f.Name,
			Label:     f.Label,
			Required:  f.Required,
			MaxLength: f.MaxLen,
			Email:     f.Email,
			Options:   f.Options,
		})
	}
	return out
}
