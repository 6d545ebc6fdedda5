package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/api/dto"
	"github.com/spec-kit/lead-capture-service/internal/auth"
	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/forms"
	"github.com/spec-kit/lead-capture-service/internal/notify"
	"github.com/spec-kit/lead-capture-service/internal/service"
	"github.com/spec-kit/lead-capture-service/internal/triage"
	"github.com/spec-kit/lead-capture-service/internal/validation"
	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

// AdminHandler serves the triage dashboard and lead management.
type AdminHandler struct {
	backend triage.Backend
	leads   *service.LeadService
	logger  *zap.Logger
}

// NewAdminHandler constructs handler.
func NewAdminHandler(backend triage.Backend, leads *service.LeadService, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{backend: backend, leads: leads, logger: logger}
}

// Submissions GET /admin/submissions. Callers without an admin session are sent home.
func (h *AdminHandler) Submissions(c *fiber.Ctx) error {
	status := domain.ContactStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}

	view, recorder, err := h.loadView(c)
	if err != nil {
		return err
	}
	if view == nil {
		return c.Redirect("/", http.StatusSeeOther)
	}
	return c.JSON(fiber.Map{"data": triageState(view, view.Filter(status), recorder)})
}

// Select POST /admin/submissions/:id/select.
func (h *AdminHandler) Select(c *fiber.Ctx) error {
	view, recorder, err := h.loadView(c)
	if err != nil {
		return err
	}
	if view == nil {
		return apperrors.NewForbidden("admin role required")
	}
	if err := view.Select(c.UserContext(), c.Params("id")); err != nil {
		return triageError(err, recorder)
	}
	return c.JSON(fiber.Map{"data": triageState(view, nil, recorder)})
}

// Respond POST /admin/submissions/:id/respond.
func (h *AdminHandler) Respond(c *fiber.Ctx) error {
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	view, recorder, err := h.loadView(c)
	if err != nil {
		return err
	}
	if view == nil {
		return apperrors.NewForbidden("admin role required")
	}
	id := c.Params("id")
	view.SetResponseDraft(req.Response)
	if err := view.Respond(c.UserContext(), id, req.Response); err != nil {
		return triageError(err, recorder)
	}

	state := triageState(view, nil, recorder)
	for _, row := range view.Submissions() {
		if row.ID == id {
			out := contactSubmission(row)
			state.Selected = &out
		}
	}
	return c.JSON(fiber.Map{"data": state})
}

// Leads GET /admin/leads/:kind.
func (h *AdminHandler) Leads(c *fiber.Ctx) error {
	def, ok := forms.Lookup(forms.Kind(c.Params("kind")))
	if !ok {
		return apperrors.NewNotFound("collection", map[string]any{"kind": c.Params("kind")})
	}
	leads, err := h.leads.List(c.UserContext(), def.Collection)
	if err != nil {
		return err
	}
	items := make([]dto.Lead, 0, len(leads))
	for i := range leads {
		items = append(items, leadSummary(&leads[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateLeadStatus POST /admin/leads/:kind/:id/status.
func (h *AdminHandler) UpdateLeadStatus(c *fiber.Ctx) error {
	def, ok := forms.Lookup(forms.Kind(c.Params("kind")))
	if !ok {
		return apperrors.NewNotFound("collection", map[string]any{"kind": c.Params("kind")})
	}
	var req dto.LeadStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	sess := auth.SessionFromContext(c)
	id := c.Params("id")
	if err := h.leads.UpdateStatus(c.UserContext(), def.Collection, id, domain.RequestStatus(req.Status), sess.UserID()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "status": req.Status}})
}

// loadView builds the per-request triage view. A nil view with a nil error means the
// session may not see the dashboard.
func (h *AdminHandler) loadView(c *fiber.Ctx) (*triage.View, *notify.Recorder, error) {
	recorder := notify.NewRecorder()
	view := triage.NewView(auth.SessionFromContext(c), h.backend, recorder, h.logger)
	if err := view.Load(c.UserContext()); err != nil {
		if errors.Is(err, triage.ErrAccessDenied) {
			return nil, recorder, nil
		}
		n, _ := recorder.Last()
		return nil, recorder, apperrors.NewBadGateway("LOAD_FAILED", n.Description, err, map[string]any{"notification": n})
	}
	return view, recorder, nil
}

func triageError(err error, recorder *notify.Recorder) error {
	switch {
	case errors.Is(err, triage.ErrEmptyResponse):
		return apperrors.NewValidationError("response is required", nil)
	case errors.Is(err, triage.ErrUnknownSubmission):
		return apperrors.NewNotFound("submission", nil)
	case errors.Is(err, triage.ErrAlreadyResponded):
		return apperrors.NewConflict("submission already responded", nil)
	}
	n, ok := recorder.Last()
	if !ok {
		return err
	}
	return apperrors.NewBadGateway("UPDATE_FAILED", n.Description, err, map[string]any{"notification": n})
}

func triageState(view *triage.View, rows []domain.ContactSubmission, recorder *notify.Recorder) dto.TriageResponse {
	out := dto.TriageResponse{Notifications: recorder.All()}
	if rows != nil {
		out.Submissions = make([]dto.ContactSubmission, 0, len(rows))
		for _, row := range rows {
			out.Submissions = append(out.Submissions, contactSubmission(row))
		}
	}
	if selected, ok := view.Selected(); ok {
		row := contactSubmission(selected)
		out.Selected = &row
	}
	return out
}

func contactSubmission(s domain.ContactSubmission) dto.ContactSubmission {
	return dto.ContactSubmission{
		ID:            s.ID,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Email:         s.Email,
		Company:       s.Company,
		Phone:         s.Phone,
		InquiryType:   s.InquiryType,
		Message:       s.Message,
		Status:        string(s.Status),
		AdminResponse: s.AdminResponse,
		RespondedBy:   s.RespondedBy,
		CreatedAt:     s.CreatedAt,
	}
}

func leadSummary(l *domain.Lead) dto.Lead {
	return dto.Lead{
		ID:          l.ID,
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		Email:       l.Email,
		Company:     l.Company,
		Status:      l.Status,
		RespondedBy: l.RespondedBy,
		CreatedAt:   l.CreatedAt,
	}
}
