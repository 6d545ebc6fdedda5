package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-capture-service/internal/pages"
	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

// PagesHandler serves the marketing pages.
type PagesHandler struct {
	renderer *pages.Renderer
}

func NewPagesHandler(renderer *pages.Renderer) *PagesHandler {
	return &PagesHandler{renderer: renderer}
}

// Page returns a handler that renders slug.
func (h *PagesHandler) Page(slug string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := h.renderer.Render(slug)
		if err != nil {
			if errors.Is(err, pages.ErrNotFound) {
				return apperrors.NewNotFound("page", map[string]any{"slug": slug})
			}
			return err
		}
		c.Type("html", "utf-8")
		return c.Send(body)
	}
}
