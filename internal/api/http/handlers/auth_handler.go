package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/api/dto"
	"github.com/spec-kit/lead-capture-service/internal/auth"
	"github.com/spec-kit/lead-capture-service/internal/service"
	"github.com/spec-kit/lead-capture-service/internal/session"
	"github.com/spec-kit/lead-capture-service/internal/validation"
	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler constructs handler. secureCookie marks the session cookie Secure.
func NewAuthHandler(authService *service.AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authService, secureCookie: secureCookie, logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	res, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	h.setSessionCookie(c, res.Token)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authPayload(res)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Struct(req); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, res.Token)
	return c.JSON(fiber.Map{"data": authPayload(res)})
}

// Logout handles POST /auth/logout. Signing out an anonymous session is a no-op.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := auth.SessionFromContext(c)
	if err := sess.SignOut(c.UserContext()); err != nil {
		h.logger.Warn("token revocation failed", zap.Error(err))
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(http.StatusNoContent)
}

// Session handles GET /auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": sessionPayload(auth.SessionFromContext(c))})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token auth.IssuedToken) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    token.Token,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func authPayload(res *service.AuthResult) fiber.Map {
	return fiber.Map{
		"user": dto.UserSummary{
			ID:        res.User.ID,
			Email:     res.User.Email,
			FirstName: res.Profile.FirstName,
			LastName:  res.Profile.LastName,
			Role:      string(res.Profile.Role),
		},
		"auth": dto.AuthResponse{Token: res.Token.Token, ExpiresAt: res.Token.ExpiresAt},
	}
}

func sessionPayload(sess *session.Context) dto.SessionResponse {
	out := dto.SessionResponse{Loading: sess.Loading(), SignedIn: sess.SignedIn(), ShowAdminLink: sess.IsAdmin()}
	if user := sess.User(); user != nil {
		summary := &dto.UserSummary{ID: user.ID, Email: user.Email}
		if profile := sess.Profile(); profile != nil {
			summary.FirstName = profile.FirstName
			summary.LastName = profile.LastName
			summary.Role = string(profile.Role)
		}
		out.User = summary
	}
	return out
}
