package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/repository"
	"github.com/spec-kit/lead-capture-service/internal/session"
)

const (
	sessionKey = "auth_session"
	// SessionCookie carries the token for browser requests.
	SessionCookie = "session"
)

// RevocationChecker reports whether a token id was signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Revocations is the store used both to revoke and to check tokens.
type Revocations interface {
	session.Revoker
	RevocationChecker
}

// SessionMiddleware builds one session.Context per request. Requests without a valid
// token continue as signed out; gating is left to RequireSignedIn and RequireAdmin.
type SessionMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	profiles    repository.ProfileRepository
	revocations Revocations
	logger      *zap.Logger
}

// NewSessionMiddleware constructs middleware. revocations may be nil.
func NewSessionMiddleware(tokens *TokenManager, users repository.UserRepository, profiles repository.ProfileRepository, revocations Revocations, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, users: users, profiles: profiles, revocations: revocations, logger: logger}
}

// Handle resolves the caller and stores the session in Locals.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	var revoker session.Revoker
	if m.revocations != nil {
		revoker = m.revocations
	}
	sess := session.New(revoker)
	c.Locals(sessionKey, sess)

	m.establish(c, sess)
	return c.Next()
}

func (m *SessionMiddleware) establish(c *fiber.Ctx, sess *session.Context) {
	defer sess.Finish()

	raw := tokenFromRequest(c)
	if raw == "" {
		return
	}
	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		m.logger.Debug("ignoring invalid session token", zap.Error(err))
		return
	}

	ctx := c.UserContext()
	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			m.logger.Warn("revocation check failed; treating session as signed out", zap.Error(err))
			return
		}
		if revoked {
			return
		}
	}

	user, err := m.users.GetByID(ctx, claims.Subject)
	if err != nil {
		m.logger.Debug("session user not found", zap.String("user_id", claims.Subject), zap.Error(err))
		return
	}
	profile, err := m.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		m.logger.Warn("session profile not found", zap.String("user_id", user.ID), zap.Error(err))
		return
	}

	sess.Establish(user, profile, claims.ID, claims.ExpiresAt.Time)
}

func tokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(SessionCookie)
}

// SessionFromContext returns the request session. Handlers mounted without the middleware
// get a signed-out session.
func SessionFromContext(c *fiber.Ctx) *session.Context {
	if sess, ok := c.Locals(sessionKey).(*session.Context); ok && sess != nil {
		return sess
	}
	sess := session.New(nil)
	sess.Finish()
	return sess
}
