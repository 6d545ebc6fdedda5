package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/auth"
	"github.com/spec-kit/lead-capture-service/internal/config"
	"github.com/spec-kit/lead-capture-service/internal/domain"
	"github.com/spec-kit/lead-capture-service/internal/repository"
	apperrors "github.com/spec-kit/lead-capture-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and the admin bootstrap.
type AuthService struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
	Tokens      *auth.TokenManager
	Logger      *zap.Logger
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is a signed-in account with its session token.
type AuthResult struct {
	User    *domain.User
	Profile *domain.Profile
	Token   auth.IssuedToken
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		profiles:   deps.ProfileRepo,
		tokenMgr:   deps.Tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Register creates an account with a user-role profile and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	user, profile, err := s.createAccount(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(user, profile)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	profile, err := s.profiles.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issue(user, profile)
}

// EnsureAdmin makes sure email exists and holds the admin role, creating the account
// when missing. It is the only path that changes a role.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case isNotFound(err):
		if password == "" {
			return errors.New("bootstrap admin password is required to create the account")
		}
		user, _, err = s.createAccount(ctx, RegisterInput{Email: email, Password: password})
		if err != nil {
			return err
		}
	default:
		return err
	}

	if err := s.profiles.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info("admin role ensured", zap.String("user_id", user.ID))
	return nil
}

func (s *AuthService) createAccount(ctx context.Context, in RegisterInput) (*domain.User, *domain.Profile, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{Email: normalizeEmail(in.Email), PasswordHash: hash}
	profile := &domain.Profile{
		FirstName: optionalString(in.FirstName),
		LastName:  optionalString(in.LastName),
		Role:      domain.RoleUser,
	}
	if err := s.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, nil, err
	}
	return user, profile, nil
}

func (s *AuthService) issue(user *domain.User, profile *domain.Profile) (*AuthResult, error) {
	token, err := s.tokenMgr.GenerateToken(user.ID, profile.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Profile: profile, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
