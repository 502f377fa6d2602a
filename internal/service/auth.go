package service

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/geoguard/platform/internal/auth"
	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/guard"
	"github.com/geoguard/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles commander and sub-commander login.
type AuthService struct {
	pool         *pgxpool.Pool
	users        repository.UserRepository
	jwtMgr       *auth.JWTManager
	rootUsername string
	rootPassword string
	logger       *slog.Logger
}

// NewAuthService creates a new AuthService. rootUsername and rootPassword
// are the bootstrap commander credentials; that account has no users row.
func NewAuthService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	jwtMgr *auth.JWTManager,
	rootUsername, rootPassword string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		pool:         pool,
		users:        users,
		jwtMgr:       jwtMgr,
		rootUsername: rootUsername,
		rootPassword: rootPassword,
		logger:       logger,
	}
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`

	// ClientIP is taken from the request, not the body.
	ClientIP string `json:"-"`
}

// AuthResult is returned on successful login.
type AuthResult struct {
	Token          string      `json:"token"`
	UserID         uuid.UUID   `json:"user_id"`
	Username       string      `json:"username"`
	Role           domain.Role `json:"role"`
	AssignedUnitID *uuid.UUID  `json:"assigned_unit_id,omitempty"`
	CanSeeAllUnits bool        `json:"can_see_all_units"`
}

// Login authenticates against the root commander credentials first, then the
// users table. Failed attempts count toward the per-username lockout.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrValidation("username and password are required")
	}

	if err := guard.CheckLocked(ctx, s.pool, input.Username); err != nil {
		return nil, err
	}

	if s.isRootLogin(input.Username, input.Password) {
		guard.RecordAttempt(ctx, s.pool, input.Username, input.ClientIP, true)
		return s.issueToken(s.rootProfile())
	}

	user, err := s.users.FindByUsername(ctx, s.pool, input.Username)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if user == nil {
		guard.RecordAttempt(ctx, s.pool, input.Username, input.ClientIP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		guard.RecordAttempt(ctx, s.pool, input.Username, input.ClientIP, false)
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	guard.RecordAttempt(ctx, s.pool, input.Username, input.ClientIP, true)
	return s.issueToken(user)
}

// isRootLogin compares both fields in constant time regardless of which one
// mismatches.
func (s *AuthService) isRootLogin(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.rootUsername))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.rootPassword))
	return userOK&passOK == 1
}

// rootProfile synthesizes the profile for the bootstrap commander.
func (s *AuthService) rootProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:             domain.RootCommanderID,
		Username:       s.rootUsername,
		Role:           domain.RoleCommander,
		CanSeeAllUnits: true,
	}
}

func (s *AuthService) issueToken(user *domain.UserProfile) (*AuthResult, error) {
	token, err := s.jwtMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	s.logger.Info("login succeeded", "user_id", user.ID, "role", user.Role)

	return &AuthResult{
		Token:          token,
		UserID:         user.ID,
		Username:       user.Username,
		Role:           user.Role,
		AssignedUnitID: user.AssignedUnitID,
		CanSeeAllUnits: user.CanSeeAllUnits,
	}, nil
}
