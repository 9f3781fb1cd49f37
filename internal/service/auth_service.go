package service

import (
	"context"
	"fmt"
	"time"

	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/repository"
	"github.com/rs/zerolog"
)

const invalidCredentials = "Invalid username or password"

// authService is the concrete implementation of AuthService
type authService struct {
	users  repository.UserRepository
	tokens *authn.Tokens
	now    func() time.Time
	log    zerolog.Logger
}

func newAuthService(users repository.UserRepository, deps Deps, log zerolog.Logger) *authService {
	return &authService{
		users:  users,
		tokens: deps.Tokens,
		now:    deps.Now,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

// Login checks a username and password and issues a token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, errs.NewBadRequestError("Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !authn.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn().Str("username", req.Username).Msg("Failed login attempt")
		return nil, errs.NewUnauthorizedError(invalidCredentials)
	}
	if !user.IsActive {
		return nil, errs.NewUnauthorizedError("Account is disabled")
	}
	role, err := authz.ParseRole(user.Role)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("User has unknown role")
		return nil, errs.NewForbiddenError(authz.PermissionDenied).WithCause(err)
	}

	token, expires, err := s.tokens.Sign(user.ID, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to record last login")
	} else {
		user.LastLogin = &now
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(role)).Msg("User logged in")
	return &models.LoginResponse{Token: token, ExpiresAt: expires, User: user}, nil
}

// Authenticate resolves a token to a live actor. The role is read from the
// user row so role changes take effect before the token expires.
func (s *authService) Authenticate(ctx context.Context, token string) (authz.Actor, *models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return authz.Actor{}, nil, errs.NewUnauthorizedError("Invalid or expired token").WithCause(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return authz.Actor{}, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return authz.Actor{}, nil, errs.NewUnauthorizedError("Authentication required")
	}
	role, err := authz.ParseRole(user.Role)
	if err != nil {
		return authz.Actor{}, nil, errs.NewForbiddenError(authz.PermissionDenied).WithCause(err)
	}
	return authz.Actor{ID: user.ID, Role: role}, user, nil
}
