// Package identity provides login, logout and user administration.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Session token errors, all reported as 401
var (
	ErrTokenExpired = shared.NewDomainError("TOKEN_EXPIRED", "Session has expired. Please log in again")
	ErrTokenInvalid = shared.NewDomainError("TOKEN_INVALID", "Invalid session token")
	ErrTokenRevoked = shared.NewDomainError("TOKEN_REVOKED", "Session has been logged out")
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	clock      func() time.Time
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		clock:      time.Now,
		logger:     logger,
	}
}

// Login authenticates a user by email and password and opens a session
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.Using(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login failed: unknown email")
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		log.Warn("Login failed: wrong password", zap.Int64("user_id", user.ID))
		return nil, shared.ErrInvalidCredentials
	}

	session := identity.NewSession(uuid.NewString(), user, s.clock(), s.jwtService.SessionDuration())
	token, err := s.jwtService.GenerateToken(session)
	if err != nil {
		log.Error("Failed to sign session token", zap.Error(err))
		return nil, err
	}

	log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role.String()),
		zap.String("session_id", session.ID),
	)
	return &LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// Authenticate resolves a session token into the session it carries.
// Expired, malformed and logged-out tokens are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*identity.Session, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		logger.Using(ctx, s.logger).Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.ErrUnavailable
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims.Session(), nil
}

// Logout ends the session. Its token is rejected until it would have expired.
func (s *AuthService) Logout(ctx context.Context, session *identity.Session) error {
	if session == nil {
		return shared.ErrUnauthorized
	}
	ttl := session.ExpiresAt.Sub(s.clock())
	if err := s.blacklist.AddToBlacklist(ctx, session.ID, ttl); err != nil {
		logger.Using(ctx, s.logger).Error("Failed to revoke session", zap.Error(err))
		return shared.ErrUnavailable
	}
	logger.Using(ctx, s.logger).Info("User logged out",
		zap.Int64("user_id", session.UserID),
		zap.String("session_id", session.ID),
	)
	return nil
}

// Me returns the session with the current state of its user
func (s *AuthService) Me(ctx context.Context, session *identity.Session) (*SessionResponse, error) {
	if session == nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// The account was removed after login
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return &SessionResponse{
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}
