package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionKey    = "session"
	SessionUserID = "session_user_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator resolves a bearer token into the session it belongs to
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.Session, error)
}

// AuthConfig holds configuration for the session middleware
type AuthConfig struct {
	Authenticator Authenticator
	// SkipPaths are full paths that don't require a session
	SkipPaths []string
	Logger    *zap.Logger
}

// RequireSession authenticates the bearer token of every request not in
// SkipPaths and stores the session in the gin context.
func RequireSession(cfg AuthConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			abortWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		session, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Session authentication failed",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
			abortWithError(c, err)
			return
		}

		c.Set(SessionKey, session)
		c.Set(SessionUserID, session.UserID)

		ctx := logger.WithSession(c.Request.Context(), session.UserID, session.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// GetSession retrieves the authenticated session from gin.Context
func GetSession(c *gin.Context) *identity.Session {
	if v, exists := c.Get(SessionKey); exists {
		if session, ok := v.(*identity.Session); ok {
			return session
		}
	}
	return nil
}

// RequireRole allows the request when the session's role satisfies one of
// the given roles. Admin satisfies every role.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			abortWithError(c, shared.ErrUnauthorized)
			return
		}
		if !session.Can(roles...) {
			logger.L(c.Request.Context()).Warn("Role not allowed",
				zap.String("role", session.Role.String()),
				zap.String("path", c.FullPath()),
			)
			abortWithCode(c, dto.ErrCodeForbidden, "Your role does not allow this operation")
			return
		}
		c.Next()
	}
}
