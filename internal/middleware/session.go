package middleware

import (
	"errors"
	"strings"

	"syntax_feed_backend/internal/util"
	"syntax_feed_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves a session token to the learner's claims.
type Authenticator interface {
	Authenticate(token string) (*util.Claims, error)
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	// browsers cannot set headers on websocket upgrades
	return c.Query("token")
}

// SessionMiddleware rejects requests without a valid guest session token.
func SessionMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(token)
		if err != nil {
			if !errors.Is(err, util.ErrInvalidToken) {
				logger.Log.Error("Session lookup failed", zap.Error(err))
				util.InternalServerError(c)
				c.Abort()
				return
			}
			logger.Log.Debug("Rejected session token", zap.Error(err), zap.String("path", c.FullPath()))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextLearnerKey, claims)
		c.Next()
	}
}

// OptionalSession attaches the learner when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.Authenticate(token); err == nil {
				c.Set(util.ContextLearnerKey, claims)
			}
		}
		c.Next()
	}
}
