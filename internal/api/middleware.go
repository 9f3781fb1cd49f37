package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/authz"
	"github.com/highland-admin-portal/internal/errs"
	"github.com/highland-admin-portal/internal/service"
	"github.com/rs/zerolog"
)

const (
	actorKey = "actor"
	userKey  = "user"
)

// bearerToken extracts the token from the Authorization header or cookie
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(authn.CookieName); err == nil {
		return strings.TrimPrefix(cookie, "Bearer ")
	}
	return ""
}

// authMiddleware resolves the caller and stores the Actor on the context
func authMiddleware(auth service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		actor, user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := errs.StatusCode(err)
			if status >= http.StatusInternalServerError {
				log.Error().Err(err).Msg("Failed to authenticate request")
			}
			c.AbortWithStatusJSON(status, gin.H{"error": errs.Message(err)})
			return
		}

		c.Set(actorKey, actor)
		c.Set(userKey, user)
		c.Next()
	}
}

// actorFrom returns the authenticated actor. Routes behind authMiddleware
// always have one.
func actorFrom(c *gin.Context) authz.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Actor{}
}
