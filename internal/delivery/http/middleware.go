package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safebite/backend/internal/domain"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "user_role"
)

// CORSMiddleware handles cross-origin requests from the web and mobile apps.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks the origin against the allowlist, with trailing
// wildcard support.
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if strings.HasSuffix(allowed, "*") {
			if strings.HasPrefix(origin, strings.TrimSuffix(allowed, "*")) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// tokenParser is the slice of the auth service middleware needs.
type tokenParser interface {
	ParseAccessToken(token string) (uint, domain.UserRole, error)
}

// AuthRequired rejects requests without a valid bearer access token and
// stores the caller's identity on the context.
func AuthRequired(auth tokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Message: "missing bearer token",
			})
			return
		}

		userID, role, err := auth.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Message: "invalid or expired token",
			})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, ok := c.Get(ctxRole); !ok || role.(domain.UserRole) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Message: "admin access required",
			})
			return
		}
		c.Next()
	}
}

func callerIdentity(c *gin.Context) (uint, domain.UserRole) {
	userID, _ := c.Get(ctxUserID)
	role, _ := c.Get(ctxRole)
	id, _ := userID.(uint)
	r, _ := role.(domain.UserRole)
	return id, r
}
