package middleware

import (
	"net/http"
	"strings"

	"seatgrid/internal/shared/config"
	"seatgrid/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Context keys set by the middleware below. Scope is always explicit: handlers
// read the tenant and session from the request, never from package state.
const (
	ContextSessionUID = "session_uid"
	ContextTenantID   = "tenant_id"
)

// SessionAuth verifies the session token minted by the external auth provider
// and extracts the buyer's session UID. The engine never issues tokens itself.
func SessionAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Session.Secret), nil
		})

		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired session token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid session token claims", nil, nil)
			c.Abort()
			return
		}

		sessionUID, ok := claims["session_uid"].(string)
		if !ok || sessionUID == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "session token missing session_uid", nil, nil)
			c.Abort()
			return
		}

		c.Set(ContextSessionUID, sessionUID)
		c.Next()
	}
}

// RequireTenant extracts and validates the X-Tenant-ID header on operator routes.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantHeader := c.GetHeader("X-Tenant-ID")
		if tenantHeader == "" {
			response.RespondJSON(c, "error", http.StatusBadRequest, "X-Tenant-ID header is required", nil, nil)
			c.Abort()
			return
		}

		tenantID, err := uuid.Parse(tenantHeader)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "X-Tenant-ID must be a valid UUID", nil, nil)
			c.Abort()
			return
		}

		c.Set(ContextTenantID, tenantID)
		c.Next()
	}
}

// SessionUID returns the session UID set by SessionAuth.
func SessionUID(c *gin.Context) string {
	if v, exists := c.Get(ContextSessionUID); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// TenantID returns the tenant ID set by RequireTenant.
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(ContextTenantID); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
