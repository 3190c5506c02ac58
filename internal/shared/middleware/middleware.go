package middleware

import (
	"net/http"
	"strings"

	"parkly/internal/shared/config"
	"parkly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Role values supplied by the external Auth Gateway in token claims.
type Role string

const (
	RoleUser     Role = "USER"
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleInternal Role = "INTERNAL"
)

// JWTAuth creates a JWT authentication middleware
func JWTAuth() gin.HandlerFunc {
	return JWTAuthWithConfig(config.Load())
}

// JWTAuthWithConfig creates a JWT authentication middleware with config.
// Tokens are issued by the external Auth Gateway; this service only
// validates the HMAC signature and extracts the caller identity.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", "Authorization header is required", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", "authorization header format must be Bearer {token}", nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token", nil)
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
				response.RespondError(c, http.StatusUnauthorized, "unauthorized", "invalid token type", nil)
				c.Abort()
				return
			}
			c.Set("user_id", claims["user_id"])
			c.Set("user_email", claims["email"])
			c.Set("user_role", claims["role"])
		}

		c.Next()
	}
}

// RequireRole middleware checks if user has required role
func RequireRole(requiredRole Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", "user role not found in context", nil)
			c.Abort()
			return
		}

		if userRole.(string) != string(requiredRole) {
			response.RespondError(c, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", "user role not found in context", nil)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range requiredRoles {
			if userRole.(string) == string(role) {
				hasRole = true
				break
			}
		}

		if !hasRole {
			response.RespondError(c, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireInternal guards operational endpoints invoked by cron or sibling
// services rather than end users.
func RequireInternal() gin.HandlerFunc {
	return RequireRoles(RoleInternal, RoleAdmin)
}
