package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Hardy101/Invix/pkg/response"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
)

// Context keys for the authenticated actor
const (
	ContextKeyActorID   = "actor_id"
	ContextKeyActorRole = "actor_role"
	ContextKeyEmail     = "email"
)

// AuthConfig holds configuration for the auth middleware
type AuthConfig struct {
	// Secret key for validating JWT tokens issued by the auth collaborator
	Secret string
	// SkipPaths is a list of paths that should skip validation
	SkipPaths []string
}

// Auth validates the Bearer token and injects the acting identity into the
// request context. Credential issuance happens elsewhere; this middleware
// only consumes the opaque actor identity.
func Auth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid authorization header format"))
			return
		}
		tokenString := authHeader[len(bearerPrefix):]

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Token is empty"))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(config.Secret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("TOKEN_EXPIRED", "Access token has expired"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid access token"))
			return
		}

		if !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid access token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid token claims"))
			return
		}

		actorID, ok := claims["sub"].(string)
		if !ok || actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Missing subject in token"))
			return
		}

		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		c.Set(ContextKeyActorID, actorID)
		c.Set(ContextKeyActorRole, role)
		c.Set(ContextKeyEmail, email)

		c.Next()
	}
}

// GetActorID returns the authenticated actor id from the gin context
func GetActorID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextKeyActorID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

// GetActorRole returns the authenticated actor role from the gin context
func GetActorRole(c *gin.Context) (string, bool) {
	role, ok := c.Get(ContextKeyActorRole)
	if !ok {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}
