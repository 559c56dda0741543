package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"mobile-verify.backend/pkg/jwt"
	"mobile-verify.backend/pkg/redis"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionCookieName is the cookie carrying the browser session ID
	SessionCookieName = "session_id"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserMobileKey is the context key for user mobile number
	UserMobileKey = "userMobile"
)

// AuthMiddleware authenticates requests either by a Bearer access token or,
// for browser flows, by a session cookie resolved through Redis.
func AuthMiddleware(jwtService *jwt.JWTService, sessionStore *redis.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		authHeader := c.GetHeader(AuthorizationHeader)
		if strings.HasPrefix(authHeader, BearerPrefix) {
			tokenString = strings.TrimPrefix(authHeader, BearerPrefix)
		}

		// Browser fallback: resolve the access token from the session cookie.
		if tokenString == "" && sessionStore != nil {
			if sessionID, err := c.Cookie(SessionCookieName); err == nil && sessionID != "" {
				session, err := sessionStore.GetSession(c.Request.Context(), sessionID)
				if err == nil && session != nil {
					tokenString = session.AccessToken
				}
			}
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("[AuthMiddleware] Request to %s failed: %v", c.Request.URL.Path, err)
			if err == jwt.ErrExpiredToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		// Set user info in context
		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserMobileKey, claims.Mobile)

		c.Next()
	}
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

// GetUserMobile gets the user mobile number from context
func GetUserMobile(c *gin.Context) (string, bool) {
	mobile, exists := c.Get(UserMobileKey)
	if !exists {
		return "", false
	}
	return mobile.(string), true
}
