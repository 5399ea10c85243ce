package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/akaJirt/restaurant-api/internal/domain"
)

const currentUserKey = "currentUser"

// AuthMiddleware resolves the bearer token to a persisted session and loads
// the owning user into the request context.
func AuthMiddleware(sessions domain.SessionRepository, users domain.UserRepository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warnf("Middleware: Invalid Authorization header format: %s", authHeader)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		rawToken := parts[1]
		if rawToken == "" {
			log.Warn("Middleware: Bearer token is empty")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		// Tokens are UUIDs; anything else can never match a session and would
		// only trip the uuid column's input parsing.
		if _, err := uuid.Parse(rawToken); err != nil {
			log.Warn("Middleware: Bearer token is not a valid session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		session, err := sessions.GetSession(rawToken)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			log.Errorf("Middleware: Failed to resolve session: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
			return
		}
		if session.Expired(time.Now()) {
			log.Warnf("Middleware: Expired session for user %d", session.UserID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.GetUserByID(session.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Warnf("Middleware: Session references missing user %d", session.UserID)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "The user belonging to this token no longer exists"})
				return
			}
			log.Errorf("Middleware: Failed to load user %d: %v", session.UserID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated user has one of the
// given roles. Must run after AuthMiddleware.
func RequireRoles(log *logrus.Logger, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			log.Error("Middleware: RequireRoles invoked without authenticated user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		log.Warnf("Middleware: User %d with role '%s' denied access to %s", user.ID, user.Role, c.FullPath())
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	}
}

// CurrentUser returns the user loaded by AuthMiddleware, if any.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}

// RequestLogger logs every request with method, path, status and latency.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  latency.Milliseconds(),
		})

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		} else if statusCode >= 500 {
			entry.Error("Request completed with server error")
		} else if statusCode >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Info("Request completed successfully")
		}
	}
}
