package delivery

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"product_tracker/internal/auth"
)

const (
	contextKeyUserID   = "userID"
	contextKeyUsername = "username"
	contextKeyIsAdmin  = "isAdmin"
)

// RequestID tags every request with an X-Request-ID so log lines from one
// request can be correlated. An incoming ID is kept, otherwise one is issued.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

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
		if reqID := c.Writer.Header().Get("X-Request-ID"); reqID != "" {
			entry = entry.WithField("request_id", reqID)
		}

		if statusCode >= 500 {
			entry.Error("Request completed with server error")
		} else if statusCode >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Info("Request completed successfully")
		}
	}
}

// AuthMiddleware validates the bearer token and stores the claims in the gin
// context for the handlers downstream.
func AuthMiddleware(tokens *auth.TokenManager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Status: "error", Message: "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			log.Warn("Middleware: Invalid Authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Status: "error", Message: "Invalid Authorization header format"})
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			log.Warnf("Middleware: Token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Status: "error", Message: err.Error()})
			return
		}

		c.Set(contextKeyUserID, claims.UserID())
		c.Set(contextKeyUsername, claims.Username)
		c.Set(contextKeyIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(contextKeyIsAdmin) {
			log.Warnf("Middleware: Non-admin user '%s' attempted an admin-only operation on %s", c.GetString(contextKeyUsername), c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, Response{Status: "error", Message: "Admin privileges required"})
			return
		}
		c.Next()
	}
}

func actingUserID(c *gin.Context) int {
	return c.GetInt(contextKeyUserID)
}

func actingIsAdmin(c *gin.Context) bool {
	return c.GetBool(contextKeyIsAdmin)
}
