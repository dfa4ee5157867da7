package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asilvr/taskdeck/internal/auth"
)

const (
	userIDKey    = "userID"
	usernameKey  = "username"
	requestIDKey = "requestId"
)

// RequireAuth rejects any request without a valid bearer token before it
// reaches handler logic. On success the decoded user id and username are
// attached to the request context.
func RequireAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header")
			return
		}

		claims, err := authService.VerifyToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// RequestID ensures every request carries a stable X-Request-ID. A client
// supplied id is propagated; otherwise a new UUIDv4 is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set(requestIDKey, reqID)
		c.Next()
	}
}

// AccessLog writes one structured log line per request.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("requestId", c.GetString(requestIDKey)),
		)
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}

func currentUserID(c *gin.Context) int64 {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(int64)
	return userID
}
