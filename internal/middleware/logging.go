package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequest = 2 * time.Second

// LoggingMiddleware writes one access log line per request. The level
// follows the outcome: errors for 5xx, warnings for 4xx and slow requests.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// Read after Next to pick up the user id set by RequireAuth. The
		// request context is cancelled by then.
		ctx := context.WithoutCancel(c.Request.Context())
		status := c.Writer.Status()

		var entry *logger.ContextLogBuilder
		switch {
		case status >= http.StatusInternalServerError:
			entry = logger.ErrorWithContext(ctx, "Server error")
		case status >= http.StatusBadRequest:
			entry = logger.WarnWithContext(ctx, "Client error")
		case latency > slowRequest:
			entry = logger.WarnWithContext(ctx, "Slow request")
		default:
			entry = logger.InfoWithContext(ctx, "HTTP request")
		}

		entry.String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			String("route", c.FullPath()).
			Int("status_code", status).
			Int64("duration_ms", latency.Milliseconds()).
			Int("response_size", c.Writer.Size())

		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			entry.String("errors", errs.String())
		}
		entry.Log()
	}
}

// RecoveryMiddleware recovers from panics and logs them
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)
		AbortWithDetail(c, http.StatusInternalServerError, constants.MsgInternalError)
	})
}

// SecurityLoggingMiddleware logs security-related events
func SecurityLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		userAgent := c.Request.UserAgent()

		if isSuspiciousUserAgent(userAgent) {
			logger.GetLogger().Warn("Suspicious user agent detected",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", userAgent),
				zap.String("path", c.Request.URL.Path),
			)
		}

		if c.Request.URL.Path == "/api/auth/login" && c.Request.Method == "POST" {
			logger.GetLogger().Info("Login attempt",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", userAgent),
			)
		}

		c.Next()
	}
}

func isSuspiciousUserAgent(userAgent string) bool {
	suspiciousPatterns := []string{
		"sqlmap", "nikto", "nmap", "masscan", "burp",
		"scanner", "crawler", "spider",
	}

	ua := strings.ToLower(userAgent)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
