package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext attaches request tracking fields to the request context.
// An incoming X-Request-ID is kept, otherwise a new one is generated.
func RequestContext(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Header(constants.HeaderXRequestID, requestID)

		ctx := ctxutil.WithRequest(c.Request.Context(), requestID, c.ClientIP(), c.GetHeader(constants.HeaderUserAgent))
		ctx = ctxutil.WithLocation(ctx, module, c.FullPath())
		c.Request = c.Request.WithContext(ctx)

		logger.DebugWithContext(ctx, "Request started").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			String("query", c.Request.URL.RawQuery).
			Log()

		c.Next()

		logger.DebugWithContext(ctx, "Request completed").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}

// RequestTimeout bounds the request context.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
