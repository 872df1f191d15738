package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RateLimitStore counts hits in fixed windows. Both the Redis client and the
// in-memory cache implement it.
type RateLimitStore interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimit allows maxRequest requests per client IP per window on the named
// route. A counter failure is answered with 500.
func RateLimit(store RateLimitStore, route string, maxRequest int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := constants.CacheKeyRateLimit + route + ":" + ip

		count, ttl, err := store.IncrWindow(ctx, key, window)
		if err != nil {
			logger.ErrorWithContext(ctx, "Rate limit counter failed").
				String("route", route).
				Err(err).
				Log()
			AbortWithError(c, apperrors.WrapError(apperrors.ErrInternal, err))
			return
		}

		if ttl <= 0 {
			ttl = window
		}
		remaining := int64(maxRequest) - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header(constants.HeaderXRateLimitLimit, strconv.Itoa(maxRequest))
		c.Header(constants.HeaderXRateLimitRemain, strconv.FormatInt(remaining, 10))
		c.Header(constants.HeaderXRateLimitReset, strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

		if count > int64(maxRequest) {
			retryAfter := int(math.Ceil(ttl.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.WarnWithContext(ctx, "Rate limit exceeded").
				String("route", route).
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Int64("current_requests", count).
				Int("max_requests", maxRequest).
				Duration(window).
				Log()

			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
			AbortWithDetail(c, http.StatusTooManyRequests, constants.MsgTooManyRequests)
			return
		}

		c.Next()
	}
}
