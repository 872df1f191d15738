package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/middleware"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

func respondError(ctx context.Context, c *gin.Context, message string, err error) {
	status := apperrors.ToHTTPStatus(err)
	entry := logger.WarnWithContext(ctx, message)
	if status >= http.StatusInternalServerError {
		entry = logger.ErrorWithContext(ctx, message)
	}
	entry.Int("http_status", status).Err(err).Log()

	middleware.AbortWithError(c, err)
}

// requestBody returns the body decoded by ValidationMiddleware.
func requestBody[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(constants.GinKeyRequestBody)
	if !ok {
		return nil, false
	}
	body, ok := v.(*T)
	return body, ok
}

func parseContactID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("contact_id"), 10, 64)
	if err != nil || id == 0 {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgInvalidContactID)
		return 0, false
	}
	return uint(id), true
}

// baseURL is the public root of the service ending in "/". A configured
// root wins over the request's Host and X-Forwarded-Proto headers.
func baseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/") + "/"
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + "/"
}
