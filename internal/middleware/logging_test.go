package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = prev })

	r := gin.New()
	r.Use(RequestContext("api"), LoggingMiddleware(), RequestTimeout(time.Second))
	r.GET("/api/contacts", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/contacts/:contact_id", func(c *gin.Context) { AbortWithDetail(c, http.StatusNotFound, "Contact not found") })
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/contacts", "/api/contacts/9", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Request-ID", "req-"+path)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	ok := logs.FilterMessage("HTTP request").All()
	require.Len(t, ok, 1)
	fields := ok[0].ContextMap()
	assert.Equal(t, "/api/contacts", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status_code"])
	assert.Equal(t, "req-/api/contacts", fields["request_id"])

	notFound := logs.FilterMessage("Client error").All()
	require.Len(t, notFound, 1)
	assert.Equal(t, "/api/contacts/:contact_id", notFound[0].ContextMap()["route"])

	assert.Equal(t, 0, logs.FilterField(zap.String("path", "/api/health")).Len())
}
