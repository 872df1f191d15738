package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestRootHandler(t *testing.T) {
	r := gin.New()
	r.GET("/", NewHealthHandler(nil, nil).Root)

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		db         DBPinger
		wantStatus int
	}{
		{"healthy", pingerFunc(func(context.Context) error { return nil }), http.StatusOK},
		{"database down", pingerFunc(func(context.Context) error { return errors.New("refused") }), http.StatusServiceUnavailable},
		{"no database", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/health", NewHealthHandler(tt.db, nil).HealthCheck)

			w := do(r, http.MethodGet, "/api/health", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"redis":{"status":"disabled"`)
		})
	}
}
