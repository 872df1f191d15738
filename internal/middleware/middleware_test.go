package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/dto"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	"github.com/Payphone-Digital/contacts-api/pkg/cache"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	user  *model.User
	err   error
	token string
}

func (s *stubResolver) GetCurrentUser(_ context.Context, token string) (*model.User, error) {
	s.token = token
	return s.user, s.err
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		resolver   *stubResolver
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Not authenticated"}`,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Not authenticated"}`,
		},
		{
			name:       "rejected token",
			header:     "Bearer bad",
			resolver:   &stubResolver{err: apperrors.ErrCouldNotValidate},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Could not validate credentials"}`,
		},
		{
			name:       "valid token",
			header:     "bearer good",
			resolver:   &stubResolver{user: &model.User{ID: 5, Email: "ann@example.com"}},
			wantStatus: http.StatusOK,
			wantBody:   `{"email":"ann@example.com","id":5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/me", NewJWTMiddleware(tt.resolver).RequireAuth(), func(c *gin.Context) {
				user, ok := CurrentUser(c)
				require.True(t, ok)
				id, ok := ctxutil.GetUserID(c.Request.Context())
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"id": id, "email": user.Email})
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireAuthPassesToken(t *testing.T) {
	resolver := &stubResolver{user: &model.User{ID: 1}}
	r := gin.New()
	r.GET("/", NewJWTMiddleware(resolver).RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc.def.ghi", resolver.token)
}

func TestRateLimit(t *testing.T) {
	store := cache.NewCache(time.Minute)
	defer store.Close()

	r := gin.New()
	r.GET("/contacts", RateLimit(store, "contacts", 10, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 1; i <= 10; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts", nil))
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"detail":"Too Many Requests"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	store := cache.NewCache(time.Minute)
	defer store.Close()

	r := gin.New()
	r.GET("/", RateLimit(store, "global", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, ip := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, ip)
	}
}

type failingStore struct{}

func (failingStore) IncrWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis: connection refused")
}

func TestRateLimitStoreFailure(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(failingStore{}, "global", 10, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, w.Body.String())
}

func TestValidateRequestBody(t *testing.T) {
	v := NewValidationMiddleware()
	r := gin.New()
	r.POST("/signup", v.ValidateRequestBody(func() interface{} { return &dto.SignupRequest{} }), func(c *gin.Context) {
		req := c.MustGet(constants.GinKeyRequestBody).(*dto.SignupRequest)
		c.JSON(http.StatusCreated, gin.H{"username": req.Username})
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid",
			body:       `{"username":"ann","email":"ann@example.com","password":"secret1"}`,
			wantStatus: http.StatusCreated,
			wantBody:   `{"username":"ann"}`,
		},
		{
			name:       "invalid fields",
			body:       `{"username":"ann","email":"nope","password":"123"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"detail":["email is not a valid email address","password must be at least 6 characters"]}`,
		},
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"detail":"Invalid request body"}`,
		},
		{
			name:       "wrong type",
			body:       `{"username":1}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"detail":["username must be of type string"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestValidateContactBirthday(t *testing.T) {
	v := NewValidationMiddleware()
	r := gin.New()
	r.POST("/contacts", v.ValidateRequestBody(func() interface{} { return &dto.ContactRequest{} }), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	body := `{"first_name":"Ann","last_name":"Lee","email":"ann@example.com","phone":"555"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"detail":["birthday_date is required, expected YYYY-MM-DD"]}`, w.Body.String())
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, w.Body.String())
}

func TestRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext("api"))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetRequestID(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/api/contacts", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/contacts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
