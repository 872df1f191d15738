package middleware

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CurrentUserResolver interface {
	GetCurrentUser(ctx context.Context, token string) (*model.User, error)
}

type JWTMiddleware struct {
	auth CurrentUserResolver
}

func NewJWTMiddleware(auth CurrentUserResolver) *JWTMiddleware {
	return &JWTMiddleware{auth: auth}
}

// RequireAuth resolves the bearer access token to the current user.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := BearerToken(c)
		if !ok {
			logger.WarnWithContext(ctx, "Missing bearer token").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				Log()
			AbortWithError(c, apperrors.ErrNotAuthenticated)
			return
		}

		user, err := m.auth.GetCurrentUser(ctx, token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(constants.GinKeyCurrentUser, user)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, user.ID))

		logger.DebugWithContext(c.Request.Context(), "User authenticated successfully").
			String("path", c.Request.URL.Path).
			Log()

		c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func BearerToken(c *gin.Context) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.GetHeader(constants.HeaderAuthorization)), " ")
	if !found || !strings.EqualFold(scheme, constants.AuthSchemeBearer) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser returns the user set by RequireAuth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(constants.GinKeyCurrentUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
