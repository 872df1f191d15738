package service

import (
	"context"
	"errors"

	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"gorm.io/gorm"
)

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService resolves bearer access tokens to users.
type AuthService struct {
	tokens *TokenService
	users  UserFinder
	cache  *UserCache
}

func NewAuthService(tokens *TokenService, users UserFinder, cache *UserCache) *AuthService {
	return &AuthService{tokens: tokens, users: users, cache: cache}
}

// GetCurrentUser fails with ErrCouldNotValidate for anything but a valid
// access token naming an existing user.
func (s *AuthService) GetCurrentUser(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "GetCurrentUser")

	email, err := s.tokens.DecodeAccessToken(token)
	if err != nil {
		logger.WarnWithContext(ctx, "Access token rejected").
			Err(err).
			Log()
		return nil, apperrors.ErrCouldNotValidate
	}

	if user := s.cache.Get(ctx, email); user != nil {
		return user, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnWithContext(ctx, "Token subject has no account").
				String("email", email).
				Log()
			return nil, apperrors.ErrCouldNotValidate
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.Set(ctx, user)
	return user, nil
}
