package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/dto"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/Payphone-Digital/contacts-api/pkg/mail"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository interface {
	UserFinder
	Create(ctx context.Context, user *model.User) error
	UpdateRefreshToken(ctx context.Context, userID uint, digest string) error
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) (*model.User, error)
}

type ConfirmationDispatcher interface {
	EnqueueConfirmation(ctx context.Context, c mail.Confirmation) error
}

type AvatarUploader interface {
	UploadAvatar(ctx context.Context, file io.Reader, username string) (string, error)
}

type UserService struct {
	repo    UserRepository
	tokens  *TokenService
	cache   *UserCache
	mailer  ConfirmationDispatcher
	avatars AvatarUploader
}

// NewUserService wires the account flows. avatars may be nil when no image
// storage is configured.
func NewUserService(repo UserRepository, tokens *TokenService, cache *UserCache, mailer ConfirmationDispatcher, avatars AvatarUploader) *UserService {
	return &UserService{
		repo:    repo,
		tokens:  tokens,
		cache:   cache,
		mailer:  mailer,
		avatars: avatars,
	}
}

// Signup creates an unconfirmed account and queues its confirmation email.
// baseURL is the public service URL used in the confirmation link.
func (s *UserService) Signup(ctx context.Context, req *dto.SignupRequest, baseURL string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "Signup")

	email := strings.TrimSpace(req.Email)
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		logger.LogAuth(email, "signup", false, zap.String("reason", "account exists"))
		return nil, apperrors.ErrAccountExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	hashed, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Email:    email,
		Password: hashed,
		Avatar:   gravatarURL(email),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(email, "signup", true, zap.Uint("user_id", user.ID))
	s.sendConfirmation(ctx, user, baseURL)

	res := dto.NewUserResponse(user)
	return &res, nil
}

// Login checks credentials and issues a new token pair. The refresh token
// replaces any previously issued one.
func (s *UserService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "Login")

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.LogAuth(email, "login", false, zap.String("reason", "unknown email"))
			return nil, apperrors.ErrInvalidEmail
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !user.Confirmed {
		logger.LogAuth(email, "login", false, zap.String("reason", "email not confirmed"))
		return nil, apperrors.ErrEmailNotConfirmed
	}
	if !s.tokens.VerifyPassword(password, user.Password) {
		logger.LogAuth(email, "login", false, zap.String("reason", "invalid password"))
		return nil, apperrors.ErrInvalidPassword
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.LogAuth(email, "login", true, zap.Uint("user_id", user.ID))
	return tokens, nil
}

// RefreshToken rotates the token pair. A refresh token other than the last
// one issued revokes the stored one, forcing a new login.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "RefreshToken")

	email, err := s.tokens.DecodeRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCouldNotValidate
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenHash != tokenDigest(refreshToken) {
		if err := s.repo.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		logger.LogAuth(email, "refresh_token", false, zap.String("reason", "token does not match stored digest"))
		return nil, apperrors.ErrInvalidRefreshToken
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.LogAuth(email, "refresh_token", true, zap.Uint("user_id", user.ID))
	return tokens, nil
}

// ConfirmEmail marks the token's account as confirmed and returns the
// message for the client.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "ConfirmEmail")

	email, err := s.tokens.GetEmailFromToken(token)
	if err != nil {
		return "", err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrVerification
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user.Confirmed {
		return constants.MsgEmailAlreadyConfirmed, nil
	}

	if err := s.repo.ConfirmEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrVerification
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Evict(ctx, email)

	logger.LogAuth(email, "confirm_email", true, zap.Uint("user_id", user.ID))
	return constants.MsgEmailConfirmed, nil
}

// RequestEmail queues a new confirmation email. The reply does not reveal
// whether the address has an account.
func (s *UserService) RequestEmail(ctx context.Context, email, baseURL string) (string, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "RequestEmail")

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constants.MsgCheckEmail, nil
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user.Confirmed {
		return constants.MsgEmailAlreadyConfirmed, nil
	}

	s.sendConfirmation(ctx, user, baseURL)
	return constants.MsgCheckEmail, nil
}

// UpdateAvatar uploads a new avatar image for user and stores its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, user *model.User, file io.Reader) (*dto.UserResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "UpdateAvatar")

	if s.avatars == nil {
		return nil, apperrors.ErrServiceUnavailable
	}

	url, err := s.avatars.UploadAvatar(ctx, file, user.Username)
	if err != nil {
		logger.ErrorWithContext(ctx, "Avatar upload failed").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	updated, err := s.repo.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.cache.Evict(ctx, user.Email)

	res := dto.NewUserResponse(updated)
	return &res, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	access, err := s.tokens.CreateAccessToken(user.Email, 0)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	refresh, err := s.tokens.CreateRefreshToken(user.Email, 0)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.repo.UpdateRefreshToken(ctx, user.ID, tokenDigest(refresh)); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    constants.TokenTypeBearer,
	}, nil
}

// sendConfirmation never fails the request. Delivery problems are logged.
func (s *UserService) sendConfirmation(ctx context.Context, user *model.User, baseURL string) {
	token, err := s.tokens.CreateEmailToken(user.Email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create email token").
			String("email", user.Email).
			Err(err).
			Log()
		return
	}

	msg := mail.Confirmation{
		To:       user.Email,
		Username: user.Username,
		Host:     baseURL,
		Token:    token,
	}
	if err := s.mailer.EnqueueConfirmation(ctx, msg); err != nil {
		logger.ErrorWithContext(ctx, "Failed to queue confirmation email").
			String("email", user.Email).
			Err(err).
			Log()
	}
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=identicon"
}
