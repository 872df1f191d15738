package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail returns gorm.ErrRecordNotFound when no user has the email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithLocation(ctx, "repository", "GetByEmail")

	start := time.Now()
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	duration := time.Since(start)

	if err != nil {
		logger.DebugWithContext(ctx, "User lookup by email failed").
			String("email", email).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithLocation(ctx, "repository", "Create")

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "User created successfully").
		Uint("user_id", user.ID).
		Duration(time.Since(start)).
		Log()
	return nil
}

// UpdateRefreshToken stores the digest of the refresh token last issued to
// the user. An empty digest revokes it.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID uint, digest string) error {
	ctx = ctxutil.WithLocation(ctx, "repository", "UpdateRefreshToken")

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", digest).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token").
			Uint("user_id", userID).
			Err(err).
			Log()
	}
	return err
}

// ConfirmEmail marks the user with the email as confirmed.
func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	ctx = ctxutil.WithLocation(ctx, "repository", "ConfirmEmail")

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("confirmed", true)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to confirm email").
			String("email", email).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateAvatar sets the avatar URL and returns the refreshed user.
func (r *UserRepository) UpdateAvatar(ctx context.Context, email, url string) (*model.User, error) {
	ctx = ctxutil.WithLocation(ctx, "repository", "UpdateAvatar")

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("avatar", url)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update avatar").
			String("email", email).
			Err(result.Error).
			Log()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByEmail(ctx, email)
}
