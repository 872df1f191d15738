package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/Payphone-Digital/contacts-api/pkg/redis"
)

// UserCache keeps the current-user record in Redis. Every failure is logged
// and reported as a miss so callers fall back to the database.
type UserCache struct {
	client redis.Client
	ttl    time.Duration
}

func NewUserCache(client redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = constants.UserCacheExpiry
	}
	return &UserCache{client: client, ttl: ttl}
}

func userCacheKey(email string) string {
	return constants.CacheKeyUser + email
}

func (c *UserCache) enabled() bool {
	return c != nil && c.client != nil && c.client.IsEnabled()
}

func (c *UserCache) Get(ctx context.Context, email string) *model.User {
	if !c.enabled() {
		return nil
	}

	data, err := c.client.Get(ctx, userCacheKey(email))
	if err != nil {
		logger.WarnWithContext(ctx, "User cache read failed").
			String("email", email).
			Err(err).
			Log()
		return nil
	}
	if data == nil {
		return nil
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		logger.WarnWithContext(ctx, "User cache entry is corrupt").
			String("email", email).
			Err(err).
			Log()
		return nil
	}
	return &user
}

func (c *UserCache) Set(ctx context.Context, user *model.User) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, userCacheKey(user.Email), data, c.ttl); err != nil {
		logger.WarnWithContext(ctx, "User cache write failed").
			String("email", user.Email).
			Err(err).
			Log()
	}
}

func (c *UserCache) Evict(ctx context.Context, email string) {
	if !c.enabled() {
		return
	}
	if err := c.client.Delete(ctx, userCacheKey(email)); err != nil {
		logger.WarnWithContext(ctx, "User cache eviction failed").
			String("email", email).
			Err(err).
			Log()
	}
}
