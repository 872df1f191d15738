package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/model"
	"github.com/Payphone-Digital/contacts-api/pkg/mail"
	"github.com/Payphone-Digital/contacts-api/pkg/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	s, err := NewTokenService(TokenConfig{Secret: "test-secret", Algorithm: "HS256"})
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	s.bcryptCost = bcrypt.MinCost
	return s
}

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]*model.User
	nextID  uint
	lookups int
	err     error
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}, nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = r.nextID
		}
		r.nextID = u.ID + 1
		r.users[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateRefreshToken(_ context.Context, userID uint, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.RefreshTokenHash = digest
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ConfirmEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Confirmed = true
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, email, url string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u.Avatar = url
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) get(email string) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[email]
}

type fakeDispatcher struct {
	sent []mail.Confirmation
	err  error
}

func (d *fakeDispatcher) EnqueueConfirmation(_ context.Context, c mail.Confirmation) error {
	d.sent = append(d.sent, c)
	return d.err
}

type fakeUploader struct {
	username string
	url      string
	err      error
}

func (u *fakeUploader) UploadAvatar(_ context.Context, file io.Reader, username string) (string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	u.username = username
	return u.url, u.err
}

// fakeRedis is an in-memory redis.Client.
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
	getErr  error
}

var _ redis.Client = (*fakeRedis)(nil)

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}}
}

func (f *fakeRedis) IsEnabled() bool            { return true }
func (f *fakeRedis) Ping(context.Context) error { return nil }
func (f *fakeRedis) Close() error               { return nil }

func (f *fakeRedis) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.data[key], nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeRedis) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

func (f *fakeRedis) IncrWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, nil
}
