package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/dto"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	"github.com/Payphone-Digital/contacts-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// memContacts is an owner-scoped in-memory contact store.
type memContacts struct {
	rows   map[uint]model.Contact
	nextID uint
	today  time.Time
	err    error
}

func newMemContacts() *memContacts {
	return &memContacts{rows: map[uint]model.Contact{}, nextID: 1}
}

func (m *memContacts) owned(id uint, user *model.User) (model.Contact, error) {
	c, ok := m.rows[id]
	if !ok || c.UserID != user.ID {
		return model.Contact{}, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *memContacts) List(_ context.Context, skip, limit int, user *model.User) ([]model.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Contact
	for id := uint(1); id < m.nextID; id++ {
		if c, err := m.owned(id, user); err == nil {
			out = append(out, c)
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memContacts) Get(_ context.Context, id uint, user *model.User) (*model.Contact, error) {
	c, err := m.owned(id, user)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *memContacts) Create(_ context.Context, c *model.Contact, user *model.User) (*model.Contact, error) {
	c.ID = m.nextID
	c.UserID = user.ID
	m.nextID++
	m.rows[c.ID] = *c
	return c, nil
}

func (m *memContacts) Update(_ context.Context, id uint, fields *model.Contact, user *model.User) (*model.Contact, error) {
	c, err := m.owned(id, user)
	if err != nil {
		return nil, err
	}
	c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday = fields.FirstName, fields.LastName, fields.Email, fields.Phone, fields.Birthday
	m.rows[id] = c
	return &c, nil
}

func (m *memContacts) UpdateBirthday(_ context.Context, id uint, birthday time.Time, user *model.User) (*model.Contact, error) {
	c, err := m.owned(id, user)
	if err != nil {
		return nil, err
	}
	c.Birthday = datatypes.Date(birthday)
	m.rows[id] = c
	return &c, nil
}

func (m *memContacts) Delete(_ context.Context, id uint, user *model.User) (*model.Contact, error) {
	c, err := m.owned(id, user)
	if err != nil {
		return nil, err
	}
	delete(m.rows, id)
	return &c, nil
}

func (m *memContacts) Search(_ context.Context, query string, user *model.User) ([]model.Contact, error) {
	var out []model.Contact
	for _, c := range m.rows {
		if c.UserID == user.ID && (c.FirstName == query || c.LastName == query || c.Email == query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContacts) UpcomingBirthdays(_ context.Context, today time.Time, user *model.User) ([]model.Contact, error) {
	m.today = today
	window := map[string]bool{}
	for _, d := range repository.BirthdayWindow(today) {
		window[d] = true
	}
	var out []model.Contact
	for _, c := range m.rows {
		if c.UserID == user.ID && window[time.Time(c.Birthday).Format("01-02")] {
			out = append(out, c)
		}
	}
	return out, nil
}

func contactRequest(first string, birthday time.Time) *dto.ContactRequest {
	return &dto.ContactRequest{
		FirstName:    first,
		LastName:     "Doe",
		Email:        first + "@example.com",
		Phone:        "555-0100",
		BirthdayDate: &dto.Date{Time: birthday},
	}
}

func TestContactLifecycle(t *testing.T) {
	svc := NewContactService(newMemContacts())
	ctx := context.Background()
	owner := &model.User{ID: 1}
	birthday := time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(ctx, contactRequest("ann", birthday), owner)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, created.FirstName, got.FirstName)
	assert.Equal(t, created.Email, got.Email)
	assert.True(t, got.BirthdayDate.Equal(birthday))

	updated, err := svc.Update(ctx, created.ID, contactRequest("anna", birthday.AddDate(1, 0, 0)), owner)
	require.NoError(t, err)
	assert.Equal(t, "anna", updated.FirstName)
	assert.Equal(t, "anna@example.com", updated.Email)
	assert.Equal(t, 1991, updated.BirthdayDate.Year())

	deleted, err := svc.Delete(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "anna", deleted.FirstName)

	_, err = svc.Delete(ctx, created.ID, owner)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
	_, err = svc.Get(ctx, created.ID, owner)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
	assert.Equal(t, "Contact not found", apperrors.GetErrorMessage(err))
}

func TestContactsAreInvisibleToOtherUsers(t *testing.T) {
	svc := NewContactService(newMemContacts())
	ctx := context.Background()
	owner, other := &model.User{ID: 1}, &model.User{ID: 2}

	c, err := svc.Create(ctx, contactRequest("ann", time.Now()), owner)
	require.NoError(t, err)

	_, err = svc.Get(ctx, c.ID, other)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
	_, err = svc.Update(ctx, c.ID, contactRequest("eve", time.Now()), other)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
	_, err = svc.UpdateBirthday(ctx, c.ID, dto.Date{Time: time.Now()}, other)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
	_, err = svc.Delete(ctx, c.ID, other)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)

	list, err := svc.List(ctx, 0, 100, other)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpcomingBirthdaysUsesClock(t *testing.T) {
	store := newMemContacts()
	svc := NewContactService(store)
	svc.now = func() time.Time { return time.Date(2024, 12, 28, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	owner := &model.User{ID: 1}

	_, err := svc.Create(ctx, contactRequest("newyear", time.Date(1990, 1, 3, 0, 0, 0, 0, time.UTC)), owner)
	require.NoError(t, err)
	_, err = svc.Create(ctx, contactRequest("later", time.Date(1990, 1, 5, 0, 0, 0, 0, time.UTC)), owner)
	require.NoError(t, err)

	res, err := svc.UpcomingBirthdays(ctx, owner)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "newyear", res[0].FirstName)
	assert.Equal(t, 28, store.today.Day())
}

func TestContactStoreErrorIsInternal(t *testing.T) {
	store := newMemContacts()
	store.err = errors.New("connection reset")
	svc := NewContactService(store)

	_, err := svc.List(context.Background(), 0, 10, &model.User{ID: 1})
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.Equal(t, "Internal server error", apperrors.GetErrorMessage(err))
}
