package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContactRepository runs every query scoped to the owning user. A contact
// owned by someone else is reported as gorm.ErrRecordNotFound, exactly like
// a missing one.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) owned(ctx context.Context, user *model.User) *gorm.DB {
	return r.db.WithContext(ctx).Where("user_id = ?", user.ID)
}

func (r *ContactRepository) List(ctx context.Context, skip, limit int, user *model.User) ([]model.Contact, error) {
	ctx = ctxutil.WithLocation(ctx, "repository", "ListContacts")

	start := time.Now()
	var contacts []model.Contact
	err := r.owned(ctx, user).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&contacts).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list contacts").
			Int("skip", skip).
			Int("limit", limit).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Contacts listed").
		Int("skip", skip).
		Int("limit", limit).
		Int("returned_count", len(contacts)).
		Duration(time.Since(start)).
		Log()
	return contacts, nil
}

func (r *ContactRepository) Get(ctx context.Context, contactID uint, user *model.User) (*model.Contact, error) {
	ctx = ctxutil.WithLocation(ctx, "repository", "GetContact")

	var contact model.Contact
	if err := r.owned(ctx, user).Where("id = ?", contactID).First(&contact).Error; err != nil {
		logger.DebugWithContext(ctx, "Contact lookup failed").
			Uint("contact_id", contactID).
			Err(err).
			Log()
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact, user *model.User) (*model.Contact, error) {
	ctx = ctxutil.WithLocation(ctx, "repository", "CreateContact")

	contact.ID = 0
	contact.UserID = user.ID

	start := time.Now()
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create contact").
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Contact created").
		Uint("contact_id", contact.ID).
		Duration(time.Since(start)).
		Log()
	return contact, nil
}

// Update overwrites every mutable field of the owned contact.
func (r *ContactRepository) Update(ctx context.Context, contactID uint, fields *model.Contact, user *model.User) (*model.Contact, error) {
	contact, err := r.Get(ctx, contactID, user)
	if err != nil {
		return nil, err
	}
	ctx = ctxutil.WithLocation(ctx, "repository", "UpdateContact")

	contact.FirstName = fields.FirstName
	contact.LastName = fields.LastName
	contact.Email = fields.Email
	contact.Phone = fields.Phone
	contact.Birthday = fields.Birthday

	if err := r.db.WithContext(ctx).Save(contact).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to update contact").
			Uint("contact_id", contactID).
			Err(err).
			Log()
		return nil, err
	}
	return contact, nil
}

// UpdateBirthday touches only the birthday column.
func (r *ContactRepository) UpdateBirthday(ctx context.Context, contactID uint, birthday time.Time, user *model.User) (*model.Contact, error) {
	contact, err := r.Get(ctx, contactID, user)
	if err != nil {
		return nil, err
	}
	ctx = ctxutil.WithLocation(ctx, "repository", "UpdateBirthday")

	if err := r.db.WithContext(ctx).Model(contact).Update("birthday_date", datatypes.Date(birthday)).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to update birthday").
			Uint("contact_id", contactID).
			Err(err).
			Log()
		return nil, err
	}
	contact.Birthday = datatypes.Date(birthday)
	return contact, nil
}

// Delete removes the owned contact and returns it as it was before removal.
func (r *ContactRepository) Delete(ctx context.Context, contactID uint, user *model.User) (*model.Contact, error) {
	contact, err := r.Get(ctx, contactID, user)
	if err != nil {
		return nil, err
	}
	ctx = ctxutil.WithLocation(ctx, "repository", "DeleteContact")

	if err := r.db.WithContext(ctx).Delete(contact).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete contact").
			Uint("contact_id", contactID).
			Err(err).
			Log()
		return nil, err
	}
	return contact, nil
}

// Search matches query as a case-insensitive substring of first name, last
// name or email.
func (r *ContactRepository) Search(ctx context.Context, query string, user *model.User) ([]model.Contact, error) {
	ctx = ctxutil.WithLocation(ctx, "repository", "SearchContacts")

	pattern := likePattern(query)
	var contacts []model.Contact
	err := r.owned(ctx, user).
		Where("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)", pattern, pattern, pattern).
		Order("id").
		Find(&contacts).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to search contacts").
			String("query", query).
			Err(err).
			Log()
		return nil, err
	}
	return contacts, nil
}

// UpcomingBirthdays returns contacts whose birthday month-day falls within
// BirthdayWindow(today).
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, today time.Time, user *model.User) ([]model.Contact, error) {
	ctx = ctxutil.WithLocation(ctx, "repository", "UpcomingBirthdays")

	days := BirthdayWindow(today)
	var contacts []model.Contact
	err := r.owned(ctx, user).
		Where("to_char(birthday_date, 'MM-DD') IN ?", days).
		Order("id").
		Find(&contacts).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get upcoming birthdays").
			Err(err).
			Log()
		return nil, err
	}
	return contacts, nil
}

// BirthdayWindow lists the MM-DD strings for today and the following
// BirthdayWindowDays days. Each day is computed with date arithmetic before
// formatting, so the window crosses month and year ends.
func BirthdayWindow(today time.Time) []string {
	days := make([]string, 0, constants.BirthdayWindowDays+1)
	for i := 0; i <= constants.BirthdayWindowDays; i++ {
		days = append(days, today.AddDate(0, 0, i).Format(constants.MonthDayLayout))
	}
	return days
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
