package service

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/dto"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"gorm.io/gorm"
)

type ContactRepository interface {
	List(ctx context.Context, skip, limit int, user *model.User) ([]model.Contact, error)
	Get(ctx context.Context, contactID uint, user *model.User) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact, user *model.User) (*model.Contact, error)
	Update(ctx context.Context, contactID uint, fields *model.Contact, user *model.User) (*model.Contact, error)
	UpdateBirthday(ctx context.Context, contactID uint, birthday time.Time, user *model.User) (*model.Contact, error)
	Delete(ctx context.Context, contactID uint, user *model.User) (*model.Contact, error)
	Search(ctx context.Context, query string, user *model.User) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, today time.Time, user *model.User) ([]model.Contact, error)
}

type ContactService struct {
	repo ContactRepository
	now  func() time.Time
}

func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo, now: time.Now}
}

func (s *ContactService) List(ctx context.Context, skip, limit int, user *model.User) ([]dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "ListContacts")

	contacts, err := s.repo.List(ctx, skip, limit, user)
	if err != nil {
		return nil, contactError(ctx, err)
	}
	return dto.NewContactListResponse(contacts), nil
}

func (s *ContactService) Get(ctx context.Context, contactID uint, user *model.User) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "GetContact")

	contact, err := s.repo.Get(ctx, contactID, user)
	if err != nil {
		return nil, contactError(ctx, err)
	}
	res := dto.NewContactResponse(contact)
	return &res, nil
}

func (s *ContactService) Create(ctx context.Context, req *dto.ContactRequest, user *model.User) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "CreateContact")

	contact, err := s.repo.Create(ctx, req.ToModel(user.ID), user)
	if err != nil {
		return nil, contactError(ctx, err)
	}

	logger.InfoWithContext(ctx, "Contact created").
		Uint("contact_id", contact.ID).
		Log()

	res := dto.NewContactResponse(contact)
	return &res, nil
}

func (s *ContactService) Update(ctx context.Context, contactID uint, req *dto.ContactRequest, user *model.User) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "UpdateContact")

	contact, err := s.repo.Update(ctx, contactID, req.ToModel(user.ID), user)
	if err != nil {
		return nil, contactError(ctx, err)
	}
	res := dto.NewContactResponse(contact)
	return &res, nil
}

func (s *ContactService) UpdateBirthday(ctx context.Context, contactID uint, birthday dto.Date, user *model.User) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "UpdateBirthday")

	contact, err := s.repo.UpdateBirthday(ctx, contactID, birthday.Time, user)
	if err != nil {
		return nil, contactError(ctx, err)
	}
	res := dto.NewContactResponse(contact)
	return &res, nil
}

func (s *ContactService) Delete(ctx context.Context, contactID uint, user *model.User) (*dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "DeleteContact")

	contact, err := s.repo.Delete(ctx, contactID, user)
	if err != nil {
		return nil, contactError(ctx, err)
	}

	logger.InfoWithContext(ctx, "Contact deleted").
		Uint("contact_id", contact.ID).
		Log()

	res := dto.NewContactResponse(contact)
	return &res, nil
}

func (s *ContactService) Search(ctx context.Context, query string, user *model.User) ([]dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "SearchContacts")

	contacts, err := s.repo.Search(ctx, query, user)
	if err != nil {
		return nil, contactError(ctx, err)
	}
	return dto.NewContactListResponse(contacts), nil
}

// UpcomingBirthdays lists contacts with a birthday today or in the next
// seven days.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, user *model.User) ([]dto.ContactResponse, error) {
	ctx = ctxutil.WithLocation(ctx, "service", "UpcomingBirthdays")

	contacts, err := s.repo.UpcomingBirthdays(ctx, s.now(), user)
	if err != nil {
		return nil, contactError(ctx, err)
	}
	return dto.NewContactListResponse(contacts), nil
}

func contactError(ctx context.Context, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrContactNotFound
	}

	logger.ErrorWithContext(ctx, "Contact query failed").
		Err(err).
		Log()
	return apperrors.WrapError(apperrors.ErrInternal, err)
}
