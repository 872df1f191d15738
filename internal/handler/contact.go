package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/dto"
	apperrors "github.com/Payphone-Digital/contacts-api/internal/errors"
	"github.com/Payphone-Digital/contacts-api/internal/middleware"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	ctxutil "github.com/Payphone-Digital/contacts-api/pkg/context"
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"github.com/Payphone-Digital/contacts-api/pkg/validation"
	"github.com/gin-gonic/gin"
)

type ContactService interface {
	List(ctx context.Context, skip, limit int, user *model.User) ([]dto.ContactResponse, error)
	Get(ctx context.Context, contactID uint, user *model.User) (*dto.ContactResponse, error)
	Create(ctx context.Context, req *dto.ContactRequest, user *model.User) (*dto.ContactResponse, error)
	Update(ctx context.Context, contactID uint, req *dto.ContactRequest, user *model.User) (*dto.ContactResponse, error)
	UpdateBirthday(ctx context.Context, contactID uint, birthday dto.Date, user *model.User) (*dto.ContactResponse, error)
	Delete(ctx context.Context, contactID uint, user *model.User) (*dto.ContactResponse, error)
	Search(ctx context.Context, query string, user *model.User) ([]dto.ContactResponse, error)
	UpcomingBirthdays(ctx context.Context, user *model.User) ([]dto.ContactResponse, error)
}

type ContactHandler struct {
	contacts ContactService
}

func NewContactHandler(contacts ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// begin builds the handler context and fetches the authenticated owner.
func begin(c *gin.Context, function string) (context.Context, *model.User, bool) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", function)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.ErrNotAuthenticated)
		return ctx, nil, false
	}
	return ctx, user, true
}

func (h *ContactHandler) List(c *gin.Context) {
	ctx, user, ok := begin(c, "ListContacts")
	if !ok {
		return
	}

	page, err := constants.ParsePaginationParams(c)
	if err != nil {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, []string{err.Error()})
		return
	}

	contacts, err := h.contacts.List(ctx, page.Skip, page.Limit, user)
	if err != nil {
		respondError(ctx, c, "Failed to list contacts", err)
		return
	}

	logger.DebugWithContext(ctx, "Contacts listed").
		Int("skip", page.Skip).
		Int("limit", page.Limit).
		Int("returned_count", len(contacts)).
		Log()

	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Get(c *gin.Context) {
	ctx, user, ok := begin(c, "GetContact")
	if !ok {
		return
	}
	id, ok := parseContactID(c)
	if !ok {
		return
	}

	contact, err := h.contacts.Get(ctx, id, user)
	if err != nil {
		respondError(ctx, c, "Failed to get contact", err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Create(c *gin.Context) {
	ctx, user, ok := begin(c, "CreateContact")
	if !ok {
		return
	}
	req, ok := requestBody[dto.ContactRequest](c)
	if !ok {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgInvalidRequestBody)
		return
	}

	contact, err := h.contacts.Create(ctx, req, user)
	if err != nil {
		respondError(ctx, c, "Failed to create contact", err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	ctx, user, ok := begin(c, "UpdateContact")
	if !ok {
		return
	}
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	req, ok := requestBody[dto.ContactRequest](c)
	if !ok {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, constants.MsgInvalidRequestBody)
		return
	}

	contact, err := h.contacts.Update(ctx, id, req, user)
	if err != nil {
		respondError(ctx, c, "Failed to update contact", err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// UpdateBirthday takes birthday_date from the query string, or from a JSON
// body when the query has none.
func (h *ContactHandler) UpdateBirthday(c *gin.Context) {
	ctx, user, ok := begin(c, "UpdateBirthday")
	if !ok {
		return
	}
	id, ok := parseContactID(c)
	if !ok {
		return
	}

	var birthday dto.Date
	if raw, present := c.GetQuery(constants.QueryParamBirthdayDate); present {
		parsed, err := dto.ParseDate(raw)
		if err != nil {
			middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, []string{err.Error()})
			return
		}
		birthday = parsed
	} else {
		var req dto.BirthdayUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, validation.Messages(err))
			return
		}
		birthday = *req.BirthdayDate
	}

	contact, err := h.contacts.UpdateBirthday(ctx, id, birthday, user)
	if err != nil {
		respondError(ctx, c, "Failed to update birthday", err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	ctx, user, ok := begin(c, "DeleteContact")
	if !ok {
		return
	}
	id, ok := parseContactID(c)
	if !ok {
		return
	}

	contact, err := h.contacts.Delete(ctx, id, user)
	if err != nil {
		respondError(ctx, c, "Failed to delete contact", err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Search(c *gin.Context) {
	ctx, user, ok := begin(c, "SearchContacts")
	if !ok {
		return
	}

	// An empty query matches every contact; only a missing one is rejected.
	query, present := c.GetQuery(constants.QueryParamQuery)
	if !present {
		middleware.AbortWithDetail(c, http.StatusUnprocessableEntity, []string{constants.MsgMissingQuery})
		return
	}

	contacts, err := h.contacts.Search(ctx, query, user)
	if err != nil {
		respondError(ctx, c, "Failed to search contacts", err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	ctx, user, ok := begin(c, "UpcomingBirthdays")
	if !ok {
		return
	}

	contacts, err := h.contacts.UpcomingBirthdays(ctx, user)
	if err != nil {
		respondError(ctx, c, "Failed to get upcoming birthdays", err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}
