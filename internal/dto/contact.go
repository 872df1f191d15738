package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/Payphone-Digital/contacts-api/internal/constants"
	"github.com/Payphone-Digital/contacts-api/internal/model"
	"gorm.io/datatypes"
)

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// dateLayouts are tried in order. Timestamps may be naive or carry a zone,
// and the seconds may have a fraction.
var dateLayouts = []string{
	constants.DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
}

// ParseDate accepts YYYY-MM-DD or an ISO 8601 timestamp. The time of day is
// discarded and the calendar date as written is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(constants.DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	parsed, err := ParseDate(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type ContactRequest struct {
	FirstName    string `json:"first_name" binding:"required,max=50"`
	LastName     string `json:"last_name" binding:"required,max=50"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Phone        string `json:"phone" binding:"required,max=20"`
	BirthdayDate *Date  `json:"birthday_date" binding:"required"`
}

type BirthdayUpdateRequest struct {
	BirthdayDate *Date `json:"birthday_date" binding:"required"`
}

type ContactResponse struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	BirthdayDate Date      `json:"birthday_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToModel builds the contact row for owner. The id is left for the store to
// assign.
func (r *ContactRequest) ToModel(ownerID uint) *model.Contact {
	return &model.Contact{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		Birthday:  datatypes.Date(r.BirthdayDate.Time),
		UserID:    ownerID,
	}
}

func NewContactResponse(c *model.Contact) ContactResponse {
	return ContactResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		BirthdayDate: Date{time.Time(c.Birthday)},
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func NewContactListResponse(contacts []model.Contact) []ContactResponse {
	res := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		res = append(res, NewContactResponse(&contacts[i]))
	}
	return res
}
