package model

import (
	"time"

	"gorm.io/datatypes"
)

type Contact struct {
	ID        uint           `gorm:"primaryKey"`
	FirstName string         `gorm:"column:first_name;size:50;not null;index"`
	LastName  string         `gorm:"column:last_name;size:50;not null;index"`
	Email     string         `gorm:"column:email;size:255;not null;index"`
	Phone     string         `gorm:"column:phone;size:20;not null"`
	Birthday  datatypes.Date `gorm:"column:birthday_date;not null"`
	UserID    uint           `gorm:"column:user_id;not null;index"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}
