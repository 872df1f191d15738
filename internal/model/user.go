package model

import "time"

// User is an account owner. The JSON form is what the current-user cache
// stores, so secrets are excluded from it.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"column:username;size:50;not null" json:"username"`
	Email            string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"column:password;size:255;not null" json:"-"`
	Avatar           string    `gorm:"column:avatar;size:255" json:"avatar"`
	RefreshTokenHash string    `gorm:"column:refresh_token_hash;size:64" json:"-"`
	Confirmed        bool      `gorm:"column:confirmed;default:false;not null" json:"confirmed"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}
