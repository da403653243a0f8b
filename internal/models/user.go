package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"

	// MaxClickedCategories bounds the interaction history kept per user.
	MaxClickedCategories = 20
)

// User is a marketplace account. Payments, listings and reports reference
// users by UID, never by ID.
type User struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UID                string                      `gorm:"size:64;not null;uniqueIndex" json:"uid"`
	Email              string                      `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password           string                      `gorm:"not null" json:"-"`
	Hostel             string                      `gorm:"size:100" json:"hostel"`
	Phone              string                      `gorm:"size:32" json:"phone"`
	EmailNotifications bool                        `gorm:"default:false" json:"email_notifications"`
	Role               string                      `gorm:"size:20;default:'user'" json:"role"`
	Status             string                      `gorm:"size:20;default:'active';index" json:"status"`
	ClickedCategories  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"clicked_categories"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
	DeletedAt          gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsSuspended() bool {
	return u.Status == UserStatusSuspended
}

// RecordClick appends category to the click history, dropping the oldest
// entries beyond MaxClickedCategories.
func (u *User) RecordClick(category string) {
	clicks := append([]string(u.ClickedCategories), category)
	if len(clicks) > MaxClickedCategories {
		clicks = clicks[len(clicks)-MaxClickedCategories:]
	}
	u.ClickedCategories = datatypes.JSONSlice[string](clicks)
}
