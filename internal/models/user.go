package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrivacySetting controls who can see a user's profile.
// Closed value set: "public", "friends_only", "private".
type PrivacySetting string

const (
	PrivacyPublic      PrivacySetting = "public"
	PrivacyFriendsOnly PrivacySetting = "friends_only"
	PrivacyPrivate     PrivacySetting = "private"
)

func (p PrivacySetting) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyFriendsOnly, PrivacyPrivate:
		return true
	}
	return false
}

type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	// Subject is the identity provider's stable user id. Immutable once set.
	Subject         string         `gorm:"uniqueIndex;not null" json:"subject"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Username        *string        `gorm:"uniqueIndex" json:"username,omitempty"`
	DisplayName     *string        `json:"display_name,omitempty"`
	Bio             *string        `json:"bio,omitempty"`
	ProfileImageURL *string        `json:"profile_image_url,omitempty"`
	ProfileImageKey *string        `json:"-"` // asset store key, resolved to a URL on read
	PrivacySetting  PrivacySetting `gorm:"default:'public';not null" json:"privacy_setting"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
