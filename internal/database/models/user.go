package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the persisted user record. The password hash is never
// serialized in API responses.
type User struct {
	ID             string     `gorm:"type:varchar(40);primaryKey" json:"id"`
	Email          string     `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"type:varchar(256);not null" json:"-"`
	Firstname      string     `gorm:"type:varchar(80)" json:"firstname,omitempty"`
	Lastname       string     `gorm:"type:varchar(80)" json:"lastname,omitempty"`
	PhoneNumber    string     `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	AvatarURL      string     `gorm:"type:varchar(256)" json:"avatar_url,omitempty"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	IsVerified     bool       `gorm:"default:false" json:"is_verified"`
	Language       string     `gorm:"type:varchar(10)" json:"language,omitempty"`
	CompanyID      string     `gorm:"type:varchar(40)" json:"company_id"`
	RoleID         int        `json:"role_id"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an id when none was supplied. The id is the
// 32-hex form of a v4 UUID, which fits the 40-char column and matches
// ids produced by the other platform services.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewUserID()
	}
	return nil
}

// NewUserID generates an opaque user identifier.
func NewUserID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
