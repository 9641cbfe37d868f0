// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for every kind of account the platform knows about.
const (
	RoleStudent    = "student"
	RoleCompany    = "company"
	RoleIes        = "ies"
	RoleManagement = "management"
	RoleSupport    = "support"
)

// EditableUserInfo is the part of a user account the owner may overwrite.
type EditableUserInfo struct {
	FullName  string  `gorm:"type:text" json:"full_name"`
	Email     *string `json:"email"`
	Tel       *string `json:"tel"`
	AvatarURL string  `gorm:"type:text" json:"avatar_url"`
}

// User is the identity record every role shares. A user links to at most one
// of Company or Institution, depending on its role.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Password string    `gorm:"type:text" json:"-"`
	GoogleID string    `gorm:"index" json:"-"`
	Role     string    `gorm:"type:text;not null" json:"role"`
	EditableUserInfo

	CompanyID *uuid.UUID `gorm:"type:uuid" json:"company_id,omitempty"`
	IesID     *uuid.UUID `gorm:"type:uuid" json:"ies_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
