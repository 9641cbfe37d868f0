package model

import (
	"time"

	"github.com/google/uuid"
)

// Company approval status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// EditableCompanyInfo is part of company profile the linked account can edit
type EditableCompanyInfo struct {
	Description string `gorm:"type:text" json:"description"`
	Website     string `gorm:"type:text" json:"website"`
}

// Company is a partner company of the residency program. Created at
// registration with status pending; status transitions only by management.
type Company struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
	EditableCompanyInfo
	Status string `gorm:"type:text;default:'pending'" json:"status"`

	LogoID  *int `json:"logo_id"`
	Logo    File `gorm:"foreignKey:LogoID;references:ID" json:"-"`
	CoverID *int `json:"cover_id"`
	Cover   File `gorm:"foreignKey:CoverID;references:ID" json:"-"`

	LogoURL  string `gorm:"type:text" json:"logo_url"`
	CoverURL string `gorm:"type:text" json:"cover_url"`

	Jobs []Job `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"jobs,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
