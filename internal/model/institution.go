package model

import (
	"time"

	"github.com/google/uuid"
)

// EditableIesInfo is part of institution profile the linked account can edit
type EditableIesInfo struct {
	Description string `gorm:"type:text" json:"description"`
	Website     string `gorm:"type:text" json:"website"`
	LogoURL     string `gorm:"type:text" json:"logo_url"`
	CoverURL    string `gorm:"type:text" json:"cover_url"`
}

// Institution is a partner educational institution (IES). Rows are created
// by seed or management tooling, never by self registration.
type Institution struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
	EditableIesInfo

	// StartPeriod is the earliest residency period the institution joined,
	// e.g. "2024.1".
	StartPeriod string `gorm:"type:text" json:"start_period"`

	Cards []IesCard `gorm:"foreignKey:IesID;constraint:OnDelete:CASCADE" json:"cards,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
