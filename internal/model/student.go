package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Student lifecycle status constants
const (
	StudentStatusActive    = "active"
	StudentStatusGraduated = "graduated"
	StudentStatusDropped   = "dropped"
)

// EditableStudentInfo is part of student profile that the student can edit
type EditableStudentInfo struct {
	Bio              string         `gorm:"type:text" json:"bio"`
	MainRole         string         `gorm:"type:text" json:"main_role"`
	Links            pq.StringArray `gorm:"type:text[]" json:"links"`
	Skills           pq.StringArray `gorm:"type:text[]" json:"skills"`
	EntryPeriod      string         `gorm:"type:text" json:"entry_period"`
	ClassName        string         `gorm:"type:text" json:"class_name"`
	Shift            string         `gorm:"type:text" json:"shift"`
	IsEmbarqueHolder *bool          `json:"is_embarque_holder"`
}

// Student holds academic and public profile data for a user with the
// student role. Student rows are keyed by the owning user id.
type Student struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`

	EditableStudentInfo

	// ResidencyPeriod is the ordinal period the student currently sits in,
	// mutated only by management.
	ResidencyPeriod int    `gorm:"default:1" json:"residency_period"`
	Status          string `gorm:"type:text;default:'active'" json:"status"`

	AvatarID *int `json:"avatar_id"`
	Avatar   File `gorm:"foreignKey:AvatarID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
