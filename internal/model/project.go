package model

import (
	"time"

	"github.com/google/uuid"
)

// Project allocation status constants
const (
	ProjectAllocationOngoing   = "ongoing"
	ProjectAllocationCompleted = "completed"
)

// CompanyProject is a residency project run by a company (or, for imported
// historical records with no company row, a free-text company name) within
// one period.
type CompanyProject struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	PeriodID uint            `gorm:"not null;index" json:"period_id"`
	Period   ResidencyPeriod `gorm:"foreignKey:PeriodID;references:ID" json:"period,omitempty"`

	// Exactly one of CompanyID / HistoricCompanyName is set.
	CompanyID           *uuid.UUID `gorm:"type:uuid" json:"company_id"`
	Company             *Company   `gorm:"foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	HistoricCompanyName *string    `gorm:"type:text" json:"historic_company_name"`

	Title           string  `gorm:"type:text;not null" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	PdfURL          *string `gorm:"type:text" json:"pdf_url"`
	VideoURL        *string `gorm:"type:text" json:"video_url"`
	ClassName       string  `gorm:"type:text" json:"class_name"`
	Type            string  `gorm:"type:text;default:'custom'" json:"type"`
	IsDemoDayWinner bool    `gorm:"default:false" json:"is_demoday_winner"`

	Squad []ProjectAllocation `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"squad,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ProjectAllocation assigns one student to one project, carrying the
// student's status, grade and feedback for that project.
type ProjectAllocation struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	ProjectID uint           `gorm:"not null;index" json:"project_id"`
	Project   CompanyProject `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student   Student   `gorm:"foreignKey:StudentID;references:UserID" json:"student,omitempty"`

	Status   string   `gorm:"type:text;default:'ongoing'" json:"status"`
	Grade    *float64 `json:"grade"`
	Feedback string   `gorm:"type:text" json:"feedback"`
}
