package model

import (
	"time"

	"github.com/google/uuid"
)

// Residency period status constants
const (
	PeriodStatusPlanning = "planning"
	PeriodStatusActive   = "active"
	PeriodStatusFinished = "finished"
)

// ResidencyPeriod is one program cycle, e.g. "2025.2".
type ResidencyPeriod struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	Name      string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
	StartDate time.Time `gorm:"type:date" json:"start_date"`
	EndDate   time.Time `gorm:"type:date" json:"end_date"`
	Status    string    `gorm:"type:text;default:'planning'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

// ResidencyAllocation links one company to one institution within one
// period. The composite unique index rejects duplicate tuples.
type ResidencyAllocation struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	PeriodID uint            `gorm:"not null;uniqueIndex:idx_period_company_ies" json:"residency_period_id"`
	Period   ResidencyPeriod `gorm:"foreignKey:PeriodID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_period_company_ies" json:"company_id"`
	Company   Company   `gorm:"foreignKey:CompanyID;references:ID" json:"company"`

	IesID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_period_company_ies" json:"ies_id"`
	Ies   Institution `gorm:"foreignKey:IesID;references:ID" json:"ies"`

	CreatedAt time.Time `json:"created_at"`
}
