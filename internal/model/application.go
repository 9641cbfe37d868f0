package model

import (
	"time"

	"github.com/google/uuid"
)

// Application status constants
var (
	// ApplicationStatusApplied indicates a fresh swipe-right application
	ApplicationStatusApplied = "applied"
	// ApplicationStatusAccepted indicates the company accepted the applicant
	ApplicationStatusAccepted = "accepted"
	// ApplicationStatusRejected indicates the company rejected the applicant
	ApplicationStatusRejected = "rejected"
)

// JobApplication represents a student's application to a job. The composite
// unique index guarantees at most one application per (job, student).
type JobApplication struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	JobID uint `gorm:"not null;uniqueIndex:idx_job_student" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"job,omitempty"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_job_student" json:"student_id"`
	Student   Student   `gorm:"foreignKey:StudentID;references:UserID" json:"student,omitempty"`

	Status    string    `gorm:"type:text;default:'applied'" json:"status"`
	AppliedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"applied_at"`
}
