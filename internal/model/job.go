package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job status constants
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// EditableJobInfo is part of job posting that the owning company can edit
type EditableJobInfo struct {
	Title        string `gorm:"type:text" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Requirements string `gorm:"type:text" json:"requirements"`
	Benefits     string `gorm:"type:text" json:"benefits"`
	SalaryRange  string `gorm:"type:text" json:"salary_range"`
	Location     string `gorm:"type:text" json:"location"`
	Type         string `gorm:"type:text" json:"type"`
	Status       string `gorm:"type:text;default:'open'" json:"status"`
}

// Job is gorm model for store job posting data in DB. Ownership is immutable
// after creation.
type Job struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"company_id"`
	Company   Company   `gorm:"foreignKey:CompanyID;references:ID" json:"company"`

	EditableJobInfo

	PostTime time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"post_time"`

	Applications []JobApplication `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
}

// JobResponse is the response struct for a job with the requesting student's
// application state attached.
type JobResponse struct {
	ID        uint      `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Company   Company   `json:"company"`
	PostTime  time.Time `json:"post_time"`
	UserApply bool      `json:"user_apply"`
	EditableJobInfo
}

// ToJobResponse converts Job to JobResponse
func (j *Job) ToJobResponse(user User) (JobResponse, error) {

	var resp JobResponse

	b, err := json.Marshal(j)
	if err != nil {
		return resp, err
	}

	if err = json.Unmarshal(b, &resp); err != nil {
		return resp, err
	}

	userApply := false
	if user.Role == RoleStudent {
		for _, application := range j.Applications {
			if application.StudentID.String() == user.ID.String() {
				userApply = true
				break
			}
		}
	}
	resp.UserApply = userApply

	return resp, nil
}
