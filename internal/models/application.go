package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationApplied     = "applied"
	ApplicationUnderReview = "under review"
	ApplicationAccepted    = "accepted"
	ApplicationRejected    = "rejected"
)

var ApplicationStatuses = []string{
	ApplicationApplied,
	ApplicationUnderReview,
	ApplicationAccepted,
	ApplicationRejected,
}

const MaxCoverLetterLength = 1000

// Application links one applicant to one job. The (job_id, applicant_id)
// pair is unique.
type Application struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_applicant,priority:1;index" json:"jobId"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_applicant,priority:2;index" json:"applicantId"`
	Status      string    `gorm:"size:20;not null;default:'applied';index" json:"status"`
	CoverLetter string    `gorm:"size:1000" json:"coverLetter,omitempty"`
	Resume      string    `gorm:"type:text" json:"resume,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"appliedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Job         *Job      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	Applicant   *User     `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (Application) TableName() string {
	return "applications"
}

func IsValidApplicationStatus(v string) bool { return contains(ApplicationStatuses, v) }
