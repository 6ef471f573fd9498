package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

var (
	JobCategories = []string{"imam", "teacher", "tutor", "helper"}
	JobTypes      = []string{"full-time", "part-time", "contract", "remote"}
	JobStatuses   = []string{JobStatusActive, JobStatusClosed, JobStatusDraft}
)

// SalaryNotDisclosed is the wire sentinel for a hidden salary.
const SalaryNotDisclosed = "Not disclosed"

var ErrInvalidSalary = errors.New(`salary must be a positive number or "Not disclosed"`)

// Salary is either a positive amount or the "Not disclosed" sentinel.
// It is stored as two columns and never coerced between the two forms.
type Salary struct {
	Disclosed bool    `gorm:"column:disclosed;not null;default:false;index"`
	Amount    float64 `gorm:"column:amount"`
}

func DisclosedSalary(amount float64) Salary {
	return Salary{Disclosed: true, Amount: amount}
}

func UndisclosedSalary() Salary {
	return Salary{}
}

func (s Salary) Valid() bool {
	return !s.Disclosed || s.Amount > 0
}

func (s Salary) MarshalJSON() ([]byte, error) {
	if !s.Disclosed {
		return json.Marshal(SalaryNotDisclosed)
	}
	return json.Marshal(s.Amount)
}

func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrInvalidSalary
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return ErrInvalidSalary
		}
		if str != SalaryNotDisclosed {
			return ErrInvalidSalary
		}
		*s = UndisclosedSalary()
		return nil
	}
	amount, err := strconv.ParseFloat(string(data), 64)
	if err != nil || amount <= 0 {
		return ErrInvalidSalary
	}
	*s = DisclosedSalary(amount)
	return nil
}

type Job struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string         `gorm:"size:100;not null" json:"title"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	Requirements      pq.StringArray `gorm:"type:text[];not null" json:"requirements"`
	Location          string         `gorm:"size:255;not null;index" json:"location"`
	Category          string         `gorm:"size:20;not null;index" json:"category"`
	JobType           string         `gorm:"size:20;not null;index" json:"jobType"`
	Salary            Salary         `gorm:"embedded;embeddedPrefix:salary_" json:"salary"`
	PostedBy          uuid.UUID      `gorm:"type:uuid;not null;index" json:"postedBy"`
	Status            string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	ApplicationsCount int            `gorm:"not null;default:0" json:"applicationsCount"`
	CreatedAt         time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	Employer          *User          `gorm:"foreignKey:PostedBy" json:"employer,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (Job) TableName() string {
	return "jobs"
}

func IsValidCategory(v string) bool  { return contains(JobCategories, v) }
func IsValidJobType(v string) bool   { return contains(JobTypes, v) }
func IsValidJobStatus(v string) bool { return contains(JobStatuses, v) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
