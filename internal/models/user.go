package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleApplicant = "applicant"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

var Roles = []string{RoleApplicant, RoleEmployer, RoleAdmin}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// User covers all three roles. Organization is only meaningful for employers.
type User struct {
	ID           uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string                          `gorm:"size:50;not null" json:"name"`
	Email        string                          `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Password     string                          `gorm:"not null" json:"-"`
	Role         string                          `gorm:"size:20;not null;default:'applicant';index" json:"role"`
	Phone        string                          `gorm:"size:50" json:"phone,omitempty"`
	Location     string                          `gorm:"size:255" json:"location,omitempty"`
	Organization string                          `gorm:"size:255" json:"organization,omitempty"`
	Skills       pq.StringArray                  `gorm:"type:text[]" json:"skills"`
	Education    datatypes.JSONSlice[Education]  `gorm:"type:jsonb" json:"education"`
	Experience   datatypes.JSONSlice[Experience] `gorm:"type:jsonb" json:"experience"`
	Resume       string                          `gorm:"type:text" json:"resume,omitempty"`
	ProfileImage string                          `gorm:"type:text" json:"profileImage,omitempty"`
	IsActive     bool                            `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt    time.Time                       `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

func IsValidRole(role string) bool { return contains(Roles, role) }
