package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
)

// UpdateProfileRequest is a partial profile update; absent fields are kept.
type UpdateProfileRequest struct {
	Name         *string              `json:"name"`
	Phone        *string              `json:"phone"`
	Location     *string              `json:"location"`
	Organization *string              `json:"organization"`
	Skills       *[]string            `json:"skills"`
	Education    *[]models.Education  `json:"education"`
	Experience   *[]models.Experience `json:"experience"`
	Resume       *string              `json:"resume"`
	ProfileImage *string              `json:"profileImage"`
}

func (r *UpdateProfileRequest) Validate() []string {
	var errs []string
	if r.Name != nil {
		if n := len([]rune(strings.TrimSpace(*r.Name))); n < 2 || n > 50 {
			errs = append(errs, "name must be between 2 and 50 characters")
		}
	}
	if r.Education != nil {
		for i := range *r.Education {
			errs = append(errs, ValidateEducation((*r.Education)[i])...)
		}
	}
	if r.Experience != nil {
		for i := range *r.Experience {
			errs = append(errs, ValidateExperience((*r.Experience)[i])...)
		}
	}
	return errs
}

func (r *UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Phone == nil && r.Location == nil && r.Organization == nil &&
		r.Skills == nil && r.Education == nil && r.Experience == nil && r.Resume == nil &&
		r.ProfileImage == nil
}

func ValidateEducation(e models.Education) []string {
	var errs []string
	if strings.TrimSpace(e.Degree) == "" {
		errs = append(errs, "education degree is required")
	}
	if strings.TrimSpace(e.Institution) == "" {
		errs = append(errs, "education institution is required")
	}
	maxYear := time.Now().Year() + 10
	if e.Year < 1950 || e.Year > maxYear {
		errs = append(errs, fmt.Sprintf("education year must be between 1950 and %d", maxYear))
	}
	return errs
}

func ValidateExperience(e models.Experience) []string {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "experience title is required")
	}
	if strings.TrimSpace(e.Company) == "" {
		errs = append(errs, "experience company is required")
	}
	if strings.TrimSpace(e.Duration) == "" {
		errs = append(errs, "experience duration is required")
	}
	if strings.TrimSpace(e.Description) == "" {
		errs = append(errs, "experience description is required")
	}
	return errs
}

type SkillRequest struct {
	Skill string `json:"skill"`
}

func (r *SkillRequest) Validate() []string {
	if strings.TrimSpace(r.Skill) == "" {
		return []string{"skill is required"}
	}
	return nil
}

type SkillsRequest struct {
	Skills []string `json:"skills"`
}

type EducationListRequest struct {
	Education []models.Education `json:"education"`
}

type ExperienceListRequest struct {
	Experience []models.Experience `json:"experience"`
}

// PublicProfile is what employers see of other users.
type PublicProfile struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Role         string              `json:"role"`
	Location     string              `json:"location,omitempty"`
	Organization string              `json:"organization,omitempty"`
	Skills       []string            `json:"skills"`
	Education    []models.Education  `json:"education"`
	Experience   []models.Experience `json:"experience"`
	ProfileImage string              `json:"profileImage,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

func NewPublicProfile(u *models.User) PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Location:     u.Location,
		Organization: u.Organization,
		Skills:       u.Skills,
		Education:    u.Education,
		Experience:   u.Experience,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

type UserListResponse struct {
	Users      []models.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

type ProfileListResponse struct {
	Users      []PublicProfile `json:"users"`
	Pagination Pagination      `json:"pagination"`
}

type UserQuery struct {
	Role      string
	Status    string // active | inactive, admin listing only
	Location  string
	Skills    []string
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}
