package dto

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
)

// JobRequest is the full body for creating a job.
type JobRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	Location     string         `json:"location"`
	Category     string         `json:"category"`
	JobType      string         `json:"jobType"`
	Salary       *models.Salary `json:"salary"`
	Status       string         `json:"status"`
}

func (r *JobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.Requirements = trimRequirements(r.Requirements)
}

func (r *JobRequest) Validate() []string {
	errs := checkTitle(nil, r.Title)
	errs = checkDescription(errs, r.Description)
	errs = checkRequirements(errs, r.Requirements)
	errs = checkLocation(errs, r.Location)
	errs = checkCategory(errs, r.Category)
	errs = checkJobType(errs, r.JobType)
	if r.Salary == nil || !r.Salary.Valid() {
		errs = append(errs, models.ErrInvalidSalary.Error())
	}
	if r.Status != "" {
		errs = checkJobStatus(errs, r.Status)
	}
	return errs
}

// JobUpdateRequest is a partial edit; nil fields are left untouched.
type JobUpdateRequest struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Requirements *[]string      `json:"requirements"`
	Location     *string        `json:"location"`
	Category     *string        `json:"category"`
	JobType      *string        `json:"jobType"`
	Salary       *models.Salary `json:"salary"`
	Status       *string        `json:"status"`
}

func (r *JobUpdateRequest) Normalize() {
	for _, f := range []*string{r.Title, r.Description, r.Location} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if r.Requirements != nil {
		reqs := trimRequirements(*r.Requirements)
		r.Requirements = &reqs
	}
}

// Validate checks only the fields that are present.
func (r *JobUpdateRequest) Validate() []string {
	var errs []string
	if r.Title != nil {
		errs = checkTitle(errs, *r.Title)
	}
	if r.Description != nil {
		errs = checkDescription(errs, *r.Description)
	}
	if r.Requirements != nil {
		errs = checkRequirements(errs, *r.Requirements)
	}
	if r.Location != nil {
		errs = checkLocation(errs, *r.Location)
	}
	if r.Category != nil {
		errs = checkCategory(errs, *r.Category)
	}
	if r.JobType != nil {
		errs = checkJobType(errs, *r.JobType)
	}
	if r.Salary != nil && !r.Salary.Valid() {
		errs = append(errs, models.ErrInvalidSalary.Error())
	}
	if r.Status != nil {
		errs = checkJobStatus(errs, *r.Status)
	}
	return errs
}

func trimRequirements(items []string) []string {
	reqs := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			reqs = append(reqs, item)
		}
	}
	return reqs
}

func checkTitle(errs []string, title string) []string {
	if n := len([]rune(title)); n < 3 || n > 100 {
		errs = append(errs, "title must be between 3 and 100 characters")
	}
	return errs
}

func checkDescription(errs []string, description string) []string {
	if len([]rune(description)) < 10 {
		errs = append(errs, "description must be at least 10 characters long")
	}
	return errs
}

func checkRequirements(errs []string, reqs []string) []string {
	if len(reqs) == 0 {
		errs = append(errs, "requirements must contain at least one item")
	}
	return errs
}

func checkLocation(errs []string, location string) []string {
	if location == "" {
		errs = append(errs, "location is required")
	}
	return errs
}

func checkCategory(errs []string, category string) []string {
	if !models.IsValidCategory(category) {
		errs = append(errs, "category must be one of "+strings.Join(models.JobCategories, ", "))
	}
	return errs
}

func checkJobType(errs []string, jobType string) []string {
	if !models.IsValidJobType(jobType) {
		errs = append(errs, "jobType must be one of "+strings.Join(models.JobTypes, ", "))
	}
	return errs
}

func checkJobStatus(errs []string, status string) []string {
	if !models.IsValidJobStatus(status) {
		errs = append(errs, "status must be one of "+strings.Join(models.JobStatuses, ", "))
	}
	return errs
}

type JobStatusRequest struct {
	Status string `json:"status"`
}

func (r *JobStatusRequest) Validate() []string {
	return checkJobStatus(nil, r.Status)
}

// Salary filter values accepted by the job listing.
const (
	SalaryTypeDisclosed    = "disclosed"
	SalaryTypeNotDisclosed = "not-disclosed"
)

type JobListResponse struct {
	Jobs       []models.Job `json:"jobs"`
	Pagination Pagination   `json:"pagination"`
}

type JobStatusCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Closed int64 `json:"closed"`
	Draft  int64 `json:"draft"`
}

type MyJobsResponse struct {
	Jobs       []models.Job    `json:"jobs"`
	Stats      JobStatusCounts `json:"stats"`
	Pagination Pagination      `json:"pagination"`
}

// JobQuery carries the listing filters from the query string.
type JobQuery struct {
	Search     string
	Category   string
	Location   string
	JobType    string
	SalaryType string
	Status     string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}
