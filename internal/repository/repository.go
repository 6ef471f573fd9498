// Package repository defines the persistence contracts for users, jobs and
// applications, and their GORM implementations.
package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Page is a 1-indexed offset page.
type Page struct {
	Page  int
	Limit int
}

// Offset saturates at math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Sort is a single field plus direction. Field names are the JSON names
// (createdAt, title, ...) and are whitelisted per store.
type Sort struct {
	Field string
	Desc  bool
}

// GroupCount is one row of a group-by-count rollup.
type GroupCount struct {
	Key   string `json:"name"`
	Count int64  `json:"count"`
}

// TimeBucket is one row of a time-bucketed series. Key is "2006-01" for
// months and "2006-01-02" for days.
type TimeBucket struct {
	Key   string `json:"period"`
	Count int64  `json:"count"`
}

// DateRange bounds created_at; zero values are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

type UserFilter struct {
	Role     string
	IsActive *bool
	Location string   // case-insensitive substring
	Skills   []string // any-of
	Search   string   // name, email or organization, case-insensitive
	Created  DateRange
}

type JobFilter struct {
	Status    string
	Category  string
	JobType   string
	Location  string // case-insensitive substring
	Search    string // title or description, case-insensitive
	Disclosed *bool
	PostedBy  uuid.UUID
	Created   DateRange
}

type ApplicationFilter struct {
	JobID       uuid.UUID
	JobIDs      []uuid.UUID
	ApplicantID uuid.UUID
	Status      string
	JobCategory string
	Created     DateRange
}

// CategoryOutcome feeds the success-rate report.
type CategoryOutcome struct {
	Category string `json:"category"`
	Total    int64  `json:"totalApplications"`
	Accepted int64  `json:"acceptedApplications"`
}

// UserChanges holds a partial profile update; nil fields are left alone.
type UserChanges struct {
	Name         *string
	Phone        *string
	Location     *string
	Organization *string
	Skills       *[]string
	Education    *[]models.Education
	Experience   *[]models.Experience
	Resume       *string
	ProfileImage *string
	IsActive     *bool
	Role         *string
}

func (c UserChanges) Empty() bool {
	return c.Name == nil && c.Phone == nil && c.Location == nil && c.Organization == nil &&
		c.Skills == nil && c.Education == nil && c.Experience == nil && c.Resume == nil &&
		c.ProfileImage == nil && c.IsActive == nil && c.Role == nil
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter, sort Sort, page Page) ([]models.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, changes UserChanges) (*models.User, error)
	AddSkill(ctx context.Context, id uuid.UUID, skill string) (*models.User, error)
	RemoveSkill(ctx context.Context, id uuid.UUID, skill string) (*models.User, error)
	AppendEducation(ctx context.Context, id uuid.UUID, entry models.Education) (*models.User, error)
	AppendExperience(ctx context.Context, id uuid.UUID, entry models.Experience) (*models.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	CountByRole(ctx context.Context) ([]GroupCount, error)
	CountByLocation(ctx context.Context, limit int) ([]GroupCount, error)
	CountByMonth(ctx context.Context, since time.Time) ([]TimeBucket, error)
	CountByDay(ctx context.Context, r DateRange) ([]TimeBucket, error)
}

type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, filter JobFilter, sort Sort, page Page) ([]models.Job, int64, error)
	ListIDs(ctx context.Context, filter JobFilter) ([]uuid.UUID, error)
	Update(ctx context.Context, job *models.Job) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	CloseByEmployer(ctx context.Context, employerID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustApplicationsCount(ctx context.Context, id uuid.UUID, delta int) error
	Count(ctx context.Context, filter JobFilter) (int64, error)
	CountBy(ctx context.Context, field string, filter JobFilter, limit int) ([]GroupCount, error)
	CountByMonth(ctx context.Context, since time.Time) ([]TimeBucket, error)
	CountByDay(ctx context.Context, r DateRange) ([]TimeBucket, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	List(ctx context.Context, filter ApplicationFilter, sort Sort, page Page) ([]models.Application, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
	Count(ctx context.Context, filter ApplicationFilter) (int64, error)
	CountByStatus(ctx context.Context, filter ApplicationFilter) (map[string]int64, error)
	CountByDay(ctx context.Context, r DateRange) ([]TimeBucket, error)
	OutcomesByCategory(ctx context.Context) ([]CategoryOutcome, error)
}

// Job group-by fields accepted by JobStore.CountBy.
const (
	GroupCategory = "category"
	GroupLocation = "location"
	GroupJobType  = "jobType"
	GroupStatus   = "status"
)
