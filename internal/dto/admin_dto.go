package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
)

// AdminUserUpdateRequest is lenient: invalid values are ignored and only
// an update with no usable field is rejected.
type AdminUserUpdateRequest struct {
	IsActive *bool   `json:"isActive"`
	Role     *string `json:"role"`
}

type AdminUserStats struct {
	JobsPosted            int `json:"jobsPosted"`
	ApplicationsSubmitted int `json:"applicationsSubmitted"`
	ActiveJobs            int `json:"activeJobs"`
	AcceptedApplications  int `json:"acceptedApplications"`
}

type AdminUserDetail struct {
	User         *models.User         `json:"user"`
	Jobs         []models.Job         `json:"jobs"`
	Applications []models.Application `json:"applications"`
	Stats        AdminUserStats       `json:"stats"`
}

type JobStats struct {
	TotalJobs         int64                   `json:"totalJobs"`
	RecentJobs        int64                   `json:"recentJobs"`
	TotalApplications int64                   `json:"totalApplications"`
	JobsByCategory    []repository.GroupCount `json:"jobsByCategory"`
}

type JobCategories struct {
	Categories []repository.GroupCount `json:"categories"`
	Locations  []repository.GroupCount `json:"locations"`
	JobTypes   []repository.GroupCount `json:"jobTypes"`
}

type DashboardOverview struct {
	TotalUsers               int64 `json:"totalUsers"`
	ActiveUsers              int64 `json:"activeUsers"`
	NewUsersThisMonth        int64 `json:"newUsersThisMonth"`
	TotalJobs                int64 `json:"totalJobs"`
	ActiveJobs               int64 `json:"activeJobs"`
	NewJobsThisMonth         int64 `json:"newJobsThisMonth"`
	TotalApplications        int64 `json:"totalApplications"`
	NewApplicationsThisMonth int64 `json:"newApplicationsThisMonth"`
}

type RecentActivity struct {
	Users        []models.User        `json:"users"`
	Jobs         []models.Job         `json:"jobs"`
	Applications []models.Application `json:"applications"`
}

type Growth struct {
	Users []repository.TimeBucket `json:"users"`
	Jobs  []repository.TimeBucket `json:"jobs"`
}

type Dashboard struct {
	Overview             DashboardOverview       `json:"overview"`
	UsersByRole          []repository.GroupCount `json:"usersByRole"`
	JobsByCategory       []repository.GroupCount `json:"jobsByCategory"`
	ApplicationsByStatus []repository.GroupCount `json:"applicationsByStatus"`
	RecentActivity       RecentActivity          `json:"recentActivity"`
	Growth               Growth                  `json:"growth"`
}

// Report types accepted by GET /admin/reports.
const (
	ReportOverview     = "overview"
	ReportUsers        = "users"
	ReportJobs         = "jobs"
	ReportApplications = "applications"
)

type ReportRequest struct {
	Type      string
	StartDate time.Time
	EndDate   time.Time
}

type ReportTotals struct {
	Users        int64 `json:"users"`
	Jobs         int64 `json:"jobs"`
	Applications int64 `json:"applications"`
}

type ReportRecent struct {
	NewUsers        int64 `json:"newUsers"`
	NewJobs         int64 `json:"newJobs"`
	NewApplications int64 `json:"newApplications"`
}

type CategoryReport struct {
	Category          string `json:"category"`
	TotalJobs         int64  `json:"totalJobs"`
	ActiveJobs        int64  `json:"activeJobs"`
	TotalApplications int64  `json:"totalApplications"`
}

type SuccessRate struct {
	repository.CategoryOutcome
	SuccessRate float64 `json:"successRate"`
}

// Report is a tagged union keyed by Type; only the matching fields are set.
type Report struct {
	Type string `json:"type"`

	Totals         *ReportTotals `json:"totals,omitempty"`
	RecentActivity *ReportRecent `json:"recentActivity,omitempty"`

	Registrations        []repository.TimeBucket `json:"registrations,omitempty"`
	LocationDistribution []repository.GroupCount `json:"locationDistribution,omitempty"`

	Postings   []repository.TimeBucket `json:"postings,omitempty"`
	Categories []CategoryReport        `json:"categories,omitempty"`
	Locations  []repository.GroupCount `json:"locations,omitempty"`

	Trends       []repository.TimeBucket `json:"trends,omitempty"`
	SuccessRates []SuccessRate           `json:"successRates,omitempty"`
}
