package dto

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
)

type ApplyRequest struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter"`
	Resume      string `json:"resume"`
}

func (r *ApplyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.JobID) == "" {
		errs = append(errs, "jobId is required")
	} else if _, err := uuid.Parse(r.JobID); err != nil {
		errs = append(errs, "jobId must be a valid id")
	}
	if len([]rune(r.CoverLetter)) > models.MaxCoverLetterLength {
		errs = append(errs, "coverLetter must be at most 1000 characters")
	}
	return errs
}

type ApplicationStatusRequest struct {
	Status string `json:"status"`
}

func (r *ApplicationStatusRequest) Validate() []string {
	if !models.IsValidApplicationStatus(r.Status) {
		return []string{"status must be one of " + strings.Join(models.ApplicationStatuses, ", ")}
	}
	return nil
}

// ApplicationStats are per-status counts, optionally with a recent window.
type ApplicationStats struct {
	Total       int64 `json:"total"`
	Applied     int64 `json:"applied"`
	UnderReview int64 `json:"underReview"`
	Accepted    int64 `json:"accepted"`
	Rejected    int64 `json:"rejected"`
	Recent      int64 `json:"recent"`
}

// NewApplicationStats folds a status->count map into ApplicationStats.
func NewApplicationStats(byStatus map[string]int64) ApplicationStats {
	s := ApplicationStats{
		Applied:     byStatus[models.ApplicationApplied],
		UnderReview: byStatus[models.ApplicationUnderReview],
		Accepted:    byStatus[models.ApplicationAccepted],
		Rejected:    byStatus[models.ApplicationRejected],
	}
	s.Total = s.Applied + s.UnderReview + s.Accepted + s.Rejected
	return s
}

type ApplicationListResponse struct {
	Applications []models.Application `json:"applications"`
	Stats        *ApplicationStats    `json:"stats,omitempty"`
	Pagination   Pagination           `json:"pagination"`
}

type ApplicationQuery struct {
	Status      string
	JobCategory string
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}
