package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobService struct {
	jobs         repository.JobStore
	applications *ApplicationService
}

func NewJobService(jobs repository.JobStore, applications *ApplicationService) *JobService {
	return &JobService{jobs: jobs, applications: applications}
}

func jobFilterOf(q dto.JobQuery) repository.JobFilter {
	f := repository.JobFilter{
		Status:   q.Status,
		Category: q.Category,
		JobType:  q.JobType,
		Location: q.Location,
		Search:   q.Search,
	}
	switch q.SalaryType {
	case dto.SalaryTypeDisclosed:
		f.Disclosed = boolPtr(true)
	case dto.SalaryTypeNotDisclosed:
		f.Disclosed = boolPtr(false)
	}
	return f
}

// List returns active jobs for the public listing.
func (s *JobService) List(ctx context.Context, q dto.JobQuery) (*dto.JobListResponse, error) {
	q.Status = models.JobStatusActive
	return s.list(ctx, jobFilterOf(q), q, DefaultPageSize)
}

// AdminList returns jobs in any status.
func (s *JobService) AdminList(ctx context.Context, q dto.JobQuery) (*dto.JobListResponse, error) {
	return s.list(ctx, jobFilterOf(q), q, AdminPageSize)
}

func (s *JobService) list(ctx context.Context, f repository.JobFilter, q dto.JobQuery, pageSize int) (*dto.JobListResponse, error) {
	p := pageOf(q.Page, q.Limit, pageSize)
	jobs, total, err := s.jobs.List(ctx, f, sortOf(q.SortBy, q.SortOrder), p)
	if err != nil {
		return nil, err
	}
	return &dto.JobListResponse{
		Jobs:       nonNil(jobs),
		Pagination: dto.NewPagination(p.Page, p.Limit, total),
	}, nil
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) Create(ctx context.Context, actor identity.Identity, req *dto.JobRequest) (*models.Job, error) {
	if !actor.Is(models.RoleEmployer) && !actor.Is(models.RoleAdmin) {
		return nil, Forbidden("Only employers can post jobs")
	}
	req.Normalize()
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}

	job := models.Job{PostedBy: actor.UserID}
	applyJobRequest(&job, req)
	if job.Status == "" {
		job.Status = models.JobStatusActive
	}

	if err := s.jobs.Create(ctx, &job); err != nil {
		return nil, err
	}

	metrics.RecordJobOperation("create")
	slog.Info("job created", "job_id", job.ID, "employer_id", actor.UserID, "category", job.Category)
	return s.Get(ctx, job.ID)
}

// Update changes only the fields present in req on a job owned by actor.
func (s *JobService) Update(ctx context.Context, actor identity.Identity, id uuid.UUID, req *dto.JobUpdateRequest) (*models.Job, error) {
	job, err := s.owned(ctx, actor, id, "You can only update your own jobs")
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}

	applyJobUpdate(job, req)
	if err := s.jobs.Update(ctx, job); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	metrics.RecordJobOperation("update")
	slog.Info("job updated", "job_id", id, "actor_id", actor.UserID)
	return s.Get(ctx, id)
}

// Delete removes a job owned by actor together with its applications.
func (s *JobService) Delete(ctx context.Context, actor identity.Identity, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id, "You can only delete your own jobs"); err != nil {
		return err
	}
	return s.delete(ctx, actor, id)
}

func (s *JobService) delete(ctx context.Context, actor identity.Identity, id uuid.UUID) error {
	if _, err := s.applications.PurgeForJob(ctx, id); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}
	metrics.RecordJobOperation("delete")
	slog.Info("job deleted", "job_id", id, "actor_id", actor.UserID)
	return nil
}

// SetStatus is the admin moderation path.
func (s *JobService) SetStatus(ctx context.Context, actor identity.Identity, id uuid.UUID, status string) (*models.Job, error) {
	req := dto.JobStatusRequest{Status: status}
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}
	if err := s.jobs.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	metrics.RecordJobOperation("set_status")
	slog.Info("job status changed", "job_id", id, "status", status, "actor_id", actor.UserID)
	return s.Get(ctx, id)
}

// Mine lists the employer's own jobs with counts per status.
func (s *JobService) Mine(ctx context.Context, actor identity.Identity, q dto.JobQuery) (*dto.MyJobsResponse, error) {
	if !actor.Is(models.RoleEmployer) {
		return nil, Forbidden("Only employers can view their jobs")
	}
	scope := repository.JobFilter{PostedBy: actor.UserID}
	rows, err := s.jobs.CountBy(ctx, repository.GroupStatus, scope, 0)
	if err != nil {
		return nil, fmt.Errorf("count jobs by status: %w", err)
	}
	var stats dto.JobStatusCounts
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Key {
		case models.JobStatusActive:
			stats.Active = row.Count
		case models.JobStatusClosed:
			stats.Closed = row.Count
		case models.JobStatusDraft:
			stats.Draft = row.Count
		}
	}

	filter := scope
	filter.Status = q.Status
	list, err := s.list(ctx, filter, q, DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return &dto.MyJobsResponse{Jobs: list.Jobs, Stats: stats, Pagination: list.Pagination}, nil
}

func (s *JobService) owned(ctx context.Context, actor identity.Identity, id uuid.UUID, denied string) (*models.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != actor.UserID && !actor.Is(models.RoleAdmin) {
		return nil, Forbidden(denied)
	}
	return job, nil
}

func applyJobRequest(job *models.Job, req *dto.JobRequest) {
	job.Title = req.Title
	job.Description = req.Description
	job.Requirements = pq.StringArray(req.Requirements)
	job.Location = req.Location
	job.Category = req.Category
	job.JobType = req.JobType
	job.Salary = *req.Salary
	if req.Status != "" {
		job.Status = req.Status
	}
	job.Employer = nil
}

func applyJobUpdate(job *models.Job, req *dto.JobUpdateRequest) {
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = pq.StringArray(*req.Requirements)
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Category != nil {
		job.Category = *req.Category
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	job.Employer = nil
}
