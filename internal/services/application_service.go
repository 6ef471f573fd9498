package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
)

// ApplicationService owns the application lifecycle. It is the only code
// that changes a job's applications counter.
type ApplicationService struct {
	apps repository.ApplicationStore
	jobs repository.JobStore
	now  func() time.Time
}

func NewApplicationService(apps repository.ApplicationStore, jobs repository.JobStore) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, now: time.Now}
}

func (s *ApplicationService) Apply(ctx context.Context, actor identity.Identity, req *dto.ApplyRequest) (*models.Application, error) {
	if !actor.Is(models.RoleApplicant) {
		return nil, Forbidden("Only applicants can apply for jobs")
	}
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}
	jobID := uuid.MustParse(req.JobID)

	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusActive {
		return nil, ErrJobNotActive
	}

	app := models.Application{
		JobID:       jobID,
		ApplicantID: actor.UserID,
		Status:      models.ApplicationApplied,
		CoverLetter: req.CoverLetter,
		Resume:      req.Resume,
	}
	if err := s.apps.Create(ctx, &app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	if err := s.jobs.AdjustApplicationsCount(ctx, jobID, 1); err != nil {
		// Roll the application back so the counter stays exact.
		if delErr := s.apps.Delete(ctx, app.ID); delErr != nil {
			slog.Error("failed to roll back application", "application_id", app.ID, "error", delErr)
		}
		return nil, fmt.Errorf("increment applications count: %w", err)
	}

	metrics.RecordApplicationOperation("apply")
	slog.Info("application submitted", "application_id", app.ID, "job_id", jobID, "applicant_id", actor.UserID)
	return s.find(ctx, app.ID)
}

// Get returns an application visible to its applicant, the job owner or an admin.
func (s *ApplicationService) Get(ctx context.Context, actor identity.Identity, id uuid.UUID) (*models.Application, error) {
	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID == actor.UserID || actor.Is(models.RoleAdmin) {
		return app, nil
	}
	owner, err := s.jobOwner(ctx, app)
	if err != nil {
		return nil, err
	}
	if owner != actor.UserID {
		return nil, Forbidden("You do not have permission to view this application")
	}
	return app, nil
}

// SetStatus moves an application to any of the four statuses. Transitions
// are not ordered; only ownership of the job is enforced.
func (s *ApplicationService) SetStatus(ctx context.Context, actor identity.Identity, id uuid.UUID, status string) (*models.Application, error) {
	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(models.RoleAdmin) {
		owner, err := s.jobOwner(ctx, app)
		if err != nil {
			return nil, err
		}
		if owner != actor.UserID {
			return nil, Forbidden("You can only update applications for your own jobs")
		}
	}
	req := dto.ApplicationStatusRequest{Status: status}
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}

	if err := s.apps.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	metrics.RecordApplicationOperation("set_status")
	slog.Info("application status changed", "application_id", id, "from", app.Status, "to", status, "actor_id", actor.UserID)
	return s.find(ctx, id)
}

func (s *ApplicationService) Withdraw(ctx context.Context, actor identity.Identity, id uuid.UUID) error {
	app, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if app.ApplicantID != actor.UserID && !actor.Is(models.RoleAdmin) {
		return Forbidden("You can only delete your own applications")
	}

	if err := s.apps.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}
	if err := s.jobs.AdjustApplicationsCount(ctx, app.JobID, -1); err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("failed to decrement applications count", "job_id", app.JobID, "error", err)
		return fmt.Errorf("decrement applications count: %w", err)
	}

	metrics.RecordApplicationOperation("withdraw")
	slog.Info("application withdrawn", "application_id", id, "job_id", app.JobID, "actor_id", actor.UserID)
	return nil
}

// ListForJob lists one job's applications with per-status counts.
func (s *ApplicationService) ListForJob(ctx context.Context, actor identity.Identity, jobID uuid.UUID, status string, page, limit int) (*dto.ApplicationListResponse, error) {
	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.PostedBy != actor.UserID && !actor.Is(models.RoleAdmin) {
		return nil, Forbidden("You can only view applications for your own jobs")
	}
	return s.list(ctx, repository.ApplicationFilter{JobID: jobID}, status, pageOf(page, limit, DefaultPageSize))
}

// ListMine lists the calling applicant's applications with per-status counts.
func (s *ApplicationService) ListMine(ctx context.Context, actor identity.Identity, status string, page, limit int) (*dto.ApplicationListResponse, error) {
	if !actor.Is(models.RoleApplicant) {
		return nil, Forbidden("Only applicants can view their applications")
	}
	return s.list(ctx, repository.ApplicationFilter{ApplicantID: actor.UserID}, status, pageOf(page, limit, DefaultPageSize))
}

func (s *ApplicationService) list(ctx context.Context, scope repository.ApplicationFilter, status string, p repository.Page) (*dto.ApplicationListResponse, error) {
	byStatus, err := s.apps.CountByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	filter := scope
	filter.Status = status
	apps, total, err := s.apps.List(ctx, filter, sortOf("appliedAt", "desc"), p)
	if err != nil {
		return nil, err
	}

	stats := dto.NewApplicationStats(byStatus)
	return &dto.ApplicationListResponse{
		Applications: nonNil(apps),
		Stats:        &stats,
		Pagination:   dto.NewPagination(p.Page, p.Limit, total),
	}, nil
}

// Stats returns counts scoped to the caller: own applications for
// applicants, applications to own jobs for employers, everything for admins.
func (s *ApplicationService) Stats(ctx context.Context, actor identity.Identity) (*dto.ApplicationStats, error) {
	var filter repository.ApplicationFilter
	switch actor.Role {
	case models.RoleApplicant:
		filter.ApplicantID = actor.UserID
	case models.RoleEmployer:
		ids, err := s.jobs.ListIDs(ctx, repository.JobFilter{PostedBy: actor.UserID})
		if err != nil {
			return nil, err
		}
		filter.JobIDs = append([]uuid.UUID{}, ids...)
	case models.RoleAdmin:
	default:
		return nil, Forbidden("You do not have permission to view application stats")
	}

	byStatus, err := s.apps.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats := dto.NewApplicationStats(byStatus)

	recent := filter
	recent.Created = repository.DateRange{From: s.now().AddDate(0, 0, -7)}
	if stats.Recent, err = s.apps.Count(ctx, recent); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *ApplicationService) AdminList(ctx context.Context, q dto.ApplicationQuery) (*dto.ApplicationListResponse, error) {
	p := pageOf(q.Page, q.Limit, AdminPageSize)
	filter := repository.ApplicationFilter{Status: q.Status, JobCategory: q.JobCategory}
	apps, total, err := s.apps.List(ctx, filter, sortOf(q.SortBy, q.SortOrder), p)
	if err != nil {
		return nil, err
	}
	return &dto.ApplicationListResponse{
		Applications: nonNil(apps),
		Pagination:   dto.NewPagination(p.Page, p.Limit, total),
	}, nil
}

// PurgeForJob deletes every application of a job that is being removed.
func (s *ApplicationService) PurgeForJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	n, err := s.apps.DeleteByJob(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("purge applications for job %s: %w", jobID, err)
	}
	if n > 0 {
		slog.Info("applications purged", "job_id", jobID, "count", n)
	}
	return n, nil
}

func (s *ApplicationService) find(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) findJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *ApplicationService) jobOwner(ctx context.Context, app *models.Application) (uuid.UUID, error) {
	if app.Job != nil {
		return app.Job.PostedBy, nil
	}
	job, err := s.findJob(ctx, app.JobID)
	if err != nil {
		return uuid.Nil, err
	}
	return job.PostedBy, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
