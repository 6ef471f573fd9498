package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	topLocations   = 20
	recentItems    = 10
	recentWindow   = 7 * 24 * time.Hour
	activityWindow = 30 * 24 * time.Hour
)

// StatsService computes read-only rollups on demand. Nothing is cached.
type StatsService struct {
	users repository.UserStore
	jobs  repository.JobStore
	apps  repository.ApplicationStore
	now   func() time.Time
}

func NewStatsService(users repository.UserStore, jobs repository.JobStore, apps repository.ApplicationStore) *StatsService {
	return &StatsService{users: users, jobs: jobs, apps: apps, now: time.Now}
}

var activeJobs = repository.JobFilter{Status: models.JobStatusActive}

// JobStats backs the public job statistics endpoint.
func (s *StatsService) JobStats(ctx context.Context) (*dto.JobStats, error) {
	out := &dto.JobStats{}
	recent := activeJobs
	recent.Created = repository.DateRange{From: s.now().Add(-recentWindow)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalJobs, err = s.jobs.Count(ctx, activeJobs)
		return err
	})
	g.Go(func() (err error) {
		out.RecentJobs, err = s.jobs.Count(ctx, recent)
		return err
	})
	g.Go(func() (err error) {
		out.TotalApplications, err = s.apps.Count(ctx, repository.ApplicationFilter{})
		return err
	})
	g.Go(func() (err error) {
		out.JobsByCategory, err = s.jobs.CountBy(ctx, repository.GroupCategory, activeJobs, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	out.JobsByCategory = nonNil(out.JobsByCategory)
	return out, nil
}

// JobCategories counts active jobs per category, location and type.
func (s *StatsService) JobCategories(ctx context.Context) (*dto.JobCategories, error) {
	out := &dto.JobCategories{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Categories, err = s.jobs.CountBy(ctx, repository.GroupCategory, activeJobs, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Locations, err = s.jobs.CountBy(ctx, repository.GroupLocation, activeJobs, topLocations)
		return err
	})
	g.Go(func() (err error) {
		out.JobTypes, err = s.jobs.CountBy(ctx, repository.GroupJobType, activeJobs, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("job categories: %w", err)
	}
	out.Categories = nonNil(out.Categories)
	out.Locations = nonNil(out.Locations)
	out.JobTypes = nonNil(out.JobTypes)
	return out, nil
}

// Dashboard runs the admin dashboard queries concurrently.
func (s *StatsService) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	thisMonth := repository.DateRange{From: monthStart}
	lastThirty := repository.DateRange{From: now.Add(-activityWindow)}
	yearAgo := now.AddDate(0, -12, 0)
	recentPage := repository.Page{Page: 1, Limit: recentItems}
	newest := sortOf("createdAt", "desc")

	out := &dto.Dashboard{}
	ov := &out.Overview
	var byStatus map[string]int64

	g, ctx := errgroup.WithContext(ctx)

	// Overview
	g.Go(func() (err error) {
		ov.TotalUsers, err = s.users.Count(ctx, repository.UserFilter{})
		return err
	})
	g.Go(func() (err error) {
		ov.ActiveUsers, err = s.users.Count(ctx, repository.UserFilter{IsActive: boolPtr(true)})
		return err
	})
	g.Go(func() (err error) {
		ov.NewUsersThisMonth, err = s.users.Count(ctx, repository.UserFilter{Created: thisMonth})
		return err
	})
	g.Go(func() (err error) {
		ov.TotalJobs, err = s.jobs.Count(ctx, repository.JobFilter{})
		return err
	})
	g.Go(func() (err error) {
		ov.ActiveJobs, err = s.jobs.Count(ctx, activeJobs)
		return err
	})
	g.Go(func() (err error) {
		ov.NewJobsThisMonth, err = s.jobs.Count(ctx, repository.JobFilter{Created: thisMonth})
		return err
	})
	g.Go(func() (err error) {
		ov.TotalApplications, err = s.apps.Count(ctx, repository.ApplicationFilter{})
		return err
	})
	g.Go(func() (err error) {
		ov.NewApplicationsThisMonth, err = s.apps.Count(ctx, repository.ApplicationFilter{Created: thisMonth})
		return err
	})

	// Breakdowns
	g.Go(func() (err error) {
		out.UsersByRole, err = s.users.CountByRole(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.JobsByCategory, err = s.jobs.CountBy(ctx, repository.GroupCategory, repository.JobFilter{}, 0)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err = s.apps.CountByStatus(ctx, repository.ApplicationFilter{})
		return err
	})

	// Recent activity
	g.Go(func() (err error) {
		out.RecentActivity.Users, _, err = s.users.List(ctx, repository.UserFilter{Created: lastThirty}, newest, recentPage)
		return err
	})
	g.Go(func() (err error) {
		out.RecentActivity.Jobs, _, err = s.jobs.List(ctx, repository.JobFilter{Created: lastThirty}, newest, recentPage)
		return err
	})
	g.Go(func() (err error) {
		out.RecentActivity.Applications, _, err = s.apps.List(ctx, repository.ApplicationFilter{Created: lastThirty}, newest, recentPage)
		return err
	})

	// Growth
	g.Go(func() (err error) {
		out.Growth.Users, err = s.users.CountByMonth(ctx, yearAgo)
		return err
	})
	g.Go(func() (err error) {
		out.Growth.Jobs, err = s.jobs.CountByMonth(ctx, yearAgo)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	out.ApplicationsByStatus = statusRows(byStatus)
	out.UsersByRole = nonNil(out.UsersByRole)
	out.JobsByCategory = nonNil(out.JobsByCategory)
	out.RecentActivity.Users = nonNil(out.RecentActivity.Users)
	out.RecentActivity.Jobs = nonNil(out.RecentActivity.Jobs)
	out.RecentActivity.Applications = nonNil(out.RecentActivity.Applications)
	out.Growth.Users = nonNil(out.Growth.Users)
	out.Growth.Jobs = nonNil(out.Growth.Jobs)
	return out, nil
}

// statusRows orders a status map by the lifecycle order.
func statusRows(byStatus map[string]int64) []repository.GroupCount {
	rows := make([]repository.GroupCount, 0, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		rows = append(rows, repository.GroupCount{Key: st, Count: byStatus[st]})
	}
	return rows
}

// Report builds one of the admin report types. The date range applies to
// the trend series only.
func (s *StatsService) Report(ctx context.Context, req dto.ReportRequest) (*dto.Report, error) {
	rng := repository.DateRange{From: req.StartDate, To: req.EndDate}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		return nil, Invalid("endDate must not be before startDate")
	}

	switch req.Type {
	case "", dto.ReportOverview:
		return s.overviewReport(ctx)
	case dto.ReportUsers:
		return s.usersReport(ctx, rng)
	case dto.ReportJobs:
		return s.jobsReport(ctx, rng)
	case dto.ReportApplications:
		return s.applicationsReport(ctx, rng)
	}
	return nil, Invalid("type must be one of overview, users, jobs, applications")
}

func (s *StatsService) overviewReport(ctx context.Context) (*dto.Report, error) {
	totals := &dto.ReportTotals{}
	recent := &dto.ReportRecent{}
	week := repository.DateRange{From: s.now().Add(-recentWindow)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals.Users, err = s.users.Count(ctx, repository.UserFilter{})
		return err
	})
	g.Go(func() (err error) {
		totals.Jobs, err = s.jobs.Count(ctx, repository.JobFilter{})
		return err
	})
	g.Go(func() (err error) {
		totals.Applications, err = s.apps.Count(ctx, repository.ApplicationFilter{})
		return err
	})
	g.Go(func() (err error) {
		recent.NewUsers, err = s.users.Count(ctx, repository.UserFilter{Created: week})
		return err
	})
	g.Go(func() (err error) {
		recent.NewJobs, err = s.jobs.Count(ctx, repository.JobFilter{Created: week})
		return err
	})
	g.Go(func() (err error) {
		recent.NewApplications, err = s.apps.Count(ctx, repository.ApplicationFilter{Created: week})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("overview report: %w", err)
	}
	return &dto.Report{Type: dto.ReportOverview, Totals: totals, RecentActivity: recent}, nil
}

func (s *StatsService) usersReport(ctx context.Context, rng repository.DateRange) (*dto.Report, error) {
	out := &dto.Report{Type: dto.ReportUsers}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Registrations, err = s.users.CountByDay(ctx, rng)
		return err
	})
	g.Go(func() (err error) {
		out.LocationDistribution, err = s.users.CountByLocation(ctx, topLocations)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("users report: %w", err)
	}
	out.Registrations = nonNil(out.Registrations)
	out.LocationDistribution = nonNil(out.LocationDistribution)
	return out, nil
}

func (s *StatsService) jobsReport(ctx context.Context, rng repository.DateRange) (*dto.Report, error) {
	out := &dto.Report{Type: dto.ReportJobs}
	var all, active []repository.GroupCount
	var outcomes []repository.CategoryOutcome

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Postings, err = s.jobs.CountByDay(ctx, rng)
		return err
	})
	g.Go(func() (err error) {
		all, err = s.jobs.CountBy(ctx, repository.GroupCategory, repository.JobFilter{}, 0)
		return err
	})
	g.Go(func() (err error) {
		active, err = s.jobs.CountBy(ctx, repository.GroupCategory, activeJobs, 0)
		return err
	})
	g.Go(func() (err error) {
		outcomes, err = s.apps.OutcomesByCategory(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Locations, err = s.jobs.CountBy(ctx, repository.GroupLocation, repository.JobFilter{}, topLocations)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("jobs report: %w", err)
	}

	activeBy := make(map[string]int64, len(active))
	for _, row := range active {
		activeBy[row.Key] = row.Count
	}
	appsBy := make(map[string]int64, len(outcomes))
	for _, row := range outcomes {
		appsBy[row.Category] = row.Total
	}
	out.Categories = make([]dto.CategoryReport, 0, len(all))
	for _, row := range all {
		out.Categories = append(out.Categories, dto.CategoryReport{
			Category:          row.Key,
			TotalJobs:         row.Count,
			ActiveJobs:        activeBy[row.Key],
			TotalApplications: appsBy[row.Key],
		})
	}
	out.Postings = nonNil(out.Postings)
	out.Locations = nonNil(out.Locations)
	return out, nil
}

func (s *StatsService) applicationsReport(ctx context.Context, rng repository.DateRange) (*dto.Report, error) {
	out := &dto.Report{Type: dto.ReportApplications}
	var outcomes []repository.CategoryOutcome

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Trends, err = s.apps.CountByDay(ctx, rng)
		return err
	})
	g.Go(func() (err error) {
		outcomes, err = s.apps.OutcomesByCategory(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("applications report: %w", err)
	}

	out.SuccessRates = make([]dto.SuccessRate, 0, len(outcomes))
	for _, o := range outcomes {
		rate := 0.0
		if o.Total > 0 {
			rate = float64(o.Accepted) / float64(o.Total) * 100
		}
		out.SuccessRates = append(out.SuccessRates, dto.SuccessRate{CategoryOutcome: o, SuccessRate: rate})
	}
	sort.SliceStable(out.SuccessRates, func(i, j int) bool {
		return out.SuccessRates[i].SuccessRate > out.SuccessRates[j].SuccessRate
	})
	out.Trends = nonNil(out.Trends)
	return out, nil
}
