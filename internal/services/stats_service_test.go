package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statsNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// seedAt runs fn with the store clock set to at.
func (s *ServiceSuite) seedAt(at time.Time, fn func()) {
	s.store.SetClock(func() time.Time { return at })
	defer s.store.SetClock(func() time.Time { return statsNow })
	fn()
}

// seedStats builds a small board: one user and job from February, the rest
// from this week.
func (s *ServiceSuite) seedStats() (employer, applicant identity.Identity) {
	s.stats.now = func() time.Time { return statsNow }
	s.applications.now = func() time.Time { return statsNow }

	s.seedAt(statsNow.AddDate(0, 0, -40), func() {
		old := s.newUser(models.RoleEmployer, "old@example.com")
		s.newJob(old)
	})
	s.seedAt(statsNow.AddDate(0, 0, -2), func() {
		employer = s.newUser(models.RoleEmployer, "employer@example.com")
		applicant = s.newUser(models.RoleApplicant, "applicant@example.com")
		_, err := s.users.UpdateProfile(s.ctx, applicant, applicant.UserID, &dto.UpdateProfileRequest{Location: strPtr("London")})
		s.Require().NoError(err)

		imam := jobRequest()
		imam.Category = "imam"
		imam.Location = "Leeds"
		_, err = s.jobs.Create(s.ctx, employer, imam)
		s.Require().NoError(err)

		teacher := s.newJob(employer)
		app := s.apply(applicant, teacher)
		_, err = s.applications.SetStatus(s.ctx, employer, app.ID, models.ApplicationAccepted)
		s.Require().NoError(err)
	})
	return employer, applicant
}

func (s *ServiceSuite) TestJobStats() {
	s.seedStats()

	stats, err := s.stats.JobStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), stats.TotalJobs)
	s.Equal(int64(2), stats.RecentJobs)
	s.Equal(int64(1), stats.TotalApplications)
	s.Equal([]repository.GroupCount{{Key: "teacher", Count: 2}, {Key: "imam", Count: 1}}, stats.JobsByCategory)

	cats, err := s.stats.JobCategories(s.ctx)
	s.Require().NoError(err)
	s.Equal([]repository.GroupCount{{Key: "London", Count: 2}, {Key: "Leeds", Count: 1}}, cats.Locations)
	s.Equal([]repository.GroupCount{{Key: "part-time", Count: 3}}, cats.JobTypes)
}

func (s *ServiceSuite) TestJobStatsEmptyBoard() {
	stats, err := s.stats.JobStats(s.ctx)
	s.Require().NoError(err)
	s.Zero(stats.TotalJobs)
	s.NotNil(stats.JobsByCategory)
	s.Empty(stats.JobsByCategory)
}

func (s *ServiceSuite) TestDashboard() {
	s.seedStats()

	d, err := s.stats.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Equal(dto.DashboardOverview{
		TotalUsers:               3,
		ActiveUsers:              3,
		NewUsersThisMonth:        2,
		TotalJobs:                3,
		ActiveJobs:               3,
		NewJobsThisMonth:         2,
		TotalApplications:        1,
		NewApplicationsThisMonth: 1,
	}, d.Overview)

	s.Equal([]repository.GroupCount{{Key: models.RoleEmployer, Count: 2}, {Key: models.RoleApplicant, Count: 1}}, d.UsersByRole)
	s.Equal([]repository.GroupCount{
		{Key: models.ApplicationApplied, Count: 0},
		{Key: models.ApplicationUnderReview, Count: 0},
		{Key: models.ApplicationAccepted, Count: 1},
		{Key: models.ApplicationRejected, Count: 0},
	}, d.ApplicationsByStatus)

	s.Len(d.RecentActivity.Users, 2)
	s.Len(d.RecentActivity.Jobs, 2)
	s.Len(d.RecentActivity.Applications, 1)

	s.Equal([]repository.TimeBucket{{Key: "2026-02", Count: 1}, {Key: "2026-03", Count: 2}}, d.Growth.Users)
	s.Equal([]repository.TimeBucket{{Key: "2026-02", Count: 1}, {Key: "2026-03", Count: 2}}, d.Growth.Jobs)
}

func (s *ServiceSuite) TestReport() {
	_, applicant := s.seedStats()

	s.T().Run("overview is the default", func(t *testing.T) {
		r, err := s.stats.Report(s.ctx, dto.ReportRequest{})
		require.NoError(t, err)
		assert.Equal(t, dto.ReportOverview, r.Type)
		assert.Equal(t, &dto.ReportTotals{Users: 3, Jobs: 3, Applications: 1}, r.Totals)
		assert.Equal(t, &dto.ReportRecent{NewUsers: 2, NewJobs: 2, NewApplications: 1}, r.RecentActivity)
	})

	s.T().Run("users", func(t *testing.T) {
		r, err := s.stats.Report(s.ctx, dto.ReportRequest{Type: dto.ReportUsers, StartDate: statsNow.AddDate(0, 0, -7)})
		require.NoError(t, err)
		assert.Equal(t, []repository.TimeBucket{{Key: "2026-03-13", Count: 2}}, r.Registrations)
		assert.Equal(t, []repository.GroupCount{{Key: "London", Count: 1}}, r.LocationDistribution)
	})

	s.T().Run("jobs", func(t *testing.T) {
		r, err := s.stats.Report(s.ctx, dto.ReportRequest{Type: dto.ReportJobs})
		require.NoError(t, err)
		assert.Len(t, r.Postings, 2)
		assert.Equal(t, []dto.CategoryReport{
			{Category: "teacher", TotalJobs: 2, ActiveJobs: 2, TotalApplications: 1},
			{Category: "imam", TotalJobs: 1, ActiveJobs: 1},
		}, r.Categories)
	})

	s.T().Run("applications success rate", func(t *testing.T) {
		imamJobs, err := s.jobs.List(s.ctx, dto.JobQuery{Category: "imam"})
		require.NoError(t, err)
		require.Len(t, imamJobs.Jobs, 1)
		s.apply(applicant, &imamJobs.Jobs[0])

		r, err := s.stats.Report(s.ctx, dto.ReportRequest{Type: dto.ReportApplications})
		require.NoError(t, err)
		require.Len(t, r.SuccessRates, 2)
		assert.Equal(t, "teacher", r.SuccessRates[0].Category)
		assert.InDelta(t, 100.0, r.SuccessRates[0].SuccessRate, 0.001)
		assert.Equal(t, "imam", r.SuccessRates[1].Category)
		assert.Zero(t, r.SuccessRates[1].SuccessRate)
		assert.Equal(t, []repository.TimeBucket{{Key: "2026-03-13", Count: 1}, {Key: "2026-03-15", Count: 1}}, r.Trends)
	})

	s.T().Run("unknown type", func(t *testing.T) {
		_, err := s.stats.Report(s.ctx, dto.ReportRequest{Type: "revenue"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	s.T().Run("end before start", func(t *testing.T) {
		_, err := s.stats.Report(s.ctx, dto.ReportRequest{Type: dto.ReportUsers, StartDate: statsNow, EndDate: statsNow.AddDate(0, 0, -1)})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
