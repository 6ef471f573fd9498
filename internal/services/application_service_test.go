package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *ServiceSuite) TestApply() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	job := s.newJob(employer)

	s.T().Run("creates an applied application and bumps the counter", func(t *testing.T) {
		app, err := s.applications.Apply(s.ctx, applicant, &dto.ApplyRequest{JobID: job.ID.String(), CoverLetter: "Salaam"})
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationApplied, app.Status)
		assert.Equal(t, applicant.UserID, app.ApplicantID)
		require.NotNil(t, app.Job)
		assert.Equal(t, job.ID, app.Job.ID)
		assert.Equal(t, 1, s.applicationsCount(job))
	})

	s.T().Run("second application to the same job conflicts", func(t *testing.T) {
		_, err := s.applications.Apply(s.ctx, applicant, &dto.ApplyRequest{JobID: job.ID.String()})
		assert.ErrorIs(t, err, ErrAlreadyApplied)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, 1, s.applicationsCount(job))
	})

	s.T().Run("employers cannot apply", func(t *testing.T) {
		_, err := s.applications.Apply(s.ctx, employer, &dto.ApplyRequest{JobID: job.ID.String()})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	s.T().Run("unknown job", func(t *testing.T) {
		_, err := s.applications.Apply(s.ctx, applicant, &dto.ApplyRequest{JobID: uuid.NewString()})
		assert.ErrorIs(t, err, ErrJobNotFound)
	})

	s.T().Run("malformed job id", func(t *testing.T) {
		_, err := s.applications.Apply(s.ctx, applicant, &dto.ApplyRequest{JobID: "not-a-uuid"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	s.T().Run("cover letter too long", func(t *testing.T) {
		long := make([]rune, models.MaxCoverLetterLength+1)
		for i := range long {
			long[i] = 'a'
		}
		other := s.newJob(employer)
		_, err := s.applications.Apply(s.ctx, applicant, &dto.ApplyRequest{JobID: other.ID.String(), CoverLetter: string(long)})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, s.applicationsCount(other))
	})

	s.T().Run("closed job is not accepting applications", func(t *testing.T) {
		closed := s.newJob(employer)
		admin := s.newUser(models.RoleAdmin, "admin@example.com")
		_, err := s.jobs.SetStatus(s.ctx, admin, closed.ID, models.JobStatusClosed)
		require.NoError(t, err)

		_, err = s.applications.Apply(s.ctx, applicant, &dto.ApplyRequest{JobID: closed.ID.String()})
		assert.ErrorIs(t, err, ErrJobNotActive)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, 0, s.applicationsCount(closed))
	})
}

func (s *ServiceSuite) TestApplicationsCountTracksLiveApplications() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	job := s.newJob(employer)

	var apps []*models.Application
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		apps = append(apps, s.apply(s.newUser(models.RoleApplicant, email), job))
	}
	s.Equal(3, s.applicationsCount(job))

	first, err := s.applications.Get(s.ctx, employer, apps[0].ID)
	s.Require().NoError(err)
	s.Require().NoError(s.applications.Withdraw(s.ctx, identityOf(first.Applicant), first.ID))
	s.Equal(2, s.applicationsCount(job))

	admin := s.newUser(models.RoleAdmin, "admin@example.com")
	s.Require().NoError(s.applications.Withdraw(s.ctx, admin, apps[1].ID))
	s.Equal(1, s.applicationsCount(job))

	n, err := s.store.Applications().Count(s.ctx, repository.ApplicationFilter{JobID: job.ID})
	s.Require().NoError(err)
	s.Equal(int64(s.applicationsCount(job)), n)
}

func (s *ServiceSuite) TestGetApplication() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	app := s.apply(applicant, s.newJob(employer))

	s.T().Run("visible to applicant, job owner and admin", func(t *testing.T) {
		for _, actor := range []identityCase{
			{"applicant", applicant},
			{"owner", employer},
			{"admin", s.newUser(models.RoleAdmin, "admin@example.com")},
		} {
			got, err := s.applications.Get(s.ctx, actor.id, app.ID)
			require.NoError(t, err, actor.name)
			assert.Equal(t, app.ID, got.ID, actor.name)
		}
	})

	s.T().Run("hidden from other employers and applicants", func(t *testing.T) {
		for _, actor := range []identityCase{
			{"other employer", s.newUser(models.RoleEmployer, "other-employer@example.com")},
			{"other applicant", s.newUser(models.RoleApplicant, "other-applicant@example.com")},
		} {
			_, err := s.applications.Get(s.ctx, actor.id, app.ID)
			assert.ErrorIs(t, err, ErrForbidden, actor.name)
		}
	})

	s.T().Run("unknown id", func(t *testing.T) {
		_, err := s.applications.Get(s.ctx, applicant, uuid.New())
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})
}

func (s *ServiceSuite) TestSetApplicationStatus() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	app := s.apply(applicant, s.newJob(employer))

	s.T().Run("owner moves status freely", func(t *testing.T) {
		for _, status := range []string{models.ApplicationAccepted, models.ApplicationUnderReview, models.ApplicationRejected, models.ApplicationApplied} {
			got, err := s.applications.SetStatus(s.ctx, employer, app.ID, status)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
		}
	})

	s.T().Run("non-owner is forbidden and nothing changes", func(t *testing.T) {
		other := s.newUser(models.RoleEmployer, "other@example.com")
		_, err := s.applications.SetStatus(s.ctx, other, app.ID, models.ApplicationAccepted)
		assert.ErrorIs(t, err, ErrForbidden)

		got, err := s.applications.Get(s.ctx, applicant, app.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationApplied, got.Status)
	})

	s.T().Run("unknown status", func(t *testing.T) {
		_, err := s.applications.SetStatus(s.ctx, employer, app.ID, "hired")
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	s.T().Run("admin may update any application", func(t *testing.T) {
		admin := s.newUser(models.RoleAdmin, "admin@example.com")
		got, err := s.applications.SetStatus(s.ctx, admin, app.ID, models.ApplicationUnderReview)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationUnderReview, got.Status)
	})
}

func (s *ServiceSuite) TestWithdraw() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	job := s.newJob(employer)
	app := s.apply(applicant, job)

	err := s.applications.Withdraw(s.ctx, employer, app.ID)
	s.ErrorIs(err, ErrForbidden)
	s.Equal(1, s.applicationsCount(job))

	s.Require().NoError(s.applications.Withdraw(s.ctx, applicant, app.ID))
	s.Equal(0, s.applicationsCount(job))

	err = s.applications.Withdraw(s.ctx, applicant, app.ID)
	s.ErrorIs(err, ErrApplicationNotFound)
	s.Equal(0, s.applicationsCount(job))
}

func (s *ServiceSuite) TestDeletingJobRemovesItsApplications() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	admin := s.newUser(models.RoleAdmin, "admin@example.com")

	job := s.newJob(employer)
	app := s.apply(applicant, job)
	_, err := s.applications.SetStatus(s.ctx, employer, app.ID, models.ApplicationAccepted)
	s.Require().NoError(err)

	s.Require().NoError(s.jobs.Delete(s.ctx, admin, job.ID))

	_, err = s.applications.Get(s.ctx, applicant, app.ID)
	s.ErrorIs(err, ErrApplicationNotFound)

	mine, err := s.applications.ListMine(s.ctx, applicant, "", 1, 10)
	s.Require().NoError(err)
	s.Empty(mine.Applications)
	s.Zero(mine.Stats.Total)
}

func (s *ServiceSuite) TestListApplications() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	first, second := s.newJob(employer), s.newJob(employer)
	accepted := s.apply(applicant, first)
	s.apply(applicant, second)
	_, err := s.applications.SetStatus(s.ctx, employer, accepted.ID, models.ApplicationAccepted)
	s.Require().NoError(err)

	s.T().Run("mine filters by status but counts everything", func(t *testing.T) {
		resp, err := s.applications.ListMine(s.ctx, applicant, models.ApplicationAccepted, 1, 10)
		require.NoError(t, err)
		require.Len(t, resp.Applications, 1)
		assert.Equal(t, accepted.ID, resp.Applications[0].ID)
		assert.Equal(t, int64(2), resp.Stats.Total)
		assert.Equal(t, int64(1), resp.Stats.Accepted)
		assert.Equal(t, int64(1), resp.Stats.Applied)
		assert.Equal(t, int64(1), resp.Pagination.Total)
	})

	s.T().Run("mine is applicant only", func(t *testing.T) {
		_, err := s.applications.ListMine(s.ctx, employer, "", 1, 10)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	s.T().Run("for job requires ownership", func(t *testing.T) {
		resp, err := s.applications.ListForJob(s.ctx, employer, first.ID, "", 1, 10)
		require.NoError(t, err)
		assert.Len(t, resp.Applications, 1)

		other := s.newUser(models.RoleEmployer, "other@example.com")
		_, err = s.applications.ListForJob(s.ctx, other, first.ID, "", 1, 10)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	s.T().Run("admin list filters by job category", func(t *testing.T) {
		resp, err := s.applications.AdminList(s.ctx, dto.ApplicationQuery{JobCategory: "teacher"})
		require.NoError(t, err)
		assert.Len(t, resp.Applications, 2)

		resp, err = s.applications.AdminList(s.ctx, dto.ApplicationQuery{JobCategory: "imam"})
		require.NoError(t, err)
		assert.Empty(t, resp.Applications)
		assert.NotNil(t, resp.Applications)
	})
}

func (s *ServiceSuite) TestApplicationStats() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	otherEmployer := s.newUser(models.RoleEmployer, "other@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	s.apply(applicant, s.newJob(employer))
	s.apply(applicant, s.newJob(otherEmployer))
	s.apply(s.newUser(models.RoleApplicant, "second@example.com"), s.newJob(otherEmployer))

	stats, err := s.applications.Stats(s.ctx, applicant)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.Total)
	s.Equal(int64(2), stats.Recent)

	stats, err = s.applications.Stats(s.ctx, employer)
	s.Require().NoError(err)
	s.Equal(int64(1), stats.Total)

	stats, err = s.applications.Stats(s.ctx, s.newUser(models.RoleAdmin, "admin@example.com"))
	s.Require().NoError(err)
	s.Equal(int64(3), stats.Total)

	fresh, err := s.applications.Stats(s.ctx, s.newUser(models.RoleEmployer, "fresh@example.com"))
	s.Require().NoError(err)
	s.Zero(fresh.Total)
}
