package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *ServiceSuite) TestCreateJob() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")

	s.T().Run("defaults to active with a zero counter", func(t *testing.T) {
		job, err := s.jobs.Create(s.ctx, employer, jobRequest())
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusActive, job.Status)
		assert.Equal(t, 0, job.ApplicationsCount)
		assert.Equal(t, employer.UserID, job.PostedBy)
		require.NotNil(t, job.Employer)
		assert.Equal(t, "Masjid Al-Noor", job.Employer.Organization)
	})

	s.T().Run("keeps an undisclosed salary as is", func(t *testing.T) {
		req := jobRequest()
		hidden := models.UndisclosedSalary()
		req.Salary = &hidden
		job, err := s.jobs.Create(s.ctx, employer, req)
		require.NoError(t, err)
		assert.False(t, job.Salary.Disclosed)
	})

	s.T().Run("draft status is honoured", func(t *testing.T) {
		req := jobRequest()
		req.Status = models.JobStatusDraft
		job, err := s.jobs.Create(s.ctx, employer, req)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusDraft, job.Status)
	})

	s.T().Run("applicants cannot post", func(t *testing.T) {
		_, err := s.jobs.Create(s.ctx, s.newUser(models.RoleApplicant, "a@example.com"), jobRequest())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	s.T().Run("admins can post", func(t *testing.T) {
		_, err := s.jobs.Create(s.ctx, s.newUser(models.RoleAdmin, "admin@example.com"), jobRequest())
		assert.NoError(t, err)
	})

	s.T().Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(r *dto.JobRequest)
		}{
			{"short title", func(r *dto.JobRequest) { r.Title = "ab" }},
			{"short description", func(r *dto.JobRequest) { r.Description = "too short" }},
			{"blank requirements", func(r *dto.JobRequest) { r.Requirements = []string{"  "} }},
			{"missing location", func(r *dto.JobRequest) { r.Location = " " }},
			{"unknown category", func(r *dto.JobRequest) { r.Category = "chef" }},
			{"unknown job type", func(r *dto.JobRequest) { r.JobType = "seasonal" }},
			{"missing salary", func(r *dto.JobRequest) { r.Salary = nil }},
			{"unknown status", func(r *dto.JobRequest) { r.Status = "archived" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := jobRequest()
				tt.mutate(req)
				_, err := s.jobs.Create(s.ctx, employer, req)
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Len(t, verr.Fields, 1)
			})
		}
	})
}

func (s *ServiceSuite) TestUpdateJob() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	job := s.newJob(employer)
	s.apply(s.newUser(models.RoleApplicant, "applicant@example.com"), job)

	s.T().Run("owner changes some fields and the rest survive", func(t *testing.T) {
		updated, err := s.jobs.Update(s.ctx, employer, job.ID, &dto.JobUpdateRequest{
			Title:    strPtr(" Weekend Quran Teacher "),
			Location: strPtr("Manchester"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Weekend Quran Teacher", updated.Title)
		assert.Equal(t, "Manchester", updated.Location)
		assert.Equal(t, job.Description, updated.Description)
		assert.Equal(t, job.Category, updated.Category)
		assert.Equal(t, job.Salary, updated.Salary)
		assert.Equal(t, 1, updated.ApplicationsCount)
		assert.Equal(t, employer.UserID, updated.PostedBy)
	})

	s.T().Run("status alone closes the job", func(t *testing.T) {
		updated, err := s.jobs.Update(s.ctx, employer, job.ID, &dto.JobUpdateRequest{Status: strPtr(models.JobStatusClosed)})
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusClosed, updated.Status)
		assert.Equal(t, "Weekend Quran Teacher", updated.Title)
		assert.Equal(t, []string{"Ijazah", "Experience with children"}, []string(updated.Requirements))
	})

	s.T().Run("salary alone can be hidden", func(t *testing.T) {
		hidden := models.UndisclosedSalary()
		updated, err := s.jobs.Update(s.ctx, employer, job.ID, &dto.JobUpdateRequest{Salary: &hidden})
		require.NoError(t, err)
		assert.False(t, updated.Salary.Disclosed)
		assert.Equal(t, "Manchester", updated.Location)
	})

	s.T().Run("present fields are still validated", func(t *testing.T) {
		blank := []string{" "}
		_, err := s.jobs.Update(s.ctx, employer, job.ID, &dto.JobUpdateRequest{
			Category:     strPtr("chef"),
			Requirements: &blank,
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})

	s.T().Run("other employer is forbidden", func(t *testing.T) {
		_, err := s.jobs.Update(s.ctx, s.newUser(models.RoleEmployer, "other@example.com"), job.ID, &dto.JobUpdateRequest{})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	s.T().Run("unknown job", func(t *testing.T) {
		_, err := s.jobs.Update(s.ctx, employer, uuid.New(), &dto.JobUpdateRequest{})
		assert.ErrorIs(t, err, ErrJobNotFound)
	})
}

func (s *ServiceSuite) TestDeleteJob() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	job := s.newJob(employer)

	err := s.jobs.Delete(s.ctx, s.newUser(models.RoleEmployer, "other@example.com"), job.ID)
	s.ErrorIs(err, ErrForbidden)

	s.Require().NoError(s.jobs.Delete(s.ctx, employer, job.ID))
	_, err = s.jobs.Get(s.ctx, job.ID)
	s.ErrorIs(err, ErrJobNotFound)

	err = s.jobs.Delete(s.ctx, employer, job.ID)
	s.ErrorIs(err, ErrJobNotFound)
}

func (s *ServiceSuite) TestListJobs() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	admin := s.newUser(models.RoleAdmin, "admin@example.com")

	imam := jobRequest()
	imam.Title = "Friday Imam"
	imam.Category = "imam"
	imam.Location = "Birmingham"
	hidden := models.UndisclosedSalary()
	imam.Salary = &hidden
	_, err := s.jobs.Create(s.ctx, employer, imam)
	s.Require().NoError(err)

	teacher := s.newJob(employer)
	closed := s.newJob(employer)
	_, err = s.jobs.SetStatus(s.ctx, admin, closed.ID, models.JobStatusClosed)
	s.Require().NoError(err)

	s.T().Run("public listing shows only active jobs", func(t *testing.T) {
		resp, err := s.jobs.List(s.ctx, dto.JobQuery{Status: models.JobStatusClosed})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Pagination.Total)
		for _, j := range resp.Jobs {
			assert.Equal(t, models.JobStatusActive, j.Status)
		}
	})

	s.T().Run("filters combine", func(t *testing.T) {
		resp, err := s.jobs.List(s.ctx, dto.JobQuery{Category: "teacher", Location: "lond"})
		require.NoError(t, err)
		require.Len(t, resp.Jobs, 1)
		assert.Equal(t, teacher.ID, resp.Jobs[0].ID)

		resp, err = s.jobs.List(s.ctx, dto.JobQuery{SalaryType: dto.SalaryTypeNotDisclosed})
		require.NoError(t, err)
		require.Len(t, resp.Jobs, 1)
		assert.Equal(t, "Friday Imam", resp.Jobs[0].Title)

		resp, err = s.jobs.List(s.ctx, dto.JobQuery{Search: "FRIDAY"})
		require.NoError(t, err)
		assert.Len(t, resp.Jobs, 1)
	})

	s.T().Run("pagination", func(t *testing.T) {
		resp, err := s.jobs.List(s.ctx, dto.JobQuery{Page: 2, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, resp.Jobs, 1)
		assert.Equal(t, 2, resp.Pagination.CurrentPage)
		assert.Equal(t, 2, resp.Pagination.TotalPages)
		assert.False(t, resp.Pagination.HasNext)
		assert.True(t, resp.Pagination.HasPrev)
	})

	s.T().Run("admin listing sees every status", func(t *testing.T) {
		resp, err := s.jobs.AdminList(s.ctx, dto.JobQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Pagination.Total)
		assert.Equal(t, AdminPageSize, resp.Pagination.Limit)
	})

	s.T().Run("mine counts per status", func(t *testing.T) {
		resp, err := s.jobs.Mine(s.ctx, employer, dto.JobQuery{})
		require.NoError(t, err)
		assert.Len(t, resp.Jobs, 3)
		assert.Equal(t, dto.JobStatusCounts{Total: 3, Active: 2, Closed: 1}, resp.Stats)

		_, err = s.jobs.Mine(s.ctx, admin, dto.JobQuery{})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func (s *ServiceSuite) TestSetJobStatus() {
	admin := s.newUser(models.RoleAdmin, "admin@example.com")
	job := s.newJob(s.newUser(models.RoleEmployer, "employer@example.com"))

	updated, err := s.jobs.SetStatus(s.ctx, admin, job.ID, models.JobStatusDraft)
	s.Require().NoError(err)
	s.Equal(models.JobStatusDraft, updated.Status)

	_, err = s.jobs.SetStatus(s.ctx, admin, job.ID, "archived")
	var verr *ValidationError
	s.ErrorAs(err, &verr)

	_, err = s.jobs.SetStatus(s.ctx, admin, uuid.New(), models.JobStatusActive)
	s.ErrorIs(err, ErrJobNotFound)
}
