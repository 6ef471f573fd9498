package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func (s *ServiceSuite) TestViewUser() {
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	admin := s.newUser(models.RoleAdmin, "admin@example.com")

	s.T().Run("self and admin get the full record", func(t *testing.T) {
		for _, actor := range []identityCase{{"self", applicant}, {"admin", admin}} {
			got, err := s.users.View(s.ctx, actor.id, applicant.UserID)
			require.NoError(t, err, actor.name)
			assert.IsType(t, &models.User{}, got, actor.name)
		}
	})

	s.T().Run("employer gets the public profile", func(t *testing.T) {
		got, err := s.users.View(s.ctx, employer, applicant.UserID)
		require.NoError(t, err)
		profile, ok := got.(dto.PublicProfile)
		require.True(t, ok)
		assert.Equal(t, applicant.UserID, profile.ID)
	})

	s.T().Run("applicant cannot view others", func(t *testing.T) {
		_, err := s.users.View(s.ctx, applicant, employer.UserID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	s.T().Run("unknown user", func(t *testing.T) {
		_, err := s.users.View(s.ctx, admin, uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func (s *ServiceSuite) TestUpdateProfile() {
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")

	s.T().Run("partial update keeps other fields", func(t *testing.T) {
		_, err := s.users.UpdateProfile(s.ctx, applicant, applicant.UserID, &dto.UpdateProfileRequest{Location: strPtr("Leeds")})
		require.NoError(t, err)

		skills := []string{" Arabic ", "Tajweed", "Arabic", ""}
		user, err := s.users.UpdateProfile(s.ctx, applicant, applicant.UserID, &dto.UpdateProfileRequest{
			Name:   strPtr("  Yusuf Ali "),
			Skills: &skills,
		})
		require.NoError(t, err)
		assert.Equal(t, "Yusuf Ali", user.Name)
		assert.Equal(t, "Leeds", user.Location)
		assert.Equal(t, []string{"Arabic", "Tajweed"}, []string(user.Skills))
	})

	s.T().Run("email and role are not editable here", func(t *testing.T) {
		user, err := s.users.Profile(s.ctx, applicant)
		require.NoError(t, err)
		assert.Equal(t, "applicant@example.com", user.Email)
		assert.Equal(t, models.RoleApplicant, user.Role)
	})

	s.T().Run("others are forbidden unless admin", func(t *testing.T) {
		other := s.newUser(models.RoleEmployer, "employer@example.com")
		_, err := s.users.UpdateProfile(s.ctx, other, applicant.UserID, &dto.UpdateProfileRequest{Location: strPtr("Paris")})
		assert.ErrorIs(t, err, ErrForbidden)

		admin := s.newUser(models.RoleAdmin, "admin@example.com")
		user, err := s.users.UpdateProfile(s.ctx, admin, applicant.UserID, &dto.UpdateProfileRequest{Location: strPtr("Paris")})
		require.NoError(t, err)
		assert.Equal(t, "Paris", user.Location)
	})

	s.T().Run("an empty body is rejected", func(t *testing.T) {
		_, err := s.users.UpdateProfile(s.ctx, applicant, applicant.UserID, &dto.UpdateProfileRequest{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"No valid fields to update"}, verr.Fields)
	})

	s.T().Run("invalid education is rejected", func(t *testing.T) {
		edu := []models.Education{{Degree: "BA", Institution: "", Year: 1900}}
		_, err := s.users.UpdateProfile(s.ctx, applicant, applicant.UserID, &dto.UpdateProfileRequest{Education: &edu})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})
}

func (s *ServiceSuite) TestSkills() {
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")

	user, err := s.users.ReplaceSkills(s.ctx, applicant, []string{"Arabic", " Fiqh "})
	s.Require().NoError(err)
	s.Equal([]string{"Arabic", "Fiqh"}, []string(user.Skills))

	user, err = s.users.AddSkill(s.ctx, applicant, "Tajweed")
	s.Require().NoError(err)
	s.Equal([]string{"Arabic", "Fiqh", "Tajweed"}, []string(user.Skills))

	user, err = s.users.AddSkill(s.ctx, applicant, "Arabic")
	s.Require().NoError(err)
	s.Len(user.Skills, 3)

	user, err = s.users.RemoveSkill(s.ctx, applicant, "Fiqh")
	s.Require().NoError(err)
	s.Equal([]string{"Arabic", "Tajweed"}, []string(user.Skills))

	_, err = s.users.AddSkill(s.ctx, applicant, "   ")
	var verr *ValidationError
	s.ErrorAs(err, &verr)
}

func (s *ServiceSuite) TestEducationAndExperience() {
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	degree := models.Education{Degree: "BA Islamic Studies", Institution: "SOAS", Year: 2015}

	user, err := s.users.AddEducation(s.ctx, applicant, degree)
	s.Require().NoError(err)
	s.Len(user.Education, 1)

	user, err = s.users.ReplaceEducation(s.ctx, applicant, nil)
	s.Require().NoError(err)
	s.Empty(user.Education)

	_, err = s.users.AddEducation(s.ctx, applicant, models.Education{Degree: "MA"})
	var verr *ValidationError
	s.ErrorAs(err, &verr)

	job := models.Experience{Title: "Teacher", Company: "Al-Noor", Duration: "2 years", Description: "Taught weekend classes"}
	user, err = s.users.AddExperience(s.ctx, applicant, job)
	s.Require().NoError(err)
	s.Equal([]models.Experience{job}, []models.Experience(user.Experience))

	user, err = s.users.ReplaceExperience(s.ctx, applicant, []models.Experience{job, job})
	s.Require().NoError(err)
	s.Len(user.Experience, 2)

	_, err = s.users.ReplaceExperience(s.ctx, applicant, []models.Experience{{Title: "Helper"}})
	s.ErrorAs(err, &verr)
	s.Len(verr.Fields, 3)
}

func (s *ServiceSuite) TestSearchUsers() {
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	arabic := s.newUser(models.RoleApplicant, "arabic@example.com")
	_, err := s.users.ReplaceSkills(s.ctx, arabic, []string{"Arabic"})
	s.Require().NoError(err)
	inactive := s.newUser(models.RoleApplicant, "gone@example.com")
	_, err = s.users.ReplaceSkills(s.ctx, inactive, []string{"Arabic"})
	s.Require().NoError(err)
	admin := s.newUser(models.RoleAdmin, "admin@example.com")
	s.Require().NoError(s.users.Deactivate(s.ctx, admin, inactive.UserID))

	resp, err := s.users.Search(s.ctx, employer, dto.UserQuery{Role: models.RoleApplicant, Skills: []string{"Arabic", "Urdu"}})
	s.Require().NoError(err)
	s.Require().Len(resp.Users, 1)
	s.Equal(arabic.UserID, resp.Users[0].ID)

	_, err = s.users.Search(s.ctx, arabic, dto.UserQuery{})
	s.ErrorIs(err, ErrForbidden)
}

func (s *ServiceSuite) TestAdminUsers() {
	admin := s.newUser(models.RoleAdmin, "admin@example.com")
	employer := s.newUser(models.RoleEmployer, "employer@example.com")
	applicant := s.newUser(models.RoleApplicant, "applicant@example.com")
	job := s.newJob(employer)
	app := s.apply(applicant, job)
	_, err := s.applications.SetStatus(s.ctx, employer, app.ID, models.ApplicationAccepted)
	s.Require().NoError(err)

	s.T().Run("detail of an employer lists their jobs", func(t *testing.T) {
		detail, err := s.users.AdminDetail(s.ctx, employer.UserID)
		require.NoError(t, err)
		assert.Len(t, detail.Jobs, 1)
		assert.Empty(t, detail.Applications)
		assert.Equal(t, dto.AdminUserStats{JobsPosted: 1, ActiveJobs: 1}, detail.Stats)
	})

	s.T().Run("detail of an applicant lists their applications", func(t *testing.T) {
		detail, err := s.users.AdminDetail(s.ctx, applicant.UserID)
		require.NoError(t, err)
		assert.Equal(t, dto.AdminUserStats{ApplicationsSubmitted: 1, AcceptedApplications: 1}, detail.Stats)
	})

	s.T().Run("update ignores an unknown role", func(t *testing.T) {
		_, err := s.users.AdminUpdate(s.ctx, admin, applicant.UserID, &dto.AdminUserUpdateRequest{Role: strPtr("superuser")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)

		active := true
		user, err := s.users.AdminUpdate(s.ctx, admin, applicant.UserID, &dto.AdminUserUpdateRequest{Role: strPtr("superuser"), IsActive: &active})
		require.NoError(t, err)
		assert.Equal(t, models.RoleApplicant, user.Role)
	})

	s.T().Run("deactivating an employer closes their active jobs", func(t *testing.T) {
		require.NoError(t, s.users.Deactivate(s.ctx, admin, employer.UserID))

		user, err := s.users.Profile(s.ctx, employer)
		require.NoError(t, err)
		assert.False(t, user.IsActive)

		stored, err := s.jobs.Get(s.ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusClosed, stored.Status)
	})

	s.T().Run("admin list filters by status", func(t *testing.T) {
		resp, err := s.users.AdminList(s.ctx, dto.UserQuery{Status: "inactive"})
		require.NoError(t, err)
		require.Len(t, resp.Users, 1)
		assert.Equal(t, employer.UserID, resp.Users[0].ID)
	})

	s.T().Run("deactivating an unknown user", func(t *testing.T) {
		assert.ErrorIs(t, s.users.Deactivate(s.ctx, admin, uuid.New()), ErrUserNotFound)
	})
}
