// Package repotest is a behavioural suite shared by every implementation of
// the repository contracts.
package repotest

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type Stores struct {
	Users        repository.UserStore
	Jobs         repository.JobStore
	Applications repository.ApplicationStore
}

// StoreSuite runs the same assertions against any Stores. Reset must hand
// back empty stores for every test.
type StoreSuite struct {
	suite.Suite
	Reset func() Stores

	ctx context.Context
	Stores
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Stores = s.Reset()
}

func (s *StoreSuite) user(role, email string, mutate ...func(*models.User)) *models.User {
	u := &models.User{Name: "User " + email, Email: email, Password: "hash", Role: role, IsActive: true}
	for _, fn := range mutate {
		fn(u)
	}
	s.Require().NoError(s.Users.Create(s.ctx, u))
	return u
}

func (s *StoreSuite) job(owner uuid.UUID, category, location string, salary models.Salary) *models.Job {
	j := &models.Job{
		Title:        fmt.Sprintf("%s in %s", category, location),
		Description:  "Weekend classes for children",
		Requirements: []string{"Ijazah"},
		Location:     location,
		Category:     category,
		JobType:      "part-time",
		Salary:       salary,
		PostedBy:     owner,
		Status:       models.JobStatusActive,
	}
	s.Require().NoError(s.Jobs.Create(s.ctx, j))
	return j
}

func (s *StoreSuite) apply(job *models.Job, applicant *models.User) *models.Application {
	a := &models.Application{JobID: job.ID, ApplicantID: applicant.ID, Status: models.ApplicationApplied}
	s.Require().NoError(s.Applications.Create(s.ctx, a))
	return a
}

func (s *StoreSuite) TestUserCreateAndFind() {
	u := s.user(models.RoleApplicant, " Yusuf@Example.com ")
	s.NotEqual(uuid.Nil, u.ID)
	s.Equal("yusuf@example.com", u.Email)
	s.False(u.CreatedAt.IsZero())

	found, err := s.Users.FindByEmail(s.ctx, "YUSUF@example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, found.ID)

	_, err = s.Users.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrNotFound)
	_, err = s.Users.FindByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, repository.ErrNotFound)

	err = s.Users.Create(s.ctx, &models.User{Name: "Dup", Email: "yusuf@EXAMPLE.com", Password: "hash", Role: models.RoleApplicant, IsActive: true})
	s.ErrorIs(err, repository.ErrDuplicate)
}

func (s *StoreSuite) TestUserListFilters() {
	s.user(models.RoleApplicant, "amina@example.com", func(u *models.User) {
		u.Name = "Amina"
		u.Location = "East London"
		u.Skills = []string{"Arabic", "Tajweed"}
	})
	s.user(models.RoleApplicant, "bilal@example.com", func(u *models.User) {
		u.Name = "Bilal"
		u.Location = "Leeds"
		u.Skills = []string{"Urdu"}
	})
	s.user(models.RoleEmployer, "office@alnoor.org", func(u *models.User) {
		u.Name = "Office"
		u.Organization = "Masjid Al-Noor"
	})

	users, total, err := s.Users.List(s.ctx, repository.UserFilter{Skills: []string{"Tajweed", "Urdu"}},
		repository.Sort{Field: "name"}, repository.Page{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(users, 2)
	s.Equal("Amina", users[0].Name)
	s.Equal("Bilal", users[1].Name)

	users, _, err = s.Users.List(s.ctx, repository.UserFilter{Location: "london"}, repository.Sort{}, repository.Page{})
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal("Amina", users[0].Name)

	users, _, err = s.Users.List(s.ctx, repository.UserFilter{Search: "al-noor"}, repository.Sort{}, repository.Page{})
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(models.RoleEmployer, users[0].Role)

	users, total, err = s.Users.List(s.ctx, repository.UserFilter{}, repository.Sort{Field: "email"}, repository.Page{Page: 2, Limit: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(users, 1)
	s.Equal("office@alnoor.org", users[0].Email)

	n, err := s.Users.Count(s.ctx, repository.UserFilter{Role: models.RoleApplicant})
	s.Require().NoError(err)
	s.Equal(int64(2), n)
}

func (s *StoreSuite) TestUserUpdates() {
	u := s.user(models.RoleApplicant, "amina@example.com")

	location := "Bradford"
	inactive := false
	updated, err := s.Users.Update(s.ctx, u.ID, repository.UserChanges{Location: &location, IsActive: &inactive})
	s.Require().NoError(err)
	s.Equal("Bradford", updated.Location)
	s.False(updated.IsActive)
	s.Equal(u.Name, updated.Name)

	_, err = s.Users.Update(s.ctx, uuid.New(), repository.UserChanges{Location: &location})
	s.ErrorIs(err, repository.ErrNotFound)

	updated, err = s.Users.AddSkill(s.ctx, u.ID, "Arabic")
	s.Require().NoError(err)
	updated, err = s.Users.AddSkill(s.ctx, u.ID, "Arabic")
	s.Require().NoError(err)
	updated, err = s.Users.AddSkill(s.ctx, u.ID, "Fiqh")
	s.Require().NoError(err)
	s.Equal([]string{"Arabic", "Fiqh"}, []string(updated.Skills))

	updated, err = s.Users.RemoveSkill(s.ctx, u.ID, "Arabic")
	s.Require().NoError(err)
	s.Equal([]string{"Fiqh"}, []string(updated.Skills))

	edu := models.Education{Degree: "BA", Institution: "SOAS", Year: 2015}
	updated, err = s.Users.AppendEducation(s.ctx, u.ID, edu)
	s.Require().NoError(err)
	updated, err = s.Users.AppendEducation(s.ctx, u.ID, edu)
	s.Require().NoError(err)
	s.Len(updated.Education, 2)

	exp := models.Experience{Title: "Teacher", Company: "Al-Noor", Duration: "2 years"}
	updated, err = s.Users.AppendExperience(s.ctx, u.ID, exp)
	s.Require().NoError(err)
	s.Equal([]models.Experience{exp}, []models.Experience(updated.Experience))

	_, err = s.Users.AppendExperience(s.ctx, uuid.New(), exp)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestUserRollups() {
	s.user(models.RoleApplicant, "a@example.com", func(u *models.User) { u.Location = "Leeds" })
	s.user(models.RoleApplicant, "b@example.com", func(u *models.User) { u.Location = "London" })
	s.user(models.RoleApplicant, "c@example.com", func(u *models.User) { u.Location = "London" })
	s.user(models.RoleEmployer, "d@example.com", func(u *models.User) { u.Location = "Bradford" })
	s.user(models.RoleAdmin, "e@example.com")

	roles, err := s.Users.CountByRole(s.ctx)
	s.Require().NoError(err)
	s.Equal([]repository.GroupCount{
		{Key: models.RoleApplicant, Count: 3},
		{Key: models.RoleAdmin, Count: 1},
		{Key: models.RoleEmployer, Count: 1},
	}, roles)

	locations, err := s.Users.CountByLocation(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal([]repository.GroupCount{{Key: "London", Count: 2}, {Key: "Bradford", Count: 1}}, locations)
}

func (s *StoreSuite) TestJobLifecycle() {
	employer := s.user(models.RoleEmployer, "office@alnoor.org")
	job := s.job(employer.ID, "teacher", "London", models.DisclosedSalary(2500))

	found, err := s.Jobs.FindByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.DisclosedSalary(2500), found.Salary)
	s.Require().NotNil(found.Employer)
	s.Equal(employer.ID, found.Employer.ID)

	found.Title = "Quran teacher"
	found.Salary = models.UndisclosedSalary()
	s.Require().NoError(s.Jobs.Update(s.ctx, found))
	found, err = s.Jobs.FindByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal("Quran teacher", found.Title)
	s.False(found.Salary.Disclosed)

	s.Require().NoError(s.Jobs.AdjustApplicationsCount(s.ctx, job.ID, 2))
	s.Require().NoError(s.Jobs.AdjustApplicationsCount(s.ctx, job.ID, -1))
	found, err = s.Jobs.FindByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(1, found.ApplicationsCount)

	s.Require().NoError(s.Jobs.SetStatus(s.ctx, job.ID, models.JobStatusDraft))
	found, err = s.Jobs.FindByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusDraft, found.Status)

	missing := uuid.New()
	s.ErrorIs(s.Jobs.SetStatus(s.ctx, missing, models.JobStatusClosed), repository.ErrNotFound)
	s.ErrorIs(s.Jobs.AdjustApplicationsCount(s.ctx, missing, 1), repository.ErrNotFound)
	s.ErrorIs(s.Jobs.Delete(s.ctx, missing), repository.ErrNotFound)
	_, err = s.Jobs.FindByID(s.ctx, missing)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *StoreSuite) TestJobListAndRollups() {
	a := s.user(models.RoleEmployer, "a@alnoor.org")
	b := s.user(models.RoleEmployer, "b@alnoor.org")
	s.job(a.ID, "teacher", "London", models.DisclosedSalary(1000))
	s.job(a.ID, "imam", "Leeds", models.UndisclosedSalary())
	s.job(b.ID, "teacher", "Leeds", models.DisclosedSalary(3000))
	closed := s.job(b.ID, "tutor", "London", models.DisclosedSalary(2000))
	s.Require().NoError(s.Jobs.SetStatus(s.ctx, closed.ID, models.JobStatusClosed))

	jobs, total, err := s.Jobs.List(s.ctx, repository.JobFilter{Status: models.JobStatusActive},
		repository.Sort{Field: "salary", Desc: true}, repository.Page{Page: 1, Limit: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(jobs, 2)
	s.Equal(float64(3000), jobs[0].Salary.Amount)
	s.NotNil(jobs[0].Employer)

	hidden := false
	jobs, _, err = s.Jobs.List(s.ctx, repository.JobFilter{Disclosed: &hidden}, repository.Sort{}, repository.Page{})
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal("imam", jobs[0].Category)

	ids, err := s.Jobs.ListIDs(s.ctx, repository.JobFilter{PostedBy: b.ID})
	s.Require().NoError(err)
	s.Len(ids, 2)

	none, err := s.Jobs.ListIDs(s.ctx, repository.JobFilter{PostedBy: uuid.New()})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	n, err := s.Jobs.Count(s.ctx, repository.JobFilter{Location: "LEEDS"})
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	byCategory, err := s.Jobs.CountBy(s.ctx, repository.GroupCategory, repository.JobFilter{}, 0)
	s.Require().NoError(err)
	s.Equal([]repository.GroupCount{
		{Key: "teacher", Count: 2},
		{Key: "imam", Count: 1},
		{Key: "tutor", Count: 1},
	}, byCategory)

	byLocation, err := s.Jobs.CountBy(s.ctx, repository.GroupLocation, repository.JobFilter{Status: models.JobStatusActive}, 1)
	s.Require().NoError(err)
	s.Equal([]repository.GroupCount{{Key: "Leeds", Count: 2}}, byLocation)

	_, err = s.Jobs.CountBy(s.ctx, "salary", repository.JobFilter{}, 0)
	s.Error(err)

	closedCount, err := s.Jobs.CloseByEmployer(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), closedCount)
	n, err = s.Jobs.Count(s.ctx, repository.JobFilter{Status: models.JobStatusActive})
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *StoreSuite) TestApplications() {
	employer := s.user(models.RoleEmployer, "office@alnoor.org")
	amina := s.user(models.RoleApplicant, "amina@example.com")
	bilal := s.user(models.RoleApplicant, "bilal@example.com")
	teacher := s.job(employer.ID, "teacher", "London", models.DisclosedSalary(2500))
	imam := s.job(employer.ID, "imam", "Leeds", models.UndisclosedSalary())

	first := s.apply(teacher, amina)
	s.apply(teacher, bilal)
	s.apply(imam, amina)

	err := s.Applications.Create(s.ctx, &models.Application{JobID: teacher.ID, ApplicantID: amina.ID, Status: models.ApplicationApplied})
	s.ErrorIs(err, repository.ErrDuplicate)

	found, err := s.Applications.FindByID(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Job)
	s.Require().NotNil(found.Job.Employer)
	s.Require().NotNil(found.Applicant)
	s.Equal(teacher.ID, found.Job.ID)
	s.Equal(employer.ID, found.Job.Employer.ID)
	s.Equal(amina.ID, found.Applicant.ID)

	s.Require().NoError(s.Applications.SetStatus(s.ctx, first.ID, models.ApplicationAccepted))
	s.ErrorIs(s.Applications.SetStatus(s.ctx, uuid.New(), models.ApplicationAccepted), repository.ErrNotFound)

	apps, total, err := s.Applications.List(s.ctx, repository.ApplicationFilter{ApplicantID: amina.ID, JobCategory: "imam"},
		repository.Sort{}, repository.Page{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(apps, 1)
	s.Equal(imam.ID, apps[0].JobID)

	_, total, err = s.Applications.List(s.ctx, repository.ApplicationFilter{JobIDs: []uuid.UUID{}}, repository.Sort{}, repository.Page{})
	s.Require().NoError(err)
	s.Zero(total)

	byStatus, err := s.Applications.CountByStatus(s.ctx, repository.ApplicationFilter{JobIDs: []uuid.UUID{teacher.ID, imam.ID}})
	s.Require().NoError(err)
	s.Equal(map[string]int64{
		models.ApplicationApplied:     2,
		models.ApplicationUnderReview: 0,
		models.ApplicationAccepted:    1,
		models.ApplicationRejected:    0,
	}, byStatus)

	outcomes, err := s.Applications.OutcomesByCategory(s.ctx)
	s.Require().NoError(err)
	s.Equal([]repository.CategoryOutcome{
		{Category: "imam", Total: 1},
		{Category: "teacher", Total: 2, Accepted: 1},
	}, outcomes)

	n, err := s.Applications.Count(s.ctx, repository.ApplicationFilter{Status: models.ApplicationApplied})
	s.Require().NoError(err)
	s.Equal(int64(2), n)
}

func (s *StoreSuite) TestDeletes() {
	employer := s.user(models.RoleEmployer, "office@alnoor.org")
	amina := s.user(models.RoleApplicant, "amina@example.com")
	bilal := s.user(models.RoleApplicant, "bilal@example.com")
	teacher := s.job(employer.ID, "teacher", "London", models.DisclosedSalary(2500))
	imam := s.job(employer.ID, "imam", "Leeds", models.UndisclosedSalary())
	s.apply(teacher, amina)
	s.apply(teacher, bilal)
	kept := s.apply(imam, amina)

	s.Require().NoError(s.Jobs.Delete(s.ctx, teacher.ID))
	n, err := s.Applications.Count(s.ctx, repository.ApplicationFilter{})
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	s.Require().NoError(s.Applications.Delete(s.ctx, kept.ID))
	s.ErrorIs(s.Applications.Delete(s.ctx, kept.ID), repository.ErrNotFound)

	s.apply(imam, bilal)
	removed, err := s.Applications.DeleteByJob(s.ctx, imam.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), removed)
}
