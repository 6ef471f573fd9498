package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/identity"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
)

type UserService struct {
	users repository.UserStore
	jobs  repository.JobStore
	apps  repository.ApplicationStore
}

func NewUserService(users repository.UserStore, jobs repository.JobStore, apps repository.ApplicationStore) *UserService {
	return &UserService{users: users, jobs: jobs, apps: apps}
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, actor identity.Identity) (*models.User, error) {
	return s.find(ctx, actor.UserID)
}

// View returns the full record to the user and admins, and a public
// profile to employers. Applicants cannot view other users.
func (s *UserService) View(ctx context.Context, actor identity.Identity, id uuid.UUID) (interface{}, error) {
	self := actor.UserID == id
	if !self && !actor.Is(models.RoleAdmin) && !actor.Is(models.RoleEmployer) {
		return nil, Forbidden("You don't have permission to view this profile")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if self || actor.Is(models.RoleAdmin) {
		return user, nil
	}
	return dto.NewPublicProfile(user), nil
}

// UpdateProfile applies a partial update to id, which must be the caller
// unless the caller is an admin.
func (s *UserService) UpdateProfile(ctx context.Context, actor identity.Identity, id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	if actor.UserID != id && !actor.Is(models.RoleAdmin) {
		return nil, Forbidden("You can only update your own profile")
	}
	if req.Empty() {
		return nil, Invalid("No valid fields to update")
	}
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}

	changes := repository.UserChanges{
		Phone:        req.Phone,
		Location:     req.Location,
		Organization: req.Organization,
		Education:    req.Education,
		Experience:   req.Experience,
		Resume:       req.Resume,
		ProfileImage: req.ProfileImage,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		changes.Name = &name
	}
	if req.Skills != nil {
		skills := normalizeSkills(*req.Skills)
		changes.Skills = &skills
	}
	return s.update(ctx, id, changes)
}

func (s *UserService) ReplaceSkills(ctx context.Context, actor identity.Identity, skills []string) (*models.User, error) {
	skills = normalizeSkills(skills)
	return s.update(ctx, actor.UserID, repository.UserChanges{Skills: &skills})
}

func (s *UserService) AddSkill(ctx context.Context, actor identity.Identity, skill string) (*models.User, error) {
	req := dto.SkillRequest{Skill: skill}
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}
	return s.wrapNotFound(s.users.AddSkill(ctx, actor.UserID, strings.TrimSpace(skill)))
}

func (s *UserService) RemoveSkill(ctx context.Context, actor identity.Identity, skill string) (*models.User, error) {
	req := dto.SkillRequest{Skill: skill}
	if err := Invalid(req.Validate()...); err != nil {
		return nil, err
	}
	return s.wrapNotFound(s.users.RemoveSkill(ctx, actor.UserID, strings.TrimSpace(skill)))
}

func (s *UserService) ReplaceEducation(ctx context.Context, actor identity.Identity, entries []models.Education) (*models.User, error) {
	var errs []string
	for _, e := range entries {
		errs = append(errs, dto.ValidateEducation(e)...)
	}
	if err := Invalid(errs...); err != nil {
		return nil, err
	}
	entries = nonNil(entries)
	return s.update(ctx, actor.UserID, repository.UserChanges{Education: &entries})
}

func (s *UserService) AddEducation(ctx context.Context, actor identity.Identity, entry models.Education) (*models.User, error) {
	if err := Invalid(dto.ValidateEducation(entry)...); err != nil {
		return nil, err
	}
	return s.wrapNotFound(s.users.AppendEducation(ctx, actor.UserID, entry))
}

func (s *UserService) ReplaceExperience(ctx context.Context, actor identity.Identity, entries []models.Experience) (*models.User, error) {
	var errs []string
	for _, e := range entries {
		errs = append(errs, dto.ValidateExperience(e)...)
	}
	if err := Invalid(errs...); err != nil {
		return nil, err
	}
	entries = nonNil(entries)
	return s.update(ctx, actor.UserID, repository.UserChanges{Experience: &entries})
}

func (s *UserService) AddExperience(ctx context.Context, actor identity.Identity, entry models.Experience) (*models.User, error) {
	if err := Invalid(dto.ValidateExperience(entry)...); err != nil {
		return nil, err
	}
	return s.wrapNotFound(s.users.AppendExperience(ctx, actor.UserID, entry))
}

// Search finds active users for employers and admins.
func (s *UserService) Search(ctx context.Context, actor identity.Identity, q dto.UserQuery) (*dto.ProfileListResponse, error) {
	if !actor.Is(models.RoleAdmin) && !actor.Is(models.RoleEmployer) {
		return nil, Forbidden("You don't have permission to search users")
	}
	p := pageOf(q.Page, q.Limit, DefaultPageSize)
	filter := repository.UserFilter{
		Role:     q.Role,
		IsActive: boolPtr(true),
		Location: q.Location,
		Skills:   normalizeSkills(q.Skills),
		Search:   q.Search,
	}
	users, total, err := s.users.List(ctx, filter, sortOf("createdAt", "desc"), p)
	if err != nil {
		return nil, err
	}
	profiles := make([]dto.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, dto.NewPublicProfile(&users[i]))
	}
	return &dto.ProfileListResponse{Users: profiles, Pagination: dto.NewPagination(p.Page, p.Limit, total)}, nil
}

func (s *UserService) AdminList(ctx context.Context, q dto.UserQuery) (*dto.UserListResponse, error) {
	p := pageOf(q.Page, q.Limit, AdminPageSize)
	filter := repository.UserFilter{Role: q.Role, Search: q.Search}
	switch q.Status {
	case "active":
		filter.IsActive = boolPtr(true)
	case "inactive":
		filter.IsActive = boolPtr(false)
	}
	users, total, err := s.users.List(ctx, filter, sortOf(q.SortBy, q.SortOrder), p)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{Users: nonNil(users), Pagination: dto.NewPagination(p.Page, p.Limit, total)}, nil
}

// AdminDetail returns a user with their postings or applications.
func (s *UserService) AdminDetail(ctx context.Context, id uuid.UUID) (*dto.AdminUserDetail, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &dto.AdminUserDetail{User: user, Jobs: []models.Job{}, Applications: []models.Application{}}
	all := repository.Page{}

	switch user.Role {
	case models.RoleEmployer:
		jobs, _, err := s.jobs.List(ctx, repository.JobFilter{PostedBy: id}, sortOf("", ""), all)
		if err != nil {
			return nil, fmt.Errorf("list employer jobs: %w", err)
		}
		detail.Jobs = nonNil(jobs)
		for _, j := range jobs {
			if j.Status == models.JobStatusActive {
				detail.Stats.ActiveJobs++
			}
		}
	case models.RoleApplicant:
		apps, _, err := s.apps.List(ctx, repository.ApplicationFilter{ApplicantID: id}, sortOf("", ""), all)
		if err != nil {
			return nil, fmt.Errorf("list applicant applications: %w", err)
		}
		detail.Applications = nonNil(apps)
		for _, a := range apps {
			if a.Status == models.ApplicationAccepted {
				detail.Stats.AcceptedApplications++
			}
		}
	}
	detail.Stats.JobsPosted = len(detail.Jobs)
	detail.Stats.ApplicationsSubmitted = len(detail.Applications)
	return detail, nil
}

// AdminUpdate changes isActive and/or role. Invalid roles are ignored; an
// update left with no usable field is a validation error.
func (s *UserService) AdminUpdate(ctx context.Context, actor identity.Identity, id uuid.UUID, req *dto.AdminUserUpdateRequest) (*models.User, error) {
	var changes repository.UserChanges
	changes.IsActive = req.IsActive
	if req.Role != nil && models.IsValidRole(*req.Role) {
		changes.Role = req.Role
	}
	if changes.Empty() {
		return nil, Invalid("No valid fields to update")
	}
	user, err := s.update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	slog.Info("user updated by admin", "user_id", id, "actor_id", actor.UserID, "role", user.Role, "is_active", user.IsActive)
	return user, nil
}

// Deactivate soft-deletes a user. An employer's active jobs are closed.
func (s *UserService) Deactivate(ctx context.Context, actor identity.Identity, id uuid.UUID) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	inactive := false
	if _, err := s.update(ctx, id, repository.UserChanges{IsActive: &inactive}); err != nil {
		return err
	}
	var closed int64
	if user.Role == models.RoleEmployer {
		if closed, err = s.jobs.CloseByEmployer(ctx, id); err != nil {
			return fmt.Errorf("close employer jobs: %w", err)
		}
	}
	slog.Info("user deactivated", "user_id", id, "actor_id", actor.UserID, "jobs_closed", closed)
	return nil
}

func (s *UserService) update(ctx context.Context, id uuid.UUID, changes repository.UserChanges) (*models.User, error) {
	return s.wrapNotFound(s.users.Update(ctx, id, changes))
}

func (s *UserService) wrapNotFound(user *models.User, err error) (*models.User, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// normalizeSkills trims, drops blanks and de-duplicates while keeping order.
func normalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
