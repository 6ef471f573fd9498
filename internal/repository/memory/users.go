package memory

import (
	"context"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type UserStore struct {
	s *Store
}

var userComparators = map[string]comparator[models.User]{
	"createdAt": func(a, b *models.User) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"updatedAt": func(a, b *models.User) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
	"name":      func(a, b *models.User) int { return strings.Compare(a.Name, b.Name) },
	"email":     func(a, b *models.User) int { return strings.Compare(a.Email, b.Email) },
	"role":      func(a, b *models.User) int { return strings.Compare(a.Role, b.Role) },
	"location":  func(a, b *models.User) int { return strings.Compare(a.Location, b.Location) },
}

func cloneUser(u models.User) models.User {
	if u.Skills != nil {
		u.Skills = append(pq.StringArray{}, u.Skills...)
	}
	if u.Education != nil {
		u.Education = append(datatypes.JSONSlice[models.Education]{}, u.Education...)
	}
	if u.Experience != nil {
		u.Experience = append(datatypes.JSONSlice[models.Experience]{}, u.Experience...)
	}
	return u
}

func matchUser(u *models.User, f repository.UserFilter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.IsActive != nil && u.IsActive != *f.IsActive {
		return false
	}
	if f.Location != "" && !containsFold(u.Location, f.Location) {
		return false
	}
	if len(f.Skills) > 0 && !anyOf(u.Skills, f.Skills) {
		return false
	}
	if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) &&
		!containsFold(u.Organization, f.Search) {
		return false
	}
	return within(u.CreatedAt, f.Created)
}

func anyOf(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (r *UserStore) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleApplicant
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *UserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.get(id)
}

func (r *UserStore) get(id uuid.UUID) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *UserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserStore) filter(f repository.UserFilter) []models.User {
	var out []models.User
	for _, u := range r.s.users {
		if matchUser(&u, f) {
			out = append(out, cloneUser(u))
		}
	}
	return out
}

func (r *UserStore) List(_ context.Context, f repository.UserFilter, s repository.Sort, p repository.Page) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	users := r.filter(f)
	sortItems(users, s, userComparators)
	return paginate(users, p), int64(len(users)), nil
}

func (r *UserStore) Update(_ context.Context, id uuid.UUID, c repository.UserChanges) (*models.User, error) {
	return r.mutate(id, func(u *models.User) {
		if c.Name != nil {
			u.Name = *c.Name
		}
		if c.Phone != nil {
			u.Phone = *c.Phone
		}
		if c.Location != nil {
			u.Location = *c.Location
		}
		if c.Organization != nil {
			u.Organization = *c.Organization
		}
		if c.Skills != nil {
			u.Skills = pq.StringArray(*c.Skills)
		}
		if c.Education != nil {
			u.Education = datatypes.JSONSlice[models.Education](*c.Education)
		}
		if c.Experience != nil {
			u.Experience = datatypes.JSONSlice[models.Experience](*c.Experience)
		}
		if c.Resume != nil {
			u.Resume = *c.Resume
		}
		if c.ProfileImage != nil {
			u.ProfileImage = *c.ProfileImage
		}
		if c.IsActive != nil {
			u.IsActive = *c.IsActive
		}
		if c.Role != nil {
			u.Role = *c.Role
		}
	})
}

func (r *UserStore) AddSkill(_ context.Context, id uuid.UUID, skill string) (*models.User, error) {
	return r.mutate(id, func(u *models.User) {
		if !anyOf(u.Skills, []string{skill}) {
			u.Skills = append(u.Skills, skill)
		}
	})
}

func (r *UserStore) RemoveSkill(_ context.Context, id uuid.UUID, skill string) (*models.User, error) {
	return r.mutate(id, func(u *models.User) {
		kept := u.Skills[:0]
		for _, s := range u.Skills {
			if s != skill {
				kept = append(kept, s)
			}
		}
		u.Skills = kept
	})
}

func (r *UserStore) AppendEducation(_ context.Context, id uuid.UUID, entry models.Education) (*models.User, error) {
	return r.mutate(id, func(u *models.User) { u.Education = append(u.Education, entry) })
}

func (r *UserStore) AppendExperience(_ context.Context, id uuid.UUID, entry models.Experience) (*models.User, error) {
	return r.mutate(id, func(u *models.User) { u.Experience = append(u.Experience, entry) })
}

func (r *UserStore) mutate(id uuid.UUID, fn func(u *models.User)) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u = cloneUser(u)
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return r.get(id)
}

func (r *UserStore) Count(_ context.Context, f repository.UserFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, u := range r.s.users {
		if matchUser(&u, f) {
			n++
		}
	}
	return n, nil
}

func (r *UserStore) CountByRole(_ context.Context) ([]repository.GroupCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, u := range r.s.users {
		counts[u.Role]++
	}
	return groupCounts(counts, 0), nil
}

func (r *UserStore) CountByLocation(_ context.Context, limit int) ([]repository.GroupCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, u := range r.s.users {
		if u.Location != "" {
			counts[u.Location]++
		}
	}
	return groupCounts(counts, limit), nil
}

func (r *UserStore) CountByMonth(_ context.Context, since time.Time) ([]repository.TimeBucket, error) {
	return r.buckets(repository.DateRange{From: since}, monthLayout), nil
}

func (r *UserStore) CountByDay(_ context.Context, rng repository.DateRange) ([]repository.TimeBucket, error) {
	return r.buckets(rng, dayLayout), nil
}

func (r *UserStore) buckets(rng repository.DateRange, layout string) []repository.TimeBucket {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, u := range r.s.users {
		if within(u.CreatedAt, rng) {
			counts[u.CreatedAt.UTC().Format(layout)]++
		}
	}
	return timeBuckets(counts)
}
