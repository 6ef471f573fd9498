package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
)

type ApplicationStore struct {
	s *Store
}

var applicationComparators = map[string]comparator[models.Application]{
	"createdAt": func(a, b *models.Application) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"appliedAt": func(a, b *models.Application) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"updatedAt": func(a, b *models.Application) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
	"status":    func(a, b *models.Application) int { return strings.Compare(a.Status, b.Status) },
}

// match evaluates f against a. Caller holds the lock.
func (r *ApplicationStore) match(a *models.Application, f repository.ApplicationFilter) bool {
	if f.JobID != uuid.Nil && a.JobID != f.JobID {
		return false
	}
	if f.JobIDs != nil && !containsID(f.JobIDs, a.JobID) {
		return false
	}
	if f.ApplicantID != uuid.Nil && a.ApplicantID != f.ApplicantID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.JobCategory != "" {
		j, ok := r.s.jobs[a.JobID]
		if !ok || j.Category != f.JobCategory {
			return false
		}
	}
	return within(a.CreatedAt, f.Created)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// populate attaches the job (with its employer) and the applicant.
// Caller holds the lock.
func (r *ApplicationStore) populate(a models.Application) models.Application {
	if j, ok := r.s.jobs[a.JobID]; ok {
		job := (&JobStore{s: r.s}).withEmployer(j)
		a.Job = &job
	}
	if u, ok := r.s.users[a.ApplicantID]; ok {
		applicant := cloneUser(u)
		a.Applicant = &applicant
	}
	return a
}

func (r *ApplicationStore) Create(_ context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.applications {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return repository.ErrDuplicate
		}
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = models.ApplicationApplied
	}
	now := r.s.now()
	app.CreatedAt, app.UpdatedAt = now, now
	stored := *app
	stored.Job, stored.Applicant = nil, nil
	r.s.applications[app.ID] = stored
	return nil
}

func (r *ApplicationStore) FindByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.populate(a)
	return &out, nil
}

func (r *ApplicationStore) List(_ context.Context, f repository.ApplicationFilter, s repository.Sort, p repository.Page) ([]models.Application, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var apps []models.Application
	for _, a := range r.s.applications {
		if r.match(&a, f) {
			apps = append(apps, r.populate(a))
		}
	}
	sortItems(apps, s, applicationComparators)
	return paginate(apps, p), int64(len(apps)), nil
}

func (r *ApplicationStore) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = r.s.now()
	r.s.applications[id] = a
	return nil
}

func (r *ApplicationStore) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.applications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.applications, id)
	return nil
}

func (r *ApplicationStore) DeleteByJob(_ context.Context, jobID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, a := range r.s.applications {
		if a.JobID == jobID {
			delete(r.s.applications, id)
			n++
		}
	}
	return n, nil
}

func (r *ApplicationStore) Count(_ context.Context, f repository.ApplicationFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, a := range r.s.applications {
		if r.match(&a, f) {
			n++
		}
	}
	return n, nil
}

func (r *ApplicationStore) CountByStatus(_ context.Context, f repository.ApplicationFilter) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]int64, len(models.ApplicationStatuses))
	for _, s := range models.ApplicationStatuses {
		out[s] = 0
	}
	for _, a := range r.s.applications {
		if r.match(&a, f) {
			out[a.Status]++
		}
	}
	return out, nil
}

func (r *ApplicationStore) CountByDay(_ context.Context, rng repository.DateRange) ([]repository.TimeBucket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, a := range r.s.applications {
		if within(a.CreatedAt, rng) {
			counts[a.CreatedAt.UTC().Format(dayLayout)]++
		}
	}
	return timeBuckets(counts), nil
}

func (r *ApplicationStore) OutcomesByCategory(_ context.Context) ([]repository.CategoryOutcome, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byCategory := map[string]*repository.CategoryOutcome{}
	for _, a := range r.s.applications {
		j, ok := r.s.jobs[a.JobID]
		if !ok {
			continue
		}
		row, ok := byCategory[j.Category]
		if !ok {
			row = &repository.CategoryOutcome{Category: j.Category}
			byCategory[j.Category] = row
		}
		row.Total++
		if a.Status == models.ApplicationAccepted {
			row.Accepted++
		}
	}
	rows := make([]repository.CategoryOutcome, 0, len(byCategory))
	for _, row := range byCategory {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows, nil
}
