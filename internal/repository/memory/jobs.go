package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobStore struct {
	s *Store
}

var jobComparators = map[string]comparator[models.Job]{
	"createdAt":         func(a, b *models.Job) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"updatedAt":         func(a, b *models.Job) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
	"title":             func(a, b *models.Job) int { return strings.Compare(a.Title, b.Title) },
	"location":          func(a, b *models.Job) int { return strings.Compare(a.Location, b.Location) },
	"category":          func(a, b *models.Job) int { return strings.Compare(a.Category, b.Category) },
	"jobType":           func(a, b *models.Job) int { return strings.Compare(a.JobType, b.JobType) },
	"status":            func(a, b *models.Job) int { return strings.Compare(a.Status, b.Status) },
	"salary":            func(a, b *models.Job) int { return compareFloat(a.Salary.Amount, b.Salary.Amount) },
	"applicationsCount": func(a, b *models.Job) int { return a.ApplicationsCount - b.ApplicationsCount },
}

func jobField(j *models.Job, field string) (string, error) {
	switch field {
	case repository.GroupCategory:
		return j.Category, nil
	case repository.GroupLocation:
		return j.Location, nil
	case repository.GroupJobType:
		return j.JobType, nil
	case repository.GroupStatus:
		return j.Status, nil
	}
	return "", fmt.Errorf("unsupported job group field %q", field)
}

func cloneJob(j models.Job) models.Job {
	if j.Requirements != nil {
		j.Requirements = append(pq.StringArray{}, j.Requirements...)
	}
	j.Employer = nil
	return j
}

func matchJob(j *models.Job, f repository.JobFilter) bool {
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.Category != "" && j.Category != f.Category {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if f.Location != "" && !containsFold(j.Location, f.Location) {
		return false
	}
	if f.Search != "" && !containsFold(j.Title, f.Search) && !containsFold(j.Description, f.Search) {
		return false
	}
	if f.Disclosed != nil && j.Salary.Disclosed != *f.Disclosed {
		return false
	}
	if f.PostedBy != uuid.Nil && j.PostedBy != f.PostedBy {
		return false
	}
	return within(j.CreatedAt, f.Created)
}

// withEmployer returns a copy of j with the posting employer attached.
// Caller holds the lock.
func (r *JobStore) withEmployer(j models.Job) models.Job {
	out := cloneJob(j)
	if u, ok := r.s.users[j.PostedBy]; ok {
		employer := cloneUser(u)
		out.Employer = &employer
	}
	return out
}

func (r *JobStore) Create(_ context.Context, job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if _, exists := r.s.jobs[job.ID]; exists {
		return repository.ErrDuplicate
	}
	if job.Status == "" {
		job.Status = models.JobStatusActive
	}
	now := r.s.now()
	job.CreatedAt, job.UpdatedAt = now, now
	r.s.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (r *JobStore) FindByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.withEmployer(j)
	return &out, nil
}

func (r *JobStore) List(_ context.Context, f repository.JobFilter, s repository.Sort, p repository.Page) ([]models.Job, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var jobs []models.Job
	for _, j := range r.s.jobs {
		if matchJob(&j, f) {
			jobs = append(jobs, r.withEmployer(j))
		}
	}
	sortItems(jobs, s, jobComparators)
	return paginate(jobs, p), int64(len(jobs)), nil
}

func (r *JobStore) ListIDs(_ context.Context, f repository.JobFilter) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := []uuid.UUID{}
	for id, j := range r.s.jobs {
		if matchJob(&j, f) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *JobStore) Update(_ context.Context, job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.jobs[job.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title = job.Title
	cur.Description = job.Description
	cur.Requirements = append(pq.StringArray{}, job.Requirements...)
	cur.Location = job.Location
	cur.Category = job.Category
	cur.JobType = job.JobType
	cur.Salary = job.Salary
	cur.Status = job.Status
	cur.UpdatedAt = r.s.now()
	r.s.jobs[job.ID] = cur
	job.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *JobStore) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	j.Status = status
	j.UpdatedAt = r.s.now()
	r.s.jobs[id] = j
	return nil
}

func (r *JobStore) CloseByEmployer(_ context.Context, employerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, j := range r.s.jobs {
		if j.PostedBy == employerID && j.Status == models.JobStatusActive {
			j.Status = models.JobStatusClosed
			j.UpdatedAt = r.s.now()
			r.s.jobs[id] = j
			n++
		}
	}
	return n, nil
}

// Delete removes the job and, like the foreign key cascade in Postgres,
// every application that references it.
func (r *JobStore) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.jobs, id)
	for appID, a := range r.s.applications {
		if a.JobID == id {
			delete(r.s.applications, appID)
		}
	}
	return nil
}

func (r *JobStore) AdjustApplicationsCount(_ context.Context, id uuid.UUID, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	j.ApplicationsCount += delta
	r.s.jobs[id] = j
	return nil
}

func (r *JobStore) Count(_ context.Context, f repository.JobFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, j := range r.s.jobs {
		if matchJob(&j, f) {
			n++
		}
	}
	return n, nil
}

func (r *JobStore) CountBy(_ context.Context, field string, f repository.JobFilter, limit int) ([]repository.GroupCount, error) {
	if _, err := jobField(&models.Job{}, field); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, j := range r.s.jobs {
		if matchJob(&j, f) {
			key, _ := jobField(&j, field)
			counts[key]++
		}
	}
	return groupCounts(counts, limit), nil
}

func (r *JobStore) CountByMonth(_ context.Context, since time.Time) ([]repository.TimeBucket, error) {
	return r.buckets(repository.DateRange{From: since}, monthLayout), nil
}

func (r *JobStore) CountByDay(_ context.Context, rng repository.DateRange) ([]repository.TimeBucket, error) {
	return r.buckets(rng, dayLayout), nil
}

func (r *JobStore) buckets(rng repository.DateRange, layout string) []repository.TimeBucket {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[string]int64{}
	for _, j := range r.s.jobs {
		if within(j.CreatedAt, rng) {
			counts[j.CreatedAt.UTC().Format(layout)]++
		}
	}
	return timeBuckets(counts)
}
