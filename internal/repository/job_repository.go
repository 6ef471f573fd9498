package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var jobSortColumns = map[string]string{
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
	"title":             "title",
	"location":          "location",
	"category":          "category",
	"jobType":           "job_type",
	"status":            "status",
	"salary":            "salary_amount",
	"applicationsCount": "applications_count",
}

var jobGroupColumns = map[string]string{
	GroupCategory: "category",
	GroupLocation: "location",
	GroupJobType:  "job_type",
	GroupStatus:   "status",
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func jobFilter(f JobFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.JobType != "" {
			db = db.Where("job_type = ?", f.JobType)
		}
		if f.Location != "" {
			db = db.Where("LOWER(location) LIKE ?", containsPattern(f.Location))
		}
		if f.Search != "" {
			p := containsPattern(f.Search)
			db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", p, p)
		}
		if f.Disclosed != nil {
			db = db.Where("salary_disclosed = ?", *f.Disclosed)
		}
		if f.PostedBy != uuid.Nil {
			db = db.Where("posted_by = ?", f.PostedBy)
		}
		return db.Scopes(CreatedWithin("created_at", f.Created))
	}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", translate(err))
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Preload("Employer").First(&job, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context, filter JobFilter, sort Sort, page Page) ([]models.Job, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).Scopes(jobFilter(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Preload("Employer").
		Scopes(jobFilter(filter), OrderBy(sort, jobSortColumns, "created_at"), Paginate(page)).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, total, nil
}

func (r *JobRepository) ListIDs(ctx context.Context, filter JobFilter) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := r.db.WithContext(ctx).Model(&models.Job{}).Scopes(jobFilter(filter)).Pluck("id", &ids).Error
	return ids, err
}

// Update writes the editable columns of job. The applications counter and
// owner are never touched here.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	res := r.db.WithContext(ctx).Model(job).
		Select("title", "description", "requirements", "location", "category", "job_type",
			"salary_disclosed", "salary_amount", "status", "updated_at").
		Updates(job)
	if res.Error != nil {
		return fmt.Errorf("update job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set job status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CloseByEmployer closes every active job posted by employerID.
func (r *JobRepository) CloseByEmployer(ctx context.Context, employerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("posted_by = ? AND status = ?", employerID, models.JobStatusActive).
		Update("status", models.JobStatusClosed)
	return res.RowsAffected, res.Error
}

func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Job{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustApplicationsCount changes the counter in a single statement so
// concurrent applies never lose an increment.
func (r *JobRepository) AdjustApplicationsCount(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("applications_count", gorm.Expr("applications_count + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("adjust applications count: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepository) Count(ctx context.Context, filter JobFilter) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).Scopes(jobFilter(filter)).Count(&n).Error
	return n, err
}

func (r *JobRepository) CountBy(ctx context.Context, field string, filter JobFilter, limit int) ([]GroupCount, error) {
	col, ok := jobGroupColumns[field]
	if !ok {
		return nil, fmt.Errorf("unsupported job group field %q", field)
	}
	q := r.db.WithContext(ctx).Model(&models.Job{}).
		Scopes(jobFilter(filter)).
		Select(col + " AS key, COUNT(*) AS count").
		Group(col).
		Order("COUNT(*) DESC, " + col + " ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []GroupCount
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *JobRepository) CountByMonth(ctx context.Context, since time.Time) ([]TimeBucket, error) {
	return bucketCounts(r.db.WithContext(ctx).Model(&models.Job{}), "created_at", monthFormat, DateRange{From: since})
}

func (r *JobRepository) CountByDay(ctx context.Context, rng DateRange) ([]TimeBucket, error) {
	return bucketCounts(r.db.WithContext(ctx).Model(&models.Job{}), "created_at", dayFormat, rng)
}
