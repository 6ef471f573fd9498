package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var applicationSortColumns = map[string]string{
	"createdAt": "applications.created_at",
	"appliedAt": "applications.created_at",
	"updatedAt": "applications.updated_at",
	"status":    "applications.status",
}

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func applicationFilter(f ApplicationFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.JobID != uuid.Nil {
			db = db.Where("applications.job_id = ?", f.JobID)
		}
		if f.JobIDs != nil {
			if len(f.JobIDs) == 0 {
				return db.Where("1 = 0")
			}
			db = db.Where("applications.job_id IN ?", f.JobIDs)
		}
		if f.ApplicantID != uuid.Nil {
			db = db.Where("applications.applicant_id = ?", f.ApplicantID)
		}
		if f.Status != "" {
			db = db.Where("applications.status = ?", f.Status)
		}
		if f.JobCategory != "" {
			db = db.Joins("JOIN jobs ON jobs.id = applications.job_id").
				Where("jobs.category = ?", f.JobCategory)
		}
		return db.Scopes(CreatedWithin("applications.created_at", f.Created))
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("create application: %w", translate(err))
	}
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Employer").
		Preload("Applicant").
		First(&app, "applications.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter ApplicationFilter, sort Sort, page Page) ([]models.Application, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Application{}).Scopes(applicationFilter(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Employer").
		Preload("Applicant").
		Scopes(applicationFilter(filter), OrderBy(sort, applicationSortColumns, "applications.created_at"), Paginate(page)).
		Find(&apps).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	return apps, total, nil
}

func (r *ApplicationRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set application status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Application{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete application: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Application{}, "job_id = ?", jobID)
	return res.RowsAffected, res.Error
}

func (r *ApplicationRepository) Count(ctx context.Context, filter ApplicationFilter) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Scopes(applicationFilter(filter)).Count(&n).Error
	return n, err
}

// CountByStatus returns a count for every known status, zero-filled.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, filter ApplicationFilter) (map[string]int64, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Scopes(applicationFilter(filter)).
		Select("applications.status AS key, COUNT(*) AS count").
		Group("applications.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(models.ApplicationStatuses))
	for _, s := range models.ApplicationStatuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}

func (r *ApplicationRepository) CountByDay(ctx context.Context, rng DateRange) ([]TimeBucket, error) {
	return bucketCounts(r.db.WithContext(ctx).Model(&models.Application{}), "created_at", dayFormat, rng)
}

func (r *ApplicationRepository) OutcomesByCategory(ctx context.Context) ([]CategoryOutcome, error) {
	var rows []CategoryOutcome
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("jobs.category AS category, COUNT(*) AS total, "+
			"SUM(CASE WHEN applications.status = ? THEN 1 ELSE 0 END) AS accepted", models.ApplicationAccepted).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Group("jobs.category").
		Order("jobs.category").
		Scan(&rows).Error
	return rows, err
}
