package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var userSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"location":  "location",
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userFilter(f UserFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Role != "" {
			db = db.Where("role = ?", f.Role)
		}
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		if f.Location != "" {
			db = db.Where("LOWER(location) LIKE ?", containsPattern(f.Location))
		}
		if len(f.Skills) > 0 {
			db = db.Where("skills && ?", pq.Array(f.Skills))
		}
		if f.Search != "" {
			p := containsPattern(f.Search)
			db = db.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(organization) LIKE ?)", p, p, p)
		}
		return db.Scopes(CreatedWithin("created_at", f.Created))
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, filter UserFilter, sort Sort, page Page) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(userFilter(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Scopes(userFilter(filter), OrderBy(sort, userSortColumns, "created_at"), Paginate(page)).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, c UserChanges) (*models.User, error) {
	updates := map[string]interface{}{}
	if c.Name != nil {
		updates["name"] = *c.Name
	}
	if c.Phone != nil {
		updates["phone"] = *c.Phone
	}
	if c.Location != nil {
		updates["location"] = *c.Location
	}
	if c.Organization != nil {
		updates["organization"] = *c.Organization
	}
	if c.Skills != nil {
		updates["skills"] = pq.StringArray(*c.Skills)
	}
	if c.Education != nil {
		updates["education"] = datatypes.JSONSlice[models.Education](*c.Education)
	}
	if c.Experience != nil {
		updates["experience"] = datatypes.JSONSlice[models.Experience](*c.Experience)
	}
	if c.Resume != nil {
		updates["resume"] = *c.Resume
	}
	if c.ProfileImage != nil {
		updates["profile_image"] = *c.ProfileImage
	}
	if c.IsActive != nil {
		updates["is_active"] = *c.IsActive
	}
	if c.Role != nil {
		updates["role"] = *c.Role
	}
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// AddSkill appends skill unless it is already present.
func (r *UserRepository) AddSkill(ctx context.Context, id uuid.UUID, skill string) (*models.User, error) {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND NOT (COALESCE(skills, '{}') @> ARRAY[?]::text[])", id, skill).
		UpdateColumn("skills", gorm.Expr("array_append(COALESCE(skills, '{}'), ?)", skill)).Error
	if err != nil {
		return nil, fmt.Errorf("add skill: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) RemoveSkill(ctx context.Context, id uuid.UUID, skill string) (*models.User, error) {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("skills", gorm.Expr("array_remove(skills, ?)", skill)).Error
	if err != nil {
		return nil, fmt.Errorf("remove skill: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) AppendEducation(ctx context.Context, id uuid.UUID, entry models.Education) (*models.User, error) {
	return r.appendJSON(ctx, id, "education", entry)
}

func (r *UserRepository) AppendExperience(ctx context.Context, id uuid.UUID, entry models.Experience) (*models.User, error) {
	return r.appendJSON(ctx, id, "experience", entry)
}

func (r *UserRepository) appendJSON(ctx context.Context, id uuid.UUID, column string, entry interface{}) (*models.User, error) {
	b, err := json.Marshal([]interface{}{entry})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", column, err)
	}
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(jsonArrayOrEmpty(column)+" || ?::jsonb", string(b)))
	if res.Error != nil {
		return nil, fmt.Errorf("append %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// jsonArrayOrEmpty reads column as a JSON array. A nil slice is stored as
// the JSON null literal, which would otherwise concatenate as an element.
func jsonArrayOrEmpty(column string) string {
	return "(CASE WHEN jsonb_typeof(" + column + ") = 'array' THEN " + column + " ELSE '[]'::jsonb END)"
}

func (r *UserRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(userFilter(filter)).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountByRole(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role AS key, COUNT(*) AS count").
		Group("role").
		Order("COUNT(*) DESC, role ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *UserRepository) CountByLocation(ctx context.Context, limit int) ([]GroupCount, error) {
	var rows []GroupCount
	q := r.db.WithContext(ctx).Model(&models.User{}).
		Select("location AS key, COUNT(*) AS count").
		Where("location <> ''").
		Group("location").
		Order("COUNT(*) DESC, location ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *UserRepository) CountByMonth(ctx context.Context, since time.Time) ([]TimeBucket, error) {
	return bucketCounts(r.db.WithContext(ctx).Model(&models.User{}), "created_at", monthFormat, DateRange{From: since})
}

func (r *UserRepository) CountByDay(ctx context.Context, rng DateRange) ([]TimeBucket, error) {
	return bucketCounts(r.db.WithContext(ctx).Model(&models.User{}), "created_at", dayFormat, rng)
}

const (
	monthFormat = "YYYY-MM"
	dayFormat   = "YYYY-MM-DD"
)

// bucketCounts groups rows by to_char(column, format) in ascending order.
func bucketCounts(db *gorm.DB, column, format string, rng DateRange) ([]TimeBucket, error) {
	expr := "to_char(" + column + ", '" + format + "')"
	var rows []TimeBucket
	err := db.Scopes(CreatedWithin(column, rng)).
		Select(expr + " AS key, COUNT(*) AS count").
		Group(expr).
		Order(expr).
		Scan(&rows).Error
	return rows, err
}
