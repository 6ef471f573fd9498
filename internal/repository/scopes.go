package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Paginate returns a GORM scope applying a 1-indexed page.
func Paginate(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit <= 0 {
			return db
		}
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// CreatedWithin filters column by an optionally open date range.
func CreatedWithin(column string, r DateRange) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !r.From.IsZero() {
			db = db.Where(column+" >= ?", r.From)
		}
		if !r.To.IsZero() {
			db = db.Where(column+" <= ?", r.To)
		}
		return db
	}
}

// OrderBy resolves a Sort against a whitelist of JSON field -> column.
// Unknown fields fall back to fallback.
func OrderBy(s Sort, columns map[string]string, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		col, ok := columns[s.Field]
		if !ok {
			col = fallback
		}
		if s.Desc || s.Field == "" {
			return db.Order(col + " DESC")
		}
		return db.Order(col + " ASC")
	}
}

// containsPattern builds a LIKE pattern for a case-insensitive substring match.
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
