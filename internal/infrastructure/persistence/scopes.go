package persistence

import (
	"strings"

	"github.com/erp/inventory/internal/domain/shared"
	"gorm.io/gorm"
)

// maxPageSize caps a single list page
const maxPageSize = 500

func paginate(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.PageSize <= 0 {
			return db
		}
		size := filter.PageSize
		if size > maxPageSize {
			size = maxPageSize
		}
		page := filter.Page
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}

func activeOnly(opts shared.ListOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.IncludeInactive {
			return db
		}
		return db.Where("active = ?", true)
	}
}

// likeAny matches term case-insensitively against any of the columns
func likeAny(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + term + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
