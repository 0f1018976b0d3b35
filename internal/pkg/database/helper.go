package database

import (
	"context"
	"fmt"

	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

// Paginate adds OFFSET/LIMIT for a 1-based page
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset, limit := pagination.Offset(page, pageSize)
		return db.Offset(offset).Limit(limit)
	}
}

// OrderBy adds ordering to a query. The id tiebreaker keeps pages stable.
func OrderBy(field string, desc bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if desc {
			return db.Order(field + " DESC").Order("id DESC")
		}
		return db.Order(field).Order("id")
	}
}

// WhereIf conditionally adds a where clause
func WhereIf(condition bool, query interface{}, args ...interface{}) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if condition {
			return db.Where(query, args...)
		}
		return db
	}
}

// Page is one slice of a filtered table plus the filter's total row count
type Page[T any] struct {
	Items []T
	Total int64
}

// FindPage runs the count query and the data query for one page.
// filter scopes apply to both, order and pagination only to the data query.
// Either query failing fails the call; nothing partial is returned.
func FindPage[T any](ctx context.Context, db *gorm.DB, page, pageSize int, order func(*gorm.DB) *gorm.DB, filters ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	var model T

	var total int64
	if err := db.WithContext(ctx).Model(&model).Scopes(filters...).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	items := make([]T, 0)
	q := db.WithContext(ctx).Model(&model).Scopes(filters...)
	if order != nil {
		q = q.Scopes(order)
	}
	if err := q.Scopes(Paginate(page, pageSize)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	return &Page[T]{Items: items, Total: total}, nil
}

// Exists checks if a record matching query exists
func Exists(ctx context.Context, db *gorm.DB, model interface{}, query interface{}, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
