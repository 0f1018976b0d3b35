// Package content holds the plumbing shared by the content services:
// list results, the category sentinel and store error reporting.
package content

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/metrics"
	"go.uber.org/zap"
)

// CategoryAll is the filter sentinel meaning "no category restriction".
// It is never stored as a category of its own.
const CategoryAll = "all"

// ListResult is one page of an entity list. Total is the row count of the
// whole filter, independent of the page.
type ListResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"totalCount"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// NormalizeCategory returns "" for the sentinel or a blank value, else the trimmed category.
func NormalizeCategory(category string) string {
	c := strings.TrimSpace(category)
	if c == "" || strings.EqualFold(c, CategoryAll) {
		return ""
	}
	return c
}

// StoredCategory is the value written for a new gallery row.
func StoredCategory(category string) string {
	c := strings.TrimSpace(category)
	if c == "" {
		return CategoryAll
	}
	return c
}

// Reporter logs and counts store operations for one entity.
type Reporter struct {
	Entity string
	Log    *logger.Logger
}

func NewReporter(entity string, log *logger.Logger) Reporter {
	if log == nil {
		log = logger.NewNop()
	}
	return Reporter{Entity: entity, Log: log.Named(entity)}
}

// Query records a read. A non-nil err is logged and returned as a StoreQueryError.
func (r Reporter) Query(ctx context.Context, op string, id int64, start time.Time, err error) error {
	metrics.ObserveStore(r.Entity, op, start, err)
	if err == nil {
		return nil
	}
	r.Log.WithContext(ctx).Error("store query failed",
		zap.String("entity", r.Entity),
		zap.String("op", op),
		zap.Int64("id", id),
		zap.Error(err),
	)
	return apperrors.NewStoreQueryError(r.Entity, op, err)
}

// Write records a write. A non-nil err is logged and returned as a StoreWriteError.
func (r Reporter) Write(ctx context.Context, op string, id int64, start time.Time, err error) error {
	metrics.ObserveStore(r.Entity, op, start, err)
	if err == nil {
		return nil
	}
	r.Log.WithContext(ctx).Error("store write failed",
		zap.String("entity", r.Entity),
		zap.String("op", op),
		zap.Int64("id", id),
		zap.Error(err),
	)
	return apperrors.NewStoreWriteError(r.Entity, op, id, err)
}
