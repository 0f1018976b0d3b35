package biz

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/asset"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/metrics"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

const Entity = "event"

var ErrEventNotFound = apperrors.NewNotFoundError(Entity)

// Event 活动；IsPast 是 Date 的缓存派生值
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Spots       int       `json:"spots"`
	IsPast      bool      `json:"is_past"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EventInput struct {
	Title       string `json:"title" yaml:"title" validate:"notblank,max=200"`
	Description string `json:"description" yaml:"description" validate:"notblank"`
	Image       string `json:"image" yaml:"image" validate:"max=2048"`
	Date        string `json:"date" yaml:"date" validate:"required,ymd"`
	Time        string `json:"time" yaml:"time" validate:"notblank,max=50"`
	Location    string `json:"location" yaml:"location" validate:"notblank,max=200"`
	Spots       int    `json:"spots" yaml:"spots" validate:"min=1"`
}

type EventPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Spots       *int    `json:"spots"`
}

// EventFilter Past 为 nil 时不过滤
type EventFilter struct {
	Past *bool
}

func (e *Event) input() EventInput {
	return EventInput{
		Title:       e.Title,
		Description: e.Description,
		Image:       e.Image,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Spots:       e.Spots,
	}
}

func (p EventPatch) apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Spots != nil {
		e.Spots = *p.Spots
	}
}

// IsPast reports whether date (YYYY-MM-DD) is strictly before the UTC day of now
func IsPast(date string, now time.Time) bool {
	return date < now.UTC().Format(validator.DateLayout)
}

// EventRepo 活动仓储；GetByID 无记录时返回 (nil, nil)
type EventRepo interface {
	List(ctx context.Context, page, pageSize int, filter EventFilter) ([]*Event, int64, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id int64) (bool, error)
	// MarkPast flips is_past for rows dated before today that are still upcoming
	MarkPast(ctx context.Context, today string, now time.Time) (int64, error)
}

type EventUseCase struct {
	repo   EventRepo
	assets *asset.Store
	report content.Reporter
	now    func() time.Time
}

func NewEventUseCase(repo EventRepo, assets *asset.Store, log *logger.Logger) *EventUseCase {
	return &EventUseCase{
		repo:   repo,
		assets: assets,
		report: content.NewReporter(Entity, log),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns events by date, earliest first
func (uc *EventUseCase) List(ctx context.Context, page, pageSize int, filter EventFilter) (*content.ListResult[*Event], error) {
	page, pageSize = pagination.Normalize(page, pageSize)

	start := time.Now()
	items, total, err := uc.repo.List(ctx, page, pageSize, filter)
	if err := uc.report.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Event{}
	}
	return &content.ListResult[*Event]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (uc *EventUseCase) Get(ctx context.Context, id int64) (*Event, error) {
	start := time.Now()
	e, err := uc.repo.GetByID(ctx, id)
	if err := uc.report.Query(ctx, "get", id, start, err); err != nil {
		return nil, err
	}
	return e, nil
}

func (uc *EventUseCase) Create(ctx context.Context, in EventInput) (*Event, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	now := uc.now()
	e := &Event{
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Date:        in.Date,
		Time:        in.Time,
		Location:    in.Location,
		Spots:       in.Spots,
		IsPast:      IsPast(in.Date, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	start := time.Now()
	err := uc.repo.Create(ctx, e)
	if err := uc.report.Write(ctx, "create", 0, start, err); err != nil {
		return nil, err
	}
	return e, nil
}

// Update applies p; a present date recomputes is_past in the same write
func (uc *EventUseCase) Update(ctx context.Context, id int64, p EventPatch) (*Event, error) {
	current, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrEventNotFound
	}

	next := *current
	p.apply(&next)
	if err := validator.Struct(next.input()); err != nil {
		return nil, err
	}
	next.UpdatedAt = uc.now()
	if p.Date != nil {
		next.IsPast = IsPast(next.Date, next.UpdatedAt)
	}

	start := time.Now()
	err = uc.repo.Update(ctx, &next)
	if errors.Is(err, apperrors.NotFoundError) {
		return nil, err
	}
	if err := uc.report.Write(ctx, "update", id, start, err); err != nil {
		return nil, err
	}

	uc.assets.ReleaseReplaced(ctx, Entity, id, current.Image, next.Image)
	return &next, nil
}

func (uc *EventUseCase) Delete(ctx context.Context, id int64) (bool, error) {
	current, err := uc.Get(ctx, id)
	if err != nil || current == nil {
		return false, err
	}

	start := time.Now()
	deleted, err := uc.repo.Delete(ctx, id)
	if err := uc.report.Write(ctx, "delete", id, start, err); err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	uc.assets.Release(ctx, Entity, id, current.Image)
	return true, nil
}

// SweepPast marks every event dated before today that still reads upcoming.
// It returns the number of rows flipped.
func (uc *EventUseCase) SweepPast(ctx context.Context) (int64, error) {
	now := uc.now()

	start := time.Now()
	n, err := uc.repo.MarkPast(ctx, now.Format(validator.DateLayout), now)
	if err := uc.report.Write(ctx, "sweep", 0, start, err); err != nil {
		return 0, err
	}

	metrics.EventsSwept.Add(float64(n))
	if n > 0 {
		uc.report.Log.WithContext(ctx).Info("events marked past", zap.Int64("count", n))
	}
	return n, nil
}

func (uc *EventUseCase) UploadAsset(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	return uc.assets.Upload(ctx, data, fileName, mimeType)
}

func (uc *EventUseCase) DeleteAsset(ctx context.Context, url string) bool {
	return uc.assets.Delete(ctx, url)
}
