package data

import (
	"context"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"gorm.io/gorm"
)

// EventPO 活动数据库模型；date 以 YYYY-MM-DD 存储，字符串比较即日期比较
type EventPO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null"`
	Image       string    `gorm:"size:2048;not null;default:''"`
	Date        string    `gorm:"size:10;not null;index:idx_events_date"`
	Time        string    `gorm:"size:50;not null"`
	Location    string    `gorm:"size:200;not null"`
	Spots       int       `gorm:"not null"`
	IsPast      bool      `gorm:"not null;default:false;index:idx_events_is_past"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (EventPO) TableName() string {
	return "events"
}

type EventRepo struct {
	db *database.DB
}

func NewEventRepo(db *database.DB) biz.EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) List(ctx context.Context, page, pageSize int, filter biz.EventFilter) ([]*biz.Event, int64, error) {
	past := func(db *gorm.DB) *gorm.DB {
		if filter.Past == nil {
			return db
		}
		return db.Where("is_past = ?", *filter.Past)
	}

	result, err := database.FindPage[EventPO](ctx, r.db.GetDB(), page, pageSize, database.OrderBy("date", false), past)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*biz.Event, len(result.Items))
	for i := range result.Items {
		items[i] = toEvent(&result.Items[i])
	}
	return items, result.Total, nil
}

func (r *EventRepo) GetByID(ctx context.Context, id int64) (*biz.Event, error) {
	var po EventPO
	if err := r.db.WithContext(ctx).GetDB().First(&po, id).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return toEvent(&po), nil
}

func (r *EventRepo) Create(ctx context.Context, e *biz.Event) error {
	po := fromEvent(e)
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}
	e.ID = po.ID
	return nil
}

func (r *EventRepo) Update(ctx context.Context, e *biz.Event) error {
	res := r.db.WithContext(ctx).GetDB().Model(&EventPO{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"title":       e.Title,
			"description": e.Description,
			"image":       e.Image,
			"date":        e.Date,
			"time":        e.Time,
			"location":    e.Location,
			"spots":       e.Spots,
			"is_past":     e.IsPast,
			"updated_at":  e.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return biz.ErrEventNotFound
	}
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).GetDB().Delete(&EventPO{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *EventRepo) MarkPast(ctx context.Context, today string, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).GetDB().Model(&EventPO{}).
		Where("date < ? AND is_past = ?", today, false).
		Updates(map[string]interface{}{"is_past": true, "updated_at": now})
	return res.RowsAffected, res.Error
}

func fromEvent(e *biz.Event) *EventPO {
	return &EventPO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Image:       e.Image,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Spots:       e.Spots,
		IsPast:      e.IsPast,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEvent(po *EventPO) *biz.Event {
	return &biz.Event{
		ID:          po.ID,
		Title:       po.Title,
		Description: po.Description,
		Image:       po.Image,
		Date:        po.Date,
		Time:        po.Time,
		Location:    po.Location,
		Spots:       po.Spots,
		IsPast:      po.IsPast,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
}
