package data

import (
	"context"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"github.com/lk2023060901/yoga-studio-backend/internal/studio/biz"
)

// ClassPO 课程数据库模型
type ClassPO struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	Name            string    `gorm:"size:120;not null"`
	Description     string    `gorm:"type:text;not null"`
	Level           string    `gorm:"size:20;not null;default:'all'"`
	DurationMinutes int       `gorm:"not null"`
	Schedule        string    `gorm:"size:200;not null;default:''"`
	Position        int       `gorm:"not null;default:0;index:idx_classes_position"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (ClassPO) TableName() string {
	return "classes"
}

// FAQPO 常见问题数据库模型
type FAQPO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Question  string    `gorm:"size:300;not null"`
	Answer    string    `gorm:"type:text;not null"`
	Position  int       `gorm:"not null;default:0;index:idx_faqs_position"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (FAQPO) TableName() string {
	return "faqs"
}

type StudioRepo struct {
	db *database.DB
}

func NewStudioRepo(db *database.DB) biz.StudioRepo {
	return &StudioRepo{db: db}
}

func (r *StudioRepo) ListClasses(ctx context.Context) ([]*biz.Class, error) {
	var pos []ClassPO
	if err := r.db.WithContext(ctx).GetDB().Order("position ASC").Order("id ASC").Find(&pos).Error; err != nil {
		return nil, err
	}
	out := make([]*biz.Class, len(pos))
	for i := range pos {
		p := &pos[i]
		out[i] = &biz.Class{
			ID:              p.ID,
			Name:            p.Name,
			Description:     p.Description,
			Level:           p.Level,
			DurationMinutes: p.DurationMinutes,
			Schedule:        p.Schedule,
			Position:        p.Position,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		}
	}
	return out, nil
}

func (r *StudioRepo) CreateClass(ctx context.Context, c *biz.Class) error {
	po := &ClassPO{
		Name:            c.Name,
		Description:     c.Description,
		Level:           c.Level,
		DurationMinutes: c.DurationMinutes,
		Schedule:        c.Schedule,
		Position:        c.Position,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}
	c.ID = po.ID
	return nil
}

func (r *StudioRepo) ListFAQs(ctx context.Context) ([]*biz.FAQ, error) {
	var pos []FAQPO
	if err := r.db.WithContext(ctx).GetDB().Order("position ASC").Order("id ASC").Find(&pos).Error; err != nil {
		return nil, err
	}
	out := make([]*biz.FAQ, len(pos))
	for i := range pos {
		p := &pos[i]
		out[i] = &biz.FAQ{
			ID:        p.ID,
			Question:  p.Question,
			Answer:    p.Answer,
			Position:  p.Position,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		}
	}
	return out, nil
}

func (r *StudioRepo) CreateFAQ(ctx context.Context, f *biz.FAQ) error {
	po := &FAQPO{
		Question:  f.Question,
		Answer:    f.Answer,
		Position:  f.Position,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}
	f.ID = po.ID
	return nil
}
