package data

import (
	"context"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
)

// TestimonialPO 评价数据库模型
type TestimonialPO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:120;not null"`
	Role      string    `gorm:"size:120;not null;default:''"`
	Quote     string    `gorm:"type:text;not null"`
	Image     string    `gorm:"size:2048;not null;default:''"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_testimonials_created_at"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (TestimonialPO) TableName() string {
	return "testimonials"
}

type TestimonialRepo struct {
	db *database.DB
}

func NewTestimonialRepo(db *database.DB) biz.TestimonialRepo {
	return &TestimonialRepo{db: db}
}

func (r *TestimonialRepo) List(ctx context.Context, page, pageSize int) ([]*biz.Testimonial, int64, error) {
	result, err := database.FindPage[TestimonialPO](ctx, r.db.GetDB(), page, pageSize, database.OrderBy("created_at", true))
	if err != nil {
		return nil, 0, err
	}

	items := make([]*biz.Testimonial, len(result.Items))
	for i := range result.Items {
		items[i] = toTestimonial(&result.Items[i])
	}
	return items, result.Total, nil
}

func (r *TestimonialRepo) GetByID(ctx context.Context, id int64) (*biz.Testimonial, error) {
	var po TestimonialPO
	if err := r.db.WithContext(ctx).GetDB().First(&po, id).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return toTestimonial(&po), nil
}

func (r *TestimonialRepo) Create(ctx context.Context, t *biz.Testimonial) error {
	po := fromTestimonial(t)
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}
	t.ID = po.ID
	return nil
}

func (r *TestimonialRepo) Update(ctx context.Context, t *biz.Testimonial) error {
	res := r.db.WithContext(ctx).GetDB().Model(&TestimonialPO{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"name":       t.Name,
			"role":       t.Role,
			"quote":      t.Quote,
			"image":      t.Image,
			"rating":     t.Rating,
			"updated_at": t.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return biz.ErrTestimonialNotFound
	}
	return nil
}

func (r *TestimonialRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).GetDB().Delete(&TestimonialPO{}, id)
	return res.RowsAffected > 0, res.Error
}

func fromTestimonial(t *biz.Testimonial) *TestimonialPO {
	return &TestimonialPO{
		ID:        t.ID,
		Name:      t.Name,
		Role:      t.Role,
		Quote:     t.Quote,
		Image:     t.Image,
		Rating:    t.Rating,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTestimonial(po *TestimonialPO) *biz.Testimonial {
	return &biz.Testimonial{
		ID:        po.ID,
		Name:      po.Name,
		Role:      po.Role,
		Quote:     po.Quote,
		Image:     po.Image,
		Rating:    po.Rating,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}
