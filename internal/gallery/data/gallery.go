package data

import (
	"context"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"gorm.io/gorm"
)

// GalleryImagePO 图库图片数据库模型
type GalleryImagePO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	URL         string    `gorm:"column:url;size:2048;not null"`
	Category    string    `gorm:"size:60;not null;default:'all';index:idx_gallery_images_category"`
	CreatedAt   time.Time `gorm:"not null;index:idx_gallery_images_created_at"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (GalleryImagePO) TableName() string {
	return "gallery_images"
}

// GalleryVideoPO 图库视频数据库模型
type GalleryVideoPO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	URL         string    `gorm:"column:url;size:2048;not null"`
	Thumbnail   string    `gorm:"size:2048;not null;default:''"`
	Category    string    `gorm:"size:60;not null;default:'all';index:idx_gallery_videos_category"`
	CreatedAt   time.Time `gorm:"not null;index:idx_gallery_videos_created_at"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (GalleryVideoPO) TableName() string {
	return "gallery_videos"
}

func byCategory(category string) func(*gorm.DB) *gorm.DB {
	return database.WhereIf(category != "", "category = ?", category)
}

// distinctCategories 排除空值与哨兵 "all"
func distinctCategories(ctx context.Context, db *gorm.DB, model interface{}) ([]string, error) {
	categories := make([]string, 0)
	err := db.WithContext(ctx).Model(model).
		Distinct("category").
		Where("category <> '' AND LOWER(category) <> ?", content.CategoryAll).
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

type ImageRepo struct {
	db *database.DB
}

func NewImageRepo(db *database.DB) biz.ImageRepo {
	return &ImageRepo{db: db}
}

func (r *ImageRepo) List(ctx context.Context, page, pageSize int, category string) ([]*biz.GalleryImage, int64, error) {
	result, err := database.FindPage[GalleryImagePO](ctx, r.db.GetDB(), page, pageSize,
		database.OrderBy("created_at", true), byCategory(category))
	if err != nil {
		return nil, 0, err
	}

	items := make([]*biz.GalleryImage, len(result.Items))
	for i := range result.Items {
		items[i] = toImage(&result.Items[i])
	}
	return items, result.Total, nil
}

func (r *ImageRepo) GetByID(ctx context.Context, id int64) (*biz.GalleryImage, error) {
	var po GalleryImagePO
	if err := r.db.WithContext(ctx).GetDB().First(&po, id).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return toImage(&po), nil
}

func (r *ImageRepo) Create(ctx context.Context, g *biz.GalleryImage) error {
	po := &GalleryImagePO{
		Title:       g.Title,
		Description: g.Description,
		URL:         g.URL,
		Category:    g.Category,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}
	g.ID = po.ID
	return nil
}

func (r *ImageRepo) Update(ctx context.Context, g *biz.GalleryImage) error {
	res := r.db.WithContext(ctx).GetDB().Model(&GalleryImagePO{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"title":       g.Title,
			"description": g.Description,
			"url":         g.URL,
			"category":    g.Category,
			"updated_at":  g.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return biz.ErrImageNotFound
	}
	return nil
}

func (r *ImageRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).GetDB().Delete(&GalleryImagePO{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *ImageRepo) Categories(ctx context.Context) ([]string, error) {
	return distinctCategories(ctx, r.db.GetDB(), &GalleryImagePO{})
}

func toImage(po *GalleryImagePO) *biz.GalleryImage {
	return &biz.GalleryImage{
		ID:          po.ID,
		Title:       po.Title,
		Description: po.Description,
		URL:         po.URL,
		Category:    po.Category,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
}

type VideoRepo struct {
	db *database.DB
}

func NewVideoRepo(db *database.DB) biz.VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) List(ctx context.Context, page, pageSize int, category string) ([]*biz.GalleryVideo, int64, error) {
	result, err := database.FindPage[GalleryVideoPO](ctx, r.db.GetDB(), page, pageSize,
		database.OrderBy("created_at", true), byCategory(category))
	if err != nil {
		return nil, 0, err
	}

	items := make([]*biz.GalleryVideo, len(result.Items))
	for i := range result.Items {
		items[i] = toVideo(&result.Items[i])
	}
	return items, result.Total, nil
}

func (r *VideoRepo) GetByID(ctx context.Context, id int64) (*biz.GalleryVideo, error) {
	var po GalleryVideoPO
	if err := r.db.WithContext(ctx).GetDB().First(&po, id).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return toVideo(&po), nil
}

func (r *VideoRepo) Create(ctx context.Context, v *biz.GalleryVideo) error {
	po := &GalleryVideoPO{
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		Thumbnail:   v.Thumbnail,
		Category:    v.Category,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}
	v.ID = po.ID
	return nil
}

func (r *VideoRepo) Update(ctx context.Context, v *biz.GalleryVideo) error {
	res := r.db.WithContext(ctx).GetDB().Model(&GalleryVideoPO{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"title":       v.Title,
			"description": v.Description,
			"url":         v.URL,
			"thumbnail":   v.Thumbnail,
			"category":    v.Category,
			"updated_at":  v.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return biz.ErrVideoNotFound
	}
	return nil
}

func (r *VideoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).GetDB().Delete(&GalleryVideoPO{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *VideoRepo) Categories(ctx context.Context) ([]string, error) {
	return distinctCategories(ctx, r.db.GetDB(), &GalleryVideoPO{})
}

func toVideo(po *GalleryVideoPO) *biz.GalleryVideo {
	return &biz.GalleryVideo{
		ID:          po.ID,
		Title:       po.Title,
		Description: po.Description,
		URL:         po.URL,
		Thumbnail:   po.Thumbnail,
		Category:    po.Category,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
}
