package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/blogref/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"gorm.io/gorm"
)

// StringList 以 JSON 文本存储的字符串数组，postgres 与 sqlite 通用
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tags column type %T", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

// BlogRefPO 博客引用数据库模型
type BlogRefPO struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	ExternalID string     `gorm:"size:120;not null;default:'';uniqueIndex:idx_blog_refs_provider_external,where:external_id <> ''"`
	Provider   string     `gorm:"size:40;not null;default:'manual';uniqueIndex:idx_blog_refs_provider_external,where:external_id <> '';index:idx_blog_refs_provider"`
	Title      string     `gorm:"size:300;not null"`
	Excerpt    string     `gorm:"type:text;not null"`
	Image      string     `gorm:"size:2048;not null;default:''"`
	Author     string     `gorm:"size:120;not null"`
	Date       string     `gorm:"size:10;not null;index:idx_blog_refs_date"`
	Slug       string     `gorm:"size:200;not null;uniqueIndex:idx_blog_refs_slug"`
	URL        string     `gorm:"column:url;size:2048;not null;default:''"`
	Tags       StringList `gorm:"type:text;not null"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

func (BlogRefPO) TableName() string {
	return "blog_refs"
}

type BlogRefRepo struct {
	db *database.DB
}

func NewBlogRefRepo(db *database.DB) biz.BlogRefRepo {
	return &BlogRefRepo{db: db}
}

func (r *BlogRefRepo) List(ctx context.Context, page, pageSize int, filter biz.BlogRefFilter) ([]*biz.BlogRef, int64, error) {
	tagFilter := func(db *gorm.DB) *gorm.DB {
		if filter.Tag == "" {
			return db
		}
		quoted, _ := json.Marshal(filter.Tag)
		return db.Where("tags LIKE ?", "%"+string(quoted)+"%")
	}

	result, err := database.FindPage[BlogRefPO](ctx, r.db.GetDB(), page, pageSize,
		database.OrderBy("date", true),
		database.WhereIf(filter.Provider != "", "provider = ?", filter.Provider),
		tagFilter,
	)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*biz.BlogRef, len(result.Items))
	for i := range result.Items {
		items[i] = toBlogRef(&result.Items[i])
	}
	return items, result.Total, nil
}

func (r *BlogRefRepo) first(ctx context.Context, query interface{}, args ...interface{}) (*biz.BlogRef, error) {
	var po BlogRefPO
	if err := r.db.WithContext(ctx).GetDB().Where(query, args...).First(&po).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return toBlogRef(&po), nil
}

func (r *BlogRefRepo) GetByID(ctx context.Context, id int64) (*biz.BlogRef, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *BlogRefRepo) GetBySlug(ctx context.Context, slug string) (*biz.BlogRef, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *BlogRefRepo) GetByExternalID(ctx context.Context, provider, externalID string) (*biz.BlogRef, error) {
	return r.first(ctx, "provider = ? AND external_id = ?", provider, externalID)
}

func (r *BlogRefRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return database.Exists(ctx, r.db.GetDB(), &BlogRefPO{}, "slug = ? AND id <> ?", slug, excludeID)
}

func (r *BlogRefRepo) Create(ctx context.Context, b *biz.BlogRef) error {
	po := &BlogRefPO{
		ExternalID: b.ExternalID,
		Provider:   b.Provider,
		Title:      b.Title,
		Excerpt:    b.Excerpt,
		Image:      b.Image,
		Author:     b.Author,
		Date:       b.Date,
		Slug:       b.Slug,
		URL:        b.URL,
		Tags:       StringList(b.Tags),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		return err
	}
	b.ID = po.ID
	return nil
}

func (r *BlogRefRepo) Update(ctx context.Context, b *biz.BlogRef) error {
	res := r.db.WithContext(ctx).GetDB().Model(&BlogRefPO{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"title":      b.Title,
			"excerpt":    b.Excerpt,
			"image":      b.Image,
			"author":     b.Author,
			"date":       b.Date,
			"slug":       b.Slug,
			"url":        b.URL,
			"tags":       StringList(b.Tags),
			"updated_at": b.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return biz.ErrBlogRefNotFound
	}
	return nil
}

func (r *BlogRefRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).GetDB().Delete(&BlogRefPO{}, id)
	return res.RowsAffected > 0, res.Error
}

func toBlogRef(po *BlogRefPO) *biz.BlogRef {
	tags := []string(po.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &biz.BlogRef{
		ID:         po.ID,
		ExternalID: po.ExternalID,
		Title:      po.Title,
		Excerpt:    po.Excerpt,
		Image:      po.Image,
		Author:     po.Author,
		Date:       po.Date,
		Slug:       po.Slug,
		Provider:   po.Provider,
		URL:        po.URL,
		Tags:       tags,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}
