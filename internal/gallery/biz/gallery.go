package biz

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/asset"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
)

const (
	ImageEntity = "gallery_image"
	VideoEntity = "gallery_video"
)

var (
	ErrImageNotFound = apperrors.NewNotFoundError(ImageEntity)
	ErrVideoNotFound = apperrors.NewNotFoundError(VideoEntity)
)

// MediaKind selects images or videos
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// GalleryImage 图库图片；URL 可能指向自有存储
type GalleryImage struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ImageInput struct {
	Title       string `json:"title" yaml:"title" validate:"notblank,max=200"`
	Description string `json:"description" yaml:"description" validate:"max=2000"`
	URL         string `json:"url" yaml:"url" validate:"notblank,max=2048"`
	Category    string `json:"category" yaml:"category" validate:"max=60"`
}

type ImagePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Category    *string `json:"category"`
}

func (g *GalleryImage) input() ImageInput {
	return ImageInput{Title: g.Title, Description: g.Description, URL: g.URL, Category: g.Category}
}

func (p ImagePatch) apply(g *GalleryImage) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.URL != nil {
		g.URL = *p.URL
	}
	if p.Category != nil {
		g.Category = content.StoredCategory(*p.Category)
	}
}

// ImageRepo 图片仓储；category 为空表示不过滤
type ImageRepo interface {
	List(ctx context.Context, page, pageSize int, category string) ([]*GalleryImage, int64, error)
	GetByID(ctx context.Context, id int64) (*GalleryImage, error)
	Create(ctx context.Context, g *GalleryImage) error
	Update(ctx context.Context, g *GalleryImage) error
	Delete(ctx context.Context, id int64) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

// GalleryUseCase serves both media kinds of the public gallery
type GalleryUseCase struct {
	images      ImageRepo
	videos      VideoRepo
	assets      *asset.Store
	imageReport content.Reporter
	videoReport content.Reporter
	now         func() time.Time
}

func NewGalleryUseCase(images ImageRepo, videos VideoRepo, assets *asset.Store, log *logger.Logger) *GalleryUseCase {
	return &GalleryUseCase{
		images:      images,
		videos:      videos,
		assets:      assets,
		imageReport: content.NewReporter(ImageEntity, log),
		videoReport: content.NewReporter(VideoEntity, log),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListImages returns images newest first. "all" or "" lists every category.
func (uc *GalleryUseCase) ListImages(ctx context.Context, page, pageSize int, category string) (*content.ListResult[*GalleryImage], error) {
	page, pageSize = pagination.Normalize(page, pageSize)

	start := time.Now()
	items, total, err := uc.images.List(ctx, page, pageSize, content.NormalizeCategory(category))
	if err := uc.imageReport.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*GalleryImage{}
	}
	return &content.ListResult[*GalleryImage]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (uc *GalleryUseCase) GetImage(ctx context.Context, id int64) (*GalleryImage, error) {
	start := time.Now()
	g, err := uc.images.GetByID(ctx, id)
	if err := uc.imageReport.Query(ctx, "get", id, start, err); err != nil {
		return nil, err
	}
	return g, nil
}

func (uc *GalleryUseCase) CreateImage(ctx context.Context, in ImageInput) (*GalleryImage, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	now := uc.now()
	g := &GalleryImage{
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		Category:    content.StoredCategory(in.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	start := time.Now()
	err := uc.images.Create(ctx, g)
	if err := uc.imageReport.Write(ctx, "create", 0, start, err); err != nil {
		return nil, err
	}
	return g, nil
}

func (uc *GalleryUseCase) UpdateImage(ctx context.Context, id int64, p ImagePatch) (*GalleryImage, error) {
	current, err := uc.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrImageNotFound
	}

	next := *current
	p.apply(&next)
	if err := validator.Struct(next.input()); err != nil {
		return nil, err
	}
	next.UpdatedAt = uc.now()

	start := time.Now()
	err = uc.images.Update(ctx, &next)
	if errors.Is(err, apperrors.NotFoundError) {
		return nil, err
	}
	if err := uc.imageReport.Write(ctx, "update", id, start, err); err != nil {
		return nil, err
	}

	uc.assets.ReleaseReplaced(ctx, ImageEntity, id, current.URL, next.URL)
	return &next, nil
}

func (uc *GalleryUseCase) DeleteImage(ctx context.Context, id int64) (bool, error) {
	current, err := uc.GetImage(ctx, id)
	if err != nil || current == nil {
		return false, err
	}

	start := time.Now()
	deleted, err := uc.images.Delete(ctx, id)
	if err := uc.imageReport.Write(ctx, "delete", id, start, err); err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	uc.assets.Release(ctx, ImageEntity, id, current.URL)
	return true, nil
}

// ListCategories returns the distinct stored categories of kind, sorted.
// The "all" sentinel is never part of the result.
func (uc *GalleryUseCase) ListCategories(ctx context.Context, kind MediaKind) ([]string, error) {
	var (
		categories []string
		err        error
		report     content.Reporter
	)

	start := time.Now()
	switch kind {
	case KindImage:
		report = uc.imageReport
		categories, err = uc.images.Categories(ctx)
	case KindVideo:
		report = uc.videoReport
		categories, err = uc.videos.Categories(ctx)
	default:
		return nil, apperrors.NewValidationError("kind", "must be one of image video")
	}
	if err := report.Query(ctx, "categories", 0, start, err); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (uc *GalleryUseCase) UploadAsset(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	return uc.assets.Upload(ctx, data, fileName, mimeType)
}

func (uc *GalleryUseCase) DeleteAsset(ctx context.Context, url string) bool {
	return uc.assets.Delete(ctx, url)
}
