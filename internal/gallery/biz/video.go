package biz

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
)

// GalleryVideo 外链视频；Thumbnail 可能指向自有存储
type GalleryVideo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type VideoInput struct {
	Title       string `json:"title" yaml:"title" validate:"notblank,max=200"`
	Description string `json:"description" yaml:"description" validate:"max=2000"`
	URL         string `json:"url" yaml:"url" validate:"notblank,max=2048"`
	Thumbnail   string `json:"thumbnail" yaml:"thumbnail" validate:"max=2048"`
	Category    string `json:"category" yaml:"category" validate:"max=60"`
}

type VideoPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Thumbnail   *string `json:"thumbnail"`
	Category    *string `json:"category"`
}

func (v *GalleryVideo) input() VideoInput {
	return VideoInput{Title: v.Title, Description: v.Description, URL: v.URL, Thumbnail: v.Thumbnail, Category: v.Category}
}

func (p VideoPatch) apply(v *GalleryVideo) {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.URL != nil {
		v.URL = *p.URL
	}
	if p.Thumbnail != nil {
		v.Thumbnail = *p.Thumbnail
	}
	if p.Category != nil {
		v.Category = content.StoredCategory(*p.Category)
	}
}

type VideoRepo interface {
	List(ctx context.Context, page, pageSize int, category string) ([]*GalleryVideo, int64, error)
	GetByID(ctx context.Context, id int64) (*GalleryVideo, error)
	Create(ctx context.Context, v *GalleryVideo) error
	Update(ctx context.Context, v *GalleryVideo) error
	Delete(ctx context.Context, id int64) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

func (uc *GalleryUseCase) ListVideos(ctx context.Context, page, pageSize int, category string) (*content.ListResult[*GalleryVideo], error) {
	page, pageSize = pagination.Normalize(page, pageSize)

	start := time.Now()
	items, total, err := uc.videos.List(ctx, page, pageSize, content.NormalizeCategory(category))
	if err := uc.videoReport.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*GalleryVideo{}
	}
	return &content.ListResult[*GalleryVideo]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (uc *GalleryUseCase) GetVideo(ctx context.Context, id int64) (*GalleryVideo, error) {
	start := time.Now()
	v, err := uc.videos.GetByID(ctx, id)
	if err := uc.videoReport.Query(ctx, "get", id, start, err); err != nil {
		return nil, err
	}
	return v, nil
}

// CreateVideo derives a YouTube thumbnail when none is supplied
func (uc *GalleryUseCase) CreateVideo(ctx context.Context, in VideoInput) (*GalleryVideo, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	thumbnail := in.Thumbnail
	if thumbnail == "" {
		thumbnail = YouTubeThumbnail(in.URL)
	}

	now := uc.now()
	v := &GalleryVideo{
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
		Thumbnail:   thumbnail,
		Category:    content.StoredCategory(in.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	start := time.Now()
	err := uc.videos.Create(ctx, v)
	if err := uc.videoReport.Write(ctx, "create", 0, start, err); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateVideo re-derives the thumbnail when the url changes and the current
// thumbnail is empty or was derived from the old url.
func (uc *GalleryUseCase) UpdateVideo(ctx context.Context, id int64, p VideoPatch) (*GalleryVideo, error) {
	current, err := uc.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrVideoNotFound
	}

	next := *current
	p.apply(&next)
	if next.URL != current.URL && p.Thumbnail == nil &&
		(next.Thumbnail == "" || next.Thumbnail == YouTubeThumbnail(current.URL)) {
		next.Thumbnail = YouTubeThumbnail(next.URL)
	}
	if err := validator.Struct(next.input()); err != nil {
		return nil, err
	}
	next.UpdatedAt = uc.now()

	start := time.Now()
	err = uc.videos.Update(ctx, &next)
	if errors.Is(err, apperrors.NotFoundError) {
		return nil, err
	}
	if err := uc.videoReport.Write(ctx, "update", id, start, err); err != nil {
		return nil, err
	}

	uc.assets.ReleaseReplaced(ctx, VideoEntity, id, current.Thumbnail, next.Thumbnail)
	return &next, nil
}

func (uc *GalleryUseCase) DeleteVideo(ctx context.Context, id int64) (bool, error) {
	current, err := uc.GetVideo(ctx, id)
	if err != nil || current == nil {
		return false, err
	}

	start := time.Now()
	deleted, err := uc.videos.Delete(ctx, id)
	if err := uc.videoReport.Write(ctx, "delete", id, start, err); err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	uc.assets.Release(ctx, VideoEntity, id, current.Thumbnail)
	return true, nil
}
