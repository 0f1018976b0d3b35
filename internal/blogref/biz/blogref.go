package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/asset"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
)

const Entity = "blog_ref"

const (
	ProviderManual = "manual"
	ProviderDevTo  = "devto"
)

// maxSlugSuffix bounds the -2, -3, ... probing for a free slug
const maxSlugSuffix = 50

var ErrBlogRefNotFound = apperrors.NewNotFoundError(Entity)

// BlogRef 外部博客文章的引用，不存正文
type BlogRef struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Image      string    `json:"image"`
	Author     string    `json:"author"`
	Date       string    `json:"date"`
	Slug       string    `json:"slug"`
	Provider   string    `json:"provider"`
	URL        string    `json:"url"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type BlogRefInput struct {
	ExternalID string   `json:"external_id" validate:"max=120"`
	Title      string   `json:"title" validate:"notblank,max=300"`
	Excerpt    string   `json:"excerpt" validate:"notblank,max=2000"`
	Image      string   `json:"image" validate:"max=2048"`
	Author     string   `json:"author" validate:"notblank,max=120"`
	Date       string   `json:"date" validate:"omitempty,ymd"`
	Slug       string   `json:"slug" validate:"omitempty,max=200,slug"`
	Provider   string   `json:"provider" validate:"max=40"`
	URL        string   `json:"url" validate:"max=2048"`
	Tags       []string `json:"tags" validate:"max=20,dive,notblank,max=40"`
}

type BlogRefPatch struct {
	Title   *string   `json:"title"`
	Excerpt *string   `json:"excerpt"`
	Image   *string   `json:"image"`
	Author  *string   `json:"author"`
	Date    *string   `json:"date"`
	Slug    *string   `json:"slug"`
	URL     *string   `json:"url"`
	Tags    *[]string `json:"tags"`
}

// BlogRefFilter 空字段不过滤
type BlogRefFilter struct {
	Provider string
	Tag      string
}

func (b *BlogRef) input() BlogRefInput {
	return BlogRefInput{
		ExternalID: b.ExternalID,
		Title:      b.Title,
		Excerpt:    b.Excerpt,
		Image:      b.Image,
		Author:     b.Author,
		Date:       b.Date,
		Slug:       b.Slug,
		Provider:   b.Provider,
		URL:        b.URL,
		Tags:       b.Tags,
	}
}

func (p BlogRefPatch) apply(b *BlogRef) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Excerpt != nil {
		b.Excerpt = *p.Excerpt
	}
	if p.Image != nil {
		b.Image = *p.Image
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.Slug != nil {
		b.Slug = strings.TrimSpace(*p.Slug)
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.Tags != nil {
		b.Tags = normalizeTags(*p.Tags)
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// BlogRefRepo 博客引用仓储；Get* 无记录时返回 (nil, nil)
type BlogRefRepo interface {
	List(ctx context.Context, page, pageSize int, filter BlogRefFilter) ([]*BlogRef, int64, error)
	GetByID(ctx context.Context, id int64) (*BlogRef, error)
	GetBySlug(ctx context.Context, slug string) (*BlogRef, error)
	GetByExternalID(ctx context.Context, provider, externalID string) (*BlogRef, error)
	// SlugExists ignores the row excludeID so a ref never collides with itself
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Create(ctx context.Context, b *BlogRef) error
	Update(ctx context.Context, b *BlogRef) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type BlogRefUseCase struct {
	repo   BlogRefRepo
	feeds  map[string]Feed
	assets *asset.Store
	report content.Reporter
	now    func() time.Time
}

func NewBlogRefUseCase(repo BlogRefRepo, feeds []Feed, assets *asset.Store, log *logger.Logger) *BlogRefUseCase {
	byName := make(map[string]Feed, len(feeds))
	for _, f := range feeds {
		byName[f.Provider()] = f
	}
	return &BlogRefUseCase{
		repo:   repo,
		feeds:  byName,
		assets: assets,
		report: content.NewReporter(Entity, log),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns refs newest date first
func (uc *BlogRefUseCase) List(ctx context.Context, page, pageSize int, filter BlogRefFilter) (*content.ListResult[*BlogRef], error) {
	page, pageSize = pagination.Normalize(page, pageSize)
	filter.Provider = strings.TrimSpace(filter.Provider)
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))

	start := time.Now()
	items, total, err := uc.repo.List(ctx, page, pageSize, filter)
	if err := uc.report.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*BlogRef{}
	}
	return &content.ListResult[*BlogRef]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (uc *BlogRefUseCase) Get(ctx context.Context, id int64) (*BlogRef, error) {
	start := time.Now()
	b, err := uc.repo.GetByID(ctx, id)
	if err := uc.report.Query(ctx, "get", id, start, err); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBySlug returns (nil, nil) when no ref carries slug
func (uc *BlogRefUseCase) GetBySlug(ctx context.Context, slug string) (*BlogRef, error) {
	start := time.Now()
	b, err := uc.repo.GetBySlug(ctx, slug)
	if err := uc.report.Query(ctx, "get_by_slug", 0, start, err); err != nil {
		return nil, err
	}
	return b, nil
}

// Create stores a ref. A blank slug is derived from the title and suffixed
// until free; an explicit slug must be free already.
func (uc *BlogRefUseCase) Create(ctx context.Context, in BlogRefInput) (*BlogRef, error) {
	in.Slug = strings.TrimSpace(in.Slug)
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	now := uc.now()
	b := &BlogRef{
		ExternalID: strings.TrimSpace(in.ExternalID),
		Title:      in.Title,
		Excerpt:    in.Excerpt,
		Image:      in.Image,
		Author:     in.Author,
		Date:       in.Date,
		Slug:       in.Slug,
		Provider:   strings.TrimSpace(in.Provider),
		URL:        in.URL,
		Tags:       normalizeTags(in.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if b.Date == "" {
		b.Date = now.Format(validator.DateLayout)
	}
	if b.Provider == "" {
		b.Provider = ProviderManual
	}

	if err := uc.insert(ctx, b, in.Slug == ""); err != nil {
		return nil, err
	}
	return b, nil
}

// insert claims a slug and writes b. A unique violation on an auto slug
// means another writer took it in between, so the probe runs again.
func (uc *BlogRefUseCase) insert(ctx context.Context, b *BlogRef, autoSlug bool) error {
	const attempts = 3
	for i := 0; ; i++ {
		if autoSlug {
			slug, err := uc.freeSlug(ctx, Slugify(b.Title), 0)
			if err != nil {
				return err
			}
			b.Slug = slug
		} else if err := uc.ensureSlugFree(ctx, b.Slug, 0); err != nil {
			return err
		}

		start := time.Now()
		err := uc.repo.Create(ctx, b)
		if err != nil && database.IsDuplicateKeyError(err) {
			if autoSlug && i+1 < attempts {
				continue
			}
			return apperrors.NewValidationError("slug", "is already taken")
		}
		return uc.report.Write(ctx, "create", 0, start, err)
	}
}

func (uc *BlogRefUseCase) ensureSlugFree(ctx context.Context, slug string, excludeID int64) error {
	start := time.Now()
	taken, err := uc.repo.SlugExists(ctx, slug, excludeID)
	if err := uc.report.Query(ctx, "slug_exists", excludeID, start, err); err != nil {
		return err
	}
	if taken {
		return apperrors.NewValidationError("slug", "is already taken")
	}
	return nil
}

// freeSlug returns base, or base-2, base-3, ... whichever is free first
func (uc *BlogRefUseCase) freeSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	for n := 1; n <= maxSlugSuffix; n++ {
		candidate := base
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d", base, n)
		}

		start := time.Now()
		taken, err := uc.repo.SlugExists(ctx, candidate, excludeID)
		if err := uc.report.Query(ctx, "slug_exists", excludeID, start, err); err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperrors.NewValidationError("slug", fmt.Sprintf("has more than %d variants, set one explicitly", maxSlugSuffix))
}

// Update applies p. The slug only changes when p carries one; an empty
// slug re-derives it from the title.
func (uc *BlogRefUseCase) Update(ctx context.Context, id int64, p BlogRefPatch) (*BlogRef, error) {
	current, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrBlogRefNotFound
	}

	next := *current
	p.apply(&next)

	autoSlug := p.Slug != nil && next.Slug == ""
	if autoSlug {
		next.Slug = Slugify(next.Title)
	}
	if err := validator.Struct(next.input()); err != nil {
		return nil, err
	}
	if next.Slug != current.Slug {
		if autoSlug {
			slug, err := uc.freeSlug(ctx, next.Slug, id)
			if err != nil {
				return nil, err
			}
			next.Slug = slug
		} else if err := uc.ensureSlugFree(ctx, next.Slug, id); err != nil {
			return nil, err
		}
	}
	next.UpdatedAt = uc.now()

	start := time.Now()
	err = uc.repo.Update(ctx, &next)
	switch {
	case errors.Is(err, apperrors.NotFoundError):
		return nil, err
	case err != nil && database.IsDuplicateKeyError(err):
		return nil, apperrors.NewValidationError("slug", "is already taken")
	}
	if err := uc.report.Write(ctx, "update", id, start, err); err != nil {
		return nil, err
	}

	uc.assets.ReleaseReplaced(ctx, Entity, id, current.Image, next.Image)
	return &next, nil
}

func (uc *BlogRefUseCase) Delete(ctx context.Context, id int64) (bool, error) {
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

func (uc *BlogRefUseCase) UploadAsset(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	return uc.assets.Upload(ctx, data, fileName, mimeType)
}

func (uc *BlogRefUseCase) DeleteAsset(ctx context.Context, url string) bool {
	return uc.assets.Delete(ctx, url)
}
