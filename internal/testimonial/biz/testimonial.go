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

// Entity names testimonials in logs, metrics and errors
const Entity = "testimonial"

// ErrTestimonialNotFound is returned by the repo when an update matches no row
var ErrTestimonialNotFound = apperrors.NewNotFoundError(Entity)

// Testimonial 学员评价
type Testimonial struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Quote     string    `json:"quote"`
	Image     string    `json:"image"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TestimonialInput 可编辑字段
type TestimonialInput struct {
	Name   string `json:"name" yaml:"name" validate:"notblank,max=120"`
	Role   string `json:"role" yaml:"role" validate:"max=120"`
	Quote  string `json:"quote" yaml:"quote" validate:"notblank,max=2000"`
	Image  string `json:"image" yaml:"image" validate:"max=2048"`
	Rating int    `json:"rating" yaml:"rating" validate:"min=1,max=5"`
}

// TestimonialPatch 部分更新，nil 字段保持不变
type TestimonialPatch struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Quote  *string `json:"quote"`
	Image  *string `json:"image"`
	Rating *int    `json:"rating"`
}

func (t *Testimonial) input() TestimonialInput {
	return TestimonialInput{Name: t.Name, Role: t.Role, Quote: t.Quote, Image: t.Image, Rating: t.Rating}
}

func (p TestimonialPatch) apply(t *Testimonial) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Role != nil {
		t.Role = *p.Role
	}
	if p.Quote != nil {
		t.Quote = *p.Quote
	}
	if p.Image != nil {
		t.Image = *p.Image
	}
	if p.Rating != nil {
		t.Rating = *p.Rating
	}
}

// TestimonialRepo 评价仓储；GetByID 无记录时返回 (nil, nil)
type TestimonialRepo interface {
	List(ctx context.Context, page, pageSize int) ([]*Testimonial, int64, error)
	GetByID(ctx context.Context, id int64) (*Testimonial, error)
	Create(ctx context.Context, t *Testimonial) error
	Update(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type TestimonialUseCase struct {
	repo   TestimonialRepo
	assets *asset.Store
	report content.Reporter
	now    func() time.Time
}

func NewTestimonialUseCase(repo TestimonialRepo, assets *asset.Store, log *logger.Logger) *TestimonialUseCase {
	return &TestimonialUseCase{
		repo:   repo,
		assets: assets,
		report: content.NewReporter(Entity, log),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns testimonials newest first
func (uc *TestimonialUseCase) List(ctx context.Context, page, pageSize int) (*content.ListResult[*Testimonial], error) {
	page, pageSize = pagination.Normalize(page, pageSize)

	start := time.Now()
	items, total, err := uc.repo.List(ctx, page, pageSize)
	if err := uc.report.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Testimonial{}
	}
	return &content.ListResult[*Testimonial]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Get returns (nil, nil) when no testimonial has this id
func (uc *TestimonialUseCase) Get(ctx context.Context, id int64) (*Testimonial, error) {
	start := time.Now()
	t, err := uc.repo.GetByID(ctx, id)
	if err := uc.report.Query(ctx, "get", id, start, err); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *TestimonialUseCase) Create(ctx context.Context, in TestimonialInput) (*Testimonial, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	now := uc.now()
	t := &Testimonial{
		Name:      in.Name,
		Role:      in.Role,
		Quote:     in.Quote,
		Image:     in.Image,
		Rating:    in.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}

	start := time.Now()
	err := uc.repo.Create(ctx, t)
	if err := uc.report.Write(ctx, "create", 0, start, err); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies p to the stored row. A replaced storage-owned image is
// deleted after the write succeeds.
func (uc *TestimonialUseCase) Update(ctx context.Context, id int64, p TestimonialPatch) (*Testimonial, error) {
	current, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrTestimonialNotFound
	}

	next := *current
	p.apply(&next)
	if err := validator.Struct(next.input()); err != nil {
		return nil, err
	}
	next.UpdatedAt = uc.now()

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

// Delete removes the row, then its owned image. Missing rows give (false, nil).
func (uc *TestimonialUseCase) Delete(ctx context.Context, id int64) (bool, error) {
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

func (uc *TestimonialUseCase) UploadAsset(ctx context.Context, data []byte, fileName, mimeType string) (string, error) {
	return uc.assets.Upload(ctx, data, fileName, mimeType)
}

func (uc *TestimonialUseCase) DeleteAsset(ctx context.Context, url string) bool {
	return uc.assets.Delete(ctx, url)
}
