package biz

import (
	"context"
	"strings"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

const (
	ClassEntity = "class"
	FAQEntity   = "faq"
)

// Class 课程介绍，Description 为 markdown
type Class struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html"`
	Level           string    `json:"level"`
	DurationMinutes int       `json:"duration_minutes"`
	Schedule        string    `json:"schedule"`
	Position        int       `json:"position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ClassInput struct {
	Name            string `json:"name" yaml:"name" validate:"notblank,max=120"`
	Description     string `json:"description" yaml:"description" validate:"notblank,max=8000"`
	Level           string `json:"level" yaml:"level" validate:"omitempty,oneof=beginner intermediate advanced all"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes" validate:"min=5,max=480"`
	Schedule        string `json:"schedule" yaml:"schedule" validate:"max=200"`
	Position        int    `json:"position" yaml:"position" validate:"min=0"`
}

// FAQ 常见问题，Answer 为 markdown
type FAQ struct {
	ID         int64     `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	AnswerHTML string    `json:"answer_html"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type FAQInput struct {
	Question string `json:"question" yaml:"question" validate:"notblank,max=300"`
	Answer   string `json:"answer" yaml:"answer" validate:"notblank,max=8000"`
	Position int    `json:"position" yaml:"position" validate:"min=0"`
}

// StudioRepo lists are ordered by position, then id
type StudioRepo interface {
	ListClasses(ctx context.Context) ([]*Class, error)
	CreateClass(ctx context.Context, c *Class) error
	ListFAQs(ctx context.Context) ([]*FAQ, error)
	CreateFAQ(ctx context.Context, f *FAQ) error
}

// SiteLinks external forms the public pages link to
type SiteLinks struct {
	BookingFormURL string `json:"booking_form_url"`
	ContactFormURL string `json:"contact_form_url"`
}

// StudioUseCase read-only studio information; writes come from the seed loader
type StudioUseCase struct {
	repo    StudioRepo
	links   SiteLinks
	classes content.Reporter
	faqs    content.Reporter
	now     func() time.Time
}

func NewStudioUseCase(repo StudioRepo, links SiteLinks, log *logger.Logger) *StudioUseCase {
	return &StudioUseCase{
		repo:    repo,
		links:   links,
		classes: content.NewReporter(ClassEntity, log),
		faqs:    content.NewReporter(FAQEntity, log),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (uc *StudioUseCase) Links() SiteLinks {
	return uc.links
}

// ListClasses returns every class with its description rendered to HTML.
// A description that fails to render is served as source only.
func (uc *StudioUseCase) ListClasses(ctx context.Context) ([]*Class, error) {
	start := time.Now()
	items, err := uc.repo.ListClasses(ctx)
	if err := uc.classes.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Class{}
	}
	for _, c := range items {
		html, err := RenderMarkdown(c.Description)
		if err != nil {
			uc.classes.Log.WithContext(ctx).Warn("markdown render failed", zap.Int64("id", c.ID), zap.Error(err))
			continue
		}
		c.DescriptionHTML = html
	}
	return items, nil
}

func (uc *StudioUseCase) ListFAQs(ctx context.Context) ([]*FAQ, error) {
	start := time.Now()
	items, err := uc.repo.ListFAQs(ctx)
	if err := uc.faqs.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*FAQ{}
	}
	for _, f := range items {
		html, err := RenderMarkdown(f.Answer)
		if err != nil {
			uc.faqs.Log.WithContext(ctx).Warn("markdown render failed", zap.Int64("id", f.ID), zap.Error(err))
			continue
		}
		f.AnswerHTML = html
	}
	return items, nil
}

func (uc *StudioUseCase) CreateClass(ctx context.Context, in ClassInput) (*Class, error) {
	in.Level = strings.ToLower(strings.TrimSpace(in.Level))
	if err := validator.Struct(in); err != nil {
		return nil, err
	}
	if in.Level == "" {
		in.Level = "all"
	}

	now := uc.now()
	c := &Class{
		Name:            in.Name,
		Description:     in.Description,
		Level:           in.Level,
		DurationMinutes: in.DurationMinutes,
		Schedule:        in.Schedule,
		Position:        in.Position,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	start := time.Now()
	err := uc.repo.CreateClass(ctx, c)
	if err := uc.classes.Write(ctx, "create", 0, start, err); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *StudioUseCase) CreateFAQ(ctx context.Context, in FAQInput) (*FAQ, error) {
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	now := uc.now()
	f := &FAQ{
		Question:  in.Question,
		Answer:    in.Answer,
		Position:  in.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	start := time.Now()
	err := uc.repo.CreateFAQ(ctx, f)
	if err := uc.faqs.Write(ctx, "create", 0, start, err); err != nil {
		return nil, err
	}
	return f, nil
}
