package seed

import (
	"context"
	"fmt"
	"sort"
	"sync"

	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/workerpool"
	studiobiz "github.com/lk2023060901/yoga-studio-backend/internal/studio/biz"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	userbiz "github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	"go.uber.org/zap"
)

type TestimonialCreator interface {
	Create(ctx context.Context, in testimonialbiz.TestimonialInput) (*testimonialbiz.Testimonial, error)
}

type EventCreator interface {
	Create(ctx context.Context, in eventbiz.EventInput) (*eventbiz.Event, error)
}

type GalleryCreator interface {
	CreateImage(ctx context.Context, in gallerybiz.ImageInput) (*gallerybiz.GalleryImage, error)
	CreateVideo(ctx context.Context, in gallerybiz.VideoInput) (*gallerybiz.GalleryVideo, error)
}

type StudioCreator interface {
	CreateClass(ctx context.Context, in studiobiz.ClassInput) (*studiobiz.Class, error)
	CreateFAQ(ctx context.Context, in studiobiz.FAQInput) (*studiobiz.FAQ, error)
}

type UserCreator interface {
	CreateUser(ctx context.Context, in userbiz.UserInput) (*userbiz.User, error)
}

// Report counts rows per table
type Report struct {
	mu       sync.Mutex
	Inserted map[string]int
	Failed   map[string]int
}

func newReport() *Report {
	return &Report{Inserted: make(map[string]int), Failed: make(map[string]int)}
}

func (r *Report) record(table string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.Failed[table]++
		return
	}
	r.Inserted[table]++
}

// TotalFailed sums failures over every table
func (r *Report) TotalFailed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.Failed {
		n += v
	}
	return n
}

// Tables lists every table that saw a row, sorted
func (r *Report) Tables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	for t := range r.Inserted {
		seen[t] = struct{}{}
	}
	for t := range r.Failed {
		seen[t] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Runner 批量写入种子数据；单行失败只记录日志，不中断批次
type Runner struct {
	testimonials TestimonialCreator
	events       EventCreator
	gallery      GalleryCreator
	studio       StudioCreator
	users        UserCreator
	workers      int
	log          *logger.Logger
}

func NewRunner(testimonials TestimonialCreator, events EventCreator, gallery GalleryCreator, studio StudioCreator, users UserCreator, workers int, log *logger.Logger) *Runner {
	return &Runner{
		testimonials: testimonials,
		events:       events,
		gallery:      gallery,
		studio:       studio,
		users:        users,
		workers:      workers,
		log:          log.Named("seed"),
	}
}

type row struct {
	table string
	index int
	label string
	run   func(ctx context.Context) error
}

func (r *Runner) rows(d *Dataset) []row {
	var out []row
	for i, in := range d.Testimonials {
		out = append(out, row{"testimonials", i, in.Name, func(ctx context.Context) error {
			_, err := r.testimonials.Create(ctx, in)
			return err
		}})
	}
	for i, in := range d.Events {
		out = append(out, row{"events", i, in.Title, func(ctx context.Context) error {
			_, err := r.events.Create(ctx, in)
			return err
		}})
	}
	for i, in := range d.GalleryImages {
		out = append(out, row{"gallery_images", i, in.Title, func(ctx context.Context) error {
			_, err := r.gallery.CreateImage(ctx, in)
			return err
		}})
	}
	for i, in := range d.GalleryVideos {
		out = append(out, row{"gallery_videos", i, in.Title, func(ctx context.Context) error {
			_, err := r.gallery.CreateVideo(ctx, in)
			return err
		}})
	}
	for i, in := range d.Classes {
		out = append(out, row{"classes", i, in.Name, func(ctx context.Context) error {
			_, err := r.studio.CreateClass(ctx, in)
			return err
		}})
	}
	for i, in := range d.FAQs {
		out = append(out, row{"faqs", i, in.Question, func(ctx context.Context) error {
			_, err := r.studio.CreateFAQ(ctx, in)
			return err
		}})
	}
	return out
}

// Run inserts every row of d. Only a pool failure is returned; row
// failures are logged and counted in the report.
func (r *Runner) Run(ctx context.Context, d *Dataset) (*Report, error) {
	pool, err := workerpool.New(&workerpool.Config{Workers: r.workers}, r.log.Logger)
	if err != nil {
		return nil, err
	}
	defer pool.Shutdown()

	report := newReport()
	for _, rw := range r.rows(d) {
		err := pool.Submit(ctx, func(ctx context.Context) error {
			err := rw.run(ctx)
			report.record(rw.table, err)
			if err != nil {
				r.log.WithContext(ctx).Error("seed row failed",
					zap.String("table", rw.table),
					zap.Int("row", rw.index),
					zap.String("label", rw.label),
					zap.Int("code", apperrors.ExtractCode(err)),
					zap.Error(err),
				)
			}
			return err
		})
		if err != nil {
			return report, fmt.Errorf("submit seed row: %w", err)
		}
	}
	pool.Wait()

	for _, t := range report.Tables() {
		r.log.Info("seeded table",
			zap.String("table", t),
			zap.Int("inserted", report.Inserted[t]),
			zap.Int("failed", report.Failed[t]),
		)
	}
	return report, nil
}

// Admin is the optional first administrator
type Admin struct {
	Name     string
	Email    string
	Password string
}

// EnsureAdmin creates the administrator. An empty email skips it and an
// already registered email is not an error.
func (r *Runner) EnsureAdmin(ctx context.Context, a Admin) error {
	if a.Email == "" {
		r.log.Info("no admin configured, skipping")
		return nil
	}
	name := a.Name
	if name == "" {
		name = "Studio Admin"
	}

	u, err := r.users.CreateUser(ctx, userbiz.UserInput{Name: name, Email: a.Email, Password: a.Password})
	if err != nil {
		if err == userbiz.ErrEmailTaken {
			r.log.Info("admin already exists", zap.String("email", userbiz.NormalizeEmail(a.Email)))
			return nil
		}
		return err
	}
	r.log.Info("admin created", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return nil
}
