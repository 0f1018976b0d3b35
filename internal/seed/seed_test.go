package seed

import (
	"context"
	"testing"

	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	eventdata "github.com/lk2023060901/yoga-studio-backend/internal/event/data"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	gallerydata "github.com/lk2023060901/yoga-studio-backend/internal/gallery/data"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
	studiobiz "github.com/lk2023060901/yoga-studio-backend/internal/studio/biz"
	studiodata "github.com/lk2023060901/yoga-studio-backend/internal/studio/data"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	testimonialdata "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/data"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	userbiz "github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	userdata "github.com/lk2023060901/yoga-studio-backend/internal/user/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	testimonials *testimonialbiz.TestimonialUseCase
	events       *eventbiz.EventUseCase
	gallery      *gallerybiz.GalleryUseCase
	studio       *studiobiz.StudioUseCase
	users        *userbiz.UserUseCase
	runner       *Runner
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := testutil.NewDB(t, &testimonialdata.TestimonialPO{}, &eventdata.EventPO{},
		&gallerydata.GalleryImagePO{}, &gallerydata.GalleryVideoPO{},
		&studiodata.ClassPO{}, &studiodata.FAQPO{}, &userdata.UserPO{})
	assets := testutil.NewAssetStore(&testutil.FakeObjects{})
	log := logger.NewNop()

	s := &stack{
		testimonials: testimonialbiz.NewTestimonialUseCase(testimonialdata.NewTestimonialRepo(db), assets, log),
		events:       eventbiz.NewEventUseCase(eventdata.NewEventRepo(db), assets, log),
		gallery:      gallerybiz.NewGalleryUseCase(gallerydata.NewImageRepo(db), gallerydata.NewVideoRepo(db), assets, log),
		studio:       studiobiz.NewStudioUseCase(studiodata.NewStudioRepo(db), studiobiz.SiteLinks{}, log),
		users:        userbiz.NewUserUseCase(userdata.NewUserRepo(db), log),
	}
	s.runner = NewRunner(s.testimonials, s.events, s.gallery, s.studio, s.users, 4, log)
	return s
}

func TestDefaultDatasetIsValid(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, ds.Testimonials)
	assert.NotEmpty(t, ds.Events)
	assert.NotEmpty(t, ds.GalleryImages)
	assert.NotEmpty(t, ds.GalleryVideos)
	assert.NotEmpty(t, ds.Classes)
	assert.NotEmpty(t, ds.FAQs)

	for _, in := range ds.Testimonials {
		assert.NoError(t, validator.Struct(in), in.Name)
	}
	for _, in := range ds.Events {
		assert.NoError(t, validator.Struct(in), in.Title)
	}
	for _, in := range ds.Classes {
		assert.NoError(t, validator.Struct(in), in.Name)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("testimonials: [\n"))
	assert.Error(t, err)
}

func TestFactoryRowsValidate(t *testing.T) {
	fa := NewFactory(42)
	for i := 0; i < 25; i++ {
		assert.NoError(t, validator.Struct(fa.Testimonial()))
		assert.NoError(t, validator.Struct(fa.Event()))
		assert.NoError(t, validator.Struct(fa.GalleryImage()))
		assert.NoError(t, validator.Struct(fa.GalleryVideo()))
	}

	a, b := NewFactory(7), NewFactory(7)
	assert.Equal(t, a.Testimonial(), b.Testimonial())

	ds := &Dataset{}
	fa.Pad(ds, 3)
	assert.Equal(t, 12, ds.Len())
}

func TestRunInsertsEveryRow(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	ds, err := Default()
	require.NoError(t, err)
	NewFactory(1).Pad(ds, 2)

	report, err := s.runner.Run(ctx, ds)
	require.NoError(t, err)
	assert.Zero(t, report.TotalFailed())
	assert.Equal(t, len(ds.Testimonials), report.Inserted["testimonials"])
	assert.Equal(t, len(ds.FAQs), report.Inserted["faqs"])

	events, err := s.events.List(ctx, 1, 100, eventbiz.EventFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, len(ds.Events), events.Total)

	classes, err := s.studio.ListClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, len(ds.Classes))
	assert.Equal(t, "Slow Flow", classes[0].Name)
	assert.Contains(t, classes[0].DescriptionHTML, "<strong>every level</strong>")

	videos, err := s.gallery.ListVideos(ctx, 1, 100, "")
	require.NoError(t, err)
	for _, v := range videos.Items {
		assert.NotEmpty(t, v.Thumbnail)
	}
}

func TestRunContinuesPastBadRows(t *testing.T) {
	s := newStack(t)

	ds := &Dataset{
		Testimonials: []testimonialbiz.TestimonialInput{
			{Name: "Maya", Quote: "Lovely.", Rating: 5},
			{Name: "Too keen", Quote: "Eleven out of ten.", Rating: 11},
			{Name: "Leo", Quote: "Great teachers.", Rating: 4},
		},
		FAQs: []studiobiz.FAQInput{{Question: "", Answer: "orphan answer"}},
	}

	report, err := s.runner.Run(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted["testimonials"])
	assert.Equal(t, 1, report.Failed["testimonials"])
	assert.Equal(t, 1, report.Failed["faqs"])
	assert.Equal(t, 2, report.TotalFailed())
	assert.Equal(t, []string{"faqs", "testimonials"}, report.Tables())

	list, err := s.testimonials.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
}

func TestEnsureAdmin(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	require.NoError(t, s.runner.EnsureAdmin(ctx, Admin{}))
	require.NoError(t, s.runner.EnsureAdmin(ctx, Admin{Email: "Owner@Studio.test", Password: "long enough"}))
	require.NoError(t, s.runner.EnsureAdmin(ctx, Admin{Email: "owner@studio.test", Password: "long enough"}))

	users, err := s.users.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, users.Total)
	assert.Equal(t, "Studio Admin", users.Items[0].Name)

	assert.Error(t, s.runner.EnsureAdmin(ctx, Admin{Email: "second@studio.test", Password: "short"}))
}
