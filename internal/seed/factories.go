package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
)

var (
	youtubeIDs = []string{"4pKly2JojMw", "v7AYKMP6rOE", "Eml2xnoLpYE", "COp7BR_Dvps", "sTANio_2E0Q"}
	categories = []string{"studio", "classes", "events", "retreats"}
	venues     = []string{"Main studio", "Garden deck", "North Beach", "Community hall"}
	times      = []string{"6:00 AM", "9:30 AM", "12:15 PM", "6:30 PM", "7:45 PM"}
)

// Factory 生成填充用的假数据；同一 seed 生成同样的行
type Factory struct {
	f   *gofakeit.Faker
	now func() time.Time
}

// NewFactory seeds the generator. seed 0 picks a random seed.
func NewFactory(seed int64) *Factory {
	return &Factory{
		f:   gofakeit.New(seed),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (fa *Factory) Testimonial() testimonialbiz.TestimonialInput {
	return testimonialbiz.TestimonialInput{
		Name:   fa.f.Name(),
		Role:   fa.f.JobTitle(),
		Quote:  fa.f.Sentence(fa.f.Number(8, 24)),
		Image:  fmt.Sprintf("https://picsum.photos/seed/%s/400/400", fa.f.UUID()),
		Rating: fa.f.Number(3, 5),
	}
}

// Event is dated within the next 120 days
func (fa *Factory) Event() eventbiz.EventInput {
	now := fa.now()
	date := fa.f.DateRange(now.AddDate(0, 0, 1), now.AddDate(0, 0, 120))
	return eventbiz.EventInput{
		Title:       fa.f.HipsterSentence(3),
		Description: fa.f.Paragraph(1, 3, 12, " "),
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", fa.f.UUID()),
		Date:        date.Format(validator.DateLayout),
		Time:        fa.f.RandomString(times),
		Location:    fa.f.RandomString(venues),
		Spots:       fa.f.Number(8, 40),
	}
}

func (fa *Factory) GalleryImage() gallerybiz.ImageInput {
	return gallerybiz.ImageInput{
		Title:       fa.f.HipsterSentence(3),
		Description: fa.f.Sentence(10),
		URL:         fmt.Sprintf("https://picsum.photos/seed/%s/1600/1067", fa.f.UUID()),
		Category:    fa.f.RandomString(categories),
	}
}

// GalleryVideo leaves Thumbnail empty so the YouTube still is derived on create
func (fa *Factory) GalleryVideo() gallerybiz.VideoInput {
	return gallerybiz.VideoInput{
		Title:    fa.f.HipsterSentence(4),
		URL:      "https://www.youtube.com/watch?v=" + fa.f.RandomString(youtubeIDs),
		Category: fa.f.RandomString(categories),
	}
}

// Pad appends n generated rows to each content table of d
func (fa *Factory) Pad(d *Dataset, n int) {
	for i := 0; i < n; i++ {
		d.Testimonials = append(d.Testimonials, fa.Testimonial())
		d.Events = append(d.Events, fa.Event())
		d.GalleryImages = append(d.GalleryImages, fa.GalleryImage())
		d.GalleryVideos = append(d.GalleryVideos, fa.GalleryVideo())
	}
}
