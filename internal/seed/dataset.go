// Package seed loads the studio's starter content into an empty store.
package seed

import (
	_ "embed"
	"fmt"

	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	studiobiz "github.com/lk2023060901/yoga-studio-backend/internal/studio/biz"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var embedded []byte

// Dataset 种子数据，每个字段对应一张表
type Dataset struct {
	Testimonials  []testimonialbiz.TestimonialInput `yaml:"testimonials"`
	Events        []eventbiz.EventInput             `yaml:"events"`
	GalleryImages []gallerybiz.ImageInput           `yaml:"gallery_images"`
	GalleryVideos []gallerybiz.VideoInput           `yaml:"gallery_videos"`
	Classes       []studiobiz.ClassInput            `yaml:"classes"`
	FAQs          []studiobiz.FAQInput              `yaml:"faqs"`
}

// Default returns the embedded dataset
func Default() (*Dataset, error) {
	return Parse(embedded)
}

func Parse(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &ds, nil
}

// Len is the total number of rows
func (d *Dataset) Len() int {
	return len(d.Testimonials) + len(d.Events) + len(d.GalleryImages) +
		len(d.GalleryVideos) + len(d.Classes) + len(d.FAQs)
}
