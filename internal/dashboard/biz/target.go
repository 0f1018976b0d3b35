package biz

import (
	"encoding/json"
	"fmt"

	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
)

// Display 删除确认框展示的字段
type Display struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// DeleteTarget is the row awaiting delete confirmation. The set of
// implementations is closed: only this package can add one.
type DeleteTarget interface {
	Tab() Tab
	TargetID() int64
	Display() Display
	isDeleteTarget()
}

type TestimonialTarget struct {
	Item *testimonialbiz.Testimonial
}

type EventTarget struct {
	Item *eventbiz.Event
}

type GalleryImageTarget struct {
	Item *gallerybiz.GalleryImage
}

type GalleryVideoTarget struct {
	Item *gallerybiz.GalleryVideo
}

func (TestimonialTarget) isDeleteTarget()  {}
func (EventTarget) isDeleteTarget()        {}
func (GalleryImageTarget) isDeleteTarget() {}
func (GalleryVideoTarget) isDeleteTarget() {}

func (TestimonialTarget) Tab() Tab  { return TabTestimonials }
func (EventTarget) Tab() Tab        { return TabEvents }
func (GalleryImageTarget) Tab() Tab { return TabGalleryImages }
func (GalleryVideoTarget) Tab() Tab { return TabGalleryVideos }

func (t TestimonialTarget) TargetID() int64  { return t.Item.ID }
func (t EventTarget) TargetID() int64        { return t.Item.ID }
func (t GalleryImageTarget) TargetID() int64 { return t.Item.ID }
func (t GalleryVideoTarget) TargetID() int64 { return t.Item.ID }

func (t TestimonialTarget) Display() Display {
	return Display{Title: t.Item.Name, Subtitle: t.Item.Role, Thumbnail: t.Item.Image}
}

func (t EventTarget) Display() Display {
	return Display{Title: t.Item.Title, Subtitle: eventSubtitle(t.Item), Thumbnail: t.Item.Image}
}

func (t GalleryImageTarget) Display() Display {
	return Display{Title: t.Item.Title, Subtitle: t.Item.Category, Thumbnail: t.Item.URL}
}

func (t GalleryVideoTarget) Display() Display {
	return Display{Title: t.Item.Title, Subtitle: t.Item.Category, Thumbnail: t.Item.Thumbnail}
}

func eventSubtitle(e *eventbiz.Event) string {
	s := e.Date
	if e.Time != "" {
		s += " " + e.Time
	}
	if e.Location != "" {
		s += " · " + e.Location
	}
	return s
}

// targetRecord is the persisted form of a DeleteTarget
type targetRecord struct {
	Tab  Tab             `json:"tab"`
	Item json.RawMessage `json:"item"`
}

func encodeTarget(t DeleteTarget) (*targetRecord, error) {
	if t == nil {
		return nil, nil
	}
	var item interface{}
	switch v := t.(type) {
	case TestimonialTarget:
		item = v.Item
	case EventTarget:
		item = v.Item
	case GalleryImageTarget:
		item = v.Item
	case GalleryVideoTarget:
		item = v.Item
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	return &targetRecord{Tab: t.Tab(), Item: raw}, nil
}

func decodeTarget(r *targetRecord) (DeleteTarget, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Tab {
	case TabTestimonials:
		var item testimonialbiz.Testimonial
		if err := json.Unmarshal(r.Item, &item); err != nil {
			return nil, err
		}
		return TestimonialTarget{Item: &item}, nil
	case TabEvents:
		var item eventbiz.Event
		if err := json.Unmarshal(r.Item, &item); err != nil {
			return nil, err
		}
		return EventTarget{Item: &item}, nil
	case TabGalleryImages:
		var item gallerybiz.GalleryImage
		if err := json.Unmarshal(r.Item, &item); err != nil {
			return nil, err
		}
		return GalleryImageTarget{Item: &item}, nil
	case TabGalleryVideos:
		var item gallerybiz.GalleryVideo
		if err := json.Unmarshal(r.Item, &item); err != nil {
			return nil, err
		}
		return GalleryVideoTarget{Item: &item}, nil
	}
	return nil, fmt.Errorf("unknown delete target tab %q", r.Tab)
}
