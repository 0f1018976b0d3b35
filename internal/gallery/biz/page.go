package biz

import (
	"context"
	"net/url"
	"strconv"

	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	"golang.org/x/sync/errgroup"
)

// Query string keys of the public gallery page
const (
	ParamImagePage     = "imagePage"
	ParamVideoPage     = "videoPage"
	ParamImageCategory = "imageCategory"
	ParamVideoCategory = "videoCategory"
)

// PageQuery is the public gallery's navigation state. Image and video
// pagination are independent axes.
type PageQuery struct {
	ImagePage     int
	VideoPage     int
	ImageCategory string
	VideoCategory string
}

// ParsePageQuery reads the four gallery parameters. Missing or invalid pages become 1.
func ParsePageQuery(values url.Values) PageQuery {
	return PageQuery{
		ImagePage:     parsePage(values.Get(ParamImagePage)),
		VideoPage:     parsePage(values.Get(ParamVideoPage)),
		ImageCategory: content.NormalizeCategory(values.Get(ParamImageCategory)),
		VideoCategory: content.NormalizeCategory(values.Get(ParamVideoCategory)),
	}
}

func parsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// WithImageCategory selects an image category and resets only the image page
func (q PageQuery) WithImageCategory(category string) PageQuery {
	q.ImageCategory = content.NormalizeCategory(category)
	q.ImagePage = 1
	return q
}

// WithVideoCategory selects a video category and resets only the video page
func (q PageQuery) WithVideoCategory(category string) PageQuery {
	q.VideoCategory = content.NormalizeCategory(category)
	q.VideoPage = 1
	return q
}

// Encode renders q as a query string with keys in a fixed order.
// Empty categories are omitted.
func (q PageQuery) Encode() string {
	v := url.Values{}
	v.Set(ParamImagePage, strconv.Itoa(max(q.ImagePage, 1)))
	v.Set(ParamVideoPage, strconv.Itoa(max(q.VideoPage, 1)))
	if q.ImageCategory != "" {
		v.Set(ParamImageCategory, q.ImageCategory)
	}
	if q.VideoCategory != "" {
		v.Set(ParamVideoCategory, q.VideoCategory)
	}
	return "?" + v.Encode()
}

// ImagePageLink links to image page n, keeping the video axis as is
func (q PageQuery) ImagePageLink(n int) string {
	q.ImagePage = n
	return q.Encode()
}

// VideoPageLink links to video page n, keeping the image axis as is
func (q PageQuery) VideoPageLink(n int) string {
	q.VideoPage = n
	return q.Encode()
}

// PageLink is one pagination control. Ellipsis entries carry no Href.
type PageLink struct {
	pagination.Item
	Href string `json:"href,omitempty"`
}

// CategoryLink is one category filter control; "all" is synthesized first
type CategoryLink struct {
	Name   string `json:"name"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// MediaSection is one media type of the gallery page
type MediaSection[T any] struct {
	Items      []T            `json:"items"`
	Total      int64          `json:"totalCount"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	Category   string         `json:"category"`
	Pages      []PageLink     `json:"pages"`
	Categories []CategoryLink `json:"categories"`
	// Empty marks the no-results state for the current filter
	Empty bool `json:"empty"`
}

// GalleryPage is everything the public gallery renders for one PageQuery
type GalleryPage struct {
	Query  string                      `json:"query"`
	Images MediaSection[*GalleryImage] `json:"images"`
	Videos MediaSection[*GalleryVideo] `json:"videos"`
	Empty  bool                        `json:"empty"`
}

// BuildPage runs the image and video queries concurrently. Any failure fails
// the whole page; no half-rendered gallery is returned.
func (uc *GalleryUseCase) BuildPage(ctx context.Context, q PageQuery, pageSize int) (*GalleryPage, error) {
	_, pageSize = pagination.Normalize(1, pageSize)

	var (
		images          *content.ListResult[*GalleryImage]
		videos          *content.ListResult[*GalleryVideo]
		imageCategories []string
		videoCategories []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		images, err = uc.ListImages(gctx, q.ImagePage, pageSize, q.ImageCategory)
		return err
	})
	g.Go(func() (err error) {
		videos, err = uc.ListVideos(gctx, q.VideoPage, pageSize, q.VideoCategory)
		return err
	})
	g.Go(func() (err error) {
		imageCategories, err = uc.ListCategories(gctx, KindImage)
		return err
	})
	g.Go(func() (err error) {
		videoCategories, err = uc.ListCategories(gctx, KindVideo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page := &GalleryPage{
		Query: q.Encode(),
		Images: MediaSection[*GalleryImage]{
			Items:      images.Items,
			Total:      images.Total,
			Page:       images.Page,
			TotalPages: pagination.TotalPages(images.Total, pageSize),
			Category:   categoryLabel(q.ImageCategory),
			Empty:      images.Total == 0,
		},
		Videos: MediaSection[*GalleryVideo]{
			Items:      videos.Items,
			Total:      videos.Total,
			Page:       videos.Page,
			TotalPages: pagination.TotalPages(videos.Total, pageSize),
			Category:   categoryLabel(q.VideoCategory),
			Empty:      videos.Total == 0,
		},
	}
	page.Images.Pages = pageLinks(page.Images.Page, page.Images.TotalPages, q.ImagePageLink)
	page.Videos.Pages = pageLinks(page.Videos.Page, page.Videos.TotalPages, q.VideoPageLink)
	page.Images.Categories = categoryLinks(imageCategories, q.ImageCategory, func(c string) string {
		return q.WithImageCategory(c).Encode()
	})
	page.Videos.Categories = categoryLinks(videoCategories, q.VideoCategory, func(c string) string {
		return q.WithVideoCategory(c).Encode()
	})
	page.Empty = page.Images.Empty && page.Videos.Empty
	return page, nil
}

func categoryLabel(category string) string {
	if category == "" {
		return content.CategoryAll
	}
	return category
}

func pageLinks(current, totalPages int, link func(int) string) []PageLink {
	window := pagination.Window(current, totalPages)
	links := make([]PageLink, len(window))
	for i, item := range window {
		links[i] = PageLink{Item: item}
		if !item.Ellipsis {
			links[i].Href = link(item.Page)
		}
	}
	return links
}

func categoryLinks(categories []string, selected string, link func(string) string) []CategoryLink {
	links := make([]CategoryLink, 0, len(categories)+1)
	links = append(links, CategoryLink{Name: content.CategoryAll, Href: link(""), Active: selected == ""})
	for _, c := range categories {
		links = append(links, CategoryLink{Name: c, Href: link(c), Active: c == selected})
	}
	return links
}
