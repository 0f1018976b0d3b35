package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/blogref/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/retry"
	"github.com/tidwall/gjson"
)

const (
	devToPageSize = 100
	maxFeedBytes  = 4 << 20
)

// DevToFeed reads an author's published articles from a dev.to style API
type DevToFeed struct {
	baseURL string
	client  *http.Client
	retry   retry.Policy
}

func NewDevToFeed(baseURL string, timeout time.Duration) *DevToFeed {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DevToFeed{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		retry:   retry.DefaultPolicy,
	}
}

func (f *DevToFeed) Provider() string {
	return biz.ProviderDevTo
}

// Articles fetches one page of up to 100 articles, the API's maximum
func (f *DevToFeed) Articles(ctx context.Context, username string) ([]biz.FeedArticle, error) {
	q := url.Values{}
	q.Set("username", username)
	q.Set("per_page", strconv.Itoa(devToPageSize))
	endpoint := f.baseURL + "/articles?" + q.Encode()

	var body []byte
	err := f.retry.Do(ctx, "blog.devto.articles", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &retry.StatusError{StatusCode: resp.StatusCode, URL: endpoint}
		}
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
		return err
	})
	if err != nil {
		return nil, err
	}

	return parseDevToArticles(body)
}

func parseDevToArticles(body []byte) ([]biz.FeedArticle, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("feed is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("feed is not a JSON array")
	}

	articles := make([]biz.FeedArticle, 0, len(root.Array()))
	root.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		title := strings.TrimSpace(item.Get("title").String())
		if id == "" || title == "" {
			return true
		}

		excerpt := strings.TrimSpace(item.Get("description").String())
		if excerpt == "" {
			excerpt = title
		}
		image := item.Get("cover_image").String()
		if image == "" {
			image = item.Get("social_image").String()
		}
		author := item.Get("user.name").String()
		if author == "" {
			author = item.Get("user.username").String()
		}

		articles = append(articles, biz.FeedArticle{
			ExternalID: id,
			Title:      title,
			Excerpt:    excerpt,
			Image:      image,
			Author:     author,
			Date:       publishedDate(item.Get("published_at").String()),
			URL:        item.Get("url").String(),
			Tags:       tagList(item.Get("tag_list")),
		})
		return true
	})
	return articles, nil
}

// publishedDate keeps the YYYY-MM-DD part of an RFC 3339 timestamp
func publishedDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// tagList accepts both the array form and the comma separated string form
func tagList(v gjson.Result) []string {
	var tags []string
	if v.IsArray() {
		for _, t := range v.Array() {
			tags = append(tags, t.String())
		}
		return tags
	}
	for _, t := range strings.Split(v.String(), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
