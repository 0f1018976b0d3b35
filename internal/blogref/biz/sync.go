package biz

import (
	"context"
	"reflect"
	"strings"
	"time"

	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"go.uber.org/zap"
)

// FeedArticle is one post as listed by an external blog provider
type FeedArticle struct {
	ExternalID string
	Title      string
	Excerpt    string
	Image      string
	Author     string
	Date       string
	URL        string
	Tags       []string
}

// Feed lists an author's articles on one provider
type Feed interface {
	Provider() string
	Articles(ctx context.Context, username string) ([]FeedArticle, error)
}

// SyncResult counts what a provider sync did
type SyncResult struct {
	Provider  string `json:"provider"`
	Fetched   int    `json:"fetched"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Unchanged int    `json:"unchanged"`
	Failed    int    `json:"failed"`
}

// SyncProvider upserts the author's articles keyed by (provider, external_id).
// Existing refs keep their slug. A failing article is logged and counted;
// a failing feed fails the call.
func (uc *BlogRefUseCase) SyncProvider(ctx context.Context, provider, username string) (*SyncResult, error) {
	feed, ok := uc.feeds[provider]
	if !ok {
		return nil, apperrors.NewValidationError("provider", "is not supported")
	}
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.NewValidationError("username", "is required")
	}

	articles, err := feed.Articles(ctx, username)
	if err != nil {
		uc.report.Log.WithContext(ctx).Error("blog feed fetch failed",
			zap.String("provider", provider),
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, apperrors.Wrap(err, apperrors.ErrServiceUnavail, provider+" feed")
	}

	result := &SyncResult{Provider: provider, Fetched: len(articles)}
	for _, a := range articles {
		if err := uc.upsert(ctx, provider, a, result); err != nil {
			result.Failed++
			uc.report.Log.WithContext(ctx).Warn("blog ref sync skipped article",
				zap.String("provider", provider),
				zap.String("external_id", a.ExternalID),
				zap.Error(err),
			)
		}
	}

	uc.report.Log.WithContext(ctx).Info("blog refs synced",
		zap.String("provider", provider),
		zap.Int("fetched", result.Fetched),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (uc *BlogRefUseCase) upsert(ctx context.Context, provider string, a FeedArticle, result *SyncResult) error {
	start := time.Now()
	existing, err := uc.repo.GetByExternalID(ctx, provider, a.ExternalID)
	if err := uc.report.Query(ctx, "get_by_external_id", 0, start, err); err != nil {
		return err
	}

	if existing == nil {
		_, err := uc.Create(ctx, BlogRefInput{
			ExternalID: a.ExternalID,
			Title:      a.Title,
			Excerpt:    a.Excerpt,
			Image:      a.Image,
			Author:     a.Author,
			Date:       a.Date,
			Provider:   provider,
			URL:        a.URL,
			Tags:       a.Tags,
		})
		if err == nil {
			result.Created++
		}
		return err
	}

	tags := normalizeTags(a.Tags)
	if existing.Title == a.Title && existing.Excerpt == a.Excerpt && existing.Image == a.Image &&
		existing.Author == a.Author && existing.Date == a.Date && existing.URL == a.URL &&
		reflect.DeepEqual(existing.Tags, tags) {
		result.Unchanged++
		return nil
	}

	_, err = uc.Update(ctx, existing.ID, BlogRefPatch{
		Title:   &a.Title,
		Excerpt: &a.Excerpt,
		Image:   &a.Image,
		Author:  &a.Author,
		Date:    &a.Date,
		URL:     &a.URL,
		Tags:    &tags,
	})
	if err == nil {
		result.Updated++
	}
	return err
}
