package biz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lk2023060901/yoga-studio-backend/internal/blogref/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/blogref/data"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	articles []biz.FeedArticle
	err      error
}

func (f *fakeFeed) Provider() string { return biz.ProviderDevTo }

func (f *fakeFeed) Articles(context.Context, string) ([]biz.FeedArticle, error) {
	return f.articles, f.err
}

func setup(t *testing.T, feeds ...biz.Feed) (*biz.BlogRefUseCase, *testutil.FakeObjects) {
	t.Helper()
	db := testutil.NewDB(t, &data.BlogRefPO{})
	objects := &testutil.FakeObjects{}
	uc := biz.NewBlogRefUseCase(data.NewBlogRefRepo(db), feeds, testutil.NewAssetStore(objects), logger.NewNop())
	return uc, objects
}

func strPtr(s string) *string { return &s }

func post(title string) biz.BlogRefInput {
	return biz.BlogRefInput{
		Title:   title,
		Excerpt: "Notes from the studio.",
		Author:  "Ana",
		Date:    "2026-03-01",
		Tags:    []string{"Yoga"},
	}
}

func TestCreateDerivesUniqueSlugs(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, post("Sunrise Yoga"))
	require.NoError(t, err)
	second, err := uc.Create(ctx, post("Sunrise  Yoga!"))
	require.NoError(t, err)
	third, err := uc.Create(ctx, post("sunrise yoga"))
	require.NoError(t, err)

	assert.Equal(t, "sunrise-yoga", first.Slug)
	assert.Equal(t, "sunrise-yoga-2", second.Slug)
	assert.Equal(t, "sunrise-yoga-3", third.Slug)
	assert.Equal(t, biz.ProviderManual, first.Provider)
	assert.Equal(t, []string{"yoga"}, first.Tags)
}

func TestCreateDefaultsDate(t *testing.T) {
	uc, _ := setup(t)
	in := post("Undated")
	in.Date = ""

	b, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, b.Date, len("2006-01-02"))
}

func TestCreateRejectsTakenExplicitSlug(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	in := post("Evening Flow")
	in.Slug = "evening"
	_, err := uc.Create(ctx, in)
	require.NoError(t, err)

	dup := post("Another Evening")
	dup.Slug = "evening"
	_, err = uc.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ValidationError))
	assert.Equal(t, "slug is already taken", apperrors.GetDetails(err))
}

func TestCreateValidation(t *testing.T) {
	uc, _ := setup(t)

	tests := []struct {
		name    string
		mutate  func(*biz.BlogRefInput)
		details string
	}{
		{"blank title", func(in *biz.BlogRefInput) { in.Title = " " }, "title is required"},
		{"blank excerpt", func(in *biz.BlogRefInput) { in.Excerpt = "" }, "excerpt is required"},
		{"blank author", func(in *biz.BlogRefInput) { in.Author = "" }, "author is required"},
		{"bad date", func(in *biz.BlogRefInput) { in.Date = "March 1" }, "date must be a date in YYYY-MM-DD form"},
		{"bad slug", func(in *biz.BlogRefInput) { in.Slug = "Bad Slug" }, "slug must contain only lowercase letters, digits and single hyphens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := post("Valid")
			tt.mutate(&in)
			_, err := uc.Create(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ValidationError))
			assert.Equal(t, tt.details, apperrors.GetDetails(err))
		})
	}
}

func TestGetBySlug(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, post("Rest Days"))
	require.NoError(t, err)

	got, err := uc.GetBySlug(ctx, "rest-days")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	missing, err := uc.GetBySlug(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListFiltersAndOrders(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	older := post("Older")
	older.Date = "2026-01-01"
	older.Tags = []string{"breath"}
	newer := post("Newer")
	newer.Date = "2026-05-01"
	newer.Tags = []string{"yoga", "breathwork"}
	for _, in := range []biz.BlogRefInput{older, newer} {
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, 1, 10, biz.BlogRefFilter{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, "Newer", all.Items[0].Title)

	tagged, err := uc.List(ctx, 1, 10, biz.BlogRefFilter{Tag: "Breath"})
	require.NoError(t, err)
	require.Len(t, tagged.Items, 1)
	assert.Equal(t, "Older", tagged.Items[0].Title)

	none, err := uc.List(ctx, 1, 10, biz.BlogRefFilter{Provider: biz.ProviderDevTo})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Zero(t, none.Total)
}

func TestUpdateSlugRules(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	a, err := uc.Create(ctx, post("Alpha"))
	require.NoError(t, err)
	b, err := uc.Create(ctx, post("Beta"))
	require.NoError(t, err)

	// a title change alone keeps the slug
	renamed, err := uc.Update(ctx, a.ID, biz.BlogRefPatch{Title: strPtr("Alpha Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "alpha", renamed.Slug)

	// an empty slug re-derives from the title
	rederived, err := uc.Update(ctx, a.ID, biz.BlogRefPatch{Slug: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "alpha-renamed", rederived.Slug)

	// a ref keeps its own slug without colliding
	same, err := uc.Update(ctx, a.ID, biz.BlogRefPatch{Slug: strPtr("alpha-renamed")})
	require.NoError(t, err)
	assert.Equal(t, "alpha-renamed", same.Slug)

	_, err = uc.Update(ctx, b.ID, biz.BlogRefPatch{Slug: strPtr("alpha-renamed")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ValidationError))

	_, err = uc.Update(ctx, b.ID+100, biz.BlogRefPatch{Title: strPtr("x")})
	assert.True(t, errors.Is(err, apperrors.NotFoundError))
}

func TestDeleteReleasesImage(t *testing.T) {
	uc, objects := setup(t)
	ctx := context.Background()

	in := post("With Cover")
	in.Image = testutil.OwnedURL("site/cover.jpg")
	created, err := uc.Create(ctx, in)
	require.NoError(t, err)

	deleted, err := uc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"site/cover.jpg"}, objects.Removed())

	again, err := uc.Delete(ctx, created.ID)
	assert.NoError(t, err)
	assert.False(t, again)
}

func TestSyncProviderUpserts(t *testing.T) {
	feed := &fakeFeed{articles: []biz.FeedArticle{
		{ExternalID: "101", Title: "Sunrise Yoga", Excerpt: "Early practice.", Author: "Ana", Date: "2026-02-01", URL: "https://dev.to/ana/sunrise", Tags: []string{"yoga"}},
		{ExternalID: "102", Title: "Sunrise Yoga", Excerpt: "Same title.", Author: "Ana", Date: "2026-02-02", URL: "https://dev.to/ana/sunrise-2"},
		{ExternalID: "103", Title: "", Excerpt: "No title.", Author: "Ana"},
	}}
	uc, _ := setup(t, feed)
	ctx := context.Background()

	first, err := uc.SyncProvider(ctx, biz.ProviderDevTo, "ana")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Fetched)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 1, first.Failed)

	second, err := uc.SyncProvider(ctx, biz.ProviderDevTo, "ana")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Unchanged)
	assert.Zero(t, second.Created)

	feed.articles[0].Excerpt = "Early practice, revised."
	third, err := uc.SyncProvider(ctx, biz.ProviderDevTo, "ana")
	require.NoError(t, err)
	assert.Equal(t, 1, third.Updated)
	assert.Equal(t, 1, third.Unchanged)

	ref, err := uc.GetBySlug(ctx, "sunrise-yoga")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "Early practice, revised.", ref.Excerpt)
	assert.Equal(t, biz.ProviderDevTo, ref.Provider)

	synced, err := uc.List(ctx, 1, 10, biz.BlogRefFilter{Provider: biz.ProviderDevTo})
	require.NoError(t, err)
	assert.EqualValues(t, 2, synced.Total)
}

func TestSyncProviderErrors(t *testing.T) {
	feed := &fakeFeed{err: errors.New("connection refused")}
	uc, _ := setup(t, feed)
	ctx := context.Background()

	_, err := uc.SyncProvider(ctx, "medium", "ana")
	assert.True(t, errors.Is(err, apperrors.ValidationError))

	_, err = uc.SyncProvider(ctx, biz.ProviderDevTo, " ")
	assert.True(t, errors.Is(err, apperrors.ValidationError))

	_, err = uc.SyncProvider(ctx, biz.ProviderDevTo, "ana")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrServiceUnavail, apperrors.ExtractCode(err))
}
