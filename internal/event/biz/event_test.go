package biz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/event/data"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*biz.EventUseCase, biz.EventRepo, *testutil.FakeObjects) {
	t.Helper()
	db := testutil.NewDB(t, &data.EventPO{})
	repo := data.NewEventRepo(db)
	objects := &testutil.FakeObjects{}
	return biz.NewEventUseCase(repo, testutil.NewAssetStore(objects), logger.NewNop()), repo, objects
}

func sunrise() biz.EventInput {
	return biz.EventInput{
		Title:       "Sunrise Yoga",
		Description: "Slow flow on the sand.",
		Date:        "2099-01-01",
		Time:        "6:00 AM",
		Location:    "Beach",
		Spots:       20,
	}
}

func strPtr(s string) *string { return &s }

func TestIsPast(t *testing.T) {
	now := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)
	assert.True(t, biz.IsPast("2024-06-14", now))
	assert.False(t, biz.IsPast("2024-06-15", now))
	assert.False(t, biz.IsPast("2024-06-16", now))
}

func TestDateChangeFlipsIsPast(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, sunrise())
	require.NoError(t, err)
	assert.False(t, created.IsPast)

	updated, err := uc.Update(ctx, created.ID, biz.EventPatch{Date: strPtr("2000-01-01")})
	require.NoError(t, err)
	assert.True(t, updated.IsPast)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPast)
	assert.Equal(t, "Sunrise Yoga", got.Title)
	assert.Equal(t, 20, got.Spots)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *biz.EventInput)
		detail string
	}{
		{"blank title", func(in *biz.EventInput) { in.Title = "" }, "title is required"},
		{"missing date", func(in *biz.EventInput) { in.Date = "" }, "date is required"},
		{"bad date", func(in *biz.EventInput) { in.Date = "2099-13-01" }, "date must be a date in YYYY-MM-DD form"},
		{"no spots", func(in *biz.EventInput) { in.Spots = 0 }, "spots must be at least 1"},
		{"blank location", func(in *biz.EventInput) { in.Location = "  " }, "location is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := setup(t)
			in := sunrise()
			tt.mutate(&in)

			_, err := uc.Create(context.Background(), in)
			assert.True(t, errors.Is(err, apperrors.ValidationError))
			assert.Equal(t, tt.detail, apperrors.GetDetails(err))
		})
	}
}

func TestListOrderAndPastFilter(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	for _, date := range []string{"2099-03-01", "2001-01-01", "2099-01-15"} {
		in := sunrise()
		in.Date = date
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, 1, 10, biz.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "2001-01-01", all.Items[0].Date)
	assert.Equal(t, "2099-03-01", all.Items[2].Date)

	upcoming := false
	list, err := uc.List(ctx, 1, 10, biz.EventFilter{Past: &upcoming})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)

	past := true
	list, err = uc.List(ctx, 1, 10, biz.EventFilter{Past: &past})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestSweepPast(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()

	stale := &biz.Event{Title: "Old", Description: "d", Date: "2001-05-05", Time: "9", Location: "Hall", Spots: 3}
	require.NoError(t, repo.Create(ctx, stale))
	_, err := uc.Create(ctx, sunrise())
	require.NoError(t, err)

	n, err := uc.SweepPast(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := uc.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPast)

	n, err = uc.SweepPast(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweeperTick(t *testing.T) {
	uc, repo, _ := setup(t)
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)

	stale := &biz.Event{Title: "Old", Description: "d", Date: "2001-05-05", Time: "9", Location: "Hall", Spots: 3}
	require.NoError(t, repo.Create(ctx, stale))

	// another replica holds the lock: nothing happens
	require.NoError(t, mr.Set("lock:events:sweep", "other"))
	biz.NewSweeper(uc, client, time.Minute, logger.NewNop()).Tick(ctx)
	got, err := uc.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPast)

	mr.Del("lock:events:sweep")
	biz.NewSweeper(uc, client, time.Minute, logger.NewNop()).Tick(ctx)
	got, err = uc.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPast)
	assert.False(t, mr.Exists("lock:events:sweep"))
}

func TestDeleteReleasesImageAfterRow(t *testing.T) {
	uc, _, objects := setup(t)
	ctx := context.Background()

	in := sunrise()
	in.Image = testutil.OwnedURL("site/event.jpg")
	created, err := uc.Create(ctx, in)
	require.NoError(t, err)

	deleted, err := uc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"site/event.jpg"}, objects.Removed())

	deleted, err = uc.Delete(ctx, created.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)
}
