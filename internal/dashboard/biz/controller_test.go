package biz_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	authbiz "github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	"github.com/lk2023060901/yoga-studio-backend/internal/dashboard/biz"
	eventbiz "github.com/lk2023060901/yoga-studio-backend/internal/event/biz"
	eventdata "github.com/lk2023060901/yoga-studio-backend/internal/event/data"
	gallerybiz "github.com/lk2023060901/yoga-studio-backend/internal/gallery/biz"
	gallerydata "github.com/lk2023060901/yoga-studio-backend/internal/gallery/data"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	testimonialdata "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/data"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodToken = "good-token"

var admin = &authbiz.UserInfo{ID: "admin-1", Name: "Owner", Email: "owner@studio.test"}

type fakeSessions struct{}

func (fakeSessions) CurrentUser(_ context.Context, token string) *authbiz.UserInfo {
	if token == goodToken {
		return admin
	}
	return nil
}

// flakyEvents fails List while failing is set
type flakyEvents struct {
	*eventbiz.EventUseCase
	failing bool
}

func (f *flakyEvents) List(ctx context.Context, page, pageSize int, filter eventbiz.EventFilter) (*content.ListResult[*eventbiz.Event], error) {
	if f.failing {
		return nil, apperrors.NewStoreQueryError(eventbiz.Entity, "list", errors.New("connection reset"))
	}
	return f.EventUseCase.List(ctx, page, pageSize, filter)
}

type fixture struct {
	ctrl         *biz.Controller
	testimonials *testimonialbiz.TestimonialUseCase
	events       *flakyEvents
	gallery      *gallerybiz.GalleryUseCase
	objects      *testutil.FakeObjects
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &testimonialdata.TestimonialPO{}, &eventdata.EventPO{},
		&gallerydata.GalleryImagePO{}, &gallerydata.GalleryVideoPO{})
	objects := &testutil.FakeObjects{}
	assets := testutil.NewAssetStore(objects)
	log := logger.NewNop()

	f := &fixture{
		testimonials: testimonialbiz.NewTestimonialUseCase(testimonialdata.NewTestimonialRepo(db), assets, log),
		events:       &flakyEvents{EventUseCase: eventbiz.NewEventUseCase(eventdata.NewEventRepo(db), assets, log)},
		gallery:      gallerybiz.NewGalleryUseCase(gallerydata.NewImageRepo(db), gallerydata.NewVideoRepo(db), assets, log),
		objects:      objects,
	}
	f.ctrl = biz.NewController(fakeSessions{}, f.testimonials, f.events, f.gallery, log)
	return f
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, in := range []testimonialbiz.TestimonialInput{
		{Name: "Maya", Role: "Member", Quote: "Calmer every week.", Rating: 5},
		{Name: "Leo", Role: "Teacher trainee", Quote: "Great teachers.", Rating: 4, Image: testutil.OwnedURL("site/leo.jpg")},
	} {
		_, err := f.testimonials.Create(ctx, in)
		require.NoError(t, err)
	}
	_, err := f.events.Create(ctx, eventbiz.EventInput{Title: "Sunrise Yoga", Description: "Beach flow", Date: "2099-01-01", Time: "6:00 AM", Location: "Beach", Spots: 20})
	require.NoError(t, err)
}

func TestMountAnonymous(t *testing.T) {
	f := setup(t)
	st := biz.NewState("")

	view := f.ctrl.Mount(context.Background(), "bad-token", st)
	assert.False(t, view.Authenticated)
	require.NotNil(t, view.Login)
	assert.Equal(t, []string{"email", "password"}, view.Login.Fields)
	assert.Empty(t, st.Rows)
}

func TestMountLoadsDefaultTab(t *testing.T) {
	f := setup(t)
	f.seed(t)

	st := biz.NewState("")
	view := f.ctrl.Mount(context.Background(), goodToken, st)
	assert.True(t, view.Authenticated)
	assert.Equal(t, biz.TabTestimonials, view.ActiveTab)
	assert.Len(t, view.Rows, 2)
	assert.EqualValues(t, 2, view.Total)
	assert.Equal(t, admin.ID, st.UserID)
	require.Len(t, view.Tabs, 4)
	assert.True(t, view.Tabs[0].Active)
}

func TestSwitchTabFailureKeepsOtherTabs(t *testing.T) {
	f := setup(t)
	f.seed(t)
	ctx := context.Background()

	st := biz.NewState("")
	f.ctrl.Mount(ctx, goodToken, st)

	f.events.failing = true
	require.NoError(t, f.ctrl.SwitchTab(ctx, st, biz.TabEvents))
	require.NotNil(t, st.Notice)
	assert.Equal(t, biz.TabEvents, st.Notice.Tab)
	assert.Len(t, st.Rows[biz.TabTestimonials], 2)

	f.ctrl.DismissNotice(st)
	assert.Nil(t, st.Notice)

	f.events.failing = false
	f.ctrl.Reload(ctx, st)
	assert.Nil(t, st.Notice)
	require.Len(t, st.Rows[biz.TabEvents], 1)
	assert.Equal(t, "2099-01-01 6:00 AM · Beach", st.Rows[biz.TabEvents][0].Subtitle)

	err := f.ctrl.SwitchTab(ctx, st, biz.Tab("blog"))
	assert.True(t, errors.Is(err, apperrors.ValidationError))
}

func TestSearchFiltersActiveTab(t *testing.T) {
	f := setup(t)
	f.seed(t)
	ctx := context.Background()

	st := biz.NewState("")
	f.ctrl.Mount(ctx, goodToken, st)

	f.ctrl.SetSearch(st, "  TRAINEE ")
	view := f.ctrl.View(st, admin)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Leo", view.Rows[0].Title)
	assert.EqualValues(t, 2, view.Total)

	require.NoError(t, f.ctrl.SwitchTab(ctx, st, biz.TabEvents))
	assert.Empty(t, st.Search)
}

func TestDeleteConfirmationFlow(t *testing.T) {
	f := setup(t)
	f.seed(t)
	ctx := context.Background()

	st := biz.NewState("")
	view := f.ctrl.Mount(ctx, goodToken, st)
	var leo biz.Row
	for _, r := range view.Rows {
		if r.Title == "Leo" {
			leo = r
		}
	}
	require.NotZero(t, leo.ID)

	require.NoError(t, f.ctrl.RequestDelete(ctx, st, biz.TabTestimonials, leo.ID))
	view = f.ctrl.View(st, admin)
	require.NotNil(t, view.PendingDelete)
	assert.Equal(t, biz.Display{Title: "Leo", Subtitle: "Teacher trainee", Thumbnail: testutil.OwnedURL("site/leo.jpg")}, view.PendingDelete.Display)

	f.ctrl.CancelDelete(st)
	assert.Nil(t, st.PendingDelete)

	require.NoError(t, f.ctrl.RequestDelete(ctx, st, biz.TabTestimonials, leo.ID))
	deleted, err := f.ctrl.ConfirmDelete(ctx, st)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Nil(t, st.PendingDelete)
	assert.Len(t, st.Rows[biz.TabTestimonials], 1)
	assert.Equal(t, []string{"site/leo.jpg"}, f.objects.Removed())

	_, err = f.ctrl.ConfirmDelete(ctx, st)
	assert.True(t, errors.Is(err, apperrors.ValidationError))

	err = f.ctrl.RequestDelete(ctx, st, biz.TabGalleryImages, 999)
	assert.True(t, errors.Is(err, apperrors.NotFoundError))
}

func TestDeleteTargetsDispatchByKind(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	img, err := f.gallery.CreateImage(ctx, gallerybiz.ImageInput{Title: "Studio", URL: "https://images.example.com/a.jpg", Category: "space"})
	require.NoError(t, err)
	vid, err := f.gallery.CreateVideo(ctx, gallerybiz.VideoInput{Title: "Flow", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"})
	require.NoError(t, err)

	st := biz.NewState("")
	f.ctrl.Mount(ctx, goodToken, st)
	require.NoError(t, f.ctrl.SwitchTab(ctx, st, biz.TabGalleryVideos))

	require.NoError(t, f.ctrl.RequestDelete(ctx, st, biz.TabGalleryImages, img.ID))
	_, ok := st.PendingDelete.(biz.GalleryImageTarget)
	assert.True(t, ok)
	_, err = f.ctrl.ConfirmDelete(ctx, st)
	require.NoError(t, err)

	require.NoError(t, f.ctrl.RequestDelete(ctx, st, biz.TabGalleryVideos, vid.ID))
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", st.PendingDelete.Display().Thumbnail)
	_, err = f.ctrl.ConfirmDelete(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, st.Rows[biz.TabGalleryVideos])

	gone, err := f.gallery.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCancelledLoadLeavesStateUntouched(t *testing.T) {
	f := setup(t)
	f.seed(t)

	st := biz.NewState("")
	f.ctrl.Mount(context.Background(), goodToken, st)
	before := st.Rows[biz.TabTestimonials]

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, f.ctrl.SwitchTab(ctx, st, biz.TabEvents))
	assert.Nil(t, st.Notice)
	assert.NotContains(t, st.Rows, biz.TabEvents)
	assert.Equal(t, before, st.Rows[biz.TabTestimonials])
}

func TestStateSurvivesEncoding(t *testing.T) {
	f := setup(t)
	f.seed(t)
	ctx := context.Background()

	st := biz.NewState("")
	f.ctrl.Mount(ctx, goodToken, st)
	require.NoError(t, f.ctrl.SwitchTab(ctx, st, biz.TabEvents))
	require.NoError(t, f.ctrl.RequestDelete(ctx, st, biz.TabEvents, st.Rows[biz.TabEvents][0].ID))

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	var decoded biz.State
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, biz.TabEvents, decoded.ActiveTab)
	target, ok := decoded.PendingDelete.(biz.EventTarget)
	require.True(t, ok)
	assert.Equal(t, "Sunrise Yoga", target.Item.Title)
	assert.Equal(t, st.Rows, decoded.Rows)
}
