package data

import (
	"context"
	"testing"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/dashboard/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	testimonialbiz "github.com/lk2023060901/yoga-studio-backend/internal/testimonial/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *biz.State {
	st := biz.NewState("admin-1")
	st.ActiveTab = biz.TabEvents
	st.Search = "beach"
	st.Rows[biz.TabTestimonials] = []biz.Row{{ID: 3, Title: "Maya", Subtitle: "Member"}}
	st.Totals[biz.TabTestimonials] = 1
	st.Notice = &biz.Notice{Tab: biz.TabEvents, Message: "Could not load events. Try again."}
	st.PendingDelete = biz.TestimonialTarget{Item: &testimonialbiz.Testimonial{ID: 3, Name: "Maya", Role: "Member", Rating: 5}}
	return st
}

func TestRedisStateStore(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := NewStateStore(client, logger.NewNop())
	ctx := context.Background()

	fresh, err := store.Load(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, biz.TabTestimonials, fresh.ActiveTab)
	assert.Nil(t, fresh.PendingDelete)

	require.NoError(t, store.Save(ctx, sampleState()))
	assert.Equal(t, biz.StateTTL, mr.TTL(stateKey("admin-1")))

	got, err := store.Load(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, biz.TabEvents, got.ActiveTab)
	assert.Equal(t, "beach", got.Search)
	assert.Len(t, got.Rows[biz.TabTestimonials], 1)
	require.NotNil(t, got.Notice)
	target, ok := got.PendingDelete.(biz.TestimonialTarget)
	require.True(t, ok)
	assert.Equal(t, "Maya", target.Item.Name)

	mr.FastForward(biz.StateTTL + time.Second)
	expired, err := store.Load(ctx, "admin-1")
	require.NoError(t, err)
	assert.Empty(t, expired.Rows)
}

func TestRedisStateStoreDropsUnreadableState(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := NewStateStore(client, logger.NewNop())

	require.NoError(t, mr.Set(stateKey("admin-1"), "{not json"))
	st, err := store.Load(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", st.UserID)
	assert.Empty(t, st.Rows)
}

func TestRedisStateStoreUnavailable(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := NewStateStore(client, logger.NewNop())
	mr.Close()

	_, err := store.Load(context.Background(), "admin-1")
	assert.Error(t, err)
}

func TestMemoryStateStoreIsolatesCopies(t *testing.T) {
	store := NewStateStore(nil, logger.NewNop())
	_, ok := store.(*MemoryStateStore)
	require.True(t, ok)
	ctx := context.Background()

	st := sampleState()
	require.NoError(t, store.Save(ctx, st))
	st.Rows[biz.TabTestimonials][0].Title = "changed"

	got, err := store.Load(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "Maya", got.Rows[biz.TabTestimonials][0].Title)
	assert.IsType(t, biz.TestimonialTarget{}, got.PendingDelete)

	other, err := store.Load(ctx, "admin-2")
	require.NoError(t, err)
	assert.Equal(t, "admin-2", other.UserID)
}
