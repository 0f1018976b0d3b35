package asset_test

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/lk2023060901/yoga-studio-backend/internal/asset"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keyPattern = regexp.MustCompile(`^site/\d{8}_\d{6}_[0-9a-f]{8}\.(jpg|png|webp)$`)

func TestUpload(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		ext      string
	}{
		{"extension from name", "Sunrise.JPG", "image/jpeg", ".jpg"},
		{"extension from mime", "blob", "image/webp", ".webp"},
		{"sniffed mime", "", "", ".png"},
	}

	png := []byte("\x89PNG\r\n\x1a\n0000")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := &testutil.FakeObjects{}
			store := testutil.NewAssetStore(objects)

			url, err := store.Upload(context.Background(), png, tt.fileName, tt.mimeType)
			require.NoError(t, err)
			require.Len(t, objects.Puts, 1)

			key := objects.Puts[0]
			assert.Regexp(t, keyPattern, key)
			assert.True(t, strings.HasSuffix(key, tt.ext))
			assert.Equal(t, testutil.OwnedURL(key), url)
			assert.True(t, store.Owns(url))
		})
	}
}

func TestUploadFailuresAreValues(t *testing.T) {
	ctx := context.Background()

	objects := &testutil.FakeObjects{PutErr: errors.New("access denied")}
	url, err := testutil.NewAssetStore(objects).Upload(ctx, []byte("x"), "a.png", "image/png")
	assert.Empty(t, url)
	assert.True(t, errors.Is(err, apperrors.AssetUploadError))

	url, err = asset.NewDisabled(logger.NewNop()).Upload(ctx, []byte("x"), "a.png", "image/png")
	assert.Empty(t, url)
	assert.True(t, errors.Is(err, apperrors.AssetUploadError))

	_, err = testutil.NewAssetStore(&testutil.FakeObjects{}).Upload(ctx, make([]byte, 2<<20), "big.png", "image/png")
	assert.True(t, apperrors.Is(err, apperrors.ErrUploadTooLarge))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	objects := &testutil.FakeObjects{}
	store := testutil.NewAssetStore(objects)

	assert.True(t, store.Delete(ctx, ""))
	assert.True(t, store.Delete(ctx, "https://images.example.com/placeholder.jpg"))
	assert.Empty(t, objects.Removed())

	assert.True(t, store.Delete(ctx, testutil.OwnedURL("site/20240101_000000_abcdef12.jpg?v=2")))
	assert.Equal(t, []string{"site/20240101_000000_abcdef12.jpg"}, objects.Removed())

	objects.RemoveErr = errors.New("boom")
	assert.False(t, store.Delete(ctx, testutil.OwnedURL("site/other.jpg")))
}

func TestReleaseReplaced(t *testing.T) {
	ctx := context.Background()
	objects := &testutil.FakeObjects{}
	store := testutil.NewAssetStore(objects)

	a := testutil.OwnedURL("site/a.jpg")
	b := testutil.OwnedURL("site/b.jpg")

	store.ReleaseReplaced(ctx, "testimonial", 1, a, a)
	store.ReleaseReplaced(ctx, "testimonial", 1, "https://placehold.co/600x400", b)
	assert.Empty(t, objects.Removed())

	store.ReleaseReplaced(ctx, "testimonial", 1, a, b)
	assert.Equal(t, []string{"site/a.jpg"}, objects.Removed())

	objects.RemoveErr = errors.New("boom")
	store.Release(ctx, "gallery_video", 2, b, "", "https://img.youtube.com/vi/x/hqdefault.jpg")
	assert.Equal(t, []string{"site/a.jpg", "site/b.jpg"}, objects.Removed())
}

func TestDisabledStoreOwnsNothing(t *testing.T) {
	store := asset.NewDisabled(nil)
	assert.False(t, store.Enabled())
	assert.False(t, store.Owns(testutil.OwnedURL("site/a.jpg")))
	assert.True(t, store.Delete(context.Background(), testutil.OwnedURL("site/a.jpg")))
}
