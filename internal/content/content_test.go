package content

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"all", ""},
		{"  ALL ", ""},
		{" studio ", "studio"},
		{"Retreats", "Retreats"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.in), "input %q", tt.in)
	}
	assert.Equal(t, CategoryAll, StoredCategory("  "))
	assert.Equal(t, "beach", StoredCategory("beach"))
}

func TestReporter(t *testing.T) {
	r := NewReporter("event", logger.NewNop())
	ctx := context.Background()

	assert.NoError(t, r.Query(ctx, "list", 0, time.Now(), nil))
	assert.NoError(t, r.Write(ctx, "create", 0, time.Now(), nil))

	err := r.Query(ctx, "get", 4, time.Now(), errors.New("connection refused"))
	assert.True(t, errors.Is(err, apperrors.StoreQueryError))
	assert.Equal(t, "event.get", apperrors.GetDetails(err))

	err = r.Write(ctx, "delete", 4, time.Now(), errors.New("locked"))
	assert.True(t, errors.Is(err, apperrors.StoreWriteError))
	assert.Equal(t, "event.delete id=4", apperrors.GetDetails(err))
}
