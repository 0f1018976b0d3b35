package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"valid", 2, 10, 2, 10},
		{"zero page", 0, 10, 1, 10},
		{"negative page", -3, 10, 1, 10},
		{"zero size", 1, 0, 1, DefaultPageSize},
		{"too large", 1, 500, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, s := Normalize(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, p)
			assert.Equal(t, tt.wantSize, s)
		})
	}
}

func TestRange(t *testing.T) {
	from, to := Range(1, 12)
	assert.Equal(t, 0, from)
	assert.Equal(t, 11, to)

	from, to = Range(3, 5)
	assert.Equal(t, 10, from)
	assert.Equal(t, 14, to)

	offset, limit := Offset(3, 5)
	assert.Equal(t, 10, offset)
	assert.Equal(t, 5, limit)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
	assert.Equal(t, 10, TotalPages(100, 10))
}

func render(items []Item) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, "…")
			continue
		}
		out = append(out, it.Page)
	}
	return out
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []any
	}{
		{"middle", 5, 10, []any{1, "…", 4, 5, 6, "…", 10}},
		{"first", 1, 10, []any{1, 2, "…", 10}},
		{"last", 10, 10, []any{1, "…", 9, 10}},
		{"near start", 3, 10, []any{1, 2, 3, 4, "…", 10}},
		{"single page", 1, 1, []any{1}},
		{"two pages", 2, 2, []any{1, 2}},
		{"small", 2, 3, []any{1, 2, 3}},
		{"out of range clamps", 42, 4, []any{1, "…", 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(Window(tt.current, tt.total)))
		})
	}
}

func TestWindowMarksCurrent(t *testing.T) {
	for _, it := range Window(5, 10) {
		assert.Equal(t, it.Page == 5, it.Current)
	}
}
