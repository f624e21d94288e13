package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_MarkSavedAndUnsaved(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := Article{URL: "https://example.com/a", Title: "A"}

	saved := a.MarkSaved(now)
	assert.True(t, saved.IsSaved)
	assert.Equal(t, int64(1_700_000_000_000), saved.SavedAt)
	assert.Equal(t, now, saved.SavedTime())
	assert.False(t, a.IsSaved, "original must not be mutated")

	unsaved := saved.MarkUnsaved()
	assert.False(t, unsaved.IsSaved)
	assert.Zero(t, unsaved.SavedAt)
	assert.True(t, unsaved.SavedTime().IsZero())

	resaved := unsaved.MarkSaved(now.Add(time.Second))
	assert.True(t, resaved.IsSaved)
	assert.Equal(t, int64(1_700_000_001_000), resaved.SavedAt)
}

func TestArticle_MarkSavedNeverZero(t *testing.T) {
	saved := Article{URL: "u"}.MarkSaved(time.UnixMilli(0))
	assert.True(t, saved.IsSaved)
	assert.Positive(t, saved.SavedAt)
}

func TestArticle_WithCategory(t *testing.T) {
	a := Article{URL: "u", Category: "sports"}

	assert.Equal(t, "tech", a.WithCategory("tech").Category)
	assert.Equal(t, CategoryGeneral, a.WithCategory("").Category)
	assert.Equal(t, CategoryGeneral, a.WithCategory("   ").Category)
}

func TestArticle_FormatPublished(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01T00:00:00Z", "Jan 01, 2024"},
		{"2023-12-25T18:30:00+02:00", "Dec 25, 2023"},
		{"yesterday", "yesterday"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Article{PublishedAt: tt.in}.FormatPublished()
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestURLs(t *testing.T) {
	got := URLs([]Article{{URL: "a"}, {URL: "b"}})
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Empty(t, URLs(nil))
}

func TestValidateCategory(t *testing.T) {
	for _, c := range Categories {
		require.NoError(t, ValidateCategory(c), c)
	}
	require.NoError(t, ValidateCategory(""))
	require.NoError(t, ValidateCategory(" Sports "))

	err := ValidateCategory("weather")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather")
}

func TestCategoryHelpers(t *testing.T) {
	assert.Equal(t, CategoryGeneral, CategoryOrDefault(""))
	assert.Equal(t, "science", CategoryOrDefault(" science "))
	assert.True(t, IsKnownCategory("health"))
	assert.False(t, IsKnownCategory("Health"))
	assert.Equal(t, "health", NormalizeCategory(" Health "))
}
