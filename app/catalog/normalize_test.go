package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		catName string
		subName string
		want    string
	}{
		{"name and sub joined", "", "Wedding", "Venue", "WEDDING_VENUE"},
		{"explicit code wins", "custom-code", "Wedding", "Venue", "CUSTOM_CODE"},
		{"punctuation collapses", "", "Food & Beverage!!", "", "FOOD_BEVERAGE"},
		{"diacritics stripped", "", "Décor & Styling", "", "DECOR_STYLING"},
		{"digits survive", "", "Top 10 Packages", "", "TOP_10_PACKAGES"},
		{"leading and trailing runs trimmed", "", "--wedding--", "", "WEDDING"},
		{"whitespace only falls back", "", "   ", "  ", "CATEGORY"},
		{"symbols only fall back", "", "!!!", "", "CATEGORY"},
		{"blank code ignored", "   ", "Venue", "", "VENUE"},
		{"sub name alone", "", "", "Outdoor", "OUTDOOR"},
		{"lowercase code uppercased", "wedding venue", "", "", "WEDDING_VENUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCode(tt.code, tt.catName, tt.subName))
		})
	}
}

func TestNormalizeCodeIdempotent(t *testing.T) {
	inputs := []string{"Wedding Venue", "Décor", "a-b-c", "", "!!!"}
	for _, in := range inputs {
		once := NormalizeCode(in, "", "")
		assert.Equal(t, once, NormalizeCode(once, "", ""), "input %q", in)
	}
}

func TestFallbackDescription(t *testing.T) {
	assert.Equal(t, "explicit", fallbackDescription("explicit", "Wedding", "Venue"))
	assert.Equal(t, "Wedding - Venue", fallbackDescription("", "Wedding", "Venue"))
	assert.Equal(t, "Wedding", fallbackDescription("  ", "Wedding", ""))
}
