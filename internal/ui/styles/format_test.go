package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"tiny budget", "hello", 2, ".."},
		{"zero", "hello", 0, ""},
		{"empty", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.input, tt.maxWidth))
		})
	}
}

func TestTruncateString_WideRunes(t *testing.T) {
	// Each CJK rune is two cells wide.
	got := TruncateString("日本語のコミット", 9)
	assert.LessOrEqual(t, DisplayWidth(got), 9)
	assert.Contains(t, got, "...")
}

func TestPadToWidth(t *testing.T) {
	assert.Equal(t, "abc  ", PadToWidth("abc", 5))
	assert.Equal(t, 5, DisplayWidth(PadToWidth("abcdefgh", 5)))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", now.Add(-1 * time.Hour), "1 hour ago"},
		{"days", now.Add(-49 * time.Hour), "2 days ago"},
		{"months", now.Add(-80 * 24 * time.Hour), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
		{"zero time", time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRelativeTime(tt.t, now))
		})
	}
}

func TestFormatRefBadge(t *testing.T) {
	assert.Contains(t, stripANSI(FormatRefBadge("main")), "[main]")
	assert.Contains(t, stripANSI(FormatRefBadge("v1.2.3")), "<v1.2.3>")
	assert.Contains(t, stripANSI(FormatRefBadge("verbose-branch")), "[verbose-branch]")
}
