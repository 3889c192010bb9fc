package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func stripANSI(s string) string {
	return ansi.Strip(s)
}

var (
	testColorGreen = lipgloss.Color("#00FF00")
	testColorRed   = lipgloss.Color("#FF0000")
)

func TestRenderWithTitleBorder_Basic(t *testing.T) {
	result := RenderWithTitleBorder("content", "History", "", 20, 5, false, testColorGreen, testColorGreen)

	require.Contains(t, result, "╭", "missing top-left corner")
	require.Contains(t, result, "╮", "missing top-right corner")
	require.Contains(t, result, "╰", "missing bottom-left corner")
	require.Contains(t, result, "╯", "missing bottom-right corner")

	lines := strings.Split(result, "\n")
	require.NotEmpty(t, lines)
	require.Contains(t, lines[0], "History", "title not in top border")
	require.Len(t, lines, 5)
}

func TestRenderWithTitleBorder_RightTitle(t *testing.T) {
	result := RenderWithTitleBorder("content", "History", "3/50", 40, 5, false, testColorGreen, testColorGreen)

	lines := strings.Split(result, "\n")
	require.Contains(t, lines[0], "History")
	require.Contains(t, lines[0], "3/50")
}

func TestRenderWithTitleBorder_RightTitleDroppedWhenNarrow(t *testing.T) {
	result := RenderWithTitleBorder("content", "History", "100/1000", 16, 5, false, testColorGreen, testColorGreen)

	lines := strings.Split(result, "\n")
	require.Contains(t, lines[0], "History")
	require.NotContains(t, lines[0], "100/1000")
}

func TestRenderWithTitleBorder_LongTitleTruncated(t *testing.T) {
	longTitle := "A Title Far Too Long For Such A Narrow Pane"
	result := RenderWithTitleBorder("content", longTitle, "", 20, 5, false, testColorRed, testColorRed)

	lines := strings.Split(result, "\n")
	require.NotEmpty(t, lines)
	require.LessOrEqual(t, lipgloss.Width(lines[0]), 20)
}

func TestRenderWithTitleBorder_NoTitles(t *testing.T) {
	result := RenderWithTitleBorder("content", "", "", 20, 5, false, testColorGreen, testColorGreen)

	lines := strings.Split(result, "\n")
	require.Equal(t, "─", string([]rune(stripANSI(lines[0]))[1:2]), "top border should be plain dashes")
}

func TestRenderWithTitleBorder_LinesAlignToWidth(t *testing.T) {
	result := RenderWithTitleBorder("short", "T", "", 30, 6, true, testColorGreen, testColorRed)

	for i, line := range strings.Split(result, "\n") {
		require.Equal(t, 30, lipgloss.Width(line), "line %d has wrong width", i)
	}
}
