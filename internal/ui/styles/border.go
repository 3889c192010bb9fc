package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rounded border characters.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderWithTitleBorder draws content inside a rounded border with
// leftTitle embedded in the top edge and rightTitle right-aligned in
// it. Pass "" to omit either title. The border uses
// focusedBorderColor when focused, BorderDefaultColor otherwise.
func RenderWithTitleBorder(content, leftTitle, rightTitle string, width, height int, focused bool, titleColor, focusedBorderColor lipgloss.TerminalColor) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = focusedBorderColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	top := buildTitledEdge(leftTitle, rightTitle, innerWidth, borderStyle, titleStyle)
	bottom := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	constrained := lipgloss.NewStyle().Width(innerWidth).Height(contentHeight).Render(content)
	contentLines := strings.Split(constrained, "\n")

	side := borderStyle.Render(borderVertical)
	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n")
	for i := range contentHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		if pad := innerWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		b.WriteString(side)
		b.WriteString(line)
		b.WriteString(side)
		b.WriteString("\n")
	}
	b.WriteString(bottom)
	return b.String()
}

// buildTitledEdge renders the top border line. Layout:
//
//	╭─ Left ──────────── Right ─╮
//
// Titles that do not fit are dropped right-first, then truncated.
func buildTitledEdge(leftTitle, rightTitle string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	plain := func() string {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, max(innerWidth, 0)) + borderTopRight)
	}
	if innerWidth < 1 || (leftTitle == "" && rightTitle == "") {
		return plain()
	}

	// Each present title costs its width plus "─ " or " ─" framing, and
	// at least one middle dash must remain.
	leftCost, rightCost := 0, 0
	if leftTitle != "" {
		leftCost = lipgloss.Width(leftTitle) + 3
	}
	if rightTitle != "" {
		rightCost = lipgloss.Width(rightTitle) + 3
	}

	if leftCost+rightCost+1 > innerWidth && rightTitle != "" {
		rightTitle = ""
		rightCost = 0
	}
	if leftCost+1 > innerWidth && leftTitle != "" {
		leftTitle = TruncateString(leftTitle, innerWidth-4)
		if leftTitle == "" {
			return plain()
		}
		leftCost = lipgloss.Width(leftTitle) + 3
	}
	if leftTitle == "" && rightTitle == "" {
		return plain()
	}

	middle := max(innerWidth-leftCost-rightCost, 1)

	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft))
	if leftTitle != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(leftTitle))
		b.WriteString(borderStyle.Render(" "))
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, middle)))
	if rightTitle != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(rightTitle))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}
