package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	domain "github.com/zjrosen/gitlanes/internal/git/domain"
	"github.com/zjrosen/gitlanes/internal/ui/styles"
)

// Graph glyphs.
const (
	glyphCommit   = '●'
	glyphMerge    = '◉'
	glyphVertical = '│'
	glyphBendTR   = '╮'
	glyphBendTL   = '╭'
	glyphBendBR   = '╯'
	glyphBendBL   = '╰'
	glyphRun      = '─'
)

// laneCellWidth is the number of terminal cells each lane occupies.
const laneCellWidth = 2

// ZoneID returns the bubblezone mark for a commit row.
func ZoneID(hash string) string {
	return "history:" + hash
}

// segment is a vertical edge run through the gutter. A dangling first
// parent extends to the end of the loaded range with no closing bend.
type segment struct {
	fromRow int // commit row
	toRow   int // parent row, or len(commits) when dangling
	lane    int // lane the vertical run occupies
	openAt  int // lane of the opening bend on fromRow, -1 if none
	closeAt int // lane of the closing bend on toRow, -1 if none
}

// View renders the pane inside a titled border.
func (m Model) View() string {
	title := "History"
	if m.query.Branch != "" {
		title = "History: " + m.query.Branch
	}
	if m.query.AllBranches {
		title += " (all)"
	}
	if m.query.FirstParentOnly {
		title += " (first-parent)"
	}
	if m.loading {
		title += " …"
	}
	if m.err != nil {
		title += " (load failed)"
	}

	var counter string
	if len(m.commits) > 0 {
		counter = fmt.Sprintf("%d/%d", m.cursor+1, len(m.commits))
	}

	return styles.RenderWithTitleBorder(
		m.renderRows(), title, counter,
		m.width, m.height, m.focused,
		styles.TextPrimaryColor, styles.BorderHighlightFocusColor,
	)
}

func (m Model) renderRows() string {
	// A failed fetch keeps the last-good rows on screen; the error is
	// surfaced through the title and the status bar. Only an empty pane
	// shows the error text itself.
	if len(m.commits) == 0 {
		if m.err != nil {
			return styles.ErrorStyle.Render(m.err.Error())
		}
		if m.loading {
			return styles.StatusBarStyle.Render("Loading commits...")
		}
		return styles.StatusBarStyle.Render("No commits")
	}

	win := m.window()
	segments := m.buildSegments(win.EdgeEnd)

	start := m.scrollTop
	end := min(start+m.viewportRows(), len(m.commits))

	gutterLanes := m.gutterLanes()
	textWidth := max(m.width-2-gutterLanes*laneCellWidth-1, 10)

	lines := make([]string, 0, end-start)
	for row := start; row < end; row++ {
		gutter := m.renderGutter(row, gutterLanes, segments)
		text := m.renderText(m.commits[row], textWidth, row == m.cursor)
		lines = append(lines, zone.Mark(ZoneID(m.commits[row].Hash), gutter+" "+text))
	}
	return strings.Join(lines, "\n")
}

// gutterLanes caps the drawn lanes so a pathologically wide graph does
// not swallow the subject column.
func (m Model) gutterLanes() int {
	lanes := m.layout.MaxLane() + 1
	if lanes < 1 {
		lanes = 1
	}
	maxLanes := max((m.width-2)/3/laneCellWidth, 1)
	return min(lanes, maxLanes)
}

// buildSegments projects edges for all commits above edgeEnd. Rows at
// or past edgeEnd cannot intersect the visible range.
func (m Model) buildSegments(edgeEnd int) []segment {
	var segs []segment
	limit := min(edgeEnd, len(m.commits))
	for row := 0; row < limit; row++ {
		commit := m.commits[row]
		childLane := m.layout.Lanes[commit.Hash]
		for parentIdx, parent := range commit.Parents {
			parentRow, loaded := m.layout.Rows[parent]
			if !loaded {
				if parentIdx == 0 {
					segs = append(segs, segment{fromRow: row, toRow: len(m.commits), lane: childLane, openAt: -1, closeAt: -1})
				}
				continue
			}
			parentLane := m.layout.Lanes[parent]
			seg := segment{fromRow: row, toRow: parentRow, openAt: -1, closeAt: -1}
			switch {
			case parentLane == childLane:
				seg.lane = childLane
			case parentIdx == 0:
				// Converging branch: the child's line runs down its own
				// lane and bends into the parent at the bottom.
				seg.lane = childLane
				seg.closeAt = parentLane
			default:
				// Merge parent: the incoming branch opens at the child
				// row and runs down the parent's lane.
				seg.lane = parentLane
				seg.openAt = childLane
			}
			segs = append(segs, seg)
		}
	}
	return segs
}

type gutterCell struct {
	glyph rune
	lane  int
}

func (m Model) renderGutter(row, laneCount int, segments []segment) string {
	cells := make([]gutterCell, laneCount)
	for i := range cells {
		cells[i] = gutterCell{glyph: ' ', lane: i}
	}

	put := func(lane int, glyph rune, colorLane int) {
		if lane < 0 || lane >= laneCount {
			return
		}
		cells[lane] = gutterCell{glyph: glyph, lane: colorLane}
	}
	fill := func(from, to, colorLane int) {
		lo, hi := min(from, to), max(from, to)
		for l := lo + 1; l < hi; l++ {
			if l >= 0 && l < laneCount && cells[l].glyph == ' ' {
				put(l, glyphRun, colorLane)
			}
		}
	}

	for _, seg := range segments {
		if seg.fromRow < row && row < seg.toRow {
			put(seg.lane, glyphVertical, seg.lane)
		}
	}
	for _, seg := range segments {
		if seg.openAt >= 0 && seg.fromRow == row {
			bend := glyphBendTR
			if seg.lane < seg.openAt {
				bend = glyphBendTL
			}
			put(seg.lane, bend, seg.lane)
			fill(seg.openAt, seg.lane, seg.lane)
		}
		if seg.closeAt >= 0 && seg.toRow == row {
			bend := glyphBendBR
			if seg.lane < seg.closeAt {
				bend = glyphBendBL
			}
			put(seg.lane, bend, seg.lane)
			fill(seg.lane, seg.closeAt, seg.lane)
		}
	}

	commit := m.commits[row]
	nodeLane := m.layout.Lanes[commit.Hash]
	nodeGlyph := glyphCommit
	if commit.IsMerge() {
		nodeGlyph = glyphMerge
	}
	put(nodeLane, nodeGlyph, nodeLane)

	var b strings.Builder
	for _, cell := range cells {
		if cell.glyph == ' ' {
			b.WriteString("  ")
			continue
		}
		connector := " "
		if cell.glyph == glyphRun {
			connector = string(glyphRun)
		}
		b.WriteString(styles.LaneStyle(cell.lane).Render(string(cell.glyph) + connector))
	}
	return b.String()
}

func (m Model) renderText(commit domain.CommitRecord, width int, selected bool) string {
	hash := commit.ShortHash
	if hash == "" && len(commit.Hash) >= 7 {
		hash = commit.Hash[:7]
	}

	var refs strings.Builder
	for _, ref := range commit.Refs {
		refs.WriteString(styles.FormatRefBadge(ref))
		refs.WriteString(" ")
	}

	widths := distributeWidths(visibleColumns(rowColumns(), width), width)

	refWidth := lipgloss.Width(refs.String())
	subjectWidth := max(widths[1]-refWidth, 8)
	subject := styles.TruncateString(commit.Subject, subjectWidth)

	hashStyle, textStyle := styles.HashStyle, styles.SubjectStyle
	if selected {
		hashStyle, textStyle = styles.SelectedRowStyle, styles.SelectedRowStyle
	}

	row := hashStyle.Render(styles.PadToWidth(hash, widths[0])) + " " +
		refs.String() + textStyle.Render(subject)

	if len(widths) > 2 {
		author := styles.TruncateString(commit.Author, widths[2])
		used := refWidth + lipgloss.Width(subject)
		row += strings.Repeat(" ", max(widths[1]-used, 0)+1) +
			styles.AuthorStyle.Render(styles.PadToWidth(author, widths[2]))
	}
	if len(widths) > 3 {
		date := styles.FormatRelativeTime(commit.Timestamp, time.Now())
		row += " " + styles.DateStyle.Render(styles.PadToWidth(date, widths[3]))
	}
	return row
}
