package history

// column describes one field of a commit row. Width 0 means the column
// flexes to fill remaining space; hideBelow drops the column entirely
// when the pane is narrower than that many cells.
type column struct {
	width     int
	minWidth  int
	maxWidth  int
	hideBelow int
}

// minColumnWidth keeps every column wide enough for an ellipsis.
const minColumnWidth = 3

// rowColumns is the commit row layout: hash, subject (with ref
// badges inline), author, relative date. Author and date drop out on
// narrow panes so the subject keeps room.
func rowColumns() []column {
	return []column{
		{width: 7},
		{minWidth: 12},
		{minWidth: 8, maxWidth: 16, hideBelow: 70},
		{width: 14, hideBelow: 95},
	}
}

// visibleColumns filters out columns hidden at the given pane width.
func visibleColumns(cols []column, totalWidth int) []column {
	visible := make([]column, 0, len(cols))
	for _, col := range cols {
		if col.hideBelow > 0 && totalWidth < col.hideBelow {
			continue
		}
		visible = append(visible, col)
	}
	return visible
}

// distributeWidths allocates totalWidth across cols. Fixed widths are
// taken first, then the remainder is split evenly among flex columns
// under their min/max constraints. One separator cell sits between
// adjacent columns.
func distributeWidths(cols []column, totalWidth int) []int {
	if len(cols) == 0 {
		return nil
	}

	widths := make([]int, len(cols))
	var flex []int

	available := totalWidth - (len(cols) - 1)
	for i, col := range cols {
		if col.width > 0 {
			widths[i] = col.width
			available -= col.width
		} else {
			flex = append(flex, i)
		}
	}

	if len(flex) > 0 {
		needed := 0
		for _, i := range flex {
			needed += max(cols[i].minWidth, minColumnWidth)
		}
		if available < needed {
			// Raising columns to their minimums would overflow the
			// pane; collapse every flex column instead.
			for _, i := range flex {
				widths[i] = minColumnWidth
			}
		} else {
			perCol := available / len(flex)
			remainder := available % len(flex)
			for j, i := range flex {
				w := perCol
				if j < remainder {
					w++
				}
				if minW := max(cols[i].minWidth, minColumnWidth); w < minW {
					w = minW
				}
				if cols[i].maxWidth > 0 && w > cols[i].maxWidth {
					w = cols[i].maxWidth
				}
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}
	return widths
}
