package graph

// Window is the contiguous row range that intersects the viewport, plus
// an expanded edge range with one row of slack so connectors entering or
// leaving the visible band are not clipped at its boundary.
type Window struct {
	Start     int // First renderable row (inclusive)
	End       int // One past the last renderable row
	EdgeStart int // First row considered for edge projection
	EdgeEnd   int // One past the last row considered for edge projection
}

// ComputeWindow maps a scroll offset and viewport size onto the row
// range to materialize. overscan rows beyond each visible edge avoid
// pop-in during scroll. All units are pixels except overscan and
// totalRows, which are row counts.
func ComputeWindow(scrollTop, viewportHeight, rowHeight, overscan, totalRows int) Window {
	if rowHeight <= 0 || totalRows <= 0 {
		return Window{}
	}

	start := scrollTop/rowHeight - overscan
	if start < 0 {
		start = 0
	}
	end := ceilDiv(scrollTop+viewportHeight, rowHeight) + overscan
	if end > totalRows {
		end = totalRows
	}
	if start > end {
		start = end
	}

	edgeStart := start - 1
	if edgeStart < 0 {
		edgeStart = 0
	}
	edgeEnd := end + 1
	if edgeEnd > totalRows {
		edgeEnd = totalRows
	}

	return Window{Start: start, End: end, EdgeStart: edgeStart, EdgeEnd: edgeEnd}
}

// ContentHeight returns the full scrollable height, letting the scroll
// container report a correct scrollbar without materializing all rows.
func ContentHeight(totalRows, rowHeight int) int {
	return totalRows * rowHeight
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
