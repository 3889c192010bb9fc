package graph

import (
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
)

// Metrics holds the geometry constants for one render surface.
type Metrics struct {
	RowHeight   float64 // Vertical distance between row centers
	LaneWidth   float64 // Horizontal distance between lane centers
	PaletteSize int     // Lane colors cycle with this period
}

// DefaultPaletteSize matches the built-in lane palette in ui/styles.
const DefaultPaletteSize = 8

// DefaultMetrics returns the geometry used by the TUI renderer and the
// export command.
func DefaultMetrics() Metrics {
	return Metrics{RowHeight: 24, LaneWidth: 14, PaletteSize: DefaultPaletteSize}
}

// ColorIndex maps a lane onto the cyclic palette. Colors repeat only
// when lanes repeat, which happens after the earlier branch has closed.
func (m Metrics) ColorIndex(lane int) int {
	size := m.PaletteSize
	if size <= 0 {
		size = DefaultPaletteSize
	}
	return lane % size
}

func (m Metrics) laneX(lane int) float64 { return float64(lane)*m.LaneWidth + m.LaneWidth/2 }
func (m Metrics) rowY(row int) float64   { return float64(row)*m.RowHeight + m.RowHeight/2 }

// Edge is one connector between a commit and one of its parents,
// expressed as endpoint geometry for an SVG/canvas layer. A zero
// ControlOffset means a straight vertical segment; otherwise the edge is
// drawn as an S-curve with the given lateral control-point offset.
type Edge struct {
	OriginX, OriginY float64
	TargetX, TargetY float64
	Color            int // Palette index
	ControlOffset    float64
}

// ProjectEdges derives the connector set for rows in [edgeStart,
// edgeEnd). Parents not present in the loaded list produce no edge:
// truncated history is expected, not an error. Work is bounded by the
// window size regardless of total history length; results are not cached
// across renders.
func ProjectEdges(commits []domain.CommitRecord, layout *Layout, m Metrics, edgeStart, edgeEnd int) []Edge {
	if layout == nil || edgeStart < 0 {
		return nil
	}
	if edgeEnd > len(commits) {
		edgeEnd = len(commits)
	}

	var edges []Edge
	for row := edgeStart; row < edgeEnd; row++ {
		c := commits[row]
		childLane, ok := layout.Lanes[c.Hash]
		if !ok {
			continue
		}
		for parentIdx, parent := range c.Parents {
			parentRow, ok := layout.Rows[parent]
			if !ok {
				continue // dangling parent, silently omitted
			}
			parentLane, ok := layout.Lanes[parent]
			if !ok {
				continue
			}
			edges = append(edges, makeEdge(m, row, childLane, parentRow, parentLane, parentIdx))
		}
	}
	return edges
}

// makeEdge builds one connector. Lane-changing edges take the color of
// the endpoint that is off the straight vertical: merge sources show the
// incoming branch's color, and a head joining an existing lane shows the
// closing branch's color, never the trunk's.
func makeEdge(m Metrics, childRow, childLane, parentRow, parentLane, parentIdx int) Edge {
	e := Edge{
		OriginX: m.laneX(childLane),
		OriginY: m.rowY(childRow),
		TargetX: m.laneX(parentLane),
		TargetY: m.rowY(parentRow),
	}

	switch {
	case childLane == parentLane:
		e.Color = m.ColorIndex(childLane)
	case parentIdx > 0:
		e.Color = m.ColorIndex(parentLane)
	default:
		e.Color = m.ColorIndex(childLane)
	}

	if childLane != parentLane {
		dy := e.TargetY - e.OriginY
		if dy < 0 {
			dy = -dy
		}
		offset := dy / 2
		if cap := 2 * m.RowHeight; offset > cap {
			offset = cap
		}
		e.ControlOffset = offset
	}
	return e
}

// Node is one drawable commit dot for the render surface.
type Node struct {
	Hash             string
	CenterX, CenterY float64
	Color            int // Palette index
	IsMerge          bool
	IsRoot           bool
	IsSelected       bool
}

// BuildNodes materializes node descriptors for rows in [start, end).
// Only the visible slice is ever instantiated; off-screen rows stay as
// plain commit records.
func BuildNodes(commits []domain.CommitRecord, layout *Layout, m Metrics, start, end int, selectedHash string) []Node {
	if layout == nil || start < 0 {
		return nil
	}
	if end > len(commits) {
		end = len(commits)
	}

	var nodes []Node
	for row := start; row < end; row++ {
		c := commits[row]
		lane, ok := layout.Lanes[c.Hash]
		if !ok {
			continue
		}
		nodes = append(nodes, Node{
			Hash:       c.Hash,
			CenterX:    m.laneX(lane),
			CenterY:    m.rowY(row),
			Color:      m.ColorIndex(lane),
			IsMerge:    c.IsMerge(),
			IsRoot:     c.IsRoot(),
			IsSelected: c.Hash == selectedHash,
		})
	}
	return nodes
}
