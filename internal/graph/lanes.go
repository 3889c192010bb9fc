// Package graph computes commit-graph geometry: lane assignment, edge
// projection, and the virtualization window over a loaded commit list.
//
// Everything in this package is pure and synchronous. The engine never
// fetches, never mutates the records it is given, and recomputes derived
// state wholesale whenever the commit list identity changes.
package graph

import (
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
)

// activeLane is transient bookkeeping during one assignment pass: lane
// laneIdx is reserved for whichever future commit has hash expected.
type activeLane struct {
	laneIdx  int
	expected string
}

// Layout is the derived lane assignment for one commit list. It is
// recomputed whenever the list reference changes and never patched
// incrementally.
type Layout struct {
	// Lanes maps commit hash to its lane index.
	Lanes map[string]int

	// Rows maps commit hash to its row index in the input order.
	Rows map[string]int

	// RowMax holds, per row, the high-water mark of lane indices in use
	// up to and including that row. Drives gutter width sizing.
	RowMax []int
}

// MaxLane returns the overall highest lane index, or -1 for an empty
// layout.
func (l *Layout) MaxLane() int {
	if len(l.RowMax) == 0 {
		return -1
	}
	return l.RowMax[len(l.RowMax)-1]
}

// AssignLanes computes the lane layout for commits, which must be
// ordered newest-first the way git log emits them (a commit appears
// before its ancestors). The result is deterministic and idempotent for
// a given input order; ties between fresh branch heads are broken by
// input order.
//
// Dangling parent hashes are fine: the reserved lane is simply never
// resolved within this list. Duplicate hashes violate the caller
// contract and yield an unspecified (but non-panicking) layout.
func AssignLanes(commits []domain.CommitRecord) *Layout {
	layout := &Layout{
		Lanes:  make(map[string]int, len(commits)),
		Rows:   make(map[string]int, len(commits)),
		RowMax: make([]int, len(commits)),
	}

	var active []activeLane
	highWater := -1

	for row, c := range commits {
		layout.Rows[c.Hash] = row

		// Resolve: the first active lane expecting this hash wins; any
		// later entries expecting the same hash converge here and are
		// dropped, freeing their lanes.
		lane := -1
		filtered := active[:0]
		for _, al := range active {
			if al.expected == c.Hash {
				if lane < 0 {
					lane = al.laneIdx
				}
				continue
			}
			filtered = append(filtered, al)
		}
		active = filtered

		if lane < 0 {
			// First appearance: a fresh branch head. Lowest free index
			// keeps lane numbers compact instead of growing forever.
			lane = lowestFreeLane(active)
		}
		layout.Lanes[c.Hash] = lane

		// First parent continues on this commit's lane unless another
		// active lane already expects it (the branches converged).
		for i, parent := range c.Parents {
			if i == 0 {
				if !laneExpects(active, parent) {
					active = append(active, activeLane{laneIdx: lane, expected: parent})
				}
				continue
			}
			// Merge source: brand-new lane.
			active = append(active, activeLane{laneIdx: lowestFreeLane(active), expected: parent})
		}
		// A root adds no entries, so its lane is free for the next
		// allocation that needs a fresh index.

		if lane > highWater {
			highWater = lane
		}
		for _, al := range active {
			if al.laneIdx > highWater {
				highWater = al.laneIdx
			}
		}
		layout.RowMax[row] = highWater
	}

	return layout
}

// lowestFreeLane returns the smallest non-negative lane index not held
// by any active lane. Linear scan; active lane counts are the number of
// concurrently open branches, which stays small in practice.
func lowestFreeLane(active []activeLane) int {
	for lane := 0; ; lane++ {
		taken := false
		for _, al := range active {
			if al.laneIdx == lane {
				taken = true
				break
			}
		}
		if !taken {
			return lane
		}
	}
}

// laneExpects reports whether any active lane already expects hash.
func laneExpects(active []activeLane, hash string) bool {
	for _, al := range active {
		if al.expected == hash {
			return true
		}
	}
	return false
}
