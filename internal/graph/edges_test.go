package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/zjrosen/gitlanes/internal/git/domain"
)

func TestProjectEdges_LinearHistoryIsVertical(t *testing.T) {
	commits := []domain.CommitRecord{
		commit("c1", "c2"),
		commit("c2", "c3"),
		commit("c3"),
	}
	layout := AssignLanes(commits)
	m := DefaultMetrics()

	edges := ProjectEdges(commits, layout, m, 0, 3)

	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, e.OriginX, e.TargetX, "same-lane edge must be vertical")
		assert.Zero(t, e.ControlOffset)
		assert.Equal(t, 0, e.Color)
	}
	assert.Equal(t, m.RowHeight/2, edges[0].OriginY)
	assert.Equal(t, m.RowHeight+m.RowHeight/2, edges[0].TargetY)
}

func TestProjectEdges_MergeTakesIncomingBranchColor(t *testing.T) {
	commits := []domain.CommitRecord{
		commit("c1", "c2", "c4"),
		commit("c2", "c3"),
		commit("c4"),
		commit("c3"),
	}
	layout := AssignLanes(commits)
	m := DefaultMetrics()

	edges := ProjectEdges(commits, layout, m, 0, 4)

	// c1→c2 (vertical trunk), c1→c4 (merge source), c2→c3 (vertical).
	require.Len(t, edges, 3)

	var mergeEdge *Edge
	for i := range edges {
		if edges[i].ControlOffset > 0 {
			mergeEdge = &edges[i]
		}
	}
	require.NotNil(t, mergeEdge, "expected one curved edge for the merge source")
	assert.Equal(t, 1, mergeEdge.Color, "merge edge shows the incoming lane's color, not the trunk's")
	assert.Equal(t, m.laneX(0), mergeEdge.OriginX)
	assert.Equal(t, m.laneX(1), mergeEdge.TargetX)
}

func TestProjectEdges_CurveOffsetCappedAtTwoRowHeights(t *testing.T) {
	// Parent ten rows below on another lane: offset would be 120, the
	// cap holds it at 2*RowHeight.
	commits := []domain.CommitRecord{commit("head", fmt9(0), "far")}
	for i := 0; i < 9; i++ {
		commits = append(commits, commit(fmt9(i), fmt9(i+1)))
	}
	commits = append(commits, commit("far"))

	layout := AssignLanes(commits)
	m := DefaultMetrics()
	edges := ProjectEdges(commits, layout, m, 0, len(commits))

	var capped bool
	for _, e := range edges {
		assert.LessOrEqual(t, e.ControlOffset, 2*m.RowHeight)
		if e.ControlOffset == 2*m.RowHeight {
			capped = true
		}
	}
	assert.True(t, capped, "long lane change should hit the offset cap")
}

func fmt9(i int) string { return string(rune('a' + i)) }

func TestProjectEdges_DanglingParentOmitted(t *testing.T) {
	commits := []domain.CommitRecord{
		commit("c1", "c2", "missing"),
		commit("c2"),
	}
	layout := AssignLanes(commits)

	edges := ProjectEdges(commits, layout, DefaultMetrics(), 0, 2)

	require.Len(t, edges, 1, "edge to the unloaded parent is silently dropped")
	assert.Equal(t, edges[0].OriginX, edges[0].TargetX)
}

func TestProjectEdges_RestrictedToRange(t *testing.T) {
	commits := []domain.CommitRecord{
		commit("c1", "c2"),
		commit("c2", "c3"),
		commit("c3", "c4"),
		commit("c4"),
	}
	layout := AssignLanes(commits)

	edges := ProjectEdges(commits, layout, DefaultMetrics(), 1, 3)

	// Only rows 1 and 2 originate edges.
	require.Len(t, edges, 2)
	m := DefaultMetrics()
	assert.Equal(t, m.rowY(1), edges[0].OriginY)
	assert.Equal(t, m.rowY(2), edges[1].OriginY)
}

func TestBuildNodes_VisibleSliceOnly(t *testing.T) {
	commits := []domain.CommitRecord{
		commit("c1", "c2", "c4"),
		commit("c2", "c3"),
		commit("c4"),
		commit("c3"),
	}
	layout := AssignLanes(commits)
	m := DefaultMetrics()

	nodes := BuildNodes(commits, layout, m, 1, 3, "c4")

	require.Len(t, nodes, 2)
	assert.Equal(t, "c2", nodes[0].Hash)
	assert.False(t, nodes[0].IsSelected)

	assert.Equal(t, "c4", nodes[1].Hash)
	assert.True(t, nodes[1].IsSelected)
	assert.True(t, nodes[1].IsRoot)
	assert.False(t, nodes[1].IsMerge)
	assert.Equal(t, 1, nodes[1].Color)
	assert.Equal(t, m.laneX(1), nodes[1].CenterX)
	assert.Equal(t, m.rowY(2), nodes[1].CenterY)
}

func TestBuildNodes_MergeFlag(t *testing.T) {
	commits := []domain.CommitRecord{
		commit("m", "a", "b"),
		commit("a"),
		commit("b"),
	}
	layout := AssignLanes(commits)

	nodes := BuildNodes(commits, layout, DefaultMetrics(), 0, 3, "")

	require.Len(t, nodes, 3)
	assert.True(t, nodes[0].IsMerge)
	assert.False(t, nodes[1].IsMerge)
}

func TestColorIndex_CyclesPalette(t *testing.T) {
	m := DefaultMetrics()
	assert.Equal(t, 0, m.ColorIndex(0))
	assert.Equal(t, 7, m.ColorIndex(7))
	assert.Equal(t, 0, m.ColorIndex(8))
	assert.Equal(t, 3, m.ColorIndex(11))
}
