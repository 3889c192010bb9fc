package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindow_WorkedExample(t *testing.T) {
	// 24px rows, 600px viewport scrolled to 480: rows 20..45 intersect,
	// overscan 5 pushes that to [15, 50).
	w := ComputeWindow(480, 600, 24, 5, 1000)

	assert.Equal(t, 15, w.Start)
	assert.Equal(t, 50, w.End)
	assert.Equal(t, 14, w.EdgeStart)
	assert.Equal(t, 51, w.EdgeEnd)
}

func TestComputeWindow_ClampsToBounds(t *testing.T) {
	tests := []struct {
		name       string
		scrollTop  int
		viewport   int
		totalRows  int
		wantStart  int
		wantEnd    int
		wantEStart int
		wantEEnd   int
	}{
		{"top of list", 0, 240, 1000, 0, 15, 0, 16},
		{"bottom of list", 23760, 240, 1000, 985, 1000, 984, 1000},
		{"fewer rows than viewport", 0, 600, 10, 0, 10, 0, 10},
		{"single row", 0, 24, 1, 0, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWindow(tt.scrollTop, tt.viewport, 24, 5, tt.totalRows)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
			assert.Equal(t, tt.wantEStart, w.EdgeStart)
			assert.Equal(t, tt.wantEEnd, w.EdgeEnd)
		})
	}
}

func TestComputeWindow_Empty(t *testing.T) {
	assert.Equal(t, Window{}, ComputeWindow(100, 600, 24, 5, 0))
	assert.Equal(t, Window{}, ComputeWindow(100, 600, 0, 5, 10))
}

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 24000, ContentHeight(1000, 24))
	assert.Equal(t, 0, ContentHeight(0, 24))
}
