package details

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/zjrosen/gitlanes/internal/git/domain"
)

type fakeDiffSource struct {
	diff  string
	err   error
	calls int
}

func (f *fakeDiffSource) CommitDiff(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.diff, f.err
}

func sampleCommit() domain.CommitRecord {
	return domain.CommitRecord{
		Hash:      "a1b2c3d4e5f6",
		ShortHash: "a1b2c3d",
		Author:    "Ada Lovelace",
		Timestamp: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Subject:   "Fix the analytical engine",
		Body:      "Longer explanation of the fix.",
		Refs:      []string{"main"},
	}
}

func TestSetCommit_LoadsDiff(t *testing.T) {
	source := &fakeDiffSource{diff: "diff --git a/f b/f\n+added\n"}
	m := New(source).SetSize(60, 20)

	m, cmd := m.SetCommit(sampleCommit())
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(DiffLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, "a1b2c3d4e5f6", loaded.Hash)

	m, _ = m.Update(loaded)
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Details: a1b2c3d")
	assert.Contains(t, view, "Ada Lovelace")
	assert.Contains(t, view, "+added")
}

func TestSetCommit_SameHashIsNoop(t *testing.T) {
	source := &fakeDiffSource{}
	m := New(source).SetSize(60, 20)

	m, cmd := m.SetCommit(sampleCommit())
	require.NotNil(t, cmd)
	_ = cmd()

	_, cmd = m.SetCommit(sampleCommit())
	assert.Nil(t, cmd, "re-selecting the shown commit should not refetch")
}

func TestUpdate_DropsStaleDiff(t *testing.T) {
	source := &fakeDiffSource{diff: "+current\n"}
	m := New(source).SetSize(60, 20)

	m, _ = m.SetCommit(sampleCommit())
	m, _ = m.Update(DiffLoadedMsg{Hash: "other", Diff: "+stale\n"})

	view := ansi.Strip(m.View())
	assert.NotContains(t, view, "stale")
	assert.Contains(t, view, "Loading diff", "still waiting for the current fetch")
}

func TestUpdate_DiffError(t *testing.T) {
	source := &fakeDiffSource{}
	m := New(source).SetSize(60, 20)

	m, _ = m.SetCommit(sampleCommit())
	m, _ = m.Update(DiffLoadedMsg{Hash: "a1b2c3d4e5f6", Err: errors.New("no such commit")})

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "no such commit")
}

func TestView_EmptyPane(t *testing.T) {
	m := New(&fakeDiffSource{}).SetSize(60, 20)
	assert.Contains(t, ansi.Strip(m.View()), "Select a commit")
}

func TestRenderDiff_Colorizes(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/main.go b/main.go",
		"@@ -1,3 +1,3 @@",
		" unchanged",
		"-old line",
		"+new line",
	}, "\n")

	out := renderDiff(diff)
	plain := ansi.Strip(out)
	assert.Contains(t, plain, "diff --git a/main.go b/main.go")
	assert.Contains(t, plain, "@@ -1,3 +1,3 @@")
	assert.Contains(t, plain, "-old line")
	assert.Contains(t, plain, "+new line")
	assert.Contains(t, plain, " unchanged")
}

func TestRenderDiff_BlockChangesSkipWordHighlight(t *testing.T) {
	diff := strings.Join([]string{
		"-first removed",
		"-second removed",
		"+first added",
		"+second added",
	}, "\n")

	plain := ansi.Strip(renderDiff(diff))
	assert.Contains(t, plain, "-first removed")
	assert.Contains(t, plain, "-second removed")
	assert.Contains(t, plain, "+first added")
	assert.Contains(t, plain, "+second added")
}

func TestRenderLinePair_KeepsFullText(t *testing.T) {
	del, add := renderLinePair("count := 1", "count := 2")
	assert.Equal(t, "count := 1", ansi.Strip(del))
	assert.Equal(t, "count := 2", ansi.Strip(add))
}
