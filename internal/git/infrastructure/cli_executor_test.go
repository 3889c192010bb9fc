package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fields ...string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += fieldSep
		}
		out += f
	}
	return out + recordSep
}

func TestParseLog_SingleCommit(t *testing.T) {
	raw := record(
		"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2",
		"a1b2c3d",
		"",
		"HEAD -> main, origin/main",
		"Ada Lovelace",
		"1700000000",
		"Initial commit",
		"",
	)

	records := ParseLog(raw)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2", rec.Hash)
	assert.Equal(t, "a1b2c3d", rec.ShortHash)
	assert.Empty(t, rec.Parents)
	assert.Equal(t, []string{"main", "origin/main"}, rec.Refs)
	assert.Equal(t, "Ada Lovelace", rec.Author)
	assert.Equal(t, time.Unix(1700000000, 0), rec.Timestamp)
	assert.Equal(t, "Initial commit", rec.Subject)
	assert.Empty(t, rec.Body)
	assert.True(t, rec.IsRoot())
	assert.False(t, rec.IsMerge())
}

func TestParseLog_MergeCommitParents(t *testing.T) {
	raw := record(
		"merge00",
		"merge00"[:7],
		"parent1 parent2",
		"",
		"Bob",
		"1700000100",
		"Merge branch 'feature'",
		"",
	)

	records := ParseLog(raw)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"parent1", "parent2"}, records[0].Parents)
	assert.True(t, records[0].IsMerge())
}

func TestParseLog_MultilineBodyAndOrder(t *testing.T) {
	raw := record("hash2", "h2", "hash1", "", "Carol", "1700000200", "Second", "Line one.\n\nLine two.\n") +
		"\n" +
		record("hash1", "h1", "", "tag: v1.0.0", "Carol", "1700000000", "First", "")

	records := ParseLog(raw)
	require.Len(t, records, 2)
	assert.Equal(t, "hash2", records[0].Hash, "newest first")
	assert.Equal(t, "Line one.\n\nLine two.", records[0].Body)
	assert.Equal(t, []string{"v1.0.0"}, records[1].Refs)
}

func TestParseLog_SkipsMalformedRecords(t *testing.T) {
	raw := "garbage" + recordSep +
		record("good", "g", "", "", "Dan", "1700000000", "Valid", "")

	records := ParseLog(raw)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Hash)
}

func TestParseLog_Empty(t *testing.T) {
	assert.Empty(t, ParseLog(""))
	assert.Empty(t, ParseLog("\n"))
}

func TestParseRefs(t *testing.T) {
	tests := []struct {
		name        string
		decorations string
		want        []string
	}{
		{
			name:        "head pointer stripped",
			decorations: "HEAD -> main, origin/main",
			want:        []string{"main", "origin/main"},
		},
		{
			name:        "tag prefix stripped",
			decorations: "tag: v2.1.0, tag: latest",
			want:        []string{"v2.1.0", "latest"},
		},
		{
			name:        "detached head dropped",
			decorations: "HEAD",
			want:        nil,
		},
		{
			name:        "empty",
			decorations: "",
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRefs(tt.decorations))
		})
	}
}
