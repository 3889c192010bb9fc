package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/gitlanes/internal/git/domain"
)

func exportFixture() []domain.CommitRecord {
	// merge at the top, feature branch on lane 1, shared base at the
	// bottom.
	return []domain.CommitRecord{
		{Hash: "dddd", Subject: "Merge feature", Parents: []string{"cccc", "bbbb"}},
		{Hash: "cccc", Subject: "Mainline work", Parents: []string{"aaaa"}},
		{Hash: "bbbb", Subject: "Feature work", Parents: []string{"aaaa"}},
		{Hash: "aaaa", Subject: "Base", Parents: nil},
	}
}

func TestBuildExportDocument_LanesAndRows(t *testing.T) {
	doc := buildExportDocument("/tmp/repo", exportFixture())

	require.Len(t, doc.Nodes, 4)
	assert.Equal(t, 4, doc.Commits)
	assert.Equal(t, 1, doc.MaxLane)

	byHash := make(map[string]exportNode, len(doc.Nodes))
	for _, n := range doc.Nodes {
		byHash[n.Hash] = n
	}

	assert.Equal(t, 0, byHash["dddd"].Lane)
	assert.Equal(t, 0, byHash["cccc"].Lane)
	assert.Equal(t, 1, byHash["bbbb"].Lane)
	assert.Equal(t, 0, byHash["aaaa"].Lane)

	assert.True(t, byHash["dddd"].IsMerge)
	assert.True(t, byHash["aaaa"].IsRoot)
	assert.Equal(t, 3, byHash["aaaa"].Row)

	// one edge per parent link
	assert.Len(t, doc.Edges, 4)
}

func TestBuildExportDocument_Empty(t *testing.T) {
	doc := buildExportDocument("/tmp/repo", nil)
	assert.Equal(t, 0, doc.Commits)
	assert.Equal(t, -1, doc.MaxLane)
	assert.Empty(t, doc.Nodes)
	assert.Empty(t, doc.Edges)
}

func TestEncodeExport_YAML(t *testing.T) {
	doc := buildExportDocument("/tmp/repo", exportFixture())

	out, err := encodeExport(doc, "yaml")
	require.NoError(t, err)

	var decoded exportDocument
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, doc.Commits, decoded.Commits)
	assert.Equal(t, doc.MaxLane, decoded.MaxLane)
	require.Len(t, decoded.Nodes, 4)
	assert.Equal(t, "dddd", decoded.Nodes[0].Hash)
}

func TestEncodeExport_JSON(t *testing.T) {
	doc := buildExportDocument("/tmp/repo", exportFixture())

	out, err := encodeExport(doc, "json")
	require.NoError(t, err)

	var decoded exportDocument
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, doc.Commits, decoded.Commits)
	require.Len(t, decoded.Edges, 4)
}

func TestEncodeExport_UnknownFormat(t *testing.T) {
	_, err := encodeExport(exportDocument{}, "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
