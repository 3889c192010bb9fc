package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveStateDir_TableDriven(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"absolute repo path", "/home/user/project", "/home/user/project/.gitlanes"},
		{"absolute with .gitlanes", "/home/user/project/.gitlanes", "/home/user/project/.gitlanes"},
		{"absolute with trailing slash", "/home/user/project/.gitlanes/", "/home/user/project/.gitlanes"},
		{"relative .gitlanes", ".gitlanes", ".gitlanes"},
		{"empty string", "", ".gitlanes"},
		{"relative repo", "./my-project", "my-project/.gitlanes"},
		{"current dir", ".", ".gitlanes"},
		{"nested path", "/a/b/c/d", "/a/b/c/d/.gitlanes"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := filepath.FromSlash(tc.input)
			expected := filepath.FromSlash(tc.expected)
			require.Equal(t, expected, ResolveStateDir(input))
		})
	}
}

func TestResolveStateDir_NoRedirect(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	stateDir := filepath.Join(repoDir, ".gitlanes")
	require.NoError(t, os.MkdirAll(stateDir, 0755))

	require.Equal(t, stateDir, ResolveStateDir(repoDir))
}

func TestResolveStateDir_FollowsRelativeRedirect(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	stateDir := filepath.Join(repoDir, ".gitlanes")
	targetDir := filepath.Join(tmpDir, "shared-state")
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.MkdirAll(targetDir, 0755))

	relPath, err := filepath.Rel(stateDir, targetDir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "redirect"), []byte(relPath), 0644))

	require.Equal(t, targetDir, ResolveStateDir(repoDir))
}

func TestResolveStateDir_FollowsAbsoluteRedirect(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	stateDir := filepath.Join(repoDir, ".gitlanes")
	targetDir := filepath.Join(tmpDir, "shared-state")
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.MkdirAll(targetDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "redirect"), []byte(targetDir), 0644))

	require.Equal(t, targetDir, ResolveStateDir(repoDir))
}

func TestResolveStateDir_EmptyRedirect(t *testing.T) {
	tmpDir := t.TempDir()
	repoDir := filepath.Join(tmpDir, "repo")
	stateDir := filepath.Join(repoDir, ".gitlanes")
	require.NoError(t, os.MkdirAll(stateDir, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "redirect"), []byte(""), 0644))

	require.Equal(t, stateDir, ResolveStateDir(repoDir))
}

func TestDBAndLogPaths(t *testing.T) {
	dir := filepath.FromSlash("/tmp/repo/.gitlanes")
	require.Equal(t, filepath.Join(dir, "state.db"), DBPath(dir))
	require.Equal(t, filepath.Join(dir, "debug.log"), LogPath(dir))
}
