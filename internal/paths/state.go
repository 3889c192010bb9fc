// Package paths resolves where gitlanes keeps per-repository state
// (the view-state database, logs) and user-level configuration.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// StateDirName is the directory appended to a repository path to hold
// gitlanes state.
const StateDirName = ".gitlanes"

// ResolveStateDir returns the state directory for a repository path.
// If the path already ends in .gitlanes it is used as-is. A "redirect"
// file inside the directory, containing a relative or absolute path,
// points resolution elsewhere so worktrees can share one database.
func ResolveStateDir(repoPath string) string {
	var dir string
	if filepath.Base(filepath.Clean(repoPath)) == StateDirName {
		dir = filepath.Clean(repoPath)
	} else if repoPath == "" || repoPath == "." {
		dir = StateDirName
	} else {
		dir = filepath.Join(repoPath, StateDirName)
	}

	if target := readRedirect(dir); target != "" {
		if filepath.IsAbs(target) {
			return filepath.Clean(target)
		}
		return filepath.Clean(filepath.Join(dir, target))
	}
	return dir
}

func readRedirect(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "redirect"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DBPath returns the view-state database path inside a state directory.
func DBPath(stateDir string) string {
	return filepath.Join(stateDir, "state.db")
}

// LogPath returns the debug log path inside a state directory.
func LogPath(stateDir string) string {
	return filepath.Join(stateDir, "debug.log")
}

// ConfigPath returns the user-level config file location, honoring
// XDG_CONFIG_HOME when set.
func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "gitlanes", "config.yaml"), nil
}
