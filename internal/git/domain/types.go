// Package domain provides domain types for git history data.
package domain

import "time"

// BranchInfo holds information about a git branch.
type BranchInfo struct {
	Name      string // Branch name (e.g., "main", "feature/auth")
	IsCurrent bool   // True if this is the currently checked out branch
}

// CommitRecord is one normalized commit as consumed by the graph engine.
// Records are immutable once loaded; the engine references them but never
// mutates them. A record's parents may name hashes outside the loaded
// list when history is truncated by the page limit.
type CommitRecord struct {
	Hash      string    // Full 40-char SHA
	ShortHash string    // 7-char abbreviated hash
	Parents   []string  // Parent hashes in git order; index 0 is the first parent
	Refs      []string  // Branch/tag decorations attached to this commit
	Author    string    // Author name
	Timestamp time.Time // Author timestamp
	Subject   string    // First line of the commit message
	Body      string    // Remaining message lines, may be empty
}

// IsMerge reports whether the commit has more than one parent.
func (c CommitRecord) IsMerge() bool { return len(c.Parents) > 1 }

// IsRoot reports whether the commit has no parents.
func (c CommitRecord) IsRoot() bool { return len(c.Parents) == 0 }

// LogQuery describes one paged fetch of commit history. Fetches with a
// larger Limit and otherwise equal fields return a superset starting
// from the same head (idempotent prefix), which is what makes limit
// growth a valid "load more".
type LogQuery struct {
	Limit           int    // Maximum number of commits to return
	AllBranches     bool   // Include all refs, not just HEAD
	FirstParentOnly bool   // Follow only first parents through merges
	Branch          string // Restrict to a branch; empty means HEAD
}
