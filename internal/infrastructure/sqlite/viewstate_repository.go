package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrViewStateNotFound indicates no saved state exists for a repository.
var ErrViewStateNotFound = errors.New("view state not found")

// ViewState captures what the user was looking at in a repository so
// the next launch restores it: the selected commit, active filters, the
// loaded page size, and the scroll position.
type ViewState struct {
	GUID            string
	RepoPath        string
	SelectedHash    string
	Branch          string
	AllBranches     bool
	FirstParentOnly bool
	CommitLimit     int
	ScrollTop       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ViewStateRepository persists ViewState keyed by repository path.
type ViewStateRepository struct {
	db *sql.DB
}

func newViewStateRepository(db *sql.DB) *ViewStateRepository {
	return &ViewStateRepository{db: db}
}

// Save upserts the state for state.RepoPath. New rows get a fresh GUID
// and creation timestamp; both are written back onto state.
func (r *ViewStateRepository) Save(state *ViewState) error {
	now := time.Now()
	if state.GUID == "" {
		state.GUID = uuid.New().String()
		state.CreatedAt = now
	}
	state.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO view_state (guid, repo_path, selected_hash, branch, all_branches, first_parent_only, commit_limit, scroll_top, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(repo_path) DO UPDATE SET
		   selected_hash = excluded.selected_hash,
		   branch = excluded.branch,
		   all_branches = excluded.all_branches,
		   first_parent_only = excluded.first_parent_only,
		   commit_limit = excluded.commit_limit,
		   scroll_top = excluded.scroll_top,
		   updated_at = excluded.updated_at`,
		state.GUID, state.RepoPath, state.SelectedHash, state.Branch,
		boolToInt(state.AllBranches), boolToInt(state.FirstParentOnly),
		state.CommitLimit, state.ScrollTop, state.CreatedAt.Unix(), state.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save view state: %w", err)
	}
	return nil
}

// FindByRepoPath returns the saved state for repoPath, or
// ErrViewStateNotFound.
func (r *ViewStateRepository) FindByRepoPath(repoPath string) (*ViewState, error) {
	var state ViewState
	var allBranches, firstParent int
	var createdUnix, updatedUnix int64
	err := r.db.QueryRow(
		`SELECT guid, repo_path, selected_hash, branch, all_branches, first_parent_only, commit_limit, scroll_top, created_at, updated_at
		 FROM view_state
		 WHERE repo_path = ?`,
		repoPath,
	).Scan(&state.GUID, &state.RepoPath, &state.SelectedHash, &state.Branch,
		&allBranches, &firstParent, &state.CommitLimit, &state.ScrollTop,
		&createdUnix, &updatedUnix)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrViewStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find view state: %w", err)
	}

	state.AllBranches = allBranches != 0
	state.FirstParentOnly = firstParent != 0
	state.CreatedAt = time.Unix(createdUnix, 0)
	state.UpdatedAt = time.Unix(updatedUnix, 0)
	return &state, nil
}

// Delete removes the saved state for repoPath. Deleting a missing row
// is not an error.
func (r *ViewStateRepository) Delete(repoPath string) error {
	if _, err := r.db.Exec(`DELETE FROM view_state WHERE repo_path = ?`, repoPath); err != nil {
		return fmt.Errorf("failed to delete view state: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
