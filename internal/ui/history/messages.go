package history

import (
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
)

// CommitsLoadedMsg delivers the result of an async log fetch. Limit is
// the page size the fetch was issued with so load-more growth is
// observable. Err is set when the fetch failed; Commits is nil then.
type CommitsLoadedMsg struct {
	Commits []domain.CommitRecord
	Limit   int
	Err     error
}

// SelectionChangedMsg announces that the cursor moved to a different
// commit. The app forwards it to the details pane.
type SelectionChangedMsg struct {
	Commit domain.CommitRecord
}

// ActionKind enumerates repository actions the history pane can
// request for the selected commit.
type ActionKind int

// Actions requestable from the history pane.
const (
	ActionCopyHash ActionKind = iota
	ActionCreateBranch
	ActionCreateTag
	ActionRevert
	ActionCherryPick
)

// ActionRequestedMsg asks the app to run a repository action against a
// commit. The app owns confirmation prompts and the RepoActions port.
type ActionRequestedMsg struct {
	Action ActionKind
	Hash   string
}
