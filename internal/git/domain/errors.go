package domain

import "errors"

// Git-specific errors for history operations.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrUnknownRef indicates the requested branch or ref does not exist.
	ErrUnknownRef = errors.New("unknown ref")

	// ErrLogTimeout is returned when a git log operation times out.
	ErrLogTimeout = errors.New("git log timed out")

	// ErrEmptyRepo indicates the repository has no commits yet.
	ErrEmptyRepo = errors.New("repository has no commits")
)
