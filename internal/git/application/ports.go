// Package application defines ports (interfaces) for git history access.
package application

import (
	"context"

	domain "github.com/zjrosen/gitlanes/internal/git/domain"
)

// LogSource is the single inbound collaborator of the graph engine: it
// returns commits newest-first for a query. Implementations must
// tolerate Limit values not previously requested and must keep the
// idempotent-prefix property described on domain.LogQuery.
type LogSource interface {
	// LoadGraph returns up to query.Limit commits, newest first.
	// Returns ErrLogTimeout if the context deadline is exceeded.
	LoadGraph(ctx context.Context, query domain.LogQuery) ([]domain.CommitRecord, error)

	// ListBranches returns local branches for the branch filter.
	ListBranches(ctx context.Context) ([]domain.BranchInfo, error)
}

// DiffSource supplies the patch for a single commit, consumed by the
// details pane.
type DiffSource interface {
	CommitDiff(ctx context.Context, hash string) (string, error)
}

// RepoActions covers the per-commit context actions the viewer can
// trigger. These are host-side operations; the engine fires them and
// does not interpret their results.
type RepoActions interface {
	CreateBranch(ctx context.Context, name, hash string) error
	CreateTag(ctx context.Context, name, hash string) error
	Revert(ctx context.Context, hash string) error
	CherryPick(ctx context.Context, hash string) error
}
