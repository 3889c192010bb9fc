package infrastructure

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zjrosen/gitlanes/internal/git/application"
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
	"github.com/zjrosen/gitlanes/internal/trace"
)

// TracedSource decorates a LogSource with spans around each fetch.
type TracedSource struct {
	inner application.LogSource
}

var _ application.LogSource = (*TracedSource)(nil)

// NewTracedSource wraps inner with tracing.
func NewTracedSource(inner application.LogSource) *TracedSource {
	return &TracedSource{inner: inner}
}

func (t *TracedSource) LoadGraph(ctx context.Context, query domain.LogQuery) ([]domain.CommitRecord, error) {
	ctx, span := trace.Start(ctx, "git.load_graph",
		attribute.Int("log.limit", query.Limit),
		attribute.Bool("log.all_branches", query.AllBranches),
		attribute.Bool("log.first_parent", query.FirstParentOnly),
		attribute.String("log.branch", query.Branch),
	)
	defer span.End()

	records, err := t.inner.LoadGraph(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("log.count", len(records)))
	return records, nil
}

func (t *TracedSource) ListBranches(ctx context.Context) ([]domain.BranchInfo, error) {
	ctx, span := trace.Start(ctx, "git.list_branches")
	defer span.End()

	branches, err := t.inner.ListBranches(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return branches, nil
}

// Invalidate forwards cache invalidation when the wrapped source
// supports it.
func (t *TracedSource) Invalidate() {
	if inv, ok := t.inner.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
}
