// Package infrastructure provides the git CLI implementation of the
// history ports. It is the external collaborator of the graph engine:
// all repository access lives here, none of it in the engine.
package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/zjrosen/gitlanes/internal/git/application"
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
	"github.com/zjrosen/gitlanes/internal/log"
)

// Field and record separators for the pretty format. Git interpolates
// them via %x1f / %x1e, so they can never collide with message text the
// way a printable delimiter would.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// logFormat captures hash, short hash, parents, decorations, author,
// author timestamp, subject, and body per record.
const logFormat = "%H%x1f%h%x1f%P%x1f%D%x1f%an%x1f%at%x1f%s%x1f%b%x1e"

// defaultTimeout bounds every git invocation so a hung subprocess cannot
// freeze the UI loop waiting on its tea.Cmd.
const defaultTimeout = 10 * time.Second

// CLIExecutor implements the history ports by shelling out to git.
type CLIExecutor struct {
	workDir string
	timeout time.Duration
}

var (
	_ application.LogSource   = (*CLIExecutor)(nil)
	_ application.RepoActions = (*CLIExecutor)(nil)
)

// NewCLIExecutor creates an executor bound to the repository at workDir.
func NewCLIExecutor(workDir string) *CLIExecutor {
	return &CLIExecutor{workDir: workDir, timeout: defaultTimeout}
}

// LoadGraph returns up to query.Limit commits, newest first, decorated
// with refs and parent hashes.
func (e *CLIExecutor) LoadGraph(ctx context.Context, query domain.LogQuery) ([]domain.CommitRecord, error) {
	args := []string{"log", "--date-order", "--pretty=format:" + logFormat}
	if query.Limit > 0 {
		args = append(args, fmt.Sprintf("-n%d", query.Limit))
	}
	if query.AllBranches {
		args = append(args, "--all")
	}
	if query.FirstParentOnly {
		args = append(args, "--first-parent")
	}
	if query.Branch != "" {
		args = append(args, query.Branch)
	}

	out, err := e.run(ctx, args...)
	if err != nil {
		return nil, e.mapLogError(ctx, err)
	}

	records := ParseLog(out)
	log.Debug(log.CatGit, "Loaded commit log", "count", len(records), "limit", query.Limit, "branch", query.Branch)
	return records, nil
}

// ListBranches returns local branches, marking the checked-out one.
func (e *CLIExecutor) ListBranches(ctx context.Context) ([]domain.BranchInfo, error) {
	out, err := e.run(ctx, "branch", "--format=%(HEAD)%x1f%(refname:short)")
	if err != nil {
		return nil, e.mapLogError(ctx, err)
	}

	var branches []domain.BranchInfo
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		head, name, ok := strings.Cut(line, fieldSep)
		if !ok || name == "" {
			continue
		}
		branches = append(branches, domain.BranchInfo{Name: name, IsCurrent: head == "*"})
	}
	return branches, nil
}

// CreateBranch creates a branch pointing at hash without checking it out.
func (e *CLIExecutor) CreateBranch(ctx context.Context, name, hash string) error {
	_, err := e.run(ctx, "branch", name, hash)
	return err
}

// CreateTag creates a lightweight tag pointing at hash.
func (e *CLIExecutor) CreateTag(ctx context.Context, name, hash string) error {
	_, err := e.run(ctx, "tag", name, hash)
	return err
}

// Revert creates a revert commit for hash on the current branch.
func (e *CLIExecutor) Revert(ctx context.Context, hash string) error {
	_, err := e.run(ctx, "revert", "--no-edit", hash)
	return err
}

// CherryPick applies hash onto the current branch.
func (e *CLIExecutor) CherryPick(ctx context.Context, hash string) error {
	_, err := e.run(ctx, "cherry-pick", hash)
	return err
}

// CommitDiff returns the unified diff introduced by hash. Used by the
// details pane, not by the engine.
func (e *CLIExecutor) CommitDiff(ctx context.Context, hash string) (string, error) {
	return e.run(ctx, "show", "--format=", "--patch", hash)
}

// IsGitRepo reports whether workDir is inside a git work tree.
func (e *CLIExecutor) IsGitRepo(ctx context.Context) bool {
	out, err := e.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

func (e *CLIExecutor) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		log.Warn(log.CatGit, "git command failed", "args", strings.Join(args, " "), "stderr", msg)
		if msg != "" {
			return "", fmt.Errorf("git %s: %s: %w", args[0], msg, err)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return stdout.String(), nil
}

// mapLogError translates subprocess failures into domain errors the UI
// can present without leaking exec details.
func (e *CLIExecutor) mapLogError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrLogTimeout
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not a git repository"):
		return domain.ErrNotGitRepo
	case strings.Contains(msg, "unknown revision"), strings.Contains(msg, "ambiguous argument"):
		return domain.ErrUnknownRef
	case strings.Contains(msg, "does not have any commits"):
		return domain.ErrEmptyRepo
	}
	return err
}

// ParseLog converts raw pretty-format output into commit records.
// Malformed records are skipped rather than failing the whole page.
func ParseLog(raw string) []domain.CommitRecord {
	var records []domain.CommitRecord
	for _, chunk := range strings.Split(raw, recordSep) {
		chunk = strings.TrimLeft(chunk, "\n")
		if chunk == "" {
			continue
		}
		fields := strings.Split(chunk, fieldSep)
		if len(fields) < 7 {
			continue
		}

		rec := domain.CommitRecord{
			Hash:      fields[0],
			ShortHash: fields[1],
			Parents:   splitList(fields[2], " "),
			Refs:      parseRefs(fields[3]),
			Author:    fields[4],
			Subject:   fields[6],
		}
		if len(fields) > 7 {
			rec.Body = strings.TrimRight(fields[7], "\n")
		}
		if unix, err := strconv.ParseInt(fields[5], 10, 64); err == nil {
			rec.Timestamp = time.Unix(unix, 0)
		}
		if rec.Hash == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// parseRefs normalizes a %D decoration string ("HEAD -> main, tag: v1,
// origin/main") into plain ref labels.
func parseRefs(decorations string) []string {
	var refs []string
	for _, part := range splitList(decorations, ", ") {
		part = strings.TrimPrefix(part, "HEAD -> ")
		part = strings.TrimPrefix(part, "tag: ")
		if part == "" || part == "HEAD" {
			continue
		}
		refs = append(refs, part)
	}
	return refs
}

func splitList(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}
