// Package history renders the commit graph pane: a virtualized list of
// commits with a lane gutter, cursor-driven selection, and incremental
// loading of deeper history.
package history

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/gitlanes/internal/git/application"
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
	"github.com/zjrosen/gitlanes/internal/graph"
	"github.com/zjrosen/gitlanes/internal/log"
	"github.com/zjrosen/gitlanes/internal/trace"
)

// DefaultPageSize is the initial number of commits to load and the
// increment for each load-more request.
const DefaultPageSize = 50

// DefaultOverscan is the number of rows computed beyond the viewport on
// each side.
const DefaultOverscan = 5

// Model holds the history pane state.
type Model struct {
	source application.LogSource

	commits []domain.CommitRecord
	layout  *graph.Layout
	rows    map[string]int

	selectedHash string
	cursor       int
	scrollTop    int

	width   int
	height  int
	focused bool

	loading bool
	limit   int
	query   domain.LogQuery
	err     error

	pageSize int
	overscan int
}

// New creates a history pane backed by source.
func New(source application.LogSource, pageSize, overscan int) Model {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if overscan < 0 {
		overscan = DefaultOverscan
	}
	return Model{
		source:   source,
		pageSize: pageSize,
		overscan: overscan,
		limit:    pageSize,
		query:    domain.LogQuery{Limit: pageSize},
		layout:   graph.AssignLanes(nil),
	}
}

// Init starts the initial load.
func (m Model) Init() tea.Cmd {
	return m.loadCmd(m.query)
}

// SetSize updates the pane dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m = m.clampScroll()
	return m
}

// Focus marks the pane as focused for border styling and key handling.
func (m Model) Focus() Model   { m.focused = true; return m }
func (m Model) Blur() Model    { m.focused = false; return m }
func (m Model) Focused() bool  { return m.focused }
func (m Model) Loading() bool  { return m.loading }
func (m Model) Err() error     { return m.err }
func (m Model) Count() int     { return len(m.commits) }
func (m Model) Query() domain.LogQuery { return m.query }

// ScrollTop returns the first visible row index, persisted across runs.
func (m Model) ScrollTop() int { return m.scrollTop }

// Limit returns the current page size, persisted across runs.
func (m Model) Limit() int { return m.limit }

// VisibleHashes lists the hashes of the rows currently on screen, in
// display order. Used to resolve mouse clicks against zone marks.
func (m Model) VisibleHashes() []string {
	end := min(m.scrollTop+m.viewportRows(), len(m.commits))
	hashes := make([]string, 0, max(end-m.scrollTop, 0))
	for i := m.scrollTop; i < end; i++ {
		hashes = append(hashes, m.commits[i].Hash)
	}
	return hashes
}

// SelectedCommit returns the commit under the cursor, or false when the
// list is empty.
func (m Model) SelectedCommit() (domain.CommitRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.commits) {
		return domain.CommitRecord{}, false
	}
	return m.commits[m.cursor], true
}

// RestoreState applies persisted selection and filters before the first
// load so the initial fetch already matches.
func (m Model) RestoreState(selectedHash, branch string, allBranches, firstParentOnly bool, limit, scrollTop int) Model {
	m.selectedHash = selectedHash
	m.scrollTop = scrollTop
	if limit > m.limit {
		m.limit = limit
	}
	m.query = domain.LogQuery{
		Limit:           m.limit,
		AllBranches:     allBranches,
		FirstParentOnly: firstParentOnly,
		Branch:          branch,
	}
	return m
}

// WithFilters overrides the query filters before the first load.
// Command line flags use this to win over restored state.
func (m Model) WithFilters(branch string, allBranches, firstParentOnly bool) Model {
	m.query.Branch = branch
	m.query.AllBranches = allBranches
	m.query.FirstParentOnly = firstParentOnly
	return m
}

// Reload discards nothing yet; it issues a fetch at the current limit.
// The current rows stay on screen until the result lands.
func (m Model) Reload() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.query.Limit = m.limit
	return m, m.loadCmd(m.query)
}

// toggleFilter applies a filter mutation and re-fetches from scratch.
// Filter changes reset paging: a limit grown by load-more belongs to
// the previous filter set. While a fetch is in flight the toggle is
// dropped entirely so the title never disagrees with the rows.
func (m Model) toggleFilter(mutate func(*domain.LogQuery)) (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	mutate(&m.query)
	m.limit = m.pageSize
	m.query.Limit = m.limit
	m.loading = true
	return m, m.loadCmd(m.query)
}

// loadMore grows the page size and re-fetches the whole range. History
// is append-only at the bottom, so the larger result is a superset of
// the current rows and the visible prefix does not shift.
func (m Model) loadMore() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	if len(m.commits) < m.limit {
		// The repository is exhausted; a deeper fetch returns the same rows.
		return m, nil
	}
	m.loading = true
	m.limit += m.pageSize
	m.query.Limit = m.limit
	return m, m.loadCmd(m.query)
}

func (m Model) loadCmd(query domain.LogQuery) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		commits, err := source.LoadGraph(context.Background(), query)
		return CommitsLoadedMsg{Commits: commits, Limit: query.Limit, Err: err}
	}
}

// Update handles messages for the history pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CommitsLoadedMsg:
		return m.applyLoaded(msg)
	case tea.KeyMsg:
		if m.focused {
			return m.handleKey(msg)
		}
	}
	return m, nil
}

// applyLoaded replaces the commit list wholesale and recomputes the
// layout. Selection is preserved by hash; a vanished selection falls
// back to the nearest row index.
func (m Model) applyLoaded(msg CommitsLoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		log.ErrorErr(log.CatUI, "Commit load failed", msg.Err)
		return m, nil
	}
	m.err = nil
	m.commits = msg.Commits
	m.limit = msg.Limit

	_, span := trace.Start(context.Background(), "graph.assign_lanes",
		attribute.Int("commit.count", len(m.commits)))
	m.layout = graph.AssignLanes(m.commits)
	span.End()

	if idx, ok := m.indexOf(m.selectedHash); ok {
		m.cursor = idx
	} else {
		if m.cursor >= len(m.commits) {
			m.cursor = len(m.commits) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		if c, ok := m.SelectedCommit(); ok {
			m.selectedHash = c.Hash
		} else {
			m.selectedHash = ""
		}
	}
	m = m.ensureCursorVisible()
	return m, m.emitSelection()
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Any interaction acknowledges a previously shown load failure.
	m.err = nil
	switch msg.String() {
	case "down", "j":
		return m.moveCursor(1)
	case "up", "k":
		return m.moveCursor(-1)
	case "ctrl+d", "pgdown":
		return m.moveCursor(m.viewportRows() / 2)
	case "ctrl+u", "pgup":
		return m.moveCursor(-m.viewportRows() / 2)
	case "g", "home":
		return m.setCursor(0)
	case "G", "end":
		return m.setCursor(len(m.commits) - 1)
	case "enter":
		return m, m.emitSelection()
	case "L":
		return m.loadMore()
	case "r":
		return m.Reload()
	case "a":
		return m.toggleFilter(func(q *domain.LogQuery) { q.AllBranches = !q.AllBranches })
	case "f":
		return m.toggleFilter(func(q *domain.LogQuery) { q.FirstParentOnly = !q.FirstParentOnly })
	case "y":
		return m.requestAction(ActionCopyHash)
	case "b":
		return m.requestAction(ActionCreateBranch)
	case "t":
		return m.requestAction(ActionCreateTag)
	case "V":
		return m.requestAction(ActionRevert)
	case "C":
		return m.requestAction(ActionCherryPick)
	}
	return m, nil
}

func (m Model) requestAction(action ActionKind) (Model, tea.Cmd) {
	commit, ok := m.SelectedCommit()
	if !ok {
		return m, nil
	}
	hash := commit.Hash
	return m, func() tea.Msg {
		return ActionRequestedMsg{Action: action, Hash: hash}
	}
}

func (m Model) moveCursor(delta int) (Model, tea.Cmd) {
	return m.setCursor(m.cursor + delta)
}

func (m Model) setCursor(idx int) (Model, tea.Cmd) {
	if len(m.commits) == 0 {
		return m, nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.commits) {
		idx = len(m.commits) - 1
	}
	if idx == m.cursor {
		return m, nil
	}
	m.cursor = idx
	m.selectedHash = m.commits[idx].Hash
	m = m.ensureCursorVisible()
	return m, m.emitSelection()
}

// SelectHash moves the cursor to the commit with the given hash, if
// loaded. Used for mouse clicks resolved by the app.
func (m Model) SelectHash(hash string) (Model, tea.Cmd) {
	if idx, ok := m.indexOf(hash); ok {
		return m.setCursor(idx)
	}
	return m, nil
}

func (m Model) emitSelection() tea.Cmd {
	commit, ok := m.SelectedCommit()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return SelectionChangedMsg{Commit: commit}
	}
}

func (m Model) indexOf(hash string) (int, bool) {
	if hash == "" {
		return 0, false
	}
	if row, ok := m.layout.Rows[hash]; ok {
		return row, true
	}
	return 0, false
}

// viewportRows is the number of commit rows visible inside the border.
func (m Model) viewportRows() int {
	return max(m.height-2, 1)
}

func (m Model) ensureCursorVisible() Model {
	rows := m.viewportRows()
	if m.cursor < m.scrollTop {
		m.scrollTop = m.cursor
	} else if m.cursor >= m.scrollTop+rows {
		m.scrollTop = m.cursor - rows + 1
	}
	return m.clampScroll()
}

func (m Model) clampScroll() Model {
	maxTop := max(len(m.commits)-m.viewportRows(), 0)
	if m.scrollTop > maxTop {
		m.scrollTop = maxTop
	}
	if m.scrollTop < 0 {
		m.scrollTop = 0
	}
	return m
}

// window computes the virtualization window for the current scroll
// position. Terminal rows are one cell tall.
func (m Model) window() graph.Window {
	return graph.ComputeWindow(m.scrollTop, m.viewportRows(), 1, m.overscan, len(m.commits))
}
