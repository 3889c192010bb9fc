// Package app composes the history and details panes into the root
// bubbletea model and owns cross-cutting concerns: focus, mouse zones,
// repository actions, auto-refresh, and view-state persistence.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/gitlanes/internal/git/application"
	"github.com/zjrosen/gitlanes/internal/infrastructure/sqlite"
	"github.com/zjrosen/gitlanes/internal/log"
	"github.com/zjrosen/gitlanes/internal/ui/details"
	"github.com/zjrosen/gitlanes/internal/ui/history"
	"github.com/zjrosen/gitlanes/internal/ui/styles"
)

// RepoChangedMsg is sent by the filesystem watcher when refs moved.
type RepoChangedMsg struct{}

// ActionDoneMsg reports the outcome of a repository action.
type ActionDoneMsg struct {
	Action history.ActionKind
	Hash   string
	Err    error
}

type focusArea int

const (
	focusHistory focusArea = iota
	focusDetails
)

// Invalidator is implemented by caching log sources that can be told
// to drop stale pages before a refresh.
type Invalidator interface {
	Invalidate()
}

// Options wires the app's collaborators.
type Options struct {
	Source   application.LogSource
	Diffs    application.DiffSource
	Actions  application.RepoActions
	States   *sqlite.ViewStateRepository
	RepoPath string
	PageSize int
	Overscan int
}

// Model is the root bubbletea model.
type Model struct {
	history history.Model
	details details.Model
	spinner spinner.Model

	actions  application.RepoActions
	source   application.LogSource
	states   *sqlite.ViewStateRepository
	repoPath string

	prompt       textinput.Model
	promptActive bool
	promptAction history.ActionKind
	promptHash   string

	status    string
	statusErr bool

	focus  focusArea
	width  int
	height int
}

// New builds the root model, restoring persisted view state when a
// repository entry exists.
func New(opts Options) Model {
	h := history.New(opts.Source, opts.PageSize, opts.Overscan)

	if opts.States != nil {
		if state, err := opts.States.FindByRepoPath(opts.RepoPath); err == nil {
			h = h.RestoreState(state.SelectedHash, state.Branch,
				state.AllBranches, state.FirstParentOnly,
				state.CommitLimit, state.ScrollTop)
			log.Debug(log.CatApp, "Restored view state", "repo", opts.RepoPath, "hash", state.SelectedHash)
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.BorderHighlightFocusColor)

	input := textinput.New()
	input.CharLimit = 100

	return Model{
		history:  h.Focus(),
		details:  details.New(opts.Diffs),
		spinner:  sp,
		actions:  opts.Actions,
		source:   opts.Source,
		states:   opts.States,
		repoPath: opts.RepoPath,
		prompt:   input,
	}
}

// WithQuery overrides the history filters before the first load, used
// when flags should win over restored state.
func (m Model) WithQuery(branch string, allBranches, firstParentOnly bool) Model {
	m.history = m.history.WithFilters(branch, allBranches, firstParentOnly)
	return m
}

// Init starts the initial history load and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.history.Init(), m.spinner.Tick)
}

// Update routes messages to the panes and handles app-level concerns.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case history.SelectionChangedMsg:
		var cmd tea.Cmd
		m.details, cmd = m.details.SetCommit(msg.Commit)
		return m, cmd

	case history.ActionRequestedMsg:
		return m.beginAction(msg)

	case ActionDoneMsg:
		return m.finishAction(msg)

	case RepoChangedMsg:
		if inv, ok := m.source.(Invalidator); ok {
			inv.Invalidate()
		}
		m.status = "Repository changed, refreshing"
		m.statusErr = false
		var cmd tea.Cmd
		m.history, cmd = m.history.Reload()
		return m, cmd

	case history.CommitsLoadedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
			m.statusErr = true
		}
		return m.forward(msg)

	case details.DiffLoadedMsg:
		return m.forward(msg)
	}

	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	cmds = append(cmds, cmd)
	m.details, cmd = m.details.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptActive {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.persistState()
		return m, tea.Quit
	case "tab":
		if m.focus == focusHistory {
			m.focus = focusDetails
			m.history = m.history.Blur()
			m.details = m.details.Focus()
		} else {
			m.focus = focusHistory
			m.details = m.details.Blur()
			m.history = m.history.Focus()
		}
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	for _, hash := range m.history.VisibleHashes() {
		if zone.Get(history.ZoneID(hash)).InBounds(msg) {
			var cmd tea.Cmd
			m.history, cmd = m.history.SelectHash(hash)
			return m, cmd
		}
	}
	return m, nil
}

// beginAction starts a repository action. Branch and tag creation need
// a name, revert and cherry-pick ask for confirmation, copy is
// immediate.
func (m Model) beginAction(msg history.ActionRequestedMsg) (tea.Model, tea.Cmd) {
	if msg.Action == history.ActionCopyHash {
		m.status = "Hash: " + msg.Hash
		m.statusErr = false
		return m, nil
	}
	if m.actions == nil {
		m.status = "Repository actions unavailable"
		m.statusErr = true
		return m, nil
	}

	m.promptActive = true
	m.promptAction = msg.Action
	m.promptHash = msg.Hash
	m.prompt.SetValue("")

	switch msg.Action {
	case history.ActionCreateBranch:
		m.prompt.Prompt = "Branch name: "
	case history.ActionCreateTag:
		m.prompt.Prompt = "Tag name: "
	case history.ActionRevert:
		m.prompt.Prompt = fmt.Sprintf("Revert %.7s? (y/n) ", m.promptHash)
	case history.ActionCherryPick:
		m.prompt.Prompt = fmt.Sprintf("Cherry-pick %.7s? (y/n) ", m.promptHash)
	}
	m.prompt.Focus()
	return m, textinput.Blink
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.promptActive = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		value := m.prompt.Value()
		action := m.promptAction
		hash := m.promptHash
		m.promptActive = false
		m.prompt.Blur()
		return m, m.runAction(action, hash, value)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) runAction(action history.ActionKind, hash, value string) tea.Cmd {
	actions := m.actions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var err error
		switch action {
		case history.ActionCreateBranch:
			if value == "" {
				err = fmt.Errorf("branch name required")
			} else {
				err = actions.CreateBranch(ctx, value, hash)
			}
		case history.ActionCreateTag:
			if value == "" {
				err = fmt.Errorf("tag name required")
			} else {
				err = actions.CreateTag(ctx, value, hash)
			}
		case history.ActionRevert:
			if value != "y" && value != "yes" {
				return ActionDoneMsg{Action: action, Hash: hash, Err: errCancelled}
			}
			err = actions.Revert(ctx, hash)
		case history.ActionCherryPick:
			if value != "y" && value != "yes" {
				return ActionDoneMsg{Action: action, Hash: hash, Err: errCancelled}
			}
			err = actions.CherryPick(ctx, hash)
		}
		return ActionDoneMsg{Action: action, Hash: hash, Err: err}
	}
}

var errCancelled = fmt.Errorf("cancelled")

func (m Model) finishAction(msg ActionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if msg.Err == errCancelled {
			m.status = "Cancelled"
			m.statusErr = false
			return m, nil
		}
		m.status = msg.Err.Error()
		m.statusErr = true
		log.ErrorErr(log.CatApp, "Repository action failed", msg.Err, "hash", msg.Hash)
		return m, nil
	}

	m.status = actionLabel(msg.Action) + " done"
	m.statusErr = false
	if inv, ok := m.source.(Invalidator); ok {
		inv.Invalidate()
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Reload()
	return m, cmd
}

func actionLabel(action history.ActionKind) string {
	switch action {
	case history.ActionCreateBranch:
		return "Branch"
	case history.ActionCreateTag:
		return "Tag"
	case history.ActionRevert:
		return "Revert"
	case history.ActionCherryPick:
		return "Cherry-pick"
	default:
		return "Action"
	}
}

// persistState saves selection, filters, and scroll position for the
// next launch. Failures are logged, not surfaced; losing view state is
// not worth blocking exit.
func (m Model) persistState() {
	if m.states == nil {
		return
	}
	state := &sqlite.ViewState{
		RepoPath:        m.repoPath,
		Branch:          m.history.Query().Branch,
		AllBranches:     m.history.Query().AllBranches,
		FirstParentOnly: m.history.Query().FirstParentOnly,
		CommitLimit:     m.history.Limit(),
		ScrollTop:       m.history.ScrollTop(),
	}
	if commit, ok := m.history.SelectedCommit(); ok {
		state.SelectedHash = commit.Hash
	}
	if existing, err := m.states.FindByRepoPath(m.repoPath); err == nil {
		state.GUID = existing.GUID
		state.CreatedAt = existing.CreatedAt
	}
	if err := m.states.Save(state); err != nil {
		log.ErrorErr(log.CatApp, "Failed to persist view state", err, "repo", m.repoPath)
	}
}

func (m Model) layout() Model {
	statusHeight := 1
	paneHeight := max(m.height-statusHeight, 3)
	historyWidth := m.width * 55 / 100
	detailsWidth := m.width - historyWidth

	m.history = m.history.SetSize(historyWidth, paneHeight)
	m.details = m.details.SetSize(detailsWidth, paneHeight)
	return m
}

// View renders the two panes over a one-line status bar.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.history.View(), m.details.View())
	return zone.Scan(panes + "\n" + m.statusBar())
}

func (m Model) statusBar() string {
	if m.promptActive {
		return m.prompt.View()
	}

	left := "q quit | tab focus | j/k move | L more | a all | f first-parent | r refresh | b branch | t tag"
	if m.status != "" {
		style := styles.StatusBarStyle
		if m.statusErr {
			style = styles.ErrorStyle
		}
		left = style.Render(m.status)
	} else {
		left = styles.StatusBarStyle.Render(left)
	}

	if m.history.Loading() {
		return m.spinner.View() + " " + left
	}
	return left
}
