// Package details renders the commit details pane: metadata, the
// message body as markdown, and a colorized patch.
package details

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/gitlanes/internal/git/application"
	domain "github.com/zjrosen/gitlanes/internal/git/domain"
	"github.com/zjrosen/gitlanes/internal/log"
	"github.com/zjrosen/gitlanes/internal/ui/styles"
)

// DiffLoadedMsg delivers an async patch fetch. Hash identifies the
// commit the patch belongs to so stale results can be dropped.
type DiffLoadedMsg struct {
	Hash string
	Diff string
	Err  error
}

// Model holds the details pane state.
type Model struct {
	source application.DiffSource

	commit    domain.CommitRecord
	hasCommit bool
	diff      string
	loading   bool
	err       error

	viewport viewport.Model
	renderer *glamour.TermRenderer

	width   int
	height  int
	focused bool
}

// New creates an empty details pane backed by source.
func New(source application.DiffSource) Model {
	return Model{
		source:   source,
		viewport: viewport.New(0, 0),
	}
}

// SetSize updates the pane dimensions and rebuilds the markdown
// renderer for the new wrap width.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-2, 1)
	m.viewport.Height = max(height-2, 1)

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	); err == nil {
		m.renderer = r
	}
	m.viewport.SetContent(m.renderContent())
	return m
}

// Focus routes scroll keys to this pane.
func (m Model) Focus() Model  { m.focused = true; return m }
func (m Model) Blur() Model   { m.focused = false; return m }
func (m Model) Focused() bool { return m.focused }

// Commit returns the commit shown, or false when the pane is empty.
func (m Model) Commit() (domain.CommitRecord, bool) {
	return m.commit, m.hasCommit
}

// SetCommit switches the pane to a new commit and starts the patch
// fetch for it.
func (m Model) SetCommit(commit domain.CommitRecord) (Model, tea.Cmd) {
	if m.hasCommit && m.commit.Hash == commit.Hash {
		return m, nil
	}
	m.commit = commit
	m.hasCommit = true
	m.diff = ""
	m.err = nil
	m.loading = true
	m.viewport.GotoTop()
	m.viewport.SetContent(m.renderContent())

	source := m.source
	hash := commit.Hash
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		diff, err := source.CommitDiff(ctx, hash)
		return DiffLoadedMsg{Hash: hash, Diff: diff, Err: err}
	}
}

// Update handles messages for the details pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DiffLoadedMsg:
		if !m.hasCommit || msg.Hash != m.commit.Hash {
			log.Debug(log.CatUI, "Dropping stale diff", "hash", msg.Hash)
			return m, nil
		}
		m.loading = false
		m.diff = msg.Diff
		m.err = msg.Err
		m.viewport.SetContent(m.renderContent())
		return m, nil
	case tea.KeyMsg:
		if m.focused {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View renders the pane inside a titled border.
func (m Model) View() string {
	title := "Details"
	if m.hasCommit {
		short := m.commit.ShortHash
		if short == "" && len(m.commit.Hash) >= 7 {
			short = m.commit.Hash[:7]
		}
		title = "Details: " + short
	}
	return styles.RenderWithTitleBorder(
		m.viewport.View(), title, "",
		m.width, m.height, m.focused,
		styles.TextPrimaryColor, styles.BorderHighlightFocusColor,
	)
}

func (m Model) renderContent() string {
	if !m.hasCommit {
		return styles.StatusBarStyle.Render("Select a commit")
	}

	var b strings.Builder
	b.WriteString(styles.HashStyle.Render(m.commit.Hash))
	b.WriteString("\n")
	b.WriteString(styles.AuthorStyle.Render("Author: " + m.commit.Author))
	b.WriteString("\n")
	if !m.commit.Timestamp.IsZero() {
		b.WriteString(styles.DateStyle.Render(fmt.Sprintf("Date:   %s (%s)",
			m.commit.Timestamp.Format("2006-01-02 15:04"),
			styles.FormatRelativeTime(m.commit.Timestamp, time.Now()))))
		b.WriteString("\n")
	}
	if len(m.commit.Refs) > 0 {
		for _, ref := range m.commit.Refs {
			b.WriteString(styles.FormatRefBadge(ref))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.SubjectStyle.Render(m.commit.Subject))
	b.WriteString("\n")

	if m.commit.Body != "" {
		b.WriteString(m.renderBody(m.commit.Body))
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString("\n")
		b.WriteString(styles.StatusBarStyle.Render("Loading diff..."))
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(m.err.Error()))
	case m.diff != "":
		b.WriteString("\n")
		b.WriteString(renderDiff(m.diff))
	}
	return b.String()
}

// renderBody runs the message body through glamour. Commit bodies are
// frequently markdown-ish; when rendering fails the body is word
// wrapped as plain text instead.
func (m Model) renderBody(body string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(body); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return wordwrap.String(body, max(m.width-4, 20))
}

var (
	diffAddStyle    = lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	diffDelStyle    = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	diffHunkStyle   = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	diffHeaderStyle = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Bold(true)
	diffEmphStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// renderDiff colorizes a unified diff. A lone removed line followed by
// a lone added line additionally gets word-level emphasis on the
// changed spans.
func renderDiff(diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "diff --git"), strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "),
			strings.HasPrefix(line, "new file"), strings.HasPrefix(line, "deleted file"):
			out = append(out, diffHeaderStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			out = append(out, diffHunkStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			if i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+") && isLoneChange(lines, i) {
				del, add := renderLinePair(line[1:], lines[i+1][1:])
				out = append(out, diffDelStyle.Render("-")+del, diffAddStyle.Render("+")+add)
				i++
				continue
			}
			out = append(out, diffDelStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			out = append(out, diffAddStyle.Render(line))
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// isLoneChange reports whether lines[i] starts a single -/+ pair rather
// than a block of removals.
func isLoneChange(lines []string, i int) bool {
	if i > 0 && strings.HasPrefix(lines[i-1], "-") {
		return false
	}
	if i+2 < len(lines) && strings.HasPrefix(lines[i+2], "+") {
		return false
	}
	return true
}

// renderLinePair highlights the differing spans between a removed and
// an added line.
func renderLinePair(oldLine, newLine string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var del, add strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			del.WriteString(diffDelStyle.Render(d.Text))
			add.WriteString(diffAddStyle.Render(d.Text))
		case diffmatchpatch.DiffDelete:
			del.WriteString(diffDelStyle.Inherit(diffEmphStyle).Render(d.Text))
		case diffmatchpatch.DiffInsert:
			add.WriteString(diffAddStyle.Inherit(diffEmphStyle).Render(d.Text))
		}
	}
	return del.String(), add.String()
}
