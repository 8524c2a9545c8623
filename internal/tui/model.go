package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vburojevic/jittail/internal/annotate"
	"github.com/vburojevic/jittail/internal/domain"
	"github.com/vburojevic/jittail/internal/output"
	"github.com/vburojevic/jittail/internal/tail"
)

// DemoPattern is offered as the pattern placeholder
const DemoPattern = "[WARM-COLD]"

var (
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Model represents the TUI state
type Model struct {
	session  *tail.Session
	ctx      context.Context
	initial  domain.LogQuery
	interval time.Duration
	mode     string

	snap      tail.Snapshot
	content   string
	viewport  viewport.Model
	textinput textinput.Model
	width     int
	height    int
	ready     bool
	editing   bool
	follow    bool
	notice    string
}

// Options configures the model
type Options struct {
	Query    domain.LogQuery
	Interval time.Duration
	// Mode is shown in the header, e.g. "mock" or the API host
	Mode string
}

// FetchedMsg carries the outcome of one session operation
type FetchedMsg struct {
	Op    string
	Items []domain.RawLogItem
	Err   error
}

// TickMsg triggers a poll
type TickMsg time.Time

// New creates a new TUI model. Nothing is fetched until Init runs.
func New(ctx context.Context, session *tail.Session, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = DemoPattern
	ti.Prompt = "pattern: "
	ti.CharLimit = 200
	ti.Width = 40

	interval := opts.Interval
	if interval <= 0 {
		interval = tail.DefaultPollInterval
	}

	return Model{
		session:   session,
		ctx:       ctx,
		initial:   opts.Query,
		interval:  interval,
		mode:      opts.Mode,
		textinput: ti,
		follow:    true,
	}
}

// Init starts the session and the poll timer
func (m Model) Init() tea.Cmd {
	q := m.initial
	return tea.Batch(
		m.fetch("start", func(ctx context.Context) ([]domain.RawLogItem, error) {
			return m.session.Start(ctx, q)
		}),
		tickCmd(m.interval),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "esc":
				m.editing = false
				m.textinput.Blur()
				m.textinput.SetValue(m.snap.Query.Pattern)
			case "enter":
				m.editing = false
				m.textinput.Blur()
				q := m.session.Query()
				q.Pattern = strings.TrimSpace(m.textinput.Value())
				cmds = append(cmds, m.setQuery(q))
			default:
				m.textinput, cmd = m.textinput.Update(msg)
				cmds = append(cmds, cmd)
			}
			break
		}

		m.notice = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space", "p":
			m.session.SetLive(!m.session.Live())
			m.refresh()
		case "r":
			cmds = append(cmds, m.fetch("refresh", m.session.RefreshNow))
		case "m":
			if m.session.CanLoadMore() {
				cmds = append(cmds, m.fetch("load_more", m.session.LoadMore))
			} else {
				m.notice = "no more pages"
			}
		case "x":
			cmds = append(cmds, m.fetch("reset", m.session.Reset))
		case "tab":
			q := m.session.Query()
			q.Group = q.Group.Next()
			cmds = append(cmds, m.setQuery(q))
		case "w":
			q := m.session.Query()
			q.WindowMinutes = domain.NextWindow(q.WindowMinutes)
			cmds = append(cmds, m.setQuery(q))
		case "/":
			m.editing = true
			m.textinput.SetValue(m.session.Query().Pattern)
			m.textinput.Focus()
			return m, textinput.Blink
		case "f":
			m.follow = !m.follow
			if m.follow && m.ready {
				m.viewport.GotoBottom()
			}
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		case "j", "down":
			m.viewport.LineDown(1)
		case "k", "up":
			m.viewport.LineUp(1)
		case "ctrl+d", "pgdown":
			m.viewport.HalfViewDown()
		case "ctrl+u", "pgup":
			m.viewport.HalfViewUp()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.render()

	case FetchedMsg:
		switch {
		case msg.Err == nil:
		case errors.Is(msg.Err, tail.ErrSuperseded), errors.Is(msg.Err, context.Canceled):
		case errors.Is(msg.Err, tail.ErrInFlight):
			m.notice = "fetch in progress"
		case errors.Is(msg.Err, tail.ErrNoCursor):
			m.notice = "no more pages"
		case errors.Is(msg.Err, domain.ErrInvalidQuery):
			m.notice = msg.Err.Error()
		}
		m.refresh()

	case TickMsg:
		if m.session.Live() {
			cmds = append(cmds, m.fetch("tick", m.session.Tick))
		}
		cmds = append(cmds, tickCmd(m.interval))
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

// fetch runs a session operation off the update loop
func (m Model) fetch(op string, fn func(context.Context) ([]domain.RawLogItem, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		items, err := fn(ctx)
		return FetchedMsg{Op: op, Items: items, Err: err}
	}
}

func (m Model) setQuery(q domain.LogQuery) tea.Cmd {
	return m.fetch("set_query", func(ctx context.Context) ([]domain.RawLogItem, error) {
		return m.session.SetQuery(ctx, q)
	})
}

// refresh pulls a fresh snapshot and re-renders the view
func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	m.render()
}

func (m *Model) render() {
	lines := make([]string, 0, len(m.snap.View))
	for _, item := range m.snap.View {
		lines = append(lines, m.formatLine(item))
	}
	m.content = strings.Join(lines, "\n")

	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content)
	if m.follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderHeader() string {
	titleStyle := output.Styles.Title.
		Background(lipgloss.Color("236")).
		Width(m.width)

	q := m.snap.Query
	title := fmt.Sprintf("jittail: %s (%s) last %dm", q.Group.Label(), q.Group.Key(), q.WindowMinutes)
	if m.mode != "" {
		title += " @ " + m.mode
	}
	if !m.follow {
		title += " [NO-FOLLOW]"
	}

	info := fmt.Sprintf("%s | Lines: %d", output.StatusText(m.snap.Live), len(m.snap.View))
	if q.Pattern != "" {
		info += fmt.Sprintf(" | Pattern: %q", q.Pattern)
	}
	if m.snap.InFlight {
		info += " | fetching..."
	}
	if m.snap.Cursor != "" {
		info += " | more (m)"
	}
	if !m.snap.LastUpdated.IsZero() {
		info += " | Updated " + m.snap.LastUpdated.Local().Format("15:04:05")
	}
	if m.snap.LastError != nil {
		label := "Error"
		if m.snap.IsOffline() {
			label = fmt.Sprintf("Offline (%d failures)", m.snap.ConsecutiveFailures)
		}
		info += " | " + output.Styles.Danger.Render(label+": "+m.snap.LastError.Error())
	}
	if m.notice != "" {
		info += " | " + noticeStyle.Render(m.notice)
	}

	infoStyle := output.Styles.Help.Width(m.width)
	return titleStyle.Render(title) + "\n" + infoStyle.Render(info)
}

func (m *Model) renderFooter() string {
	if m.editing {
		return m.textinput.View()
	}
	help := "q:quit space:live r:refresh m:more x:reset tab:group w:window /:pattern f:follow g/G:top/bottom j/k:scroll"
	return output.Styles.Help.Width(m.width).Render(help)
}

func (m *Model) formatLine(item domain.RawLogItem) string {
	ev := annotate.Annotate(m.snap.Query.Group, item.Message)
	if ev.IsWorkflow() {
		return output.FormatLine(&output.Entry{Item: item, Event: ev, Group: m.snap.Query.Group})
	}

	msg := item.DisplayMessage()
	maxMsgLen := m.width - 40
	if maxMsgLen < 20 {
		maxMsgLen = 20
	}
	msg = truncate(msg, maxMsgLen)
	styled := output.SeverityStyle(ev.Severity).Render(msg)
	if m.snap.Query.Pattern != "" {
		styled = highlight(msg, m.snap.Query.Pattern)
	}

	line := output.Styles.Timestamp.Render(item.Timestamp.Local().Format("15:04:05")) + " " +
		output.SeverityIndicator(ev.Severity) + " "
	if stream := item.StreamName(); stream != "" {
		line += output.Styles.Stream.Render("["+stream+"]") + " "
	}
	return line + styled
}

func highlight(s, query string) string {
	if query == "" || s == "" {
		return s
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		b.WriteString(s[last:loc[0]])
		b.WriteString(highlightStyle.Render(s[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// tickCmd schedules the next poll
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
