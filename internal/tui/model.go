// Package tui is the interactive mood dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mindwell/moodboard/internal/config"
	"github.com/mindwell/moodboard/internal/core"
	"github.com/mindwell/moodboard/internal/progress"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type autoRefreshMsg struct{}

type progressMsg progress.Result

// SessionChangedMsg is sent when the session file changes underneath the
// dashboard. A non-nil Err means the user is no longer logged in.
type SessionChangedMsg struct {
	Session config.Session
	Err     error
}

type timeRangePersistedMsg struct{ err error }

type themePersistedMsg struct{ err error }

const (
	minWidth  = 40
	minHeight = 16
)

type Options struct {
	Context     context.Context
	Session     config.Session
	Loader      *progress.Loader
	TimeRange   core.TimeRange
	AutoRefresh time.Duration

	// PersistTimeRange and PersistTheme default to the config file.
	PersistTimeRange func(core.TimeRange) error
	PersistTheme     func(string) error

	// Now dates the header; defaults to time.Now.
	Now func() time.Time
}

type Model struct {
	ctx         context.Context
	session     config.Session
	expired     bool
	loader      *progress.Loader
	timeRange   core.TimeRange
	autoRefresh time.Duration

	result     *progress.Result
	refreshing bool
	showHelp   bool
	status     string

	width     int
	height    int
	animFrame int

	persistTimeRange func(core.TimeRange) error
	persistTheme     func(string) error
	now              func() time.Time
}

func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		ctx:              ctx,
		session:          opts.Session,
		expired:          opts.Session.UserID <= 0,
		loader:           opts.Loader,
		timeRange:        core.ParseTimeRange(string(opts.TimeRange)),
		autoRefresh:      opts.AutoRefresh,
		persistTimeRange: opts.PersistTimeRange,
		persistTheme:     opts.PersistTheme,
		now:              opts.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.persistTimeRange == nil {
		m.persistTimeRange = config.SaveTimeRange
	}
	if m.persistTheme == nil {
		m.persistTheme = config.SaveTheme
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if !m.expired {
		cmds = append(cmds, m.fetchCmd())
	}
	if m.autoRefresh > 0 {
		cmds = append(cmds, m.autoRefreshCmd())
	}
	return tea.Batch(cmds...)
}

// fetchCmd starts a new generation now and loads it in the background. Any
// fetch still in flight is cancelled.
func (m Model) fetchCmd() tea.Cmd {
	gen, ctx := m.loader.Begin(m.ctx)
	userID, tr := m.session.UserID, m.timeRange
	loader := m.loader
	return func() tea.Msg {
		return progressMsg(loader.Load(ctx, gen, userID, tr))
	}
}

func (m Model) autoRefreshCmd() tea.Cmd {
	return tea.Tick(m.autoRefresh, func(time.Time) tea.Msg { return autoRefreshMsg{} })
}

func (m Model) persistTimeRangeCmd() tea.Cmd {
	tr, persist := m.timeRange, m.persistTimeRange
	return func() tea.Msg {
		err := persist(tr)
		if err != nil {
			log.Printf("time range persist: %v", err)
		}
		return timeRangePersistedMsg{err: err}
	}
}

func (m Model) persistThemeCmd(name string) tea.Cmd {
	persist := m.persistTheme
	return func() tea.Msg {
		err := persist(name)
		if err != nil {
			log.Printf("theme persist: %v", err)
		}
		return themePersistedMsg{err: err}
	}
}

func (m Model) refresh() (Model, tea.Cmd) {
	if m.expired {
		return m, nil
	}
	m.refreshing = true
	return m, m.fetchCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.animFrame++
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case autoRefreshMsg:
		next, cmd := m.refresh()
		return next, tea.Batch(cmd, m.autoRefreshCmd())

	case progressMsg:
		res := progress.Result(msg)
		if !m.loader.Accept(res) {
			return m, nil
		}
		m.refreshing = false
		if errors.Is(res.Err, config.ErrNoSession) {
			m.expired = true
			return m, nil
		}
		m.result = &res
		return m, nil

	case SessionChangedMsg:
		if msg.Err != nil {
			m.expired = true
			m.refreshing = false
			m.loader.Stop()
			return m, nil
		}
		changed := m.expired || msg.Session.UserID != m.session.UserID
		m.session = msg.Session
		m.expired = msg.Session.UserID <= 0
		if changed {
			m.result = nil
			return m.refresh()
		}
		return m, nil

	case timeRangePersistedMsg:
		if msg.err != nil {
			m.status = "could not save time range"
		}
		return m, nil

	case themePersistedMsg:
		if msg.err != nil {
			m.status = "could not save theme"
		} else {
			m.status = "theme: " + ActiveTheme().Name
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || (key == "q" && !m.showHelp) {
		m.loader.Stop()
		return m, tea.Quit
	}
	if key == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.expired {
		return m, nil
	}

	switch key {
	case "r":
		m.status = ""
		return m.refresh()
	case "t", "T":
		step := 1
		if key == "T" {
			step = -1
		}
		m.timeRange = core.NextTimeRange(m.timeRange, step)
		m.status = ""
		next, cmd := m.refresh()
		return next, tea.Batch(cmd, next.persistTimeRangeCmd())
	case "c":
		name := CycleTheme()
		return m, m.persistThemeCmd(name)
	}
	return m, nil
}

func (m Model) View() string {
	if m.width < minWidth || m.height < minHeight {
		return dimStyle.Render(fmt.Sprintf("\n  Terminal too small. Resize to at least %d×%d.", minWidth, minHeight))
	}
	if m.showHelp {
		return m.renderHelpOverlay(m.width, m.height)
	}
	if m.expired {
		return m.renderSessionExpired()
	}

	header := m.renderHeader(m.width)
	footer := m.renderFooter(m.width)
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < 3 {
		contentH = 3
	}
	content := m.renderContent(m.width, contentH)
	return header + "\n" + padToHeight(content, contentH) + "\n" + footer
}

// headerDateLayout reads like "Saturday, January 6, 2024".
const headerDateLayout = "Monday, January 2, 2006"

func (m Model) renderHeader(w int) string {
	brand := brandStyle.Render("◉ Moodboard")
	who := subtextStyle.Render(ansi.Truncate(m.session.DisplayName(), w/3, "…"))
	rangeLabel := headerStyle.Render(m.timeRange.Label()) + dimStyle.Render(" · ") +
		subtextStyle.Render(m.now().Format(headerDateLayout))

	spinner := ""
	if m.refreshing || m.result == nil {
		spinner = " " + lipgloss.NewStyle().Foreground(colorAccent).Render(SpinnerFrames[m.animFrame%len(SpinnerFrames)])
	}

	summary := ""
	if m.result != nil && !m.result.Failed() && !m.result.Insights.Empty {
		in := m.result.Insights
		summary = lipgloss.NewStyle().Foreground(TrendColor(in.Trend)).
			Render(fmt.Sprintf("%s %s/5", TrendIcon(in.Trend), in.AverageText))
	}

	left := brand + "  " + who + spinner
	right := rangeLabel
	if summary != "" {
		right = summary + "  " + rangeLabel
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return line + "\n" + separator(w)
}

func (m Model) renderFooter(w int) string {
	status := m.status
	if status == "" {
		status = "r refresh · t/T range · c theme · ? help · q quit"
	}
	return separator(w) + "\n " + helpStyle.Render(ansi.Truncate(status, w-2, "…"))
}

func (m Model) renderContent(w, h int) string {
	if m.result == nil {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dimStyle.Render("Loading your progress…"))
	}
	if m.result.Failed() {
		msg := errorStyle.Render(progress.ErrorMessage) + "\n" + dimStyle.Render("press r to try again")
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, msg)
	}

	res := m.result
	innerW := w - 4
	today := " " + sectionTitleStyle.Render("Today") + "  " + textStyle.Render(res.Today.Label())

	insightBody := subtextStyle.Render(strings.Join(res.Insights.Lines(), "\n"))
	if !res.Insights.Empty {
		insightBody = RenderMoodGauge(res.Insights.Average, min(innerW-12, 40)) + "\n\n" + insightBody
	}
	insights := panelStyle.Width(innerW).Render(
		sectionTitleStyle.Render("Insights") + "\n" + insightBody,
	)

	chartH := h - lipgloss.Height(today) - lipgloss.Height(insights) - 3
	if chartH < 5 {
		chartH = 5
	}
	chart := panelStyle.Width(innerW).Render(
		sectionTitleStyle.Render("Mood over time") + "\n" + RenderMoodChart(res.Chart, innerW-2, chartH),
	)

	return today + "\n\n" + chart + "\n" + insights
}

func (m Model) renderSessionExpired() string {
	msg := strings.Join([]string{
		errorStyle.Render("Your session has ended."),
		"",
		textStyle.Render("Run ") + helpKeyStyle.Render("moodboard login") + textStyle.Render(" to sign in again."),
		"",
		dimStyle.Render("q to quit"),
	}, "\n")
	return centerBox(msg, m.width, m.height)
}

func separator(w int) string {
	if w <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(colorSurface).Render(strings.Repeat("━", w))
}

func padToHeight(content string, h int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
