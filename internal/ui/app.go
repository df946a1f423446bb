package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prabalesh/paneltop/internal/models"
)

// Fetcher is the status API as the dashboard sees it.
type Fetcher interface {
	Status(ctx context.Context) (models.StatusSnapshot, error)
	AppsStorage(ctx context.Context) (models.AppsStorage, error)
	Logs(ctx context.Context) (models.LogBlob, error)
	Restart(ctx context.Context) (models.ActionResult, error)
	ClearCache(ctx context.Context) (models.ActionResult, error)
}

// Scheduler is the handle of the task that sends RefreshMsg.
type Scheduler interface {
	Pause()
	Resume()
	Paused() bool
}

const (
	tabOverview = iota
	tabApps
	tabLogs
)

const (
	sourceStatus = "status"
	sourceApps   = "apps"
	sourceLogs   = "logs"
)

type alert struct {
	text   string
	failed bool
}

type App struct {
	ctx       context.Context
	fetcher   Fetcher
	source    string
	interval  time.Duration
	scheduler Scheduler
	logger    *slog.Logger

	keys      keyMap
	help      help.Model
	tabs      []string
	activeTab int
	width     int
	height    int
	// Vertical scrolling state
	verticalScrollOffset int
	contentHeight        int

	// Overview fields, replaced by each successful status fetch
	snapshot      models.StatusSnapshot
	haveStatus    bool
	cpuText       string
	ramText       string
	storageText   string
	storageDetail string
	uptimeText    string

	// Apps list and the chart it feeds
	appRows  []string
	haveApps bool
	chart    *PieChart

	logs     viewport.Model
	haveLogs bool

	errs       map[string]error
	lastUpdate time.Time
	alert      *alert

	cpuProgress     progress.Model
	ramProgress     progress.Model
	storageProgress progress.Model
}

type Option func(*App)

// WithSource sets the server address shown in the title.
func WithSource(source string) Option {
	return func(a *App) { a.source = source }
}

func WithInterval(d time.Duration) Option {
	return func(a *App) { a.interval = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithChart hands the dashboard an existing chart to render apps into.
func WithChart(chart *PieChart) Option {
	return func(a *App) { a.chart = chart }
}

// WithContext sets the context fetches run under.
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.ctx = ctx }
}

func NewApp(fetcher Fetcher, opts ...Option) *App {
	a := &App{
		ctx:             context.Background(),
		fetcher:         fetcher,
		logger:          slog.Default(),
		keys:            defaultKeyMap(),
		help:            help.New(),
		tabs:            []string{"Overview", "Apps", "Logs"},
		logs:            viewport.New(80, 20),
		errs:            make(map[string]error),
		cpuProgress:     progress.New(progress.WithDefaultGradient()),
		ramProgress:     progress.New(progress.WithDefaultGradient()),
		storageProgress: progress.New(progress.WithDefaultGradient()),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AttachScheduler lets the pause key control the polling task.
func (a *App) AttachScheduler(s Scheduler) {
	a.scheduler = s
}

func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("paneltop")
}

// refresh issues the three periodic fetches concurrently. Their results
// arrive independently and in any order.
func (a *App) refresh() tea.Cmd {
	return tea.Batch(a.fetchStatus(), a.fetchApps(), a.fetchLogs())
}

func (a *App) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		snap, err := a.fetcher.Status(a.ctx)
		return statusMsg{snap: snap, err: err}
	}
}

func (a *App) fetchApps() tea.Cmd {
	return func() tea.Msg {
		apps, err := a.fetcher.AppsStorage(a.ctx)
		return appsMsg{apps: apps, err: err}
	}
}

func (a *App) fetchLogs() tea.Cmd {
	return func() tea.Msg {
		blob, err := a.fetcher.Logs(a.ctx)
		return logsMsg{blob: blob, err: err}
	}
}

func (a *App) runAction(name string, call func(context.Context) (models.ActionResult, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := call(a.ctx)
		return actionMsg{name: name, res: res, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		progressWidth := max(10, min(50, a.width-20))
		a.cpuProgress.Width = progressWidth
		a.ramProgress.Width = progressWidth
		a.storageProgress.Width = progressWidth
		a.logs.Width = max(20, a.width-8)
		a.logs.Height = max(3, a.getContentAreaHeight()-6)
		a.help.Width = a.width
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case RefreshMsg:
		return a, a.refresh()

	case statusMsg:
		if msg.err != nil {
			a.recordError(sourceStatus, msg.err)
			return a, nil
		}
		a.applyStatus(msg.snap)

	case appsMsg:
		if msg.err != nil {
			a.recordError(sourceApps, msg.err)
			return a, nil
		}
		a.applyApps(msg.apps.Apps)

	case logsMsg:
		if msg.err != nil {
			a.recordError(sourceLogs, msg.err)
			return a, nil
		}
		a.applyLogs(msg.blob.Logs)

	case actionMsg:
		a.applyAction(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.Quit) && (a.alert == nil || msg.String() == "ctrl+c") {
		return tea.Quit
	}

	// The alert blocks everything else until it is dismissed.
	if a.alert != nil {
		if key.Matches(msg, a.keys.Dismiss) {
			a.alert = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.NextTab):
		if a.activeTab < len(a.tabs)-1 {
			a.activeTab++
			a.verticalScrollOffset = 0
		}
	case key.Matches(msg, a.keys.PrevTab):
		if a.activeTab > 0 {
			a.activeTab--
			a.verticalScrollOffset = 0
		}
	case key.Matches(msg, a.keys.Refresh):
		return a.refresh()
	case key.Matches(msg, a.keys.Pause):
		a.togglePause()
	case key.Matches(msg, a.keys.Restart):
		return a.runAction("restart", a.fetcher.Restart)
	case key.Matches(msg, a.keys.ClearCache):
		return a.runAction("clear-cache", a.fetcher.ClearCache)
	case key.Matches(msg, a.keys.Up), key.Matches(msg, a.keys.Down):
		if a.activeTab == tabLogs {
			var cmd tea.Cmd
			a.logs, cmd = a.logs.Update(msg)
			return cmd
		}
		if key.Matches(msg, a.keys.Up) {
			if a.verticalScrollOffset > 0 {
				a.verticalScrollOffset--
			}
		} else {
			a.verticalScrollOffset++
			a.clampVerticalScroll()
		}
	}
	return nil
}

func (a *App) togglePause() {
	if a.scheduler == nil {
		return
	}
	if a.scheduler.Paused() {
		a.scheduler.Resume()
		a.logger.Info("Polling resumed")
	} else {
		a.scheduler.Pause()
		a.logger.Info("Polling paused")
	}
}

func (a *App) recordError(source string, err error) {
	a.errs[source] = err
	a.logger.Warn("Refresh failed", "source", source, "error", err)
}

func (a *App) applyStatus(snap models.StatusSnapshot) {
	a.snapshot = snap
	a.haveStatus = true
	a.cpuText = formatNumber(snap.CPU)
	a.ramText = formatNumber(snap.RAM)
	a.storageText = formatPercent(snap.Storage.Percent)
	a.storageDetail = FormatMB(snap.Storage.Used) + " / " + FormatMB(snap.Storage.Total)
	a.uptimeText = snap.Uptime
	a.lastUpdate = time.Now()
	delete(a.errs, sourceStatus)
}

func (a *App) applyApps(apps []models.AppStorageEntry) {
	a.appRows, a.chart = RenderApps(a.chart, apps)
	a.haveApps = true
	delete(a.errs, sourceApps)
}

func (a *App) applyLogs(text string) {
	follow := !a.haveLogs || a.logs.AtBottom()
	a.logs.SetContent(text)
	if follow {
		a.logs.GotoBottom()
	}
	a.haveLogs = true
	delete(a.errs, sourceLogs)
}

func (a *App) applyAction(msg actionMsg) {
	if msg.err != nil {
		a.alert = &alert{text: fmt.Sprintf("%s failed: %v", msg.name, msg.err), failed: true}
		a.logger.Error("Action failed", "action", msg.name, "error", msg.err)
		return
	}

	text := msg.res.Message
	if text == "" {
		switch msg.name {
		case "restart":
			text = "Restarted"
		case "clear-cache":
			text = "Cache cleared"
		}
	}
	a.alert = &alert{text: text}
	a.logger.Info("Action completed", "action", msg.name)
}

// Get the height available for content (excluding sticky header elements)
func (a *App) getContentAreaHeight() int {
	// title, tabs, status line and help, each followed by a blank line
	reservedHeight := 8
	return max(1, a.height-reservedHeight)
}

func (a *App) getMaxScrollOffset() int {
	availableHeight := a.getContentAreaHeight()
	if a.contentHeight <= availableHeight {
		return 0
	}
	return a.contentHeight - availableHeight
}

func (a *App) clampVerticalScroll() {
	maxOffset := a.getMaxScrollOffset()
	a.verticalScrollOffset = max(0, min(a.verticalScrollOffset, maxOffset))
}

// Apply vertical scrolling to content by truncating lines
func (a *App) applyVerticalScroll(content string) string {
	lines := strings.Split(content, "\n")
	a.contentHeight = len(lines)

	a.clampVerticalScroll()

	availableHeight := a.getContentAreaHeight()
	if len(lines) <= availableHeight {
		return content
	}

	startLine := a.verticalScrollOffset
	endLine := min(startLine+availableHeight, len(lines))
	result := strings.Join(lines[startLine:endLine], "\n")

	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	if a.verticalScrollOffset > 0 {
		result = indicator.Render("▲ More content above") + "\n" + result
	}
	if a.verticalScrollOffset < a.getMaxScrollOffset() {
		result = result + "\n" + indicator.Render("▼ More content below")
	}
	return result
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	title := "paneltop"
	if a.source != "" {
		title += " · " + a.source
	}

	var content string
	if a.alert != nil {
		content = a.renderAlert()
	} else {
		switch a.activeTab {
		case tabOverview:
			content = a.applyVerticalScroll(a.renderOverview())
		case tabApps:
			content = a.applyVerticalScroll(a.renderApps())
		case tabLogs:
			content = a.renderLogs()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Width(a.width).Render(title),
		"",
		a.renderTabs(),
		"",
		content,
		"",
		a.renderStatusLine(),
		a.help.View(a.keys),
	)
}

func (a *App) renderTabs() string {
	var tabElements []string
	for i, tab := range a.tabs {
		if i == a.activeTab {
			tabElements = append(tabElements, ActiveTabStyle.Render(tab))
		} else {
			tabElements = append(tabElements, InactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, tabElements...)
}

// StatusLines renders a snapshot as label/value lines. It is shared with the
// one-shot status command.
func StatusLines(snap models.StatusSnapshot) []string {
	return []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("CPU:"), severityStyle(snap.CPU).Render(formatPercent(snap.CPU))),
		fmt.Sprintf("%s %s", LabelStyle.Render("RAM:"), severityStyle(snap.RAM).Render(formatPercent(snap.RAM))),
		fmt.Sprintf("%s %s %s", LabelStyle.Render("Storage:"),
			severityStyle(snap.Storage.Percent).Render(formatPercent(snap.Storage.Percent)),
			MutedStyle.Render(FormatMB(snap.Storage.Used)+" / "+FormatMB(snap.Storage.Total))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Uptime:"), ValueStyle.Render(snap.Uptime)),
	}
}

func (a *App) renderOverview() string {
	if !a.haveStatus {
		return BaseStyle.Width(a.width - 4).Render(MutedStyle.Render("Waiting for the first snapshot..."))
	}

	content := []string{
		HeaderStyle.Render("Server Status"),
		"",
		fmt.Sprintf("%s %s", LabelStyle.Render("CPU:"), ValueStyle.Render(a.cpuText+"%")),
		a.cpuProgress.ViewAs(clampRatio(a.snapshot.CPU / 100)),
		"",
		fmt.Sprintf("%s %s", LabelStyle.Render("RAM:"), ValueStyle.Render(a.ramText+"%")),
		a.ramProgress.ViewAs(clampRatio(a.snapshot.RAM / 100)),
		"",
		fmt.Sprintf("%s %s %s", LabelStyle.Render("Storage:"), ValueStyle.Render(a.storageText), MutedStyle.Render(a.storageDetail)),
		a.storageProgress.ViewAs(clampRatio(a.snapshot.Storage.Percent / 100)),
		"",
		fmt.Sprintf("%s %s", LabelStyle.Render("Uptime:"), ValueStyle.Render(a.uptimeText)),
	}

	return BaseStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (a *App) renderApps() string {
	content := []string{HeaderStyle.Render("Apps Storage"), ""}

	switch {
	case !a.haveApps:
		content = append(content, MutedStyle.Render("Waiting for the first listing..."))
	case len(a.appRows) == 0:
		content = append(content, MutedStyle.Render("No apps found"))
	default:
		content = append(content, a.appRows...)
		if a.chart != nil {
			content = append(content, "", HeaderStyle.Render("Share"), "", a.chart.View(max(10, a.width-12)))
		}
	}

	return BaseStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, content...))
}

func (a *App) renderLogs() string {
	body := MutedStyle.Render("Waiting for logs...")
	if a.haveLogs {
		body = a.logs.View()
	}
	return BaseStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("Logs"),
		"",
		body,
	))
}

func (a *App) renderAlert() string {
	style := AlertStyle
	if a.alert.failed {
		style = AlertErrorStyle
	}
	box := style.Render(a.alert.text + "\n\n" + MutedStyle.Render("press enter to dismiss"))
	return lipgloss.Place(a.width, a.getContentAreaHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (a *App) renderStatusLine() string {
	if len(a.errs) > 0 {
		sources := make([]string, 0, len(a.errs))
		for source := range a.errs {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		parts := make([]string, 0, len(sources))
		for _, source := range sources {
			parts = append(parts, fmt.Sprintf("%s: %v", source, a.errs[source]))
		}
		return ErrorStyle.Render(truncateString(strings.Join(parts, " | "), max(10, a.width)))
	}

	var parts []string
	if !a.lastUpdate.IsZero() {
		parts = append(parts, "updated "+a.lastUpdate.Format("15:04:05"))
	}
	if a.scheduler != nil && a.scheduler.Paused() {
		parts = append(parts, WarningStyle.Render("polling paused"))
	} else if a.interval > 0 {
		parts = append(parts, "every "+a.interval.String())
	}
	return MutedStyle.Render(strings.Join(parts, " · "))
}

func clampRatio(v float64) float64 {
	return max(0, min(v, 1))
}
