// Package tui provides the interactive Bubble Tea dashboard for billu.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/billu/internal/cli"
	"github.com/theirongolddev/billu/internal/config"
	"github.com/theirongolddev/billu/internal/forecast"
	"github.com/theirongolddev/billu/internal/goals"
	"github.com/theirongolddev/billu/internal/model"
	"github.com/theirongolddev/billu/internal/pipeline"
	"github.com/theirongolddev/billu/internal/tui/components"
	"github.com/theirongolddev/billu/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// GoalStore is the persistence the dashboard needs for goals.
type GoalStore interface {
	LoadGoals() ([]model.Goal, error)
	AddContribution(g model.Goal, c model.Contribution) error
}

// LoaderFunc loads every ledger transaction, reporting progress.
type LoaderFunc func(progressFn pipeline.ProgressFunc) ([]model.Transaction, error)

// Options configures a new App.
type Options struct {
	Loader    LoaderFunc
	Goals     GoalStore // nil disables the goals tab's persistence
	Forecast  forecast.Options
	Presets   []float64 // quick contribution amounts for keys 1..n
	Config    config.Config
	NeedSetup bool
	Now       func() time.Time
}

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Transactions []model.Transaction
	Goals        []model.Goal
	LoadTime     time.Duration
	Err          error
}

// ProgressMsg reports ledger parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// ContributionSavedMsg is sent after a quick contribution is persisted.
type ContributionSavedMsg struct {
	Goal   model.Goal
	Amount float64
	Err    error
}

const (
	tabForecast = iota
	tabGoals
	tabInsights
)

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	txs      []model.Transaction
	goals    []model.Goal
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// Derived
	months      []model.MonthlyStats
	history     []model.HistoricalPeriod
	points      []model.ForecastPoint
	summary     forecast.Summary
	forecastErr error
	portfolio   goals.PortfolioSummary
	goalsErr    error
	categories  []model.CategoryStats
	weekdays    []model.WeekdayStats
	changes     []pipeline.CategoryChange

	// UI
	width      int
	height     int
	activeTab  int
	showHelp   bool
	goalCursor int
	status     string
	saving     bool

	// First-run setup
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

// Layout constants
const (
	minTerminalWidth = 60
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI application model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Presets) == 0 {
		opts.Presets = goals.ContributionPresets
	}
	if len(opts.Presets) > 9 {
		opts.Presets = opts.Presets[:9]
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		opts:      opts,
		needSetup: opts.NeedSetup,
		setupVals: SetupValuesFrom(opts.Config),
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 16),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		loadDataCmd(a.opts.Loader, a.opts.Goals, a.loadSub),
	)
}

// recompute derives every view from the loaded transactions and goals.
func (a *App) recompute() {
	now := a.opts.Now()

	a.months = pipeline.AggregateMonths(a.txs, time.Time{}, time.Time{})
	a.history = pipeline.History(a.months)
	opts := a.opts.Forecast
	opts.Labels = pipeline.NextMonthLabels(a.months, opts.Horizon, "Jan")
	a.points, a.forecastErr = forecast.Forecast(a.history, opts)
	a.summary = forecast.Summary{}
	if a.forecastErr == nil {
		a.summary, a.forecastErr = forecast.Summarize(a.history, a.points)
	}

	a.categories = pipeline.AggregateCategories(a.txs, time.Time{}, time.Time{})
	a.weekdays = pipeline.AggregateWeekdays(a.txs, time.Time{}, time.Time{})
	a.changes = nil
	if n := len(a.months); n > 0 {
		a.changes = pipeline.CompareCategories(a.txs, a.months[n-1].Month)
	}

	a.recomputeGoals(now)
}

func (a *App) recomputeGoals(now time.Time) {
	a.portfolio, a.goalsErr = goals.Summarize(a.goals, now)
	if a.goalCursor >= len(a.goals) {
		a.goalCursor = len(a.goals) - 1
	}
	if a.goalCursor < 0 {
		a.goalCursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		case "r":
			a.loaded = false
			a.progress, a.progressMax = 0, 0
			a.status = ""
			return a, tea.Batch(a.spinner.Tick, loadDataCmd(a.opts.Loader, a.opts.Goals, a.loadSub))
		}

		if a.activeTab == tabGoals {
			if m, cmd, ok := a.updateGoalsKey(key); ok {
				return m, cmd
			}
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.txs = msg.Transactions
		a.goals = msg.Goals
		a.recompute()
		if msg.Err != nil {
			a.status = "load failed: " + msg.Err.Error()
		}

		if a.needSetup {
			a.setupForm = NewSetupForm(len(a.txs), &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case ContributionSavedMsg:
		a.saving = false
		if msg.Err != nil {
			a.status = "contribution failed: " + msg.Err.Error()
			return a, nil
		}
		for i, g := range a.goals {
			if g.ID == msg.Goal.ID {
				a.goals[i] = msg.Goal
			}
		}
		a.recomputeGoals(a.opts.Now())
		a.status = fmt.Sprintf("Added %s to %s", cli.FormatMoney(msg.Amount), msg.Goal.Name)
		if goals.State(msg.Goal) == model.GoalCompleted {
			a.status += " · goal reached"
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

// updateGoalsKey handles list navigation and quick contributions.
func (a App) updateGoalsKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.goalCursor < len(a.goals)-1 {
			a.goalCursor++
		}
		return a, nil, true
	case "k", "up":
		if a.goalCursor > 0 {
			a.goalCursor--
		}
		return a, nil, true
	case "home":
		a.goalCursor = 0
		return a, nil, true
	case "end":
		a.goalCursor = max(0, len(a.goals)-1)
		return a, nil, true
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		idx := int(key[0] - '1')
		if idx < len(a.opts.Presets) {
			m, cmd := a.contribute(a.opts.Presets[idx])
			return m, cmd, true
		}
	}
	return a, nil, false
}

// contribute applies amount to the selected goal and persists it.
func (a App) contribute(amount float64) (App, tea.Cmd) {
	if len(a.goals) == 0 {
		a.status = "no goals yet: add one with `billu goals add`"
		return a, nil
	}
	if a.saving {
		return a, nil
	}
	if a.opts.Goals == nil {
		a.status = "goal store unavailable"
		return a, nil
	}

	g := a.goals[a.goalCursor]
	updated, err := goals.RecordContribution(g, amount)
	if err != nil {
		a.status = err.Error()
		return a, nil
	}
	applied := updated.CurrentAmount - g.CurrentAmount
	if applied <= 0 {
		a.status = g.Name + " is already fully funded"
		return a, nil
	}

	a.saving = true
	c := model.Contribution{GoalID: g.ID, Amount: applied, At: a.opts.Now()}
	return a, saveContributionCmd(a.opts.Goals, updated, c)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		cfg := a.opts.Config
		a.setupVals.Apply(&cfg)
		theme.SetActive(cfg.Appearance.Theme)
		cli.SetCurrency(cfg.General.Currency)
		if err := config.Save(cfg); err != nil {
			a.status = "could not save config: " + err.Error()
		} else {
			a.status = "saved " + config.ConfigPath()
		}
		a.opts.Config = cfg
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		a.status = "setup skipped; run `billu setup` anytime"
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  billu needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ billu"))
	b.WriteString(subtitleStyle.Render(" · expense forecasts & savings goals"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Reading ledger\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
		b.WriteString(subtitleStyle.Render(" files"))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Discovering ledger files..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	presetKeys := make([]string, len(a.opts.Presets))
	for i := range a.opts.Presets {
		presetKeys[i] = fmt.Sprintf("%d", i+1)
	}

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"f g i", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Select goal"},
		}},
		{"Actions", []struct{ key, desc string }{
			{strings.Join(presetKeys, " "), "Quick contribution to selected goal"},
			{"r", "Reload ledger and goals"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	hints := "[?]help  [q]uit"
	if a.activeTab == tabGoals {
		hints = "[j/k]select  " + a.presetHints() + "  [?]help  [q]uit"
	}
	info := a.status
	if info == "" {
		info = fmt.Sprintf("%s transactions · loaded in %.1fs", cli.FormatNumber(int64(len(a.txs))), a.loadTime.Seconds())
	}
	statusBar := components.RenderStatusBar(w, hints, info)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabInsights:
		content = a.renderInsightsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) presetHints() string {
	parts := make([]string, len(a.opts.Presets))
	for i, p := range a.opts.Presets {
		parts[i] = fmt.Sprintf("[%d]+%s", i+1, cli.FormatCompact(p))
	}
	return strings.Join(parts, " ")
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd runs the loader in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(loader LoaderFunc, store GoalStore, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; a dropped update is
			// superseded by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			var msg DataLoadedMsg
			if loader != nil {
				msg.Transactions, msg.Err = loader(progressFn)
			}
			if store != nil && msg.Err == nil {
				msg.Goals, msg.Err = store.LoadGoals()
			}
			msg.LoadTime = time.Since(start)
			sub <- msg
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func saveContributionCmd(store GoalStore, g model.Goal, c model.Contribution) tea.Cmd {
	return func() tea.Msg {
		err := store.AddContribution(g, c)
		return ContributionSavedMsg{Goal: g, Amount: c.Amount, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
