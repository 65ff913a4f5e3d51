package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/aadash/internal/client"
	"github.com/dm/aadash/internal/engine"
	"github.com/dm/aadash/internal/model"
)

const preflightTimeout = 10 * time.Second

type overlay int

const (
	overlayNone overlay = iota
	overlayClusterPicker
	overlayFilterForm
)

type focusTarget int

const (
	focusNone focusTarget = iota
	focusWorkflows
	focusTemplates
	focusModules
	focusCount
)

// Options configures an App.
type Options struct {
	Logger       *slog.Logger        // nil discards
	RoundTimeout time.Duration       // per fetch round; 0 uses the engine default
	TimeFrame    int                 // initial preset in days; 0 keeps the default month
	Watcher      client.EventWatcher // nil disables live refresh
	Now          func() time.Time    // clock for the filter store; nil uses time.Now
}

// App is the root Bubble Tea model for aadash. Its Update method is the only
// place where fetch results are resolved and state is mutated.
type App struct {
	client  client.AnalyticsClient
	watcher client.EventWatcher
	log     *slog.Logger

	session context.Context
	stop    context.CancelFunc

	params  *model.QueryParamStore
	gate    *engine.PreflightGate
	coord   *engine.Coordinator
	history *model.RoundHistory

	// Resolved state
	data        model.ConsolidatedData
	vm          model.ViewModel
	inFlight    int // rounds issued but not yet resolved
	lastUpdated time.Time

	// Event stream
	events     chan client.Event
	watchState string
	watchFails int

	// Layout
	width, height int

	// UI state
	showHelp   bool
	overlay    overlay
	picker     ClusterPickerModel
	filterForm FilterFormModel
	focus      focusTarget
	workflows  TemplateTableModel
	templates  TemplateTableModel
	modules    ModuleTableModel
}

// NewApp creates a new App reading from c.
func NewApp(c client.AnalyticsClient, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	session, stop := context.WithCancel(context.Background())

	params := model.NewQueryParamStore(opts.Now)
	if opts.TimeFrame > 0 {
		params.SetTimeFrame(opts.TimeFrame)
	}

	app := &App{
		client:    c,
		watcher:   opts.Watcher,
		log:       logger,
		session:   session,
		stop:      stop,
		params:    params,
		gate:      engine.NewPreflightGate(c),
		coord:     engine.NewCoordinator(session, c, opts.RoundTimeout, logger),
		history:   model.NewRoundHistory(0),
		workflows: NewTemplateTable("Top Workflows", "(no workflows)"),
		templates: NewTemplateTable("Top Templates", "(no templates)"),
		modules:   NewModuleTable(),
	}
	if app.watcher != nil {
		app.watchState = "off"
	}
	app.reduce()
	return app
}

// Init implements tea.Model. The preflight check runs first; fetch rounds
// start only once it has passed.
func (app *App) Init() tea.Cmd {
	return preflightCmd(app.session, app.gate)
}

// Close cancels in-flight requests and the event stream.
func (app *App) Close() {
	app.coord.Close()
	app.stop()
}

// Update implements tea.Model. It is the single state-mutation entry point.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case PreflightMsg:
		state := app.gate.Record(msg.Err)
		if state == engine.PreflightFailed {
			app.log.Error("preflight failed", "url", app.baseURL(), "err", app.gate.Err())
			app.reduce()
			return app, nil
		}
		app.log.Info("preflight ok", "url", app.baseURL())
		cmds := []tea.Cmd{app.startRound(true)}
		if app.watcher != nil {
			cmds = append(cmds, app.startWatch())
		}
		return app, tea.Batch(cmds...)

	case RoundMsg:
		app.inFlight = max(app.inFlight-1, 0)
		_, ok := app.coord.Resolve(msg.Result)
		app.history.Push(model.RoundStat{
			Generation: msg.Result.Generation,
			Finished:   time.Now(),
			Duration:   msg.Result.Duration,
			Failures:   msg.Result.Failures,
			Stale:      !ok,
		})
		if ok {
			app.lastUpdated = time.Now()
		}
		// A stale round may still have contributed the cluster list.
		app.data = app.coord.Accepted()
		app.reduce()

	case EventMsg:
		app.watchFails = 0
		app.watchState = "live"
		var cmd tea.Cmd
		if msg.Event.Type == client.EventTypeDataUpdated {
			app.log.Debug("data updated event", "at", msg.Event.At)
			cmd = app.startRound(false)
		}
		return app, tea.Batch(cmd, waitForEvent(app.session, app.events))

	case WatchStoppedMsg:
		if app.session.Err() != nil {
			return app, nil
		}
		app.watchFails++
		backoff := backoffDuration(app.watchFails)
		app.watchState = "reconnecting in " + formatDuration(backoff)
		app.log.Warn("event stream stopped", "err", msg.Err, "retry_in", backoff)
		return app, tea.Tick(backoff, func(time.Time) tea.Msg { return WatchRetryMsg{} })

	case WatchRetryMsg:
		app.watchState = "connecting"
		return app, watchCmd(app.session, app.watcher, app.events)

	case tea.KeyMsg:
		return app.handleKey(msg)
	}

	return app, nil
}

func (app *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch app.overlay {
	case overlayClusterPicker:
		return app.updatePicker(msg)
	case overlayFilterForm:
		return app.updateFilterForm(msg)
	}

	// A list in search mode receives every key.
	if t := app.focusedTable(); t != nil && t.searching {
		return app, app.updateFocusedTable(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		app.Close()
		return app, tea.Quit
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
	case key.Matches(msg, keys.Refresh):
		return app, app.startRound(false)
	case key.Matches(msg, keys.Cluster):
		if app.gate.State() == engine.PreflightFailed {
			return app, nil
		}
		app.picker = newClusterPicker(app.data.ClusterOptions, app.params.Current().ClusterID)
		app.overlay = overlayClusterPicker
	case key.Matches(msg, keys.TimeFrame):
		app.params.SetTimeFrame(nextTimeFrame(spanDays(app.params.Current())).Days)
		return app, app.startRound(false)
	case key.Matches(msg, keys.Filter):
		if app.gate.State() == engine.PreflightFailed {
			return app, nil
		}
		app.filterForm = buildFilterForm(app.params.Current(), app.data.Templates)
		app.overlay = overlayFilterForm
		return app, nil
	case key.Matches(msg, keys.Tab):
		app.setFocus((app.focus + 1) % focusCount)
	case key.Matches(msg, keys.ShiftTab):
		app.setFocus((app.focus + focusCount - 1) % focusCount)
	default:
		return app, app.updateFocusedTable(msg)
	}
	return app, nil
}

func (app *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app.picker, _ = app.picker.Update(msg)
	switch {
	case app.picker.cancelled:
		app.overlay = overlayNone
	case app.picker.submitted:
		app.overlay = overlayNone
		prev := app.params.Current()
		next := app.params.SetClusterID(app.picker.selected)
		if next.Equal(prev) {
			return app, nil
		}
		app.log.Info("cluster selected", "cluster", next.ClusterID)
		return app, app.startRound(false)
	}
	return app, nil
}

func (app *App) updateFilterForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	app.filterForm, cmd = app.filterForm.Update(msg)
	switch {
	case app.filterForm.cancelled:
		app.overlay = overlayNone
		return app, nil
	case app.filterForm.submitted:
		app.filterForm.submitted = false
		vals, err := app.filterForm.values()
		if err != nil {
			app.filterForm.err = err.Error()
			return app, nil
		}
		app.overlay = overlayNone
		app.params.SetDateRange(vals.Start, vals.End)
		app.params.SetOrgID(vals.OrgID)
		app.params.SetJobType(vals.JobType)
		app.params.SetTemplateID(vals.TemplateID)
		return app, app.startRound(false)
	}
	return app, cmd
}

// startRound begins a fetch round for the current filter snapshot. Nothing is
// fetched until preflight has passed.
func (app *App) startRound(initial bool) tea.Cmd {
	if app.gate.State() != engine.PreflightReady {
		return nil
	}
	r := app.coord.Begin(app.params.Current(), initial)
	app.inFlight++
	// Begin may have cleared the line series for a newly selected cluster.
	app.data = app.coord.Accepted()
	app.reduce()
	return roundCmd(app.coord, r)
}

// reduce recomputes the view model and feeds the lists.
func (app *App) reduce() {
	app.vm = engine.Reduce(app.params.Current(), app.data, app.gate.State())
	app.workflows.SetData(workflowTemplates(app.vm.Templates))
	app.templates.SetData(app.vm.Templates)
	app.modules.SetData(app.vm.Modules)
}

func (app *App) startWatch() tea.Cmd {
	app.events = make(chan client.Event, 16)
	app.watchState = "connecting"
	return tea.Batch(
		watchCmd(app.session, app.watcher, app.events),
		waitForEvent(app.session, app.events),
	)
}

func (app *App) setFocus(f focusTarget) {
	app.focus = f
	app.workflows.focused = f == focusWorkflows
	app.templates.focused = f == focusTemplates
	app.modules.focused = f == focusModules
}

func (app *App) focusedTable() *tableModel {
	switch app.focus {
	case focusWorkflows:
		return &app.workflows.tableModel
	case focusTemplates:
		return &app.templates.tableModel
	case focusModules:
		return &app.modules.tableModel
	}
	return nil
}

func (app *App) updateFocusedTable(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch app.focus {
	case focusWorkflows:
		app.workflows, cmd = app.workflows.Update(msg)
	case focusTemplates:
		app.templates, cmd = app.templates.Update(msg)
	case focusModules:
		app.modules, cmd = app.modules.Update(msg)
	}
	return cmd
}

func (app *App) baseURL() string {
	if app.client == nil {
		return ""
	}
	return app.client.BaseURL()
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	header := renderHeader(app)
	footer := renderFooter(app)

	switch app.overlay {
	case overlayFilterForm:
		return strings.Join([]string{header, renderFilterForm(app), footer}, "\n")
	case overlayClusterPicker:
		picker := renderClusterPicker(app)
		if app.width > 0 && app.height > 0 {
			h := max(app.height-renderedHeight(header)-renderedHeight(footer), renderedHeight(picker))
			picker = lipgloss.Place(app.width, h, lipgloss.Center, lipgloss.Center, picker)
		}
		return strings.Join([]string{header, picker, footer}, "\n")
	}

	parts := []string{header}
	for _, p := range app.panels() {
		if s := p.render(); s != "" {
			parts = append(parts, s)
		}
	}
	parts = append(parts, footer)
	return strings.Join(parts, "\n")
}

// panel is one keyed section of the dashboard body.
type panel struct {
	id     string
	render func() string
}

func (app *App) panels() []panel {
	return []panel{
		{id: "overview", render: func() string { return renderOverview(app) }},
		{id: chartAnchorID, render: func() string { return renderChart(app, app.width, app.height) }},
		{id: "lists", render: func() string { return renderLists(app) }},
	}
}

// renderLists lays out the three top-N lists side by side on wide terminals
// and stacked otherwise. Nothing is shown in error mode.
func renderLists(app *App) string {
	if app.vm.Mode == model.ModeError {
		return ""
	}
	width := app.width
	if width <= 0 {
		width = 80
	}

	style := func(f focusTarget) lipgloss.Style {
		if app.focus == f {
			return StylePanelFocused
		}
		return StylePanel
	}

	if width >= 120 {
		colW := width / 3
		inner := colW - 6
		return lipgloss.JoinHorizontal(lipgloss.Top,
			style(focusWorkflows).Width(colW-2).Render(app.workflows.renderTable(inner)),
			style(focusTemplates).Width(colW-2).Render(app.templates.renderTable(inner)),
			style(focusModules).Width(colW-2).Render(app.modules.renderTable(inner)),
		)
	}
	inner := width - 6
	return lipgloss.JoinVertical(lipgloss.Left,
		style(focusWorkflows).Width(width-2).Render(app.workflows.renderTable(inner)),
		style(focusTemplates).Width(width-2).Render(app.templates.renderTable(inner)),
		style(focusModules).Width(width-2).Render(app.modules.renderTable(inner)),
	)
}

// spanDays returns how many days the range reaches back from its end date,
// which is the offset a preset time frame is defined by.
func spanDays(snap model.FilterSnapshot) int {
	return int(snap.EndDate.Sub(snap.StartDate).Hours() / 24)
}

// nextTimeFrame returns the preset after the one spanning days, wrapping
// around. A custom range moves to the first preset.
func nextTimeFrame(days int) model.TimeFrame {
	for i, tf := range model.TimeFrames {
		if tf.Days == days {
			return model.TimeFrames[(i+1)%len(model.TimeFrames)]
		}
	}
	return model.TimeFrames[0]
}

// preflightCmd probes the backend off the UI loop.
func preflightCmd(session context.Context, gate *engine.PreflightGate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(session, preflightTimeout)
		defer cancel()
		return PreflightMsg{Err: gate.Probe(ctx)}
	}
}

// roundCmd runs a fetch round and hands the result back to Update.
func roundCmd(coord *engine.Coordinator, r engine.Round) tea.Cmd {
	return func() tea.Msg {
		return RoundMsg{Result: coord.Fetch(r)}
	}
}

// watchCmd holds the event stream open until it fails or the session ends.
func watchCmd(session context.Context, w client.EventWatcher, events chan<- client.Event) tea.Cmd {
	return func() tea.Msg {
		return WatchStoppedMsg{Err: w.Watch(session, events)}
	}
}

// waitForEvent delivers the next pushed event.
func waitForEvent(session context.Context, events <-chan client.Event) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-events:
			return EventMsg{Event: ev}
		case <-session.Done():
			return nil
		}
	}
}

// backoffDuration returns min(2^fails * time.Second, 60*time.Second).
// At fails=1: 2s, fails=2: 4s, fails=3: 8s, ..., fails>=6: 60s.
func backoffDuration(fails int) time.Duration {
	const maxBackoff = 60 * time.Second
	if fails <= 0 {
		return time.Second
	}
	if fails >= 6 {
		return maxBackoff
	}
	return time.Duration(1<<fails) * time.Second
}
