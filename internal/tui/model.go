package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/history"
	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/planner"
	"github.com/Iron-Ham/etravel/internal/trip"
	"github.com/Iron-Ham/etravel/internal/tui/msg"
	"github.com/Iron-Ham/etravel/internal/tui/styles"
)

// screen is the overlay currently shown on top of the planner.
type screen int

const (
	screenPlanner screen = iota
	screenHistory
	screenConfirm
)

// Options wires the model to the planner and its collaborators.
type Options struct {
	Planner  *planner.Orchestrator
	History  *history.Cache
	Locale   *i18n.Provider
	Exporter *export.Exporter
	// ExportFormat is the format written by the export key (default: html).
	ExportFormat export.Format
	// OpenExports opens written exports in the system viewer.
	OpenExports bool
	Logger      *logging.Logger
}

// Model holds the TUI application state. Planner state is never copied into
// the model; every render reads a fresh snapshot.
type Model struct {
	ctx      context.Context
	planner  *planner.Orchestrator
	history  *history.Cache
	locale   *i18n.Provider
	exporter *export.Exporter
	format   export.Format
	open     bool
	logger   *logging.Logger

	inputs     []textinput.Model
	focus      field
	prefCursor int
	spinner    spinner.Model
	viewport   viewport.Model

	screen        screen
	historyCursor int
	pendingID     trip.EntryID

	// status is a transient informational line; errors come from the snapshot.
	status      string
	statusIsErr bool

	width      int
	height     int
	ready      bool
	quitting   bool
	needsLogin bool
}

// NewModel creates the planner model.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.FormatHTML
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerText

	m := Model{
		ctx:      ctx,
		planner:  opts.Planner,
		history:  opts.History,
		locale:   opts.Locale,
		exporter: opts.Exporter,
		format:   opts.ExportFormat,
		open:     opts.OpenExports,
		logger:   opts.Logger.WithOperation("tui"),
		inputs:   newInputs(),
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}
	localizePlaceholders(m.inputs, m.t)
	loadInputs(m.inputs, m.planner.Snapshot().Draft)
	m.inputs[m.focus].Focus()
	return m
}

// NeedsLogin reports whether the program ended because there is no session.
func (m Model) NeedsLogin() bool {
	return m.needsLogin
}

func (m Model) t(key string) string {
	return m.locale.T(key, nil)
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusIsErr = false
}

func (m *Model) setError(err error) {
	m.status = m.locale.Error(err)
	m.statusIsErr = true
}

// Init starts session bootstrap.
func (m Model) Init() tea.Cmd {
	return msg.Bootstrap(m.ctx, m.planner)
}

// Update handles messages and updates the model
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.viewport.Width = max(message.Width-2, 20)
		m.viewport.Height = max(message.Height-headerHeight-footerHeight, 5)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.planner.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(message)
		return m, cmd

	case msg.BootstrappedMsg:
		if errors.Is(message.Err, errors.ErrNoSession) {
			m.needsLogin = true
			m.quitting = true
			return m, tea.Quit
		}
		if message.Err != nil {
			m.setError(message.Err)
			return m, nil
		}
		loadInputs(m.inputs, m.planner.Snapshot().Draft)
		return m, nil

	case msg.GeneratedMsg:
		if message.Err == nil {
			m.setStatus("")
			m.refreshViewport()
			m.viewport.GotoTop()
		}
		return m, nil

	case msg.StateChangedMsg:
		m.refreshViewport()
		return m, nil

	case msg.HistoryDeletedMsg:
		if message.Err == nil {
			m.setStatus(m.t("history.deleted"))
		}
		m.clampHistoryCursor()
		return m, nil

	case msg.HistoryRefreshedMsg:
		if message.Err != nil {
			m.setError(message.Err)
		} else {
			m.setStatus(m.t("history.refreshed"))
		}
		m.clampHistoryCursor()
		return m, nil

	case msg.ExportedMsg:
		if message.Err != nil {
			m.setError(message.Err)
			if message.Path != "" {
				m.status += " (" + message.Path + ")"
			}
			return m, nil
		}
		m.setStatus(m.locale.T("export.written", i18n.Vars{"path": message.Path}))
		return m, nil

	case msg.LocaleChangedMsg:
		if message.Err != nil {
			m.setError(message.Err)
		} else {
			m.setStatus(m.locale.T("lang.switched", i18n.Vars{"name": m.t("lang.name")}))
		}
		localizePlaceholders(m.inputs, m.t)
		loadInputs(m.inputs, m.planner.Snapshot().Draft)
		m.screen = screenPlanner
		m.refreshViewport()
		return m, nil

	case msg.LoggedOutMsg:
		m.needsLogin = true
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) refreshViewport() {
	s := m.planner.Snapshot()
	if s.Result == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderResult(s))
}

func (m *Model) clampHistoryCursor() {
	n := 0
	if m.history != nil {
		n = m.history.Len()
	}
	if m.historyCursor >= n {
		m.historyCursor = n - 1
	}
	if m.historyCursor < 0 {
		m.historyCursor = 0
	}
}
