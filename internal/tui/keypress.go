package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/etravel/internal/planner"
	"github.com/Iron-Ham/etravel/internal/trip"
	"github.com/Iron-Ham/etravel/internal/tui/msg"
)

// handleKeypress dispatches a key to the handler of the current screen.
func (m Model) handleKeypress(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+l":
		m.commitLenient()
		return m, msg.ToggleLocale(m.ctx, m.planner)
	}

	switch m.screen {
	case screenConfirm:
		return m.handleConfirmKey(key)
	case screenHistory:
		return m.handleHistoryKey(key)
	}

	s := m.planner.Snapshot()
	if s.Loading {
		// Edits and new requests are refused while a plan is being generated.
		return m, nil
	}
	if s.View == planner.ViewResult {
		return m.handleResultKey(key, s)
	}
	return m.handleFormKey(key)
}

func (m Model) handleFormKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "enter":
		return m.submit("")
	case "ctrl+r":
		m.commitLenient()
		return m.openHistory()
	case "ctrl+o":
		return m, msg.Logout(m.ctx, m.planner)
	case "esc":
		m.commitLenient()
		m.planner.ShowResult()
		m.refreshViewport()
		return m, nil
	}

	switch m.focus {
	case fieldPreferences:
		m.handlePreferenceKey(key)
		return m, nil
	case fieldPace:
		m.handlePaceKey(key)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

func (m *Model) handlePreferenceKey(key tea.KeyMsg) {
	tags := trip.PreferenceTags()
	switch key.String() {
	case "left", "h":
		m.prefCursor = (m.prefCursor - 1 + len(tags)) % len(tags)
	case "right", "l":
		m.prefCursor = (m.prefCursor + 1) % len(tags)
	case " ", "x":
		tag := tags[m.prefCursor]
		_ = m.planner.UpdateDraft(func(d *trip.Draft) { d.TogglePreference(tag) })
	}
}

func (m *Model) handlePaceKey(key tea.KeyMsg) {
	step := 0
	switch key.String() {
	case "left", "h":
		step = -1
	case "right", "l", " ":
		step = 1
	}
	if step != 0 {
		_ = m.planner.UpdateDraft(func(d *trip.Draft) { d.Pace = nextPace(d.Pace, step) })
	}
}

func (m *Model) moveFocus(step int) {
	if m.focus.isText() {
		m.inputs[m.focus].Blur()
	}
	m.focus = field((int(m.focus) + step + int(fieldCount)) % int(fieldCount))
	if m.focus.isText() {
		m.inputs[m.focus].Focus()
	}
}

// submit commits the form and starts a generation. forced regenerates for a
// recommended destination.
func (m Model) submit(forced string) (tea.Model, tea.Cmd) {
	if forced == "" {
		if err := m.commit(); err != nil {
			m.setError(err)
			return m, nil
		}
	}
	m.setStatus("")
	return m, tea.Batch(m.spinner.Tick, msg.Generate(m.ctx, m.planner, forced))
}

// commit writes the text inputs into the planner draft.
func (m *Model) commit() error {
	var inputErr error
	err := m.planner.UpdateDraft(func(d *trip.Draft) {
		inputErr = commitInputs(m.inputs, d)
	})
	if err != nil {
		return err
	}
	return inputErr
}

// commitLenient keeps typed text before the view changes; malformed budgets
// are left for the next submit to report.
func (m *Model) commitLenient() {
	if m.planner.Snapshot().View != planner.ViewForm || m.screen != screenPlanner {
		return
	}
	_ = m.commit()
}

func (m Model) handleResultKey(key tea.KeyMsg, s planner.State) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "1", "2", "3":
		idx := int(key.Runes[0] - '1')
		if idx < len(s.Top) {
			return m.submit(s.Top[idx].Name)
		}
		return m, nil
	case "e":
		m.planner.ShowForm()
		loadInputs(m.inputs, m.planner.Snapshot().Draft)
		return m, nil
	case "x":
		if m.exporter == nil {
			return m, nil
		}
		return m, msg.Export(m.planner, m.exporter, m.locale.Locale(), m.format, m.open)
	case "h":
		return m.openHistory()
	case "ctrl+o":
		return m, msg.Logout(m.ctx, m.planner)
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m Model) openHistory() (tea.Model, tea.Cmd) {
	m.screen = screenHistory
	m.clampHistoryCursor()
	return m, nil
}

func (m Model) handleHistoryKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.history == nil {
		m.screen = screenPlanner
		return m, nil
	}
	entries := m.history.Entries()

	switch key.String() {
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case "down", "j":
		if m.historyCursor < len(entries)-1 {
			m.historyCursor++
		}
	case "enter":
		if m.historyCursor >= len(entries) {
			return m, nil
		}
		if err := m.planner.ApplyEntry(entries[m.historyCursor]); err != nil {
			m.setError(err)
			return m, nil
		}
		loadInputs(m.inputs, m.planner.Snapshot().Draft)
		m.screen = screenPlanner
		m.setStatus(m.t("history.applied"))
		m.refreshViewport()
		m.viewport.GotoTop()
	case "d":
		if m.historyCursor < len(entries) {
			m.pendingID = entries[m.historyCursor].ID
			m.screen = screenConfirm
		}
	case "r":
		token := m.planner.Snapshot().Session.Token
		return m, msg.RefreshHistory(m.ctx, m.history, token)
	case "esc", "q", "ctrl+r", "h":
		m.screen = screenPlanner
	}
	return m, nil
}

func (m Model) handleConfirmKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y":
		id := m.pendingID
		m.pendingID = ""
		m.screen = screenHistory
		return m, msg.DeleteHistory(m.ctx, m.planner, id)
	case "n", "N", "esc":
		m.pendingID = ""
		m.screen = screenHistory
		m.setStatus(m.t("error.delete_declined"))
	}
	return m, nil
}
