package msg

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/history"
	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/planner"
	"github.com/Iron-Ham/etravel/internal/trip"
)

// Bootstrap returns a command that loads the session and hydrates the planner.
func Bootstrap(ctx context.Context, o *planner.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return BootstrappedMsg{Err: o.Bootstrap(ctx)}
	}
}

// Generate returns a command that runs a plan generation. forced, when
// non-empty, regenerates for that destination.
func Generate(ctx context.Context, o *planner.Orchestrator, forced string) tea.Cmd {
	return func() tea.Msg {
		return GeneratedMsg{Forced: forced, Err: o.Generate(ctx, forced)}
	}
}

// DeleteHistory returns a command that deletes an entry the user has already
// confirmed in the UI.
func DeleteHistory(ctx context.Context, o *planner.Orchestrator, id trip.EntryID) tea.Cmd {
	confirmed := history.Confirmer(func(trip.HistoryEntry) bool { return true })
	return func() tea.Msg {
		return HistoryDeletedMsg{ID: string(id), Err: o.DeleteHistory(ctx, id, confirmed)}
	}
}

// RefreshHistory returns a command that reloads the history cache.
func RefreshHistory(ctx context.Context, cache *history.Cache, token string) tea.Cmd {
	return func() tea.Msg {
		return HistoryRefreshedMsg{Err: cache.Refresh(ctx, token)}
	}
}

// Export returns a command that writes the displayed plan and opens it.
func Export(o *planner.Orchestrator, e *export.Exporter, l i18n.Locale, f export.Format, open bool) tea.Cmd {
	return func() tea.Msg {
		doc, err := o.Document()
		if err != nil {
			return ExportedMsg{Err: err}
		}
		path, err := e.Export(doc, l, f, open)
		return ExportedMsg{Path: path, Err: err}
	}
}

// ToggleLocale returns a command that switches to the other supported locale.
func ToggleLocale(ctx context.Context, o *planner.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return LocaleChangedMsg{Err: o.ToggleLocale(ctx)}
	}
}

// Logout returns a command that clears the session.
func Logout(ctx context.Context, o *planner.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return LoggedOutMsg{Err: o.Logout(ctx)}
	}
}
