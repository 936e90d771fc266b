package msg

// StateChangedMsg asks the model to re-render from a fresh planner snapshot.
// It is sent from planner change listeners, including background history
// refreshes.
type StateChangedMsg struct{}

// BootstrappedMsg reports the outcome of session bootstrap and hydration.
type BootstrappedMsg struct {
	Err error
}

// GeneratedMsg reports the outcome of a plan generation.
type GeneratedMsg struct {
	Forced string
	Err    error
}

// HistoryDeletedMsg reports the outcome of a confirmed history deletion.
type HistoryDeletedMsg struct {
	ID  string
	Err error
}

// HistoryRefreshedMsg reports the outcome of an explicit history refresh.
type HistoryRefreshedMsg struct {
	Err error
}

// ExportedMsg reports where an export was written.
type ExportedMsg struct {
	Path string
	Err  error
}

// LocaleChangedMsg reports the outcome of a locale switch.
type LocaleChangedMsg struct {
	Err error
}

// LoggedOutMsg reports that the session was cleared.
type LoggedOutMsg struct {
	Err error
}
