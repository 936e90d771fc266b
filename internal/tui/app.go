package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/etravel/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	opts    Options
}

// New creates a new TUI application
func New(ctx context.Context, opts Options) *App {
	return &App{
		model: NewModel(ctx, opts),
		opts:  opts,
	}
}

// Run starts the TUI application. It reports whether the program ended
// because the user has to sign in.
func (a *App) Run() (needsLogin bool, err error) {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// Planner changes may originate inside Update, where a blocking Send
	// would deadlock the event loop.
	program := a.program
	a.opts.Planner.OnChange(func() {
		go program.Send(msg.StateChangedMsg{})
	})

	final, err := a.program.Run()

	signal.Stop(sigChan)

	// Let history refreshes started by the last generate finish.
	a.opts.Planner.Wait()

	if m, ok := final.(Model); ok {
		needsLogin = m.NeedsLogin()
	}
	return needsLogin, err
}
