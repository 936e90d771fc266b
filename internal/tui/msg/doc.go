// Package msg defines the messages exchanged on the planner TUI's Bubbletea
// event loop and the command factories that produce them.
//
// Every blocking call (network, file system, viewer) runs inside a tea.Cmd
// built here and reports back with one of these messages, so Update never
// blocks.
package msg
