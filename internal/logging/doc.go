// Package logging provides structured logging for the etravel client.
//
// This package wraps Go's log/slog to write JSON lines to a file under the
// client's state directory, so a planner run can be inspected after the fact
// without polluting the terminal the TUI is drawing on.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("plan generated", "destination", "Hangzhou", "days", 3)
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	userLogger := logger.WithUser("me@example.com")
//	opLogger := userLogger.WithOperation("generate")
//	opLogger.Info("request sent", "request_id", id)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"request sent","user":"me@example.com","operation":"generate","request_id":"..."}
//
// # Testing
//
// Use [NopLogger] to discard all output.
package logging
