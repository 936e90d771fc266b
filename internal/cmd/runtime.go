package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/etravel/internal/api"
	"github.com/Iron-Ham/etravel/internal/config"
	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/history"
	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/planner"
	"github.com/Iron-Ham/etravel/internal/session"
	"github.com/Iron-Ham/etravel/internal/storage"
	"github.com/Iron-Ham/etravel/internal/tui/styles"
)

// runtime is the object graph shared by the commands: persisted state, the
// backend client and the planner built on top of them.
type runtime struct {
	cfg      *config.Config
	logger   *logging.Logger
	store    storage.Store
	client   *api.Client
	sessions *session.Manager
	locale   *i18n.Provider
	history  *history.Cache
	planner  *planner.Orchestrator
	exporter *export.Exporter

	// needsLogin is set when the planner asks for the login screen.
	needsLogin bool
}

// newRuntime loads the configuration and wires the planner.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogger(cfg)

	store, err := storage.NewFileStore(cfg.ResolveStorageDir())
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to open client state: %w", err)
	}

	client, err := api.New(cfg.API.BaseURL, cfg.API.Timeout(), api.WithLogger(logger))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	fallback, err := i18n.ParseLocale(cfg.Locale.Default)
	if err != nil {
		fallback = i18n.Default
	}

	styles.SetActiveTheme(styles.ThemeName(cfg.TUI.Theme))

	r := &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		client:   client,
		sessions: session.NewManager(store, logger),
		locale:   i18n.NewProvider(ctx, store, nil, fallback, logger),
		history:  history.New(client, cfg.History.Limit, logger),
	}

	builder := export.NewBuilder(r.locale.Catalog(), export.WithAutoPrint(cfg.Export.AutoPrint))
	r.exporter = export.NewExporter(builder, cfg.ResolveExportDir(), export.OpenInViewer, logger)

	r.planner = planner.New(planner.Deps{
		Backend:   client,
		Sessions:  r.sessions,
		History:   r.history,
		Locale:    r.locale,
		Navigator: planner.NavigatorFunc(func() { r.needsLogin = true }),
		Logger:    logger,
	})
	return r, nil
}

// setupLogger creates the file logger, or a no-op logger when logging is
// disabled or the log directory is unusable.
func setupLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	logger, err := logging.NewLogger(cfg.ResolveLogDir(), cfg.Logging.Level)
	if err != nil {
		return logging.NopLogger()
	}
	return logger
}

// t translates key in the active locale.
func (r *runtime) t(key string, vars i18n.Vars) string {
	return r.locale.T(key, vars)
}

// Close waits for background work and closes the log file.
func (r *runtime) Close() {
	r.planner.Wait()
	_ = r.logger.Close()
}

// bootstrap loads the session, returning a localized error when the user has
// to sign in first.
func (r *runtime) bootstrap(ctx context.Context) error {
	if err := r.planner.Bootstrap(ctx); err != nil {
		if r.needsLogin {
			return fmt.Errorf("%s (etravel login)", r.t("error.no_session", nil))
		}
		return errors.New(r.locale.Error(err))
	}
	return nil
}
