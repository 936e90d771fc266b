package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/etravel/internal/config"
	"github.com/Iron-Ham/etravel/internal/devserver"
	"github.com/Iron-Ham/etravel/internal/logging"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local stub planning backend",
	Long: `Run an in-memory stand-in for the planning backend.

It accepts any email on first login, returns deterministic sample plans,
keeps preferences and the last 10 searches per user, and serves Prometheus
metrics on /metrics. Point the client at it with --api or api.base_url.`,
	Args: cobra.NoArgs,
	RunE: runDevserver,
}

var devserverAddr string

func init() {
	rootCmd.AddCommand(devserverCmd)

	devserverCmd.Flags().StringVar(&devserverAddr, "addr", "", "listen address (overrides devserver.addr)")
}

func runDevserver(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), cfg.Logging.Level)

	addr := cfg.DevServer.Addr
	if devserverAddr != "" {
		addr = devserverAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := devserver.New(devserver.Options{
		CORSOrigins: cfg.DevServer.CORSOrigins,
		Logger:      logger,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "devserver listening on http://%s\n", addr)

	if err := srv.Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
