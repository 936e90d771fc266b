package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the interactive planner",
	Long: `Open the interactive trip planner.

The planner restores your session and saved preferences, lets you edit the
trip request, generate plans, regenerate for a recommended destination,
browse and delete your search history, and export the displayed plan.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

var (
	startExportFormat string
	startNoOpen       bool
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVar(&startExportFormat, "export-format", "html", "format written by the export key (text, html, md)")
	startCmd.Flags().BoolVar(&startNoOpen, "no-open", false, "write exports without opening them")
}

func runStart(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(startExportFormat)
	if err != nil {
		return err
	}

	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	app := tui.New(cmd.Context(), tui.Options{
		Planner:      r.planner,
		History:      r.history,
		Locale:       r.locale,
		Exporter:     r.exporter,
		ExportFormat: format,
		OpenExports:  !startNoOpen,
		Logger:       r.logger,
	})
	needsLogin, err := app.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if needsLogin {
		fmt.Fprintln(cmd.OutOrStdout(), r.t("error.no_session", nil)+": etravel login")
	}
	return nil
}
