package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/history"
	"github.com/Iron-Ham/etravel/internal/trip"
	"github.com/Iron-Ham/etravel/internal/util"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse your recent searches",
	Long: `Browse the most recent searches stored by the backend (at most 10).

Without a subcommand, lists the entries.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	Long: `List recent searches, newest first.

Use --match to filter by origin or destination with a glob pattern:
  etravel history list --match '杭*'
  etravel history list --match '*du'`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a search after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyApplyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Load a search into the planner and regenerate it",
	Long: `Load a stored search as the current request and generate a fresh plan
for it. The stored plan is printed instead when --no-generate is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryApply,
}

var (
	historyMatch      string
	historyYes        bool
	historyNoGenerate bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyApplyCmd)

	historyListCmd.Flags().StringVarP(&historyMatch, "match", "m", "", "glob filter on origin or destination")
	historyDeleteCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "delete without asking")
	historyApplyCmd.Flags().BoolVar(&historyNoGenerate, "no-generate", false, "print the stored plan instead of regenerating")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.bootstrap(cmd.Context()); err != nil {
		return err
	}

	entries, err := r.history.Match(historyMatch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, r.t("history.empty", nil))
		return nil
	}
	for _, e := range entries {
		label := e.Label()
		if e.Result == nil {
			label += " (" + r.t("history.no_result", nil) + ")"
		}
		created := ""
		if !e.CreatedAt.IsZero() {
			created = e.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%s  %s  %s\n", e.ID, util.FitWidth(label, 48), created)
	}
	return nil
}

// loadEntry bootstraps the runtime and finds id in the history cache.
func loadEntry(cmd *cobra.Command, r *runtime, id string) (trip.HistoryEntry, error) {
	if err := r.bootstrap(cmd.Context()); err != nil {
		return trip.HistoryEntry{}, err
	}
	e, ok := r.history.Get(trip.EntryID(id))
	if !ok {
		return trip.HistoryEntry{}, fmt.Errorf("%s: %s", r.t("error.entry_not_found", nil), id)
	}
	return e, nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	e, err := loadEntry(cmd, r, args[0])
	if err != nil {
		return err
	}
	if e.Result == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", e.Label(), r.t("history.no_result", nil))
		return nil
	}

	text, err := r.exporter.Render(export.Document{Query: e.Query, Result: *e.Result}, r.locale.Locale(), export.FormatText)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	if _, err := loadEntry(cmd, r, args[0]); err != nil {
		return err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	confirm := history.Confirmer(func(e trip.HistoryEntry) bool {
		if historyYes {
			return true
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s [y/N] ", r.t("history.confirm_delete", nil), e.Label())
		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	})

	err = r.planner.DeleteHistory(cmd.Context(), trip.EntryID(args[0]), confirm)
	switch {
	case errors.Is(err, errors.ErrConfirmationDeclined):
		fmt.Fprintln(cmd.OutOrStdout(), r.t("error.delete_declined", nil))
		return nil
	case err != nil:
		return errors.New(r.locale.Error(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.t("history.deleted", nil))
	return nil
}

func runHistoryApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	r, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	e, err := loadEntry(cmd, r, args[0])
	if err != nil {
		return err
	}
	if err := r.planner.ApplyEntry(e); err != nil {
		return err
	}

	if !historyNoGenerate {
		if err := r.planner.Generate(ctx, ""); err != nil {
			return errors.New(r.locale.Error(err))
		}
	}

	doc, err := r.planner.Document()
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", e.Label(), r.t("history.no_result", nil))
		return nil
	}
	text, err := r.exporter.Render(doc, r.locale.Locale(), export.FormatText)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
