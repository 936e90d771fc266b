package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/etravel/internal/i18n"
)

var langCmd = &cobra.Command{
	Use:   "lang [locale]",
	Short: "Show or switch the interface language",
	Long: `Show the active language, or switch to another one.

The choice is stored with the session and used by every later run.
Accepted values include zh, zh-CN, en and en-US.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLang,
}

func init() {
	rootCmd.AddCommand(langCmd)
}

func runLang(cmd *cobra.Command, args []string) error {
	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		current := r.locale.Locale()
		fmt.Fprintf(out, "%s (%s)\n", current, r.t("lang.name", nil))
		for _, l := range i18n.Supported() {
			marker := " "
			if l == current {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %s  %s\n", marker, l, r.locale.Catalog().Translate(l, "lang.name", nil))
		}
		return nil
	}

	l, err := i18n.ParseLocale(args[0])
	if err != nil {
		return err
	}
	if err := r.planner.SetLocale(cmd.Context(), l); err != nil {
		return err
	}
	fmt.Fprintln(out, r.t("lang.switched", i18n.Vars{"name": r.t("lang.name", nil)}))
	return nil
}
