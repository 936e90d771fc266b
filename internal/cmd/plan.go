package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/trip"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a plan and print it",
	Long: `Generate a plan without opening the interactive planner.

Saved preferences fill every field that is not given as a flag.

Examples:
  etravel plan --from 北京 --to 杭州 --start 2026-11-01 --days 3
  etravel plan --from Beijing --to Chengdu --pref food --pref city --pace slow
  etravel plan --from 北京 --to 杭州 --alt 1          # regenerate for the first recommendation`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

var (
	planOrigin      string
	planDestination string
	planStart       string
	planDays        int
	planTravelers   int
	planBudgetMin   string
	planBudgetMax   string
	planBudgetText  string
	planPrefs       []string
	planPace        string
	planConstraints []string
	planAlt         int
	planFormat      string
	planSavePrefs   bool
)

func init() {
	rootCmd.AddCommand(planCmd)

	f := planCmd.Flags()
	f.StringVar(&planOrigin, "from", "", "origin")
	f.StringVar(&planDestination, "to", "", "destination")
	f.StringVar(&planStart, "start", "", "start date (YYYY-MM-DD, default today)")
	f.IntVar(&planDays, "days", 0, "number of days")
	f.IntVar(&planTravelers, "travelers", 0, "number of travelers")
	f.StringVar(&planBudgetMin, "budget-min", "", "minimum budget")
	f.StringVar(&planBudgetMax, "budget-max", "", "maximum budget")
	f.StringVar(&planBudgetText, "budget-text", "", "free-form budget notes")
	f.StringSliceVar(&planPrefs, "pref", nil, "preference tag, repeatable ("+strings.Join(trip.PreferenceTags(), ", ")+")")
	f.StringVar(&planPace, "pace", "", "travel pace (slow, normal, fast)")
	f.StringSliceVar(&planConstraints, "constraint", nil, "constraint, repeatable")
	f.IntVar(&planAlt, "alt", 0, "regenerate for the Nth recommended destination (1-3)")
	f.StringVarP(&planFormat, "format", "f", "text", "output format (text, html, md)")
	f.BoolVar(&planSavePrefs, "save-prefs", false, "store the request as your saved preferences")
}

func runPlan(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(planFormat)
	if err != nil {
		return err
	}
	if planAlt < 0 || planAlt > trip.MaxTopDestinations {
		return fmt.Errorf("--alt must be between 1 and %d", trip.MaxTopDestinations)
	}

	ctx := cmd.Context()
	r, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.bootstrap(ctx); err != nil {
		return err
	}

	var flagErr error
	err = r.planner.UpdateDraft(func(d *trip.Draft) {
		flagErr = applyPlanFlags(cmd, d)
	})
	if err != nil {
		return err
	}
	if flagErr != nil {
		return errors.New(r.locale.Error(flagErr))
	}

	if err := r.planner.Generate(ctx, ""); err != nil {
		return errors.New(r.locale.Error(err))
	}

	if planAlt > 0 {
		top := r.planner.Snapshot().Top
		if planAlt > len(top) {
			return fmt.Errorf("only %d recommendations available", len(top))
		}
		if err := r.planner.Generate(ctx, top[planAlt-1].Name); err != nil {
			return errors.New(r.locale.Error(err))
		}
	}

	if planSavePrefs {
		prefs := trip.PreferencesFromDraft(r.planner.Snapshot().Draft)
		if err := r.client.SavePreferences(ctx, r.planner.Snapshot().Session.Token, prefs); err != nil {
			r.logger.Warn("failed to save preferences", "error", err)
			fmt.Fprintln(cmd.ErrOrStderr(), r.locale.Error(err))
		}
	}

	doc, err := r.planner.Document()
	if err != nil {
		return err
	}
	out, err := r.exporter.Render(doc, r.locale.Locale(), format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// applyPlanFlags copies the flags that were set onto d.
func applyPlanFlags(cmd *cobra.Command, d *trip.Draft) error {
	changed := cmd.Flags().Changed

	if changed("budget-min") {
		v, err := trip.ParseBudget(planBudgetMin)
		if err != nil {
			return err
		}
		d.BudgetMin = v
	}
	if changed("budget-max") {
		v, err := trip.ParseBudget(planBudgetMax)
		if err != nil {
			return err
		}
		d.BudgetMax = v
	}
	if changed("from") {
		d.Origin = strings.TrimSpace(planOrigin)
	}
	if changed("to") {
		d.Destination = strings.TrimSpace(planDestination)
	}
	if changed("start") {
		d.StartDate = strings.TrimSpace(planStart)
	}
	if changed("days") {
		d.Days = planDays
	}
	if changed("travelers") {
		d.Travelers = planTravelers
	}
	if changed("budget-text") {
		d.BudgetText = planBudgetText
	}
	if changed("pref") {
		d.Preferences = []string{}
		for _, p := range planPrefs {
			if !d.HasPreference(p) {
				d.TogglePreference(p)
			}
		}
	}
	if changed("pace") {
		d.Pace = trip.Pace(planPace)
	}
	if changed("constraint") {
		d.ConstraintsText = trip.FormatConstraints(planConstraints)
	}
	return nil
}
