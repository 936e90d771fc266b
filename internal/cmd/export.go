package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/i18n"
)

var exportCmd = &cobra.Command{
	Use:   "export <history-id>",
	Short: "Export a stored plan to a file",
	Long: `Export a stored plan as text, HTML or Markdown.

HTML exports are self-contained and ask the browser to print on load, so
opening one gives a "save as PDF" dialog. 'pdf' is accepted as an alias
for html.

Examples:
  etravel export 12                       # HTML, opened in the browser
  etravel export 12 --format md --no-open
  etravel export 12 --lang en --dir ./plans`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportNoOpen bool
	exportLang   string
	exportDir    string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "html", "output format (text, html, md)")
	exportCmd.Flags().BoolVar(&exportNoOpen, "no-open", false, "write the file without opening it")
	exportCmd.Flags().StringVar(&exportLang, "lang", "", "document language (default: active language)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (overrides export.dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	r, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer r.Close()

	locale := r.locale.Locale()
	if exportLang != "" {
		if locale, err = i18n.ParseLocale(exportLang); err != nil {
			return err
		}
	}

	e, err := loadEntry(cmd, r, args[0])
	if err != nil {
		return err
	}
	if e.Result == nil {
		return fmt.Errorf("%s: %s", e.Label(), r.t("history.no_result", nil))
	}

	exporter := r.exporter
	if exportDir != "" {
		builder := export.NewBuilder(r.locale.Catalog(), export.WithAutoPrint(r.cfg.Export.AutoPrint))
		exporter = export.NewExporter(builder, exportDir, export.OpenInViewer, r.logger)
	}

	doc := export.Document{Query: e.Query, Result: *e.Result}
	path, err := exporter.Export(doc, locale, format, !exportNoOpen)
	if path != "" {
		fmt.Fprintln(cmd.OutOrStdout(), r.t("export.written", i18n.Vars{"path": path}))
	}
	if err != nil {
		if errors.Is(err, errors.ErrViewerUnavailable) {
			return errors.New(r.locale.Error(err))
		}
		return err
	}
	return nil
}
