package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/logging"
)

// Format is an export document format.
type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatHTML, FormatMarkdown}
}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return FormatText, nil
	case "html", "htm", "pdf":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Opener shows a written file to the user.
type Opener func(path string) error

// Exporter renders documents to files and optionally opens them.
type Exporter struct {
	builder *Builder
	dir     string
	open    Opener
	logger  *logging.Logger
}

// NewExporter writes into dir. A nil opener uses the system browser.
func NewExporter(builder *Builder, dir string, open Opener, logger *logging.Logger) *Exporter {
	if builder == nil {
		builder = NewBuilder(nil)
	}
	if open == nil {
		open = OpenInViewer
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Exporter{builder: builder, dir: dir, open: open, logger: logger.WithOperation("export")}
}

// Render renders doc in format f.
func (e *Exporter) Render(doc Document, l i18n.Locale, f Format) (string, error) {
	switch f {
	case FormatHTML:
		return e.builder.HTML(doc, l)
	case FormatMarkdown:
		return e.builder.Markdown(doc, l)
	default:
		return e.builder.Text(doc, l)
	}
}

// Export renders doc, writes it and, when open is set, shows it in the
// viewer. The written path is returned even when opening fails so the user
// can open it by hand.
func (e *Exporter) Export(doc Document, l i18n.Locale, f Format, open bool) (string, error) {
	content, err := e.Render(doc, l, f)
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", f, err)
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", errors.NewStorageError(e.dir, "failed to create export directory", err)
	}
	path := filepath.Join(e.dir, FileName(doc)+f.Ext())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.NewStorageError(path, "failed to write export", err)
	}
	e.logger.Info("export written", "path", path, "format", f)

	if !open {
		return path, nil
	}
	if err := e.open(path); err != nil {
		e.logger.Warn("viewer failed", "path", path, "error", err)
		return path, fmt.Errorf("%w: %w", errors.ErrViewerUnavailable, err)
	}
	return path, nil
}

// FileName derives a stable base name from the request.
func FileName(doc Document) string {
	parts := []string{"etravel"}
	for _, p := range []string{doc.Query.Origin, doc.Query.Destination, doc.Query.StartDate} {
		if s := sanitize(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	return b.String()
}

// OpenInViewer opens path with the platform's default handler.
func OpenInViewer(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	_, err := startDetached(cmd)
	return err
}

// startDetached starts cmd and reaps it in the background. The returned
// channel receives the exit status once the process has been waited for.
func startDetached(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return done, nil
}
