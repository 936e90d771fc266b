// Package export renders a plan into portable documents: plain text, a
// self-contained printable HTML page and markdown. Rendering is pure; the same
// document and locale always produce the same bytes.
package export

import (
	"bytes"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/trip"
)

// Document is a plan together with the request it answers.
type Document struct {
	Query  trip.Request
	Result trip.Result
}

// Builder renders documents with a message catalog.
type Builder struct {
	catalog   *i18n.Catalog
	autoPrint bool
	markdown  *md.Converter
}

// Option configures a Builder.
type Option func(*Builder)

// WithAutoPrint controls whether HTML output opens the print dialog on load.
func WithAutoPrint(enabled bool) Option {
	return func(b *Builder) { b.autoPrint = enabled }
}

// NewBuilder creates a Builder. A nil catalog uses the embedded bundles.
func NewBuilder(catalog *i18n.Catalog, opts ...Option) *Builder {
	if catalog == nil {
		catalog = i18n.DefaultCatalog()
	}
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	b := &Builder{catalog: catalog, autoPrint: true, markdown: converter}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildText renders doc as plain text with the embedded bundles.
func BuildText(doc Document, l i18n.Locale) (string, error) {
	return NewBuilder(nil).Text(doc, l)
}

// BuildHTML renders doc as printable HTML with the embedded bundles.
func BuildHTML(doc Document, l i18n.Locale) (string, error) {
	return NewBuilder(nil).HTML(doc, l)
}

// Text renders doc as line-oriented plain text.
func (b *Builder) Text(doc Document, l i18n.Locale) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, b.view(doc, l)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTML renders doc as a standalone page. All styling is inline.
func (b *Builder) HTML(doc Document, l i18n.Locale) (string, error) {
	v := b.view(doc, l)
	v.AutoPrint = b.autoPrint

	var buf bytes.Buffer
	if err := htmlTmpl.ExecuteTemplate(&buf, "page", v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown renders doc as GitHub-flavored markdown.
func (b *Builder) Markdown(doc Document, l i18n.Locale) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.ExecuteTemplate(&buf, "body", b.view(doc, l)); err != nil {
		return "", err
	}
	out, err := b.markdown.ConvertString(buf.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out) + "\n", nil
}

type destinationView struct {
	Index   int
	Name    string
	Details []string
	Reasons []string
}

type segmentView struct {
	Label   string
	Title   string
	Details []string
}

type dayView struct {
	Title    string
	Segments []segmentView
}

type budgetView struct {
	Label string
	Value string
}

type documentView struct {
	Lang          string
	Title         string
	Route         string
	Meta          string
	SummaryLabel  string
	Summary       string
	TopLabel      string
	Top           []destinationView
	DailyLabel    string
	Days          []dayView
	BudgetLabel   string
	Budget        []budgetView
	WarningsLabel string
	Warnings      []string
	AutoPrint     bool
}

func (b *Builder) view(doc Document, l i18n.Locale) documentView {
	t := func(key string, vars i18n.Vars) string { return b.catalog.Translate(l, key, vars) }
	labelled := func(key, value string) string { return t(key, nil) + ": " + value }

	q := doc.Query
	v := documentView{
		Lang:  l.HTMLLang(),
		Title: t("export.title", nil),
		Route: t("result.route", i18n.Vars{"origin": q.Origin, "destination": q.Destination}),
		Meta: t("export.meta", i18n.Vars{
			"date":      q.StartDate,
			"days":      q.Days,
			"travelers": q.Travelers,
		}),
		SummaryLabel:  t("result.summary", nil),
		Summary:       strings.TrimSpace(doc.Result.Summary),
		TopLabel:      t("result.top", nil),
		DailyLabel:    t("result.daily", nil),
		BudgetLabel:   t("result.budget", nil),
		WarningsLabel: t("result.warnings", nil),
		Warnings:      doc.Result.Warnings,
	}

	for i, d := range trip.TopDestinations(doc.Result.TopDestinations, q.Destination) {
		dv := destinationView{Index: i + 1, Name: d.Name, Reasons: d.Reasons}
		if d.BudgetRange != "" {
			dv.Details = append(dv.Details, labelled("label.budget", d.BudgetRange))
		}
		if d.Transport != "" {
			dv.Details = append(dv.Details, labelled("label.transport", d.Transport))
		}
		if d.BestSeason != "" {
			dv.Details = append(dv.Details, labelled("label.best_season", d.BestSeason))
		}
		v.Top = append(v.Top, dv)
	}

	for _, day := range doc.Result.DailyPlan {
		dv := dayView{Title: t("day.title", i18n.Vars{"day": day.Day})}
		for _, seg := range day.Segments() {
			a := seg.Activity
			sv := segmentView{Label: t("segment."+seg.Slot, nil), Title: a.Title}
			if a.Transport != "" {
				sv.Details = append(sv.Details, labelled("label.transport", a.Transport))
			}
			if a.DurationHours > 0 {
				hours := strconv.FormatFloat(a.DurationHours, 'f', -1, 64)
				sv.Details = append(sv.Details, labelled("label.duration", t("label.hours", i18n.Vars{"hours": hours})))
			}
			if a.CostRange != "" {
				sv.Details = append(sv.Details, labelled("label.cost", a.CostRange))
			}
			if len(a.Alternatives) > 0 {
				sv.Details = append(sv.Details, labelled("label.alternatives", strings.Join(a.Alternatives, ", ")))
			}
			dv.Segments = append(dv.Segments, sv)
		}
		v.Days = append(v.Days, dv)
	}

	for _, line := range doc.Result.BudgetBreakdown.Lines() {
		v.Budget = append(v.Budget, budgetView{Label: t("budget."+line.Category, nil), Value: line.Value})
	}
	return v
}

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(`{{.Title}}
{{.Route}}
{{.Meta}}
{{- if .Summary}}

{{.SummaryLabel}}
{{.Summary}}
{{- end}}
{{- if .Top}}

{{.TopLabel}}
{{- range .Top}}
{{.Index}}. {{.Name}}
{{- range .Details}}
   {{.}}
{{- end}}
{{- range .Reasons}}
   - {{.}}
{{- end}}
{{- end}}
{{- end}}

{{.DailyLabel}}
{{- range .Days}}
{{.Title}}
{{- range .Segments}}
  {{.Label}}: {{.Title}}
{{- range .Details}}
    {{.}}
{{- end}}
{{- end}}
{{- end}}

{{.BudgetLabel}}
{{- range .Budget}}
  {{.Label}}: {{.Value}}
{{- end}}
{{- if .Warnings}}

{{.WarningsLabel}}
{{- range .Warnings}}
- {{.}}
{{- end}}
{{- end}}
`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("export").Parse(`
{{- define "page" -}}
<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}} · {{.Route}}</title>
<style>
body { font-family: -apple-system, "PingFang SC", "Microsoft YaHei", "Helvetica Neue", Arial, sans-serif; color: #1f2937; margin: 32px; line-height: 1.5; }
h1 { font-size: 24px; margin: 0 0 4px; }
h2 { font-size: 18px; margin: 24px 0 8px; border-bottom: 1px solid #e5e7eb; padding-bottom: 4px; }
h3 { font-size: 15px; margin: 16px 0 4px; }
.meta { color: #6b7280; margin: 0; }
.card { border: 1px solid #e5e7eb; border-radius: 8px; padding: 8px 12px; margin: 8px 0; }
ul { margin: 4px 0; padding-left: 20px; }
table { border-collapse: collapse; }
td, th { border: 1px solid #e5e7eb; padding: 4px 12px; text-align: left; }
.warnings li { color: #b45309; }
@media print { body { margin: 12mm; } .card { break-inside: avoid; } }
</style>
</head>
<body>
{{template "body" .}}
{{- if .AutoPrint}}
<script>window.addEventListener("load", function () { window.print(); });</script>
{{- end}}
</body>
</html>
{{end}}

{{- define "body" -}}
<h1>{{.Title}}</h1>
<p class="meta">{{.Route}}</p>
<p class="meta">{{.Meta}}</p>
{{- if .Summary}}
<h2>{{.SummaryLabel}}</h2>
<p>{{.Summary}}</p>
{{- end}}
{{- if .Top}}
<h2>{{.TopLabel}}</h2>
{{- range .Top}}
<div class="card">
<h3>{{.Index}}. {{.Name}}</h3>
{{- if .Details}}
<p>{{range $i, $d := .Details}}{{if $i}}<br>{{end}}{{$d}}{{end}}</p>
{{- end}}
{{- if .Reasons}}
<ul>
{{- range .Reasons}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</div>
{{- end}}
{{- end}}
<h2>{{.DailyLabel}}</h2>
{{- range .Days}}
<div class="card">
<h3>{{.Title}}</h3>
<ul>
{{- range .Segments}}
<li><strong>{{.Label}}</strong>: {{.Title}}
{{- if .Details}}
<ul>
{{- range .Details}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</li>
{{- end}}
</ul>
</div>
{{- end}}
<h2>{{.BudgetLabel}}</h2>
<table>
{{- range .Budget}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- if .Warnings}}
<h2>{{.WarningsLabel}}</h2>
<ul class="warnings">
{{- range .Warnings}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{end}}
`))
