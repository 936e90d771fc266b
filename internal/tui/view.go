package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/planner"
	"github.com/Iron-Ham/etravel/internal/trip"
	"github.com/Iron-Ham/etravel/internal/tui/styles"
	"github.com/Iron-Ham/etravel/internal/util"
)

// Rows reserved around the result viewport.
const (
	headerHeight = 4
	footerHeight = 3
)

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.planner.Snapshot()
	var b strings.Builder
	b.WriteString(m.renderHeader(s))
	b.WriteString("\n")

	switch m.screen {
	case screenHistory:
		b.WriteString(m.renderHistory())
	case screenConfirm:
		b.WriteString(m.renderConfirm())
	default:
		if s.View == planner.ViewResult && s.Result != nil {
			b.WriteString(m.viewport.View())
		} else {
			b.WriteString(m.renderForm(s))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus(s))
	b.WriteString("\n")
	b.WriteString(m.renderHelp(s))
	return b.String()
}

// renderHeader renders the title bar with the language and signed-in user.
func (m Model) renderHeader(s planner.State) string {
	title := m.t("app.title")
	right := m.t("lang.name")
	if s.Session.Email != "" {
		right = m.locale.T("auth.signed_in_as", i18n.Vars{"email": s.Session.Email}) + " · " + right
	}

	line := title
	if m.width > 0 {
		gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
		if gap > 0 {
			line = title + strings.Repeat(" ", gap) + right
		} else {
			line = util.TruncateANSI(title+"  "+right, m.width-2)
		}
		return styles.Header.Width(m.width).Render(line) + "\n" + styles.Subtitle.Render(m.t("app.subtitle"))
	}
	return styles.Header.Render(title+"  "+right) + "\n" + styles.Subtitle.Render(m.t("app.subtitle"))
}

func (m Model) renderStatus(s planner.State) string {
	switch {
	case s.Loading:
		return m.spinner.View() + " " + styles.SpinnerText.Render(m.t("form.loading_hint"))
	case m.status != "" && m.statusIsErr:
		return styles.ErrorBox.Render(m.status)
	case s.Message != "":
		return styles.ErrorBox.Render(s.Message)
	case m.status != "":
		return styles.StatusBar.Render(m.status)
	}
	return ""
}

func (m Model) renderHelp(s planner.State) string {
	key := "help.form"
	switch {
	case m.screen == screenHistory:
		key = "help.history"
	case m.screen == screenConfirm:
		key = "help.confirm"
	case s.View == planner.ViewResult && s.Result != nil:
		key = "help.result"
	}
	return styles.HelpBar.Render(m.t(key))
}

// renderForm renders the request form with the focused row highlighted.
func (m Model) renderForm(s planner.State) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.t("form.title")))
	b.WriteString("\n")

	for f := field(0); f < fieldCount; f++ {
		label := styles.Label
		if f == m.focus {
			label = styles.LabelFocused
		}
		b.WriteString(label.Render(m.t(f.labelKey())))

		switch f {
		case fieldPreferences:
			b.WriteString(m.renderPreferences(s.Draft, f == m.focus))
		case fieldPace:
			b.WriteString(m.renderPace(s.Draft.Pace))
		default:
			b.WriteString(m.inputs[f].View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if s.Loading {
		b.WriteString(styles.Muted.Render(m.t("form.generating")))
	} else {
		b.WriteString(styles.Primary.Render("[ " + m.t("form.submit") + " ]"))
	}
	return b.String()
}

func (m Model) renderPreferences(d trip.Draft, focused bool) string {
	chips := make([]string, 0, len(trip.PreferenceTags()))
	for i, tag := range trip.PreferenceTags() {
		style := styles.Chip
		if d.HasPreference(tag) {
			style = styles.ChipSelected
		}
		if focused && i == m.prefCursor {
			style = styles.ChipCursor
		}
		chips = append(chips, style.Render(m.t("pref."+tag)))
	}
	return strings.Join(chips, " ")
}

func (m Model) renderPace(current trip.Pace) string {
	chips := make([]string, 0, len(trip.Paces()))
	for _, p := range trip.Paces() {
		style := styles.Chip
		if p == current {
			style = styles.ChipSelected
		}
		chips = append(chips, style.Render(m.t("pace."+string(p))))
	}
	return strings.Join(chips, " ")
}

// renderResult renders the plan shown in the result viewport.
func (m Model) renderResult(s planner.State) string {
	r := s.Result
	var b strings.Builder

	route := m.locale.T("result.route", i18n.Vars{"origin": s.Query.Origin, "destination": s.Active})
	b.WriteString(styles.Title.Render(m.t("result.title") + " · " + route))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render(m.locale.T("export.meta", i18n.Vars{
		"date":      s.Query.StartDate,
		"days":      s.Query.Days,
		"travelers": s.Query.Travelers,
	})))
	b.WriteString("\n\n")

	if len(s.Top) > 0 {
		b.WriteString(styles.Title.Render(m.t("result.top")))
		b.WriteString("\n")
		for i, d := range s.Top {
			b.WriteString(m.renderDestination(i+1, d))
			b.WriteString("\n")
		}
		b.WriteString(styles.Muted.Render("1-" + strconv.Itoa(len(s.Top)) + " " + m.t("result.regenerate")))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.Title.Render(m.t("result.daily")))
	b.WriteString("\n")
	for _, day := range r.DailyPlan {
		b.WriteString(m.renderDay(day))
		b.WriteString("\n")
	}

	b.WriteString(styles.Title.Render(m.t("result.budget")))
	b.WriteString("\n")
	for _, line := range r.BudgetBreakdown.Lines() {
		b.WriteString(styles.Label.Render(m.t("budget." + line.Category)))
		b.WriteString(styles.Text.Render(line.Value))
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Title.Render(m.t("result.warnings")))
		b.WriteString("\n")
		for _, w := range r.Warnings {
			b.WriteString(styles.Warning.Render("! " + w))
			b.WriteString("\n")
		}
	}

	if r.Summary != "" {
		b.WriteString("\n")
		b.WriteString(styles.Title.Render(m.t("result.summary")))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(r.Summary))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) cardWidth() int {
	if m.viewport.Width > 4 {
		return m.viewport.Width - 2
	}
	return 60
}

func (m Model) renderDestination(n int, d trip.Destination) string {
	var b strings.Builder
	b.WriteString(styles.Primary.Render(fmt.Sprintf("%d. %s", n, d.Name)))
	for _, reason := range d.Reasons {
		b.WriteString("\n" + util.Indent("· "+reason, 2))
	}
	meta := []struct{ key, value string }{
		{"label.budget", d.BudgetRange},
		{"label.transport", d.Transport},
		{"label.best_season", d.BestSeason},
	}
	for _, item := range meta {
		if item.value == "" {
			continue
		}
		b.WriteString("\n" + util.Indent(styles.Muted.Render(m.t(item.key)+": ")+item.value, 2))
	}
	return styles.Card.Width(m.cardWidth()).Render(b.String())
}

func (m Model) renderDay(day trip.DayPlan) string {
	var b strings.Builder
	b.WriteString(styles.Secondary.Render(m.locale.T("day.title", i18n.Vars{"day": day.Day})))
	for _, seg := range day.Segments() {
		a := seg.Activity
		b.WriteString("\n")
		b.WriteString(styles.Label.Render(m.t("segment." + seg.Slot)))
		b.WriteString(a.Title)

		var details []string
		if a.Transport != "" {
			details = append(details, m.t("label.transport")+": "+a.Transport)
		}
		if a.DurationHours > 0 {
			hours := strconv.FormatFloat(a.DurationHours, 'f', -1, 64)
			details = append(details, m.t("label.duration")+": "+m.locale.T("label.hours", i18n.Vars{"hours": hours}))
		}
		if a.CostRange != "" {
			details = append(details, m.t("label.cost")+": "+a.CostRange)
		}
		if len(a.Alternatives) > 0 {
			details = append(details, m.t("label.alternatives")+": "+strings.Join(a.Alternatives, " / "))
		}
		if len(details) > 0 {
			b.WriteString("\n" + util.Indent(styles.Muted.Render(strings.Join(details, " · ")), 2))
		}
	}
	return styles.Card.Width(m.cardWidth()).Render(b.String())
}

// renderHistory renders the cached search history with the cursor row highlighted.
func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(m.t("history.title")))
	var entries []trip.HistoryEntry
	if m.history != nil {
		entries = m.history.Entries()
		if at := m.history.RefreshedAt(); !at.IsZero() {
			b.WriteString("  ")
			b.WriteString(styles.Muted.Render(m.locale.T("history.refreshed_at", i18n.Vars{"time": at.Format("15:04")})))
		}
	}
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString(styles.Muted.Render(m.t("history.empty")))
		return b.String()
	}

	width := m.width - 4
	if width < 20 {
		width = 60
	}
	for i, e := range entries {
		label := e.Label()
		if e.Result == nil {
			label += " (" + m.t("history.no_result") + ")"
		}
		created := ""
		if !e.CreatedAt.IsZero() {
			created = e.CreatedAt.Local().Format("01-02 15:04")
		}
		row := util.FitWidth(label, width-lipgloss.Width(created)-1) + " " + created

		style := styles.ListItem
		if i == m.historyCursor {
			style = styles.ListItemActive
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderConfirm() string {
	label := string(m.pendingID)
	if m.history != nil {
		if e, ok := m.history.Get(m.pendingID); ok {
			label = e.Label()
		}
	}
	body := m.t("history.confirm_delete") + "\n\n" + label + "\n\n" + m.t("help.confirm")
	return styles.ConfirmBox.Render(body)
}
