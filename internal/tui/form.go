package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/trip"
)

// field identifies a focusable form row.
type field int

const (
	fieldOrigin field = iota
	fieldDestination
	fieldStartDate
	fieldDays
	fieldTravelers
	fieldBudgetMin
	fieldBudgetMax
	fieldBudgetText
	fieldPreferences
	fieldPace
	fieldConstraints
	fieldCount
)

// labelKey returns the message key of the field label.
func (f field) labelKey() string {
	switch f {
	case fieldOrigin:
		return "form.origin"
	case fieldDestination:
		return "form.destination"
	case fieldStartDate:
		return "form.start_date"
	case fieldDays:
		return "form.days"
	case fieldTravelers:
		return "form.travelers"
	case fieldBudgetMin:
		return "form.budget_min"
	case fieldBudgetMax:
		return "form.budget_max"
	case fieldBudgetText:
		return "form.budget_text"
	case fieldPreferences:
		return "form.preferences"
	case fieldPace:
		return "form.pace"
	default:
		return "form.constraints"
	}
}

// isText reports whether the field is edited through a text input.
func (f field) isText() bool {
	return f != fieldPreferences && f != fieldPace
}

// newInputs creates one text input per field. Chip rows get an unused input
// so the slice can be indexed by field.
func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 120
		ti.Cursor.SetMode(cursor.CursorStatic)
		switch field(i) {
		case fieldStartDate:
			ti.CharLimit = len(trip.DateLayout)
			ti.Placeholder = trip.DateLayout
		case fieldDays, fieldTravelers:
			ti.CharLimit = 3
		case fieldBudgetMin, fieldBudgetMax:
			ti.CharLimit = 12
		}
		inputs[i] = ti
	}
	return inputs
}

// localizePlaceholders sets the placeholders that depend on the locale.
func localizePlaceholders(inputs []textinput.Model, t func(string) string) {
	inputs[fieldOrigin].Placeholder = t("form.placeholder_origin")
	inputs[fieldDestination].Placeholder = t("form.placeholder_destination")
	inputs[fieldConstraints].Placeholder = t("form.default_constraints")
}

// loadInputs copies the draft into the text inputs.
func loadInputs(inputs []textinput.Model, d trip.Draft) {
	set := func(f field, v string) { inputs[f].SetValue(v) }
	set(fieldOrigin, d.Origin)
	set(fieldDestination, d.Destination)
	set(fieldStartDate, d.StartDate)
	set(fieldDays, formatCount(d.Days))
	set(fieldTravelers, formatCount(d.Travelers))
	set(fieldBudgetMin, trip.FormatBudget(d.BudgetMin))
	set(fieldBudgetMax, trip.FormatBudget(d.BudgetMax))
	set(fieldBudgetText, d.BudgetText)
	set(fieldConstraints, d.ConstraintsText)
}

// commitInputs writes the text inputs into d. Budgets that are not numbers
// are reported; other fields never fail here and are checked on generate.
func commitInputs(inputs []textinput.Model, d *trip.Draft) error {
	value := func(f field) string { return strings.TrimSpace(inputs[f].Value()) }

	minBudget, err := trip.ParseBudget(value(fieldBudgetMin))
	if err != nil {
		return err
	}
	maxBudget, err := trip.ParseBudget(value(fieldBudgetMax))
	if err != nil {
		return err
	}

	d.Origin = value(fieldOrigin)
	d.Destination = value(fieldDestination)
	d.StartDate = value(fieldStartDate)
	d.Days = parseCount(value(fieldDays))
	d.Travelers = parseCount(value(fieldTravelers))
	d.BudgetMin = minBudget
	d.BudgetMax = maxBudget
	d.BudgetText = value(fieldBudgetText)
	d.ConstraintsText = inputs[fieldConstraints].Value()
	return nil
}

func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func formatCount(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// nextPace cycles through the paces in display order.
func nextPace(p trip.Pace, step int) trip.Pace {
	paces := trip.Paces()
	idx := 0
	for i, candidate := range paces {
		if candidate == p {
			idx = i
			break
		}
	}
	idx = (idx + step + len(paces)) % len(paces)
	return paces[idx]
}

// localeName renders a locale in its own language.
func localeName(c *i18n.Catalog, l i18n.Locale) string {
	return c.Translate(l, "lang.name", nil)
}
