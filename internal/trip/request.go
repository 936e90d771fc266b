package trip

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Iron-Ham/etravel/internal/errors"
)

// DateLayout is the wire and form format of start dates.
const DateLayout = "2006-01-02"

// Pace is the travel rhythm.
type Pace string

// Paces offered by the form.
const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

// Paces returns the selectable paces in display order.
func Paces() []Pace {
	return []Pace{PaceSlow, PaceNormal, PaceFast}
}

// Valid reports whether p is one of Paces.
func (p Pace) Valid() bool {
	return slices.Contains(Paces(), p)
}

// Preference tags offered by the form.
const (
	PrefNature  = "nature"
	PrefHistory = "history"
	PrefCity    = "city"
	PrefFood    = "food"
	PrefFamily  = "family"
	PrefOutdoor = "outdoor"
	PrefOffbeat = "offbeat"
	PrefPhoto   = "photo"
)

// PreferenceTags returns the selectable preference tags in display order.
func PreferenceTags() []string {
	return []string{PrefNature, PrefHistory, PrefCity, PrefFood, PrefFamily, PrefOutdoor, PrefOffbeat, PrefPhoto}
}

// Request is the body of POST /api/plan. It is also the "query" stored with
// each history entry.
type Request struct {
	Origin      string   `json:"origin,omitempty"`
	Destination string   `json:"destination,omitempty"`
	StartDate   string   `json:"start_date"`
	Days        int      `json:"days"`
	Travelers   int      `json:"travelers"`
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
	BudgetText  string   `json:"budget_text,omitempty"`
	Preferences []string `json:"preferences"`
	Pace        string   `json:"pace"`
	Constraints []string `json:"constraints"`
	Language    string   `json:"language,omitempty"`
}

// Draft is the editable form state. Zero values mean "not filled in".
type Draft struct {
	Origin          string
	Destination     string
	StartDate       string
	Days            int
	Travelers       int
	BudgetMin       *float64
	BudgetMax       *float64
	BudgetText      string
	Preferences     []string
	Pace            Pace
	ConstraintsText string
}

// NewDraft returns the draft a fresh form starts with.
// defaultConstraints is the localized placeholder constraint text.
func NewDraft(defaultConstraints string) Draft {
	return Draft{
		Days:            3,
		Travelers:       1,
		Pace:            PaceNormal,
		Preferences:     []string{},
		ConstraintsText: defaultConstraints,
	}
}

// TogglePreference adds tag when absent and removes it when present,
// keeping the insertion order of the remaining tags.
func (d *Draft) TogglePreference(tag string) {
	for i, p := range d.Preferences {
		if p == tag {
			d.Preferences = append(d.Preferences[:i:i], d.Preferences[i+1:]...)
			return
		}
	}
	d.Preferences = append(d.Preferences, tag)
}

// HasPreference reports whether tag is selected.
func (d Draft) HasPreference(tag string) bool {
	for _, p := range d.Preferences {
		if p == tag {
			return true
		}
	}
	return false
}

// Validate checks the preconditions for sending the draft. today is the date
// the form was opened; start dates before it are rejected. The first failing
// check wins, in the order origin/destination, schedule, date, budget, travelers,
// pace.
func (d Draft) Validate(today time.Time) error {
	if strings.TrimSpace(d.Origin) == "" {
		return errors.NewValidationError(errors.KeyMissingPlace, errors.ErrMissingPlace).WithField("origin")
	}
	if strings.TrimSpace(d.Destination) == "" {
		return errors.NewValidationError(errors.KeyMissingPlace, errors.ErrMissingPlace).WithField("destination")
	}
	if strings.TrimSpace(d.StartDate) == "" {
		return errors.NewValidationError(errors.KeyMissingSchedule, errors.ErrMissingSchedule).WithField("start_date")
	}
	if d.Days <= 0 {
		return errors.NewValidationError(errors.KeyMissingSchedule, errors.ErrMissingSchedule).WithField("days")
	}

	start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(d.StartDate), today.Location())
	if err != nil {
		return errors.NewValidationError(errors.KeyInvalidDate, errors.ErrInvalidDate).WithField("start_date")
	}
	if start.Before(truncateDay(today)) {
		return errors.NewValidationError(errors.KeyDateInPast, errors.ErrDateInPast).WithField("start_date")
	}

	if d.BudgetMin != nil && *d.BudgetMin < 0 {
		return errors.NewValidationError(errors.KeyNegativeBudget, errors.ErrNegativeBudget).WithField("budget_min")
	}
	if d.BudgetMax != nil && *d.BudgetMax < 0 {
		return errors.NewValidationError(errors.KeyNegativeBudget, errors.ErrNegativeBudget).WithField("budget_max")
	}
	if d.Travelers < 1 {
		return errors.NewValidationError(errors.KeyInvalidTravelers, errors.ErrInvalidTravelers).WithField("travelers")
	}
	if !d.Pace.Valid() {
		return errors.NewValidationError(errors.KeyInvalidPace, errors.ErrInvalidPace).WithField("pace")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}

// Request builds the outbound request. destination overrides the draft's
// destination when non-empty; language is the active locale tag.
func (d Draft) Request(destination, language string) Request {
	if destination == "" {
		destination = strings.TrimSpace(d.Destination)
	}
	prefs := append([]string{}, d.Preferences...)

	return Request{
		Origin:      strings.TrimSpace(d.Origin),
		Destination: destination,
		StartDate:   strings.TrimSpace(d.StartDate),
		Days:        d.Days,
		Travelers:   d.Travelers,
		BudgetMin:   copyFloat(d.BudgetMin),
		BudgetMax:   copyFloat(d.BudgetMax),
		BudgetText:  strings.TrimSpace(d.BudgetText),
		Preferences: prefs,
		Pace:        string(d.Pace),
		Constraints: ParseConstraints(d.ConstraintsText),
		Language:    language,
	}
}

// DraftFromRequest rebuilds the form state a stored request was sent from.
func DraftFromRequest(r Request) Draft {
	pace := Pace(r.Pace)
	if !pace.Valid() {
		pace = PaceNormal
	}
	travelers := r.Travelers
	if travelers < 1 {
		travelers = 1
	}
	return Draft{
		Origin:          r.Origin,
		Destination:     r.Destination,
		StartDate:       r.StartDate,
		Days:            r.Days,
		Travelers:       travelers,
		BudgetMin:       copyFloat(r.BudgetMin),
		BudgetMax:       copyFloat(r.BudgetMax),
		BudgetText:      r.BudgetText,
		Preferences:     append([]string{}, r.Preferences...),
		Pace:            pace,
		ConstraintsText: FormatConstraints(r.Constraints),
	}
}

// ParseConstraints splits comma-separated text into trimmed, non-empty items.
// Both ASCII and full-width commas separate items.
func ParseConstraints(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '，' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// FormatConstraints is the inverse of ParseConstraints for display in the form.
func FormatConstraints(items []string) string {
	return strings.Join(items, ", ")
}

// ParseBudget parses an optional budget field. Blank input yields nil.
func ParseBudget(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.NewValidationError(errors.KeyInvalidBudget, errors.ErrInvalidBudget)
	}
	return &v, nil
}

// FormatBudget renders an optional budget for a form field.
func FormatBudget(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
