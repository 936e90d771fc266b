package trip

// Preferences is the saved-preference payload of GET /api/me/preferences.
// Every field is optional; nil means absent or null.
type Preferences struct {
	Origin      *string   `json:"origin,omitempty"`
	Destination *string   `json:"destination,omitempty"`
	Travelers   *int      `json:"travelers,omitempty"`
	BudgetMin   *float64  `json:"budget_min,omitempty"`
	BudgetMax   *float64  `json:"budget_max,omitempty"`
	BudgetText  *string   `json:"budget_text,omitempty"`
	Preferences *[]string `json:"preferences,omitempty"`
	Pace        *string   `json:"pace,omitempty"`
	Constraints *[]string `json:"constraints,omitempty"`
}

// ApplyTo overwrites every draft field whose saved value is present and
// non-null. Absent fields keep the draft's defaults. Zero travelers and an
// empty pace are treated as absent since the form cannot hold them.
func (p Preferences) ApplyTo(d *Draft) {
	if p.Origin != nil {
		d.Origin = *p.Origin
	}
	if p.Destination != nil {
		d.Destination = *p.Destination
	}
	if p.Travelers != nil && *p.Travelers > 0 {
		d.Travelers = *p.Travelers
	}
	if p.BudgetMin != nil {
		d.BudgetMin = copyFloat(p.BudgetMin)
	}
	if p.BudgetMax != nil {
		d.BudgetMax = copyFloat(p.BudgetMax)
	}
	if p.BudgetText != nil {
		d.BudgetText = *p.BudgetText
	}
	if p.Preferences != nil {
		d.Preferences = append([]string{}, (*p.Preferences)...)
	}
	if p.Pace != nil && Pace(*p.Pace).Valid() {
		d.Pace = Pace(*p.Pace)
	}
	if p.Constraints != nil {
		d.ConstraintsText = FormatConstraints(*p.Constraints)
	}
}

// PreferencesFromDraft captures the draft as a saved-preference payload.
func PreferencesFromDraft(d Draft) Preferences {
	origin := d.Origin
	dest := d.Destination
	travelers := d.Travelers
	text := d.BudgetText
	pace := string(d.Pace)
	prefs := append([]string{}, d.Preferences...)
	constraints := ParseConstraints(d.ConstraintsText)
	return Preferences{
		Origin:      &origin,
		Destination: &dest,
		Travelers:   &travelers,
		BudgetMin:   copyFloat(d.BudgetMin),
		BudgetMax:   copyFloat(d.BudgetMax),
		BudgetText:  &text,
		Preferences: &prefs,
		Pace:        &pace,
		Constraints: &constraints,
	}
}
