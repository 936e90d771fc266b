package trip

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/Iron-Ham/etravel/internal/errors"
)

func f(v float64) *float64 { return &v }

var formOpened = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func validDraft() Draft {
	d := NewDraft("不去太累, 避开人多")
	d.Origin = "北京"
	d.Destination = "杭州"
	d.StartDate = "2026-11-01"
	return d
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Draft)
		wantErr   error
		wantField string
	}{
		{"valid", func(d *Draft) {}, nil, ""},
		{"today is allowed", func(d *Draft) { d.StartDate = "2026-10-19" }, nil, ""},
		{"missing origin", func(d *Draft) { d.Origin = "  " }, apperrors.ErrMissingPlace, "origin"},
		{"missing destination", func(d *Draft) { d.Destination = "" }, apperrors.ErrMissingPlace, "destination"},
		{"missing date", func(d *Draft) { d.StartDate = "" }, apperrors.ErrMissingSchedule, "start_date"},
		{"zero days", func(d *Draft) { d.Days = 0 }, apperrors.ErrMissingSchedule, "days"},
		{"bad date", func(d *Draft) { d.StartDate = "2026/11/01" }, apperrors.ErrInvalidDate, "start_date"},
		{"past date", func(d *Draft) { d.StartDate = "2026-10-18" }, apperrors.ErrDateInPast, "start_date"},
		{"negative min budget", func(d *Draft) { d.BudgetMin = f(-1) }, apperrors.ErrNegativeBudget, "budget_min"},
		{"negative max budget", func(d *Draft) { d.BudgetMax = f(-0.5) }, apperrors.ErrNegativeBudget, "budget_max"},
		{"negative travelers", func(d *Draft) { d.Travelers = -2 }, apperrors.ErrInvalidTravelers, "travelers"},
		{"zero travelers", func(d *Draft) { d.Travelers = 0 }, apperrors.ErrInvalidTravelers, "travelers"},
		{"unknown pace", func(d *Draft) { d.Pace = "turbo" }, apperrors.ErrInvalidPace, "pace"},
		{"empty pace", func(d *Draft) { d.Pace = "" }, apperrors.ErrInvalidPace, "pace"},
		{"place checked before schedule", func(d *Draft) { d.Origin = ""; d.StartDate = "" }, apperrors.ErrMissingPlace, "origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Validate(formOpened)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			var ve *apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() error is not a ValidationError: %T", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestDraft_Request(t *testing.T) {
	d := validDraft()
	d.Travelers = 2
	d.BudgetMin = f(3000)
	d.TogglePreference(PrefFood)
	d.TogglePreference(PrefNature)

	req := d.Request("", "en")
	if req.Destination != "杭州" {
		t.Errorf("Destination = %q, want 杭州", req.Destination)
	}
	if req.Travelers != 2 {
		t.Errorf("Travelers = %d, want 2", req.Travelers)
	}
	if req.Language != "en" {
		t.Errorf("Language = %q", req.Language)
	}
	if len(req.Constraints) != 2 || req.Constraints[0] != "不去太累" || req.Constraints[1] != "避开人多" {
		t.Errorf("Constraints = %v", req.Constraints)
	}
	if req.BudgetMin == nil || *req.BudgetMin != 3000 || req.BudgetMax != nil {
		t.Errorf("budgets = %v / %v", req.BudgetMin, req.BudgetMax)
	}
	if len(req.Preferences) != 2 || req.Preferences[0] != PrefFood {
		t.Errorf("Preferences = %v", req.Preferences)
	}

	*d.BudgetMin = 1
	if *req.BudgetMin != 3000 {
		t.Error("request should not alias draft budget")
	}

	forced := d.Request("苏州", "zh")
	if forced.Destination != "苏州" {
		t.Errorf("forced Destination = %q, want 苏州", forced.Destination)
	}
}

func TestDraftFromRequest_RoundTrip(t *testing.T) {
	d := validDraft()
	d.BudgetMax = f(6000)
	d.BudgetText = "3-6k"
	d.Pace = PaceSlow
	d.TogglePreference(PrefHistory)

	back := DraftFromRequest(d.Request("", "zh"))
	if back.Origin != d.Origin || back.Destination != d.Destination || back.StartDate != d.StartDate {
		t.Errorf("places/dates differ: %+v", back)
	}
	if back.Days != d.Days || back.Travelers != d.Travelers || back.Pace != d.Pace || back.BudgetText != d.BudgetText {
		t.Errorf("scalars differ: %+v", back)
	}
	if back.BudgetMax == nil || *back.BudgetMax != 6000 {
		t.Errorf("BudgetMax = %v", back.BudgetMax)
	}
	if back.ConstraintsText != "不去太累, 避开人多" {
		t.Errorf("ConstraintsText = %q", back.ConstraintsText)
	}
	if !back.HasPreference(PrefHistory) {
		t.Error("preference lost in round trip")
	}
}

func TestDraftFromRequest_DefaultsPace(t *testing.T) {
	if got := DraftFromRequest(Request{}).Pace; got != PaceNormal {
		t.Errorf("Pace = %q, want normal", got)
	}
	if got := DraftFromRequest(Request{Pace: "turbo"}).Pace; got != PaceNormal {
		t.Errorf("Pace = %q, want normal for an unknown stored pace", got)
	}
	if got := DraftFromRequest(Request{}).Travelers; got != 1 {
		t.Errorf("Travelers = %d, want 1 for a stored zero", got)
	}
}

func TestTogglePreference(t *testing.T) {
	d := NewDraft("")
	d.TogglePreference(PrefNature)
	d.TogglePreference(PrefCity)
	d.TogglePreference(PrefFood)
	d.TogglePreference(PrefCity)

	want := []string{PrefNature, PrefFood}
	if len(d.Preferences) != len(want) {
		t.Fatalf("Preferences = %v, want %v", d.Preferences, want)
	}
	for i := range want {
		if d.Preferences[i] != want[i] {
			t.Errorf("Preferences[%d] = %q, want %q", i, d.Preferences[i], want[i])
		}
	}
}

func TestParseConstraints(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{" , ,a,,", []string{"a"}},
		{"不去太累，避开人多", []string{"不去太累", "避开人多"}},
	}
	for _, tt := range tests {
		got := ParseConstraints(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("ParseConstraints(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseConstraints(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseBudget(t *testing.T) {
	v, err := ParseBudget("  ")
	if v != nil || err != nil {
		t.Errorf("blank budget = (%v, %v)", v, err)
	}
	v, err = ParseBudget("3000.5")
	if err != nil || v == nil || *v != 3000.5 {
		t.Errorf("ParseBudget(3000.5) = (%v, %v)", v, err)
	}
	if _, err := ParseBudget("lots"); !errors.Is(err, apperrors.ErrInvalidBudget) {
		t.Errorf("ParseBudget(lots) error = %v", err)
	}
	if FormatBudget(f(6000)) != "6000" || FormatBudget(nil) != "" {
		t.Error("FormatBudget mismatch")
	}
}
