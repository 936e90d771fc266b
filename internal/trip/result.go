// Package trip defines the planning domain: the editable request draft, the
// wire shapes exchanged with the planning backend, and the immutable plan
// result the client displays and exports.
package trip

// MaxTopDestinations is the number of alternative destinations shown with a plan.
const MaxTopDestinations = 3

// Destination is a recommended destination.
type Destination struct {
	Name        string   `json:"name"`
	Reasons     []string `json:"reasons"`
	BudgetRange string   `json:"budget_range"`
	Transport   string   `json:"transport"`
	BestSeason  string   `json:"best_season"`
}

// Activity is one segment (morning, afternoon or evening) of a day.
type Activity struct {
	Title         string   `json:"title"`
	Transport     string   `json:"transport"`
	DurationHours float64  `json:"duration_hours"`
	CostRange     string   `json:"cost_range"`
	Alternatives  []string `json:"alternatives"`
}

// DayPlan is the itinerary for a single day, numbered from 1.
type DayPlan struct {
	Day       int      `json:"day"`
	Morning   Activity `json:"morning"`
	Afternoon Activity `json:"afternoon"`
	Evening   Activity `json:"evening"`
}

// Segment pairs an activity with its slot key ("morning", "afternoon", "evening").
type Segment struct {
	Slot     string
	Activity Activity
}

// Segments returns the three activities of the day in chronological order.
func (d DayPlan) Segments() []Segment {
	return []Segment{
		{Slot: "morning", Activity: d.Morning},
		{Slot: "afternoon", Activity: d.Afternoon},
		{Slot: "evening", Activity: d.Evening},
	}
}

// Budget is the fixed five-category budget breakdown.
type Budget struct {
	Transport      string `json:"transport"`
	Lodging        string `json:"lodging"`
	Food           string `json:"food"`
	Tickets        string `json:"tickets"`
	LocalTransport string `json:"local_transport"`
}

// BudgetLine is one labelled budget category.
type BudgetLine struct {
	Category string
	Value    string
}

// Lines returns the categories in display order.
func (b Budget) Lines() []BudgetLine {
	return []BudgetLine{
		{Category: "transport", Value: b.Transport},
		{Category: "lodging", Value: b.Lodging},
		{Category: "food", Value: b.Food},
		{Category: "tickets", Value: b.Tickets},
		{Category: "local_transport", Value: b.LocalTransport},
	}
}

// Result is a plan computed by the backend. Treat it as immutable once received.
type Result struct {
	TopDestinations []Destination `json:"top_destinations"`
	DailyPlan       []DayPlan     `json:"daily_plan"`
	BudgetBreakdown Budget        `json:"budget_breakdown"`
	Warnings        []string      `json:"warnings,omitempty"`
	Summary         string        `json:"summary,omitempty"`
}

// TopDestinations returns the destinations to display next to a plan for
// active: every entry whose name differs from active, in server order, capped
// at MaxTopDestinations. An empty active excludes nothing.
func TopDestinations(list []Destination, active string) []Destination {
	out := make([]Destination, 0, MaxTopDestinations)
	for _, d := range list {
		if active != "" && d.Name == active {
			continue
		}
		out = append(out, d)
		if len(out) == MaxTopDestinations {
			break
		}
	}
	return out
}
