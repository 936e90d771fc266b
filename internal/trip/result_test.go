package trip

import "testing"

func dests(names ...string) []Destination {
	out := make([]Destination, len(names))
	for i, n := range names {
		out[i] = Destination{Name: n}
	}
	return out
}

func names(list []Destination) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name
	}
	return out
}

func TestTopDestinations(t *testing.T) {
	tests := []struct {
		name   string
		list   []Destination
		active string
		want   []string
	}{
		{"excludes active", dests("杭州", "苏州", "南京"), "杭州", []string{"苏州", "南京"}},
		{"caps at three", dests("A", "B", "C", "D", "E"), "X", []string{"A", "B", "C"}},
		{"exclusion happens before cap", dests("A", "B", "C", "D"), "B", []string{"A", "C", "D"}},
		{"empty active excludes nothing", dests("A", "B", "C", "D"), "", []string{"A", "B", "C"}},
		{"all duplicates of active", dests("A", "A"), "A", []string{}},
		{"nil list", nil, "A", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(TopDestinations(tt.list, tt.active))
			if len(got) != len(tt.want) {
				t.Fatalf("TopDestinations() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("TopDestinations()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
				if got[i] == tt.active && tt.active != "" {
					t.Errorf("active destination %q leaked into top list", tt.active)
				}
			}
		})
	}
}

func TestDayPlan_Segments(t *testing.T) {
	d := DayPlan{
		Day:       1,
		Morning:   Activity{Title: "m"},
		Afternoon: Activity{Title: "a"},
		Evening:   Activity{Title: "e"},
	}
	segs := d.Segments()
	want := []struct{ slot, title string }{{"morning", "m"}, {"afternoon", "a"}, {"evening", "e"}}
	for i, w := range want {
		if segs[i].Slot != w.slot || segs[i].Activity.Title != w.title {
			t.Errorf("Segments()[%d] = %+v, want %s/%s", i, segs[i], w.slot, w.title)
		}
	}
}

func TestBudget_Lines(t *testing.T) {
	b := Budget{Transport: "30%", Lodging: "35%", Food: "20%", Tickets: "10%", LocalTransport: "5%"}
	lines := b.Lines()
	if len(lines) != 5 {
		t.Fatalf("Lines() has %d entries, want 5", len(lines))
	}
	if lines[0].Category != "transport" || lines[4].Category != "local_transport" || lines[4].Value != "5%" {
		t.Errorf("unexpected order: %+v", lines)
	}
}
