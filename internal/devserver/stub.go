package devserver

import (
	"fmt"

	"github.com/Iron-Ham/etravel/internal/trip"
)

type stubDestination struct {
	name       [2]string
	reasons    [2][]string
	budget     string
	transport  [2]string
	bestSeason [2]string
}

// stubPool is indexed [zh, en].
var stubPool = []stubDestination{
	{
		name:       [2]string{"杭州", "Hangzhou"},
		reasons:    [2][]string{{"西湖风景", "适合慢节奏"}, {"West Lake scenery", "Suits a slow pace"}},
		budget:     "3000-6000 RMB",
		transport:  [2]string{"高铁/地铁", "High-speed rail / metro"},
		bestSeason: [2]string{"春秋", "Spring and autumn"},
	},
	{
		name:       [2]string{"苏州", "Suzhou"},
		reasons:    [2][]string{{"园林古镇", "美食丰富"}, {"Classical gardens", "Rich local food"}},
		budget:     "3500-7000 RMB",
		transport:  [2]string{"高铁/公交", "High-speed rail / bus"},
		bestSeason: [2]string{"春季", "Spring"},
	},
	{
		name:       [2]string{"成都", "Chengdu"},
		reasons:    [2][]string{{"川菜美食", "大熊猫基地"}, {"Sichuan cuisine", "Giant panda base"}},
		budget:     "3000-6500 RMB",
		transport:  [2]string{"飞机/地铁", "Flight / metro"},
		bestSeason: [2]string{"秋季", "Autumn"},
	},
	{
		name:       [2]string{"厦门", "Xiamen"},
		reasons:    [2][]string{{"海岛风光", "人少安静的小巷"}, {"Island views", "Quiet back streets"}},
		budget:     "4000-7500 RMB",
		transport:  [2]string{"飞机/轮渡", "Flight / ferry"},
		bestSeason: [2]string{"冬春", "Winter and spring"},
	},
}

func pick(li int, zh, en string) string {
	if li == 1 {
		return en
	}
	return zh
}

func langIndex(language string) int {
	if language == "en" {
		return 1
	}
	return 0
}

// stubPlan builds a deterministic plan for req. A requested destination is
// listed first, followed by the pool entries with other names.
func stubPlan(req trip.Request) *trip.Result {
	li := langIndex(req.Language)

	dests := make([]trip.Destination, 0, trip.MaxTopDestinations+1)
	if req.Destination != "" {
		dests = append(dests, trip.Destination{
			Name:        req.Destination,
			Reasons:     []string{pick(li, "符合你的需求", "Matches your request")},
			BudgetRange: "3000-6000 RMB",
			Transport:   stubPool[0].transport[li],
			BestSeason:  stubPool[0].bestSeason[li],
		})
	}
	for _, d := range stubPool {
		if d.name[li] == req.Destination {
			continue
		}
		dests = append(dests, trip.Destination{
			Name:        d.name[li],
			Reasons:     append([]string(nil), d.reasons[li]...),
			BudgetRange: d.budget,
			Transport:   d.transport[li],
			BestSeason:  d.bestSeason[li],
		})
		if len(dests) == trip.MaxTopDestinations+1 {
			break
		}
	}

	days := req.Days
	if days < 1 {
		days = 1
	}
	daily := make([]trip.DayPlan, days)
	for i := range daily {
		daily[i] = trip.DayPlan{
			Day:       i + 1,
			Morning:   stubActivity(li, "morning", i+1),
			Afternoon: stubActivity(li, "afternoon", i+1),
			Evening:   stubActivity(li, "evening", i+1),
		}
	}

	warning := pick(li, "示例行程，仅供本地测试使用", "Sample itinerary for local testing only")
	summary := fmt.Sprintf(pick(li, "%s → %s，%d 天示例行程", "%s → %s, %d-day sample itinerary"), req.Origin, req.Destination, days)

	return &trip.Result{
		TopDestinations: dests,
		DailyPlan:       daily,
		BudgetBreakdown: trip.Budget{
			Transport:      "30%",
			Lodging:        "35%",
			Food:           "20%",
			Tickets:        "10%",
			LocalTransport: "5%",
		},
		Warnings: []string{warning},
		Summary:  summary,
	}
}

func stubActivity(li int, slot string, day int) trip.Activity {
	titles := map[string][2]string{
		"morning":   {"城市漫步", "City walk"},
		"afternoon": {"博物馆参观", "Museum visit"},
		"evening":   {"夜市美食", "Night market food"},
	}
	t := titles[slot]
	return trip.Activity{
		Title:         fmt.Sprintf("%s %d", t[li], day),
		Transport:     pick(li, "步行/地铁", "Walk / metro"),
		DurationHours: 3,
		CostRange:     "100-300 RMB",
		Alternatives:  []string{t[li] + " A", t[li] + " B"},
	}
}
