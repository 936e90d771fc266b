package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/history"
	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/planner"
	"github.com/Iron-Ham/etravel/internal/session"
	"github.com/Iron-Ham/etravel/internal/storage"
	"github.com/Iron-Ham/etravel/internal/trip"
	"github.com/Iron-Ham/etravel/internal/tui/msg"
)

type stubBackend struct {
	mu       sync.Mutex
	requests []trip.Request
	entries  []trip.HistoryEntry
	deleted  []trip.EntryID
}

func (s *stubBackend) GeneratePlan(ctx context.Context, token string, req trip.Request) (*trip.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return &trip.Result{
		TopDestinations: []trip.Destination{
			{Name: "杭州", Reasons: []string{"西湖"}},
			{Name: "苏州", BudgetRange: "1500-2500"},
			{Name: "黄山"},
			{Name: "成都"},
		},
		DailyPlan: []trip.DayPlan{{
			Day:     1,
			Morning: trip.Activity{Title: "西湖骑行", DurationHours: 2.5},
		}},
		BudgetBreakdown: trip.Budget{Transport: "600"},
		Summary:         "轻松的三日游",
	}, nil
}

func (s *stubBackend) Preferences(ctx context.Context, token string) (trip.Preferences, error) {
	return trip.Preferences{}, nil
}

func (s *stubBackend) SearchHistory(ctx context.Context, token string) ([]trip.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]trip.HistoryEntry(nil), s.entries...), nil
}

func (s *stubBackend) DeleteSearchHistory(ctx context.Context, token string, id trip.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

func (s *stubBackend) lastRequest() trip.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

type testEnv struct {
	backend *stubBackend
	planner *planner.Orchestrator
	history *history.Cache
	locale  *i18n.Provider
}

func newTestEnv(t *testing.T, signedIn bool) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sessions := session.NewManager(store, nil)
	if signedIn {
		if err := sessions.Save(ctx, session.Session{Token: "tok", Email: "me@example.com"}); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	env := &testEnv{backend: &stubBackend{}}
	env.locale = i18n.NewProvider(ctx, store, nil, i18n.ZH, nil)
	env.history = history.New(env.backend, history.MaxEntries, nil)
	env.planner = planner.New(planner.Deps{
		Backend:   env.backend,
		Sessions:  sessions,
		History:   env.history,
		Locale:    env.locale,
		Navigator: planner.NavigatorFunc(func() {}),
		Now:       func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local) },
	})
	return env
}

func (env *testEnv) model() Model {
	return NewModel(context.Background(), Options{
		Planner: env.planner,
		History: env.history,
		Locale:  env.locale,
	})
}

// runCmd executes cmd and every command nested in a batch, returning the
// produced messages in order.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	message := cmd()
	if batch, ok := message.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{message}
}

// feed runs cmd and passes the produced messages back into the model,
// skipping spinner ticks.
func feed(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, message := range runCmd(cmd) {
		switch message.(type) {
		case msg.BootstrappedMsg, msg.GeneratedMsg, msg.HistoryDeletedMsg,
			msg.HistoryRefreshedMsg, msg.LocaleChangedMsg, msg.LoggedOutMsg, msg.ExportedMsg:
			next, _ := m.Update(message)
			m = next.(Model)
		}
	}
	return m
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func bootstrapped(t *testing.T, env *testEnv) Model {
	t.Helper()
	m := env.model()
	m = feed(t, m, m.Init())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 120})
	return next.(Model)
}

func fillForm(m Model, origin, destination string) Model {
	m.inputs[fieldOrigin].SetValue(origin)
	m.inputs[fieldDestination].SetValue(destination)
	return m
}

func TestModel_BootstrapWithoutSessionQuits(t *testing.T) {
	env := newTestEnv(t, false)
	m := env.model()

	messages := runCmd(m.Init())
	if len(messages) != 1 {
		t.Fatalf("Init produced %d messages, want 1", len(messages))
	}
	boot, ok := messages[0].(msg.BootstrappedMsg)
	if !ok || !apperrors.Is(boot.Err, apperrors.ErrNoSession) {
		t.Fatalf("Init message = %#v, want BootstrappedMsg with ErrNoSession", messages[0])
	}

	next, cmd := m.Update(boot)
	if !next.(Model).NeedsLogin() {
		t.Error("NeedsLogin() = false, want true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_EnterGeneratesPlan(t *testing.T) {
	env := newTestEnv(t, true)
	m := fillForm(bootstrapped(t, env), "北京", "杭州")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start a generation")
	}
	m = feed(t, m, cmd)
	env.planner.Wait()

	req := env.backend.lastRequest()
	if req.Origin != "北京" || req.Destination != "杭州" || req.Language != "zh" {
		t.Errorf("request = %+v", req)
	}

	s := env.planner.Snapshot()
	if s.View != planner.ViewResult {
		t.Fatalf("view = %v, want result", s.View)
	}
	view := m.View()
	for _, want := range []string{"苏州", "黄山", "成都", "西湖骑行", "轻松的三日游"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_InvalidBudgetIsReported(t *testing.T) {
	env := newTestEnv(t, true)
	m := fillForm(bootstrapped(t, env), "北京", "杭州")
	m.inputs[fieldBudgetMin].SetValue("lots")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid budget must not start a generation")
	}
	if !m.statusIsErr || m.status == "" {
		t.Errorf("status = %q (err=%v), want an error", m.status, m.statusIsErr)
	}
}

func TestModel_NumberKeyRegeneratesForRecommendation(t *testing.T) {
	env := newTestEnv(t, true)
	m := fillForm(bootstrapped(t, env), "北京", "杭州")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = feed(t, m, cmd)
	env.planner.Wait()

	m, cmd = press(t, m, runes("1"))
	if cmd == nil {
		t.Fatal("1 should regenerate")
	}
	m = feed(t, m, cmd)
	env.planner.Wait()

	if got := env.backend.lastRequest().Destination; got != "苏州" {
		t.Errorf("regenerated destination = %q, want 苏州", got)
	}
	s := env.planner.Snapshot()
	if s.Active != "苏州" {
		t.Errorf("active = %q, want 苏州", s.Active)
	}
	for _, d := range s.Top {
		if d.Name == "苏州" {
			t.Error("active destination must not be listed as a recommendation")
		}
	}
	if !strings.Contains(m.View(), "杭州") {
		t.Error("previous destination should now be recommended")
	}
}

func TestModel_HistoryDeleteConfirmation(t *testing.T) {
	env := newTestEnv(t, true)
	env.backend.entries = []trip.HistoryEntry{
		{ID: "1", Query: trip.Request{Origin: "北京", Destination: "杭州", StartDate: "2026-11-01", Days: 3}},
		{ID: "2", Query: trip.Request{Origin: "上海", Destination: "成都", StartDate: "2026-12-01", Days: 4}},
	}
	m := bootstrapped(t, env)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.screen != screenHistory {
		t.Fatalf("screen = %v, want history", m.screen)
	}
	if !strings.Contains(m.View(), "上海 → 成都") {
		t.Error("history view should list entries")
	}
	if !strings.Contains(m.View(), "更新于 ") {
		t.Error("history view should show when the list was refreshed")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, runes("d"))
	if m.screen != screenConfirm || m.pendingID != "2" {
		t.Fatalf("screen = %v pending = %q, want confirm for 2", m.screen, m.pendingID)
	}

	m, cmd := press(t, m, runes("n"))
	if cmd != nil {
		t.Error("declining must not delete")
	}
	if m.screen != screenHistory || env.history.Len() != 2 {
		t.Errorf("after decline screen = %v len = %d", m.screen, env.history.Len())
	}

	m, _ = press(t, m, runes("d"))
	m, cmd = press(t, m, runes("y"))
	m = feed(t, m, cmd)

	if env.history.Len() != 1 {
		t.Errorf("history len = %d, want 1", env.history.Len())
	}
	if len(env.backend.deleted) != 1 || env.backend.deleted[0] != "2" {
		t.Errorf("deleted = %v, want [2]", env.backend.deleted)
	}
	if m.historyCursor != 0 {
		t.Errorf("historyCursor = %d, want 0", m.historyCursor)
	}
}

func TestModel_HistoryEnterLoadsEntry(t *testing.T) {
	env := newTestEnv(t, true)
	env.backend.entries = []trip.HistoryEntry{{
		ID:     "7",
		Query:  trip.Request{Origin: "广州", Destination: "桂林", StartDate: "2026-11-02", Days: 2, Travelers: 3, Pace: "slow"},
		Result: &trip.Result{DailyPlan: []trip.DayPlan{{Day: 1}}},
	}}
	m := bootstrapped(t, env)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.screen != screenPlanner {
		t.Errorf("screen = %v, want planner", m.screen)
	}
	if got := m.inputs[fieldOrigin].Value(); got != "广州" {
		t.Errorf("origin input = %q, want 广州", got)
	}
	if got := m.inputs[fieldTravelers].Value(); got != "3" {
		t.Errorf("travelers input = %q, want 3", got)
	}
	if env.planner.Snapshot().View != planner.ViewResult {
		t.Error("an entry with a result should show the result view")
	}
}

func TestModel_LocaleToggle(t *testing.T) {
	env := newTestEnv(t, true)
	m := bootstrapped(t, env)
	if !strings.Contains(m.View(), "中文") {
		t.Fatal("expected Chinese header before toggle")
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	m = feed(t, m, cmd)

	if env.locale.Locale() != i18n.EN {
		t.Fatalf("locale = %v, want en", env.locale.Locale())
	}
	view := m.View()
	if !strings.Contains(view, "English") || !strings.Contains(view, "Trip request") {
		t.Error("View() should render English labels after toggle")
	}
	if got := m.inputs[fieldConstraints].Value(); got != "Not too tiring, avoid crowds" {
		t.Errorf("constraints = %q, want the English default", got)
	}
}

func TestModel_PreferenceAndPaceKeys(t *testing.T) {
	env := newTestEnv(t, true)
	m := bootstrapped(t, env)

	for m.focus != fieldPreferences {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})

	if d := env.planner.Snapshot().Draft; !d.HasPreference(trip.PrefHistory) {
		t.Errorf("preferences = %v, want history selected", d.Preferences)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldPace {
		t.Fatalf("focus = %v, want pace", m.focus)
	}
	_, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if got := env.planner.Snapshot().Draft.Pace; got != trip.PaceFast {
		t.Errorf("pace = %q, want fast", got)
	}
}

func TestModel_LogoutNeedsLogin(t *testing.T) {
	env := newTestEnv(t, true)
	m := bootstrapped(t, env)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	var quit bool
	for _, message := range runCmd(cmd) {
		next, c := m.Update(message)
		m = next.(Model)
		if c != nil {
			_, quit = c().(tea.QuitMsg)
		}
	}
	if !m.NeedsLogin() || !quit {
		t.Errorf("NeedsLogin() = %v quit = %v, want both true", m.NeedsLogin(), quit)
	}
	if env.planner.Snapshot().Session.Valid() {
		t.Error("session should be cleared")
	}
}

func TestNextPace(t *testing.T) {
	tests := []struct {
		from trip.Pace
		step int
		want trip.Pace
	}{
		{trip.PaceSlow, 1, trip.PaceNormal},
		{trip.PaceFast, 1, trip.PaceSlow},
		{trip.PaceSlow, -1, trip.PaceFast},
		{"", 1, trip.PaceNormal},
	}
	for _, tt := range tests {
		if got := nextPace(tt.from, tt.step); got != tt.want {
			t.Errorf("nextPace(%q, %d) = %q, want %q", tt.from, tt.step, got, tt.want)
		}
	}
}

func TestCommitInputs(t *testing.T) {
	inputs := newInputs()
	inputs[fieldOrigin].SetValue("  北京 ")
	inputs[fieldDays].SetValue("4")
	inputs[fieldTravelers].SetValue("x")
	inputs[fieldBudgetMax].SetValue("3000")

	d := trip.NewDraft("")
	if err := commitInputs(inputs, &d); err != nil {
		t.Fatalf("commitInputs() error: %v", err)
	}
	if d.Origin != "北京" || d.Days != 4 || d.Travelers != 0 {
		t.Errorf("draft = %+v", d)
	}
	if d.BudgetMin != nil || d.BudgetMax == nil || *d.BudgetMax != 3000 {
		t.Errorf("budgets = %v/%v", d.BudgetMin, d.BudgetMax)
	}

	inputs[fieldBudgetMin].SetValue("-")
	if err := commitInputs(inputs, &d); err == nil {
		t.Error("expected an error for a non-numeric budget")
	}
}
