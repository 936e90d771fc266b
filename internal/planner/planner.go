package planner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/etravel/internal/errors"
	"github.com/Iron-Ham/etravel/internal/export"
	"github.com/Iron-Ham/etravel/internal/history"
	"github.com/Iron-Ham/etravel/internal/i18n"
	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/session"
	"github.com/Iron-Ham/etravel/internal/trip"
)

// View is the screen currently shown.
type View int

const (
	// ViewForm is the request form.
	ViewForm View = iota
	// ViewResult is the generated plan.
	ViewResult
)

// String returns the view name for logs.
func (v View) String() string {
	if v == ViewResult {
		return "result"
	}
	return "form"
}

// Backend is the subset of the API client the orchestrator calls directly.
type Backend interface {
	GeneratePlan(ctx context.Context, token string, req trip.Request) (*trip.Result, error)
	Preferences(ctx context.Context, token string) (trip.Preferences, error)
}

// Sessions loads and clears the persisted session.
type Sessions interface {
	Load(ctx context.Context) (session.Session, error)
	Clear(ctx context.Context) error
}

// Navigator moves the user away from the planner.
type Navigator interface {
	// ToLogin is called when there is no session and after logout.
	ToLogin()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

// ToLogin calls f.
func (f NavigatorFunc) ToLogin() { f() }

// Deps wires the orchestrator to its collaborators.
type Deps struct {
	Backend   Backend
	Sessions  Sessions
	History   *history.Cache
	Locale    *i18n.Provider
	Navigator Navigator
	Logger    *logging.Logger
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// State is a snapshot of everything the planner screen renders.
type State struct {
	Session session.Session
	Draft   trip.Draft
	View    View
	Loading bool

	// Result is the displayed plan; nil when nothing is shown.
	Result *trip.Result
	// Top is the recommendation list shown next to Result.
	Top []trip.Destination
	// Active is the destination Result was generated for.
	Active string
	// Query is the request Result was generated from.
	Query trip.Request

	// Err is the last failure and Message its localized text.
	Err     error
	Message string

	// FormOpened is the date past start dates are checked against.
	FormOpened time.Time
}

// Orchestrator owns the planner state. It is safe for concurrent use.
type Orchestrator struct {
	mu sync.Mutex

	backend  Backend
	sessions Sessions
	history  *history.Cache
	locale   *i18n.Provider
	nav      Navigator
	logger   *logging.Logger
	now      func() time.Time

	session      session.Session
	bootstrapped bool
	draft        trip.Draft
	view         View
	loading      bool
	result       *trip.Result
	top          []trip.Destination
	active       string
	query        trip.Request
	err          error
	message      string
	formOpened   time.Time

	listeners []func()
	refreshes sync.WaitGroup
}

// New creates an orchestrator with a fresh draft. Bootstrap must be called
// before generating.
func New(deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	nav := deps.Navigator
	if nav == nil {
		nav = NavigatorFunc(func() {})
	}

	o := &Orchestrator{
		backend:  deps.Backend,
		sessions: deps.Sessions,
		history:  deps.History,
		locale:   deps.Locale,
		nav:      nav,
		logger:   logger.WithOperation("planner"),
		now:      now,
	}
	o.formOpened = now()
	o.draft = trip.NewDraft(o.locale.T("form.default_constraints", nil))
	o.draft.StartDate = o.formOpened.Format(trip.DateLayout)

	o.locale.OnChange(o.localeChanged)
	return o
}

// OnChange registers fn to run after every state change. fn runs without the
// orchestrator lock held and may call Snapshot.
func (o *Orchestrator) OnChange(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	listeners := append([]func(){}, o.listeners...)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	draft := o.draft
	draft.Preferences = append([]string{}, o.draft.Preferences...)
	return State{
		Session:    o.session,
		Draft:      draft,
		View:       o.view,
		Loading:    o.loading,
		Result:     o.result,
		Top:        append([]trip.Destination(nil), o.top...),
		Active:     o.active,
		Query:      o.query,
		Err:        o.err,
		Message:    o.message,
		FormOpened: o.formOpened,
	}
}

// Bootstrap loads the persisted session. Without one it navigates to login and
// returns errors.ErrNoSession without touching the network. With one it
// hydrates preferences and history exactly once per session; hydration
// failures are logged and otherwise ignored.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	sess, err := o.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrNoSession) {
			o.logger.Info("no session, redirecting to login")
			o.nav.ToLogin()
		}
		return err
	}

	o.mu.Lock()
	if o.bootstrapped && o.session.Token == sess.Token {
		o.mu.Unlock()
		return nil
	}
	o.session = sess
	o.bootstrapped = true
	o.mu.Unlock()

	o.logger.WithUser(sess.Email).Info("session established")
	o.hydratePreferences(ctx, sess.Token)
	if o.history != nil {
		_ = o.history.Refresh(ctx, sess.Token)
	}
	o.notify()
	return nil
}

func (o *Orchestrator) hydratePreferences(ctx context.Context, token string) {
	prefs, err := o.backend.Preferences(ctx, token)
	if err != nil {
		o.logger.Debug("preference hydration skipped", "error", err)
		return
	}

	o.mu.Lock()
	prefs.ApplyTo(&o.draft)
	o.mu.Unlock()
	o.logger.Debug("preferences hydrated")
}

// UpdateDraft applies fn to the draft. Edits are refused while a generation
// is in flight.
func (o *Orchestrator) UpdateDraft(fn func(d *trip.Draft)) error {
	o.mu.Lock()
	if o.loading {
		o.mu.Unlock()
		return errors.ErrGenerationInFlight
	}
	fn(&o.draft)
	o.mu.Unlock()
	o.notify()
	return nil
}

// Generate validates the draft and requests a plan. forced, when non-empty,
// replaces the destination for this call only; if a result is already shown
// it stays visible until the new one arrives.
//
// A call made while another is pending returns errors.ErrGenerationInFlight
// and makes no request. Every other failure is also recorded in the state
// with a localized message.
func (o *Orchestrator) Generate(ctx context.Context, forced string) error {
	forced = strings.TrimSpace(forced)

	o.mu.Lock()
	if o.loading {
		o.mu.Unlock()
		o.logger.Debug("generation dropped, another is in flight")
		return errors.ErrGenerationInFlight
	}
	if !o.session.Valid() {
		o.mu.Unlock()
		return o.fail(errors.ErrNoSession)
	}
	if err := o.draft.Validate(o.formOpened); err != nil {
		o.mu.Unlock()
		return o.fail(err)
	}

	o.loading = true
	o.err = nil
	o.message = ""
	if forced == "" || o.result == nil {
		o.result = nil
		o.top = nil
	}
	locale, generation := o.locale.Current()
	req := o.draft.Request(forced, locale.String())
	token := o.session.Token
	email := o.session.Email
	o.mu.Unlock()
	o.notify()

	logger := o.logger.WithUser(email).With("origin", req.Origin, "destination", req.Destination, "locale", locale)
	logger.Info("generating plan", "forced", forced != "")

	result, err := o.backend.GeneratePlan(ctx, token, req)

	o.mu.Lock()
	o.loading = false
	switch {
	case o.session.Token != token:
		o.mu.Unlock()
		logger.Info("discarding result, session ended while in flight")
		o.notify()
		return errors.ErrNoSession

	case err != nil:
		o.err = err
		o.message = o.locale.Error(err)
		o.mu.Unlock()
		logFailure(logger, "generation failed", err)
		o.notify()
		return err

	case o.locale.Generation() != generation:
		o.result = nil
		o.top = nil
		o.active = ""
		o.view = ViewForm
		o.mu.Unlock()
		logger.Info("discarding result generated in previous locale")
		o.notify()
		return errors.ErrLocaleChanged
	}

	o.result = result
	o.top = trip.TopDestinations(result.TopDestinations, req.Destination)
	o.active = req.Destination
	o.query = req
	o.view = ViewResult
	o.mu.Unlock()

	logger.Info("plan generated", "days", len(result.DailyPlan))
	o.notify()
	o.refreshHistory(ctx, token)
	return nil
}

// fail records err as the displayed error and returns it.
func (o *Orchestrator) fail(err error) error {
	o.mu.Lock()
	o.err = err
	o.message = o.locale.Error(err)
	email := o.session.Email
	o.mu.Unlock()
	logFailure(o.logger.WithUser(email), "generation rejected", err)
	o.notify()
	return err
}

// logFailure logs err at the level matching its severity.
func logFailure(logger *logging.Logger, msg string, err error) {
	switch errors.GetSeverity(err) {
	case errors.SeverityDebug:
		logger.Debug(msg, "error", err)
	case errors.SeverityInfo:
		logger.Info(msg, "error", err)
	case errors.SeverityWarning:
		logger.Warn(msg, "error", err)
	default:
		logger.Error(msg, "error", err)
	}
}

// refreshHistory refreshes the history cache in the background. Failures
// never affect the displayed result.
func (o *Orchestrator) refreshHistory(ctx context.Context, token string) {
	if o.history == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	o.refreshes.Add(1)
	go func() {
		defer o.refreshes.Done()
		if err := o.history.Refresh(ctx, token); err != nil {
			return
		}
		o.notify()
	}()
}

// Wait blocks until background history refreshes have finished.
func (o *Orchestrator) Wait() {
	o.refreshes.Wait()
}

// ApplyEntry restores a history entry: the draft is rebuilt from the stored
// query, and the stored result, when present, is shown for the entry's
// destination. Refused while a generation is in flight.
func (o *Orchestrator) ApplyEntry(entry trip.HistoryEntry) error {
	o.mu.Lock()
	if o.loading {
		o.mu.Unlock()
		return errors.ErrGenerationInFlight
	}

	o.draft = trip.DraftFromRequest(entry.Query)
	o.err = nil
	o.message = ""
	if entry.Result != nil {
		o.result = entry.Result
		o.top = trip.TopDestinations(entry.Result.TopDestinations, entry.Query.Destination)
		o.active = entry.Query.Destination
		o.query = entry.Query
		o.view = ViewResult
	} else {
		o.result = nil
		o.top = nil
		o.active = ""
		o.view = ViewForm
	}
	o.mu.Unlock()

	o.logger.Info("history entry applied", "id", entry.ID)
	o.notify()
	return nil
}

// ApplyHistory looks up id in the history cache and applies it.
func (o *Orchestrator) ApplyHistory(id trip.EntryID) error {
	if o.history == nil {
		return errors.ErrEntryNotFound
	}
	entry, ok := o.history.Get(id)
	if !ok {
		return errors.ErrEntryNotFound
	}
	return o.ApplyEntry(entry)
}

// DeleteHistory deletes a history entry after confirm approves it.
func (o *Orchestrator) DeleteHistory(ctx context.Context, id trip.EntryID, confirm history.Confirmer) error {
	o.mu.Lock()
	token := o.session.Token
	o.mu.Unlock()

	err := o.history.Delete(ctx, token, id, confirm)
	if err != nil {
		logFailure(o.logger, "history delete failed", err)
	}
	if err != nil && !errors.Is(err, errors.ErrConfirmationDeclined) {
		o.mu.Lock()
		o.err = err
		o.message = o.locale.Error(err)
		o.mu.Unlock()
	}
	o.notify()
	return err
}

// ShowForm returns to the request form, keeping the displayed result so
// ShowResult can go back to it.
func (o *Orchestrator) ShowForm() {
	o.mu.Lock()
	o.view = ViewForm
	o.mu.Unlock()
	o.notify()
}

// ShowResult switches to the result view if a result is displayed.
func (o *Orchestrator) ShowResult() bool {
	o.mu.Lock()
	ok := o.result != nil
	if ok {
		o.view = ViewResult
	}
	o.mu.Unlock()
	if ok {
		o.notify()
	}
	return ok
}

// ClearError dismisses the displayed error.
func (o *Orchestrator) ClearError() {
	o.mu.Lock()
	o.err = nil
	o.message = ""
	o.mu.Unlock()
	o.notify()
}

// SetLocale switches the active locale. A change drops the displayed result
// and returns to the form.
func (o *Orchestrator) SetLocale(ctx context.Context, l i18n.Locale) error {
	return o.locale.Set(ctx, l)
}

// ToggleLocale switches between the supported locales.
func (o *Orchestrator) ToggleLocale(ctx context.Context) error {
	return o.locale.Set(ctx, o.locale.Locale().Next())
}

func (o *Orchestrator) localeChanged(l i18n.Locale) {
	catalog := o.locale.Catalog()

	o.mu.Lock()
	o.result = nil
	o.top = nil
	o.active = ""
	o.view = ViewForm
	o.err = nil
	o.message = ""
	// Swap the placeholder constraints only if the user never edited them.
	for _, other := range i18n.Supported() {
		if other != l && o.draft.ConstraintsText == catalog.Translate(other, "form.default_constraints", nil) {
			o.draft.ConstraintsText = catalog.Translate(l, "form.default_constraints", nil)
			break
		}
	}
	o.mu.Unlock()

	o.logger.Debug("locale switched, view reset", "locale", l)
	o.notify()
}

// Logout clears the persisted session and cached history, resets the screen
// and navigates to login. No server call is made.
func (o *Orchestrator) Logout(ctx context.Context) error {
	err := o.sessions.Clear(ctx)
	if o.history != nil {
		o.history.Clear()
	}

	o.mu.Lock()
	o.session = session.Session{}
	o.bootstrapped = false
	o.result = nil
	o.top = nil
	o.active = ""
	o.query = trip.Request{}
	o.view = ViewForm
	o.err = nil
	o.message = ""
	o.draft = trip.NewDraft(o.locale.T("form.default_constraints", nil))
	o.draft.StartDate = o.formOpened.Format(trip.DateLayout)
	o.mu.Unlock()

	o.logger.Info("logged out")
	o.nav.ToLogin()
	o.notify()
	return err
}

// Document returns the displayed plan as an export document.
func (o *Orchestrator) Document() (export.Document, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.result == nil {
		return export.Document{}, errors.ErrNoResult
	}
	return export.Document{Query: o.query, Result: *o.result}, nil
}
