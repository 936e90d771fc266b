package i18n

import (
	"context"
	"sync"

	"github.com/Iron-Ham/etravel/internal/logging"
	"github.com/Iron-Ham/etravel/internal/storage"
)

// Provider holds the active locale and persists every change under
// storage.KeyLanguage. It is safe for concurrent use.
type Provider struct {
	mu         sync.RWMutex
	store      storage.Store
	catalog    *Catalog
	logger     *logging.Logger
	locale     Locale
	generation uint64
	listeners  []func(Locale)
}

// NewProvider restores the persisted locale from store, falling back to
// fallback (and then Default) when nothing valid is stored. Read failures are
// logged and treated as "nothing stored".
func NewProvider(ctx context.Context, store storage.Store, catalog *Catalog, fallback Locale, logger *logging.Logger) *Provider {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	if !fallback.Valid() {
		fallback = Default
	}

	p := &Provider{
		store:   store,
		catalog: catalog,
		logger:  logger.WithOperation("locale"),
		locale:  fallback,
	}

	saved, ok, err := storage.GetString(ctx, store, storage.KeyLanguage)
	switch {
	case err != nil:
		p.logger.Warn("failed to read persisted language", "error", err)
	case ok && Locale(saved).Valid():
		p.locale = Locale(saved)
	case ok:
		p.logger.Debug("ignoring unsupported persisted language", "value", saved)
	}
	return p
}

// Locale returns the active locale.
func (p *Provider) Locale() Locale {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.locale
}

// Generation increments on every effective locale change. Callers snapshot it
// before a long operation to detect a switch that happened meanwhile.
func (p *Provider) Generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.generation
}

// Current returns the active locale together with its generation, read
// atomically with respect to Set.
func (p *Provider) Current() (Locale, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.locale, p.generation
}

// Catalog returns the message catalog.
func (p *Provider) Catalog() *Catalog {
	return p.catalog
}

// Set activates l and persists it. Setting the current locale is a no-op.
// The in-memory switch happens even if persisting fails; the error is
// returned so the caller can surface it.
func (p *Provider) Set(ctx context.Context, l Locale) error {
	if !l.Valid() {
		return ErrUnsupportedLocale
	}

	p.mu.Lock()
	if p.locale == l {
		p.mu.Unlock()
		return nil
	}
	p.locale = l
	p.generation++
	listeners := append([]func(Locale){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(l)
	}

	if err := storage.SetString(ctx, p.store, storage.KeyLanguage, string(l)); err != nil {
		p.logger.Error("failed to persist language", "locale", l, "error", err)
		return err
	}
	p.logger.Info("locale changed", "locale", l)
	return nil
}

// OnChange registers fn to run after every effective locale change.
// Listeners run on the goroutine that called Set.
func (p *Provider) OnChange(fn func(Locale)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// T translates key in the active locale.
func (p *Provider) T(key string, vars Vars) string {
	return p.catalog.Translate(p.Locale(), key, vars)
}

// Error renders err in the active locale.
func (p *Provider) Error(err error) string {
	return p.catalog.ErrorMessage(p.Locale(), err)
}
