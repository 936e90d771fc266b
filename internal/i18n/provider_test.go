package i18n

import (
	"context"
	"testing"

	"github.com/Iron-Ham/etravel/internal/storage"
)

func TestNewProvider_RestoresPersistedLocale(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = storage.SetString(ctx, store, storage.KeyLanguage, "en")

	p := NewProvider(ctx, store, nil, ZH, nil)
	if p.Locale() != EN {
		t.Errorf("Locale() = %q, want en", p.Locale())
	}
}

func TestNewProvider_Fallbacks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		stored   string
		fallback Locale
		want     Locale
	}{
		{"nothing stored uses fallback", "", EN, EN},
		{"unsupported stored value ignored", "fr", EN, EN},
		{"invalid fallback uses default", "", Locale("xx"), Default},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			if tt.stored != "" {
				_ = storage.SetString(ctx, store, storage.KeyLanguage, tt.stored)
			}
			p := NewProvider(ctx, store, nil, tt.fallback, nil)
			if p.Locale() != tt.want {
				t.Errorf("Locale() = %q, want %q", p.Locale(), tt.want)
			}
		})
	}
}

func TestProvider_Set(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := NewProvider(ctx, store, nil, ZH, nil)

	var seen []Locale
	p.OnChange(func(l Locale) { seen = append(seen, l) })

	if err := p.Set(ctx, EN); err != nil {
		t.Fatalf("Set(en) error: %v", err)
	}
	if err := p.Set(ctx, EN); err != nil {
		t.Fatalf("Set(en) again error: %v", err)
	}

	if p.Locale() != EN {
		t.Errorf("Locale() = %q, want en", p.Locale())
	}
	if p.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1 (repeat Set is a no-op)", p.Generation())
	}
	if len(seen) != 1 || seen[0] != EN {
		t.Errorf("listeners saw %v, want [en]", seen)
	}

	saved, ok, _ := storage.GetString(ctx, store, storage.KeyLanguage)
	if !ok || saved != "en" {
		t.Errorf("persisted language = (%q, %v), want (en, true)", saved, ok)
	}

	if got := p.T("lang.name", nil); got != "English" {
		t.Errorf("T(lang.name) = %q, want English", got)
	}
}

func TestProvider_CurrentIsConsistent(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(ctx, storage.NewMemoryStore(), nil, ZH, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = p.Set(ctx, p.Locale().Next())
		}
	}()

	// Every switch alternates zh and en, so an even generation is always zh.
	for {
		l, gen := p.Current()
		if (gen%2 == 0) != (l == ZH) {
			t.Fatalf("Current() = (%q, %d), locale and generation disagree", l, gen)
		}
		select {
		case <-done:
			l, gen = p.Current()
			if l != ZH || gen != 200 {
				t.Errorf("Current() = (%q, %d), want (zh, 200)", l, gen)
			}
			return
		default:
		}
	}
}

func TestProvider_SetRejectsUnsupported(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(ctx, storage.NewMemoryStore(), nil, ZH, nil)

	if err := p.Set(ctx, Locale("fr")); err != ErrUnsupportedLocale {
		t.Errorf("Set(fr) error = %v, want ErrUnsupportedLocale", err)
	}
	if p.Locale() != ZH || p.Generation() != 0 {
		t.Error("rejected Set should not change state")
	}
}
