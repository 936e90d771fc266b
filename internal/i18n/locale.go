// Package i18n provides the language model of the client: the supported
// locales, the embedded message catalogs, and a Provider that keeps the active
// locale persisted across runs.
//
// Translation is a total function. A key missing from the requested locale
// falls back to the default locale, and a key missing everywhere renders as
// the key itself, so a surface never shows an empty label.
package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale identifies a supported language.
type Locale string

// Supported locales.
const (
	ZH Locale = "zh"
	EN Locale = "en"
)

// Default is the locale used before anything has been chosen.
const Default = ZH

// ErrUnsupportedLocale is returned when a language tag matches no catalog.
var ErrUnsupportedLocale = errors.New("unsupported locale")

var (
	supported = []Locale{ZH, EN}
	matcher   = language.NewMatcher([]language.Tag{language.Chinese, language.English})
)

// Supported returns all locales with a catalog, default first.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// ParseLocale resolves a user or environment supplied language tag
// ("zh", "zh-CN", "en-US", "en;q=0.8") to a supported Locale.
func ParseLocale(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty tag", ErrUnsupportedLocale)
	}

	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, s)
	}

	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, s)
	}
	return supported[idx], nil
}

// Valid reports whether l is a supported locale.
func (l Locale) Valid() bool {
	for _, s := range supported {
		if l == s {
			return true
		}
	}
	return false
}

// HTMLLang returns the value for an html lang attribute.
func (l Locale) HTMLLang() string {
	if l == EN {
		return "en"
	}
	return "zh-CN"
}

// Next returns the locale a toggle switches to.
func (l Locale) Next() Locale {
	if l == EN {
		return ZH
	}
	return EN
}

func (l Locale) String() string {
	return string(l)
}
