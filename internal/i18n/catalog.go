package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/etravel/internal/errors"
)

//go:embed locales/*.yaml
var bundleFS embed.FS

// Vars supplies values for {name} placeholders in a message.
type Vars map[string]any

// bundle is the on-disk shape of a locale file.
type bundle struct {
	// Messages maps message keys to text.
	Messages map[string]string `yaml:"messages"`
	// Details maps raw server error details to user-facing text.
	Details map[string]string `yaml:"details"`
}

// Catalog holds the messages of every supported locale.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	bundles map[Locale]bundle
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalog built from the embedded bundles.
// The embedded files are part of the binary, so a parse failure is a build
// defect and panics.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog()
	})
	if defaultCatalogErr != nil {
		panic(fmt.Sprintf("i18n: embedded bundles are invalid: %v", defaultCatalogErr))
	}
	return defaultCatalog
}

// LoadCatalog parses the embedded locale bundles.
func LoadCatalog() (*Catalog, error) {
	c := &Catalog{bundles: make(map[Locale]bundle, len(supported))}
	for _, l := range supported {
		data, err := bundleFS.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read bundle %s: %w", l, err)
		}
		b, err := parseBundle(data)
		if err != nil {
			return nil, fmt.Errorf("parse bundle %s: %w", l, err)
		}
		c.bundles[l] = b
	}
	return c, nil
}

// NewCatalog builds a catalog from raw YAML bundles keyed by locale.
func NewCatalog(raw map[Locale][]byte) (*Catalog, error) {
	c := &Catalog{bundles: make(map[Locale]bundle, len(raw))}
	for l, data := range raw {
		b, err := parseBundle(data)
		if err != nil {
			return nil, fmt.Errorf("parse bundle %s: %w", l, err)
		}
		c.bundles[l] = b
	}
	return c, nil
}

func parseBundle(data []byte) (bundle, error) {
	var b bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return bundle{}, err
	}
	if b.Messages == nil {
		b.Messages = map[string]string{}
	}
	if b.Details == nil {
		b.Details = map[string]string{}
	}
	return b, nil
}

// Translate returns the message for key in locale l with placeholders
// substituted. Lookup order is l, then Default, then the key itself.
func (c *Catalog) Translate(l Locale, key string, vars Vars) string {
	msg, ok := c.lookup(l, key)
	if !ok {
		msg, ok = c.lookup(Default, key)
	}
	if !ok {
		msg = key
	}
	return interpolate(msg, vars)
}

// Has reports whether key exists in locale l without fallback.
func (c *Catalog) Has(l Locale, key string) bool {
	_, ok := c.lookup(l, key)
	return ok
}

// Keys returns the sorted message keys of locale l.
func (c *Catalog) Keys(l Locale) []string {
	b := c.bundles[l]
	keys := make([]string, 0, len(b.Messages))
	for k := range b.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Catalog) lookup(l Locale, key string) (string, bool) {
	b, ok := c.bundles[l]
	if !ok {
		return "", false
	}
	msg, ok := b.Messages[key]
	return msg, ok
}

// ServerMessage maps a raw server error detail to user-facing text for l.
// Unmapped details are returned verbatim. An empty detail renders fallbackKey.
func (c *Catalog) ServerMessage(l Locale, detail, fallbackKey string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return c.Translate(l, fallbackKey, nil)
	}
	if b, ok := c.bundles[l]; ok {
		if msg, ok := b.Details[detail]; ok {
			return msg
		}
	}
	return detail
}

// ErrorMessage renders err for display in locale l. A server detail is only
// shown when the error is user facing; otherwise the generic text for its key
// is used.
func (c *Catalog) ErrorMessage(l Locale, err error) string {
	if err == nil {
		return ""
	}
	key, detail := errors.MessageKey(err)
	if detail != "" && errors.IsUserFacing(err) {
		return c.ServerMessage(l, detail, key)
	}
	return c.Translate(l, key, nil)
}

func interpolate(msg string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(vars)*2)
	for _, k := range names {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(vars[k]))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// T translates with the default catalog.
func T(l Locale, key string, vars Vars) string {
	return DefaultCatalog().Translate(l, key, vars)
}
