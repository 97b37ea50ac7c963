package i18n

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Catalog resolves (locale, message key) pairs to localized text. Lookups
// fall back along the locale's parent chain (pt-BR → pt), then to the
// catalog's default locale. A catalog is immutable once handed to a
// pipeline; build it fully before registering interceptors that use it.
type Catalog struct {
	fallback language.Tag
	messages map[string]map[string]string
}

// catalogFile is the on-disk YAML shape.
type catalogFile struct {
	Default string                       `yaml:"default"`
	Locales map[string]map[string]string `yaml:"locales"`
}

// CatalogOption configures catalog loading
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	charset  string
	fallback language.Tag
	hasFall  bool
}

// WithCharset declares the charset the catalog file is stored in, by IANA
// label (for example "ISO-8859-1"). The file is re-encoded to UTF-8 while
// loading. Without it the file is read as UTF-8.
func WithCharset(label string) CatalogOption {
	return func(c *catalogConfig) {
		c.charset = label
	}
}

// WithFallback overrides the default locale declared in the file.
func WithFallback(tag language.Tag) CatalogOption {
	return func(c *catalogConfig) {
		c.fallback = tag
		c.hasFall = true
	}
}

// NewCatalog creates an empty catalog with the given default locale.
func NewCatalog(fallback language.Tag) *Catalog {
	return &Catalog{
		fallback: fallback,
		messages: make(map[string]map[string]string),
	}
}

// LoadCatalog reads a YAML catalog file:
//
//	default: en
//	locales:
//	  en:
//	    greeting: "Hello"
//	  fr:
//	    greeting: "Bonjour"
func LoadCatalog(path string, opts ...CatalogOption) (*Catalog, error) {
	var cfg catalogConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: reading catalog: %w", err)
	}

	text := string(raw)
	if cfg.charset != "" {
		enc, err := EncodingByName(cfg.charset)
		if err != nil {
			return nil, err
		}
		text, err = DecodeText(raw, enc)
		if err != nil {
			return nil, fmt.Errorf("i18n: re-encoding catalog from %s: %w", cfg.charset, err)
		}
	}

	var file catalogFile
	if err := yaml.Unmarshal([]byte(text), &file); err != nil {
		return nil, fmt.Errorf("i18n: parsing catalog: %w", err)
	}

	fallback := cfg.fallback
	if !cfg.hasFall {
		if file.Default == "" {
			return nil, fmt.Errorf("i18n: catalog %s declares no default locale", path)
		}
		fallback, err = language.Parse(file.Default)
		if err != nil {
			return nil, fmt.Errorf("i18n: invalid default locale %q: %w", file.Default, err)
		}
	}

	catalog := NewCatalog(fallback)
	for locale, entries := range file.Locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("i18n: invalid locale %q: %w", locale, err)
		}
		for key, message := range entries {
			catalog.Add(tag, key, message)
		}
	}
	return catalog, nil
}

// Fallback returns the catalog's default locale.
func (c *Catalog) Fallback() language.Tag { return c.fallback }

// Add registers a message for a locale.
func (c *Catalog) Add(tag language.Tag, key, text string) {
	locale := tag.String()
	if c.messages[locale] == nil {
		c.messages[locale] = make(map[string]string)
	}
	c.messages[locale][key] = text
}

// Locales returns every locale with at least one message, sorted by tag.
func (c *Catalog) Locales() []language.Tag {
	raw := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		raw = append(raw, locale)
	}
	sort.Strings(raw)

	tags := make([]language.Tag, 0, len(raw))
	for _, locale := range raw {
		tags = append(tags, language.Make(locale))
	}
	return tags
}

// Lookup resolves a message key for a locale, walking the parent chain and
// finally the default locale before giving up.
func (c *Catalog) Lookup(tag language.Tag, key string) (string, bool) {
	if text, ok := c.lookupChain(tag, key); ok {
		return text, true
	}
	if tag != c.fallback {
		return c.lookupChain(c.fallback, key)
	}
	return "", false
}

func (c *Catalog) lookupChain(tag language.Tag, key string) (string, bool) {
	for t := tag; t != language.Und; t = t.Parent() {
		if text, ok := c.messages[t.String()][key]; ok {
			return text, true
		}
	}
	return "", false
}
