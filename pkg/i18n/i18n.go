package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Locale is a supported language tag
type Locale string

const (
	LocaleEn Locale = "en"
	LocaleKo Locale = "ko"
)

var defaultLocale = LocaleEn

// Bundle is a set of message catalogs keyed by locale
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[Locale]map[string]string
	fallback Locale
}

// NewBundle returns an empty bundle that falls back to fallback
func NewBundle(fallback Locale) *Bundle {
	return &Bundle{catalogs: make(map[Locale]map[string]string), fallback: fallback}
}

// LoadDir merges every <locale>.json, .yaml or .yml file in dir into the
// bundle. Keys in a file override the same keys already loaded; other keys
// are kept, so a file only needs the messages it changes.
func (b *Bundle) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("i18n: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".json" && ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("i18n: %w", err)
		}
		// JSON 도 YAML 파서로 읽힌다
		var msgs map[string]string
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("i18n: parse %s: %w", path, err)
		}
		b.LoadMessages(Locale(strings.TrimSuffix(entry.Name(), ext)), msgs)
	}
	return nil
}

// LoadMessages merges messages into the locale's catalog
func (b *Bundle) LoadMessages(locale Locale, messages map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	catalog := b.catalogs[locale]
	if catalog == nil {
		catalog = make(map[string]string, len(messages))
		b.catalogs[locale] = catalog
	}
	for k, v := range messages {
		catalog[k] = v
	}
}

// T translates key, trying locale and then the fallback; an unknown key is returned as is
func (b *Bundle) T(locale Locale, key string, args ...interface{}) string {
	if msg, ok := b.Lookup(locale, key, args...); ok {
		return msg
	}
	return key
}

// Lookup is T without the key fallback
func (b *Bundle) Lookup(locale Locale, key string, args ...interface{}) (string, bool) {
	b.mu.RLock()
	msg, ok := b.catalogs[locale][key]
	if !ok {
		msg, ok = b.catalogs[b.fallback][key]
	}
	b.mu.RUnlock()

	if !ok {
		return "", false
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg, true
}

var (
	defaultBundle     *Bundle
	defaultBundleOnce sync.Once
)

// Default returns the process-wide bundle preloaded with DefaultMessages
func Default() *Bundle {
	defaultBundleOnce.Do(func() {
		defaultBundle = NewBundle(defaultLocale)
		for locale, msgs := range DefaultMessages() {
			defaultBundle.LoadMessages(locale, msgs)
		}
	})
	return defaultBundle
}

// ParseAcceptLanguage picks the supported locale with the highest q weight.
// Ties keep header order; nothing supported yields the default locale.
func ParseAcceptLanguage(header string) Locale {
	type candidate struct {
		locale Locale
		q      float64
	}
	var found []candidate

	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				q = parsed
			}
		}
		if q <= 0 {
			continue
		}
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		switch Locale(base) {
		case LocaleEn, LocaleKo:
			found = append(found, candidate{Locale(base), q})
		}
	}

	if len(found) == 0 {
		return defaultLocale
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].q > found[j].q })
	return found[0].locale
}
