// Package i18n resolves display strings by key. Lookups fall back to the
// default language and finally to the key itself.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	fallback string
	messages map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
}

// New loads the embedded catalogs. defaultLang must be one of them.
func New(defaultLang string) (*Translator, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	tr := &Translator{messages: make(map[string]map[string]string)}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		lang := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		raw, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", lang, err)
		}
		catalog := make(map[string]string)
		if err := json.Unmarshal(raw, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", lang, err)
		}
		tr.messages[lang] = catalog
		names = append(names, lang)
	}
	if _, ok := tr.messages[defaultLang]; !ok {
		return nil, fmt.Errorf("unknown default language %q", defaultLang)
	}
	tr.fallback = defaultLang

	// the matcher prefers its first tag, so the default goes first
	sort.SliceStable(names, func(i, j int) bool { return names[i] == defaultLang && names[j] != defaultLang })
	for _, n := range names {
		tr.tags = append(tr.tags, language.Make(n))
	}
	tr.matcher = language.NewMatcher(tr.tags)
	return tr, nil
}

// Default returns the fallback language
func (tr *Translator) Default() string { return tr.fallback }

// Match picks the supported language for an Accept-Language header value
func (tr *Translator) Match(acceptLanguage string) string {
	wanted, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(wanted) == 0 {
		return tr.fallback
	}
	_, idx, conf := tr.matcher.Match(wanted...)
	if conf == language.No {
		return tr.fallback
	}
	base, _ := tr.tags[idx].Base()
	return base.String()
}

// T resolves key in lang and substitutes {name} placeholders from params
func (tr *Translator) T(lang, key string, params map[string]string) string {
	msg, ok := tr.messages[lang][key]
	if !ok {
		msg, ok = tr.messages[tr.fallback][key]
	}
	if !ok {
		return key
	}
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}
