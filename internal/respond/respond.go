package respond

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Responder resolves message keys to templates in a guild's language.
// Templates carry {name} placeholders. A key missing from the requested
// language falls back to the default language; a key missing everywhere
// resolves to the key itself so a bad lookup stays visible instead of
// sending an empty message.
type Responder struct {
	fallback string
	locales  map[string]map[string]string
}

func New(fallback string) (*Responder, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	locales := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		lang := strings.TrimSuffix(name, ".yaml")
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, err
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("respond: locale %s: %w", lang, err)
		}

		flat := make(map[string]string)
		flatten("", raw, flat)
		locales[lang] = flat
	}

	if _, ok := locales[fallback]; !ok {
		return nil, fmt.Errorf("respond: no locale pack for fallback language %q", fallback)
	}
	return &Responder{fallback: fallback, locales: locales}, nil
}

func flatten(prefix string, raw map[string]any, out map[string]string) {
	for k, v := range raw {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch value := v.(type) {
		case map[string]any:
			flatten(key, value, out)
		case string:
			out[key] = value
		default:
			out[key] = fmt.Sprint(value)
		}
	}
}

// Languages lists the available locale packs, sorted.
func (r *Responder) Languages() []string {
	langs := make([]string, 0, len(r.locales))
	for lang := range r.locales {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (r *Responder) Has(lang string) bool {
	_, ok := r.locales[lang]
	return ok
}

// Get resolves key in lang and substitutes the placeholder values.
func (r *Responder) Get(lang, key string, vars map[string]string) string {
	template, ok := r.locales[lang][key]
	if !ok {
		template, ok = r.locales[r.fallback][key]
	}
	if !ok {
		return key
	}

	for name, value := range vars {
		template = strings.ReplaceAll(template, "{"+name+"}", value)
	}
	return template
}
