// Package rules holds the rule descriptions and the localized names of the
// priva variants.
package rules

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no available locale matches the request.
const DefaultLocale = "en"

//go:embed texts/*/*.md variants.yaml
var embeddedFS embed.FS

var variantNames = mustLoadVariants(embeddedFS)

func mustLoadVariants(fsys fs.FS) map[string]map[string]string {
	names, err := loadVariants(fsys)
	if err != nil {
		panic(err)
	}
	return names
}

func loadVariants(fsys fs.FS) (map[string]map[string]string, error) {
	data, err := fs.ReadFile(fsys, "variants.yaml")
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}
	var names map[string]map[string]string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	for kind, byLocale := range names {
		if _, ok := byLocale[DefaultLocale]; !ok {
			return nil, fmt.Errorf("variant %s: no %s name", kind, DefaultLocale)
		}
	}
	return names, nil
}

// Text returns the rules of a package in the locale closest to the
// requested one. It reports false when the package has no rules at all.
func Text(pkg, locale string) (string, bool) {
	available := Locales(pkg)
	if len(available) == 0 {
		return "", false
	}
	chosen := Resolve(available, locale)
	data, err := embeddedFS.ReadFile(path.Join("texts", pkg, "rules-"+chosen+".md"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Locales lists the locales a package has rules for.
func Locales(pkg string) []string {
	paths, err := fs.Glob(embeddedFS, path.Join("texts", pkg, "rules-*.md"))
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, strings.TrimSuffix(strings.TrimPrefix(path.Base(p), "rules-"), ".md"))
	}
	sort.Strings(out)
	return out
}

// DisplayName is the localized name of a variant, or the kind itself when
// the variant is unknown.
func DisplayName(kind, locale string) string {
	byLocale, ok := variantNames[kind]
	if !ok {
		return kind
	}
	available := make([]string, 0, len(byLocale))
	for loc := range byLocale {
		available = append(available, loc)
	}
	sort.Strings(available)
	return byLocale[Resolve(available, locale)]
}

// Resolve picks one of the available locales for a request. An exact match
// wins, ignoring case and whether "-" or "_" separates the subtags. Then a
// locale that extends the request or that the request extends, then one
// sharing the requested base language, then DefaultLocale and finally the
// first available locale.
func Resolve(available []string, requested string) string {
	if len(available) == 0 {
		return ""
	}
	want := normalize(requested)
	if want != "" {
		for _, loc := range available {
			if normalize(loc) == want {
				return loc
			}
		}
		for _, loc := range available {
			have := normalize(loc)
			if strings.HasPrefix(have, want+"_") || strings.HasPrefix(want, have+"_") {
				return loc
			}
		}
		if base := baseLanguage(want); base != "" {
			for _, loc := range available {
				if baseLanguage(normalize(loc)) == base {
					return loc
				}
			}
		}
	}
	for _, loc := range available {
		if normalize(loc) == DefaultLocale {
			return loc
		}
	}
	return available[0]
}

func normalize(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "-", "_"))
}

func baseLanguage(locale string) string {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}
