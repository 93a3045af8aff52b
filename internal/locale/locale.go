// Package locale resolves the request language and carries localized names.
package locale

import (
	"golang.org/x/text/language"
)

// Lang is a supported UI language.
type Lang string

const (
	EN Lang = "en"
	BG Lang = "bg"
	FR Lang = "fr"
)

// Supported lists languages in matcher preference order.
var Supported = []Lang{EN, BG, FR}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Bulgarian, language.French})

// Resolve picks the supported language that best matches an
// Accept-Language style value. Empty or unparsable input yields fallback.
func Resolve(accept string, fallback Lang) Lang {
	if accept == "" {
		return fallback
	}
	if l, ok := Parse(accept); ok {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

// Parse accepts an exact supported code.
func Parse(v string) (Lang, bool) {
	switch Lang(v) {
	case EN, BG, FR:
		return Lang(v), true
	}
	return "", false
}

// Names holds a name per language.
type Names map[Lang]string

// Pick returns the name for l, falling back to English and then to any
// non-empty name.
func (n Names) Pick(l Lang) string {
	if v := n[l]; v != "" {
		return v
	}
	if v := n[EN]; v != "" {
		return v
	}
	for _, lang := range Supported {
		if v := n[lang]; v != "" {
			return v
		}
	}
	return ""
}
