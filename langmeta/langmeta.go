// Package langmeta resolves display metadata for locale codes used in
// locale.json (native and English language names) on top of the CLDR
// data shipped with golang.org/x/text.
package langmeta

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Code is the code as written in locale.json.
	Code string
	// Tag is the parsed BCP 47 tag; language.Und when the code is unknown.
	Tag language.Tag
	// Name is the language name in the language itself.
	Name string
	// English is the English language name.
	English string
}

var englishNamer = display.English.Languages()

// canonicalize turns gettext-style codes (pt_br) into BCP 47 form (pt-BR).
func canonicalize(code string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Parse validates a locale code and returns its tag. Both pt_BR and pt-BR
// are accepted.
func Parse(code string) (language.Tag, error) {
	c := canonicalize(code)
	if c == "" {
		return language.Und, fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(c)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag, nil
}

// Resolve returns best-effort metadata for code. Codes that cannot be
// parsed or have no CLDR name fall back to the code itself.
func Resolve(code string) Meta {
	m := Meta{Code: code, Tag: language.Und, Name: code, English: code}
	tag, err := Parse(code)
	if err != nil {
		return m
	}
	m.Tag = tag
	if name := display.Self.Name(tag); name != "" {
		m.Name = name
	}
	if name := englishNamer.Name(tag); name != "" {
		m.English = name
	}
	return m
}

// Base returns the primary language subtag of code ("pt" for "pt_BR").
func Base(code string) string {
	c := canonicalize(code)
	if i := strings.IndexByte(c, '-'); i >= 0 {
		return c[:i]
	}
	return c
}
