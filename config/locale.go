// Package config loads the theme's locale list (locale.json) and the
// optional .themekit.yaml tool configuration.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LocaleFileName is the default locale list file name.
const LocaleFileName = "locale.json"

// Locale is one target locale from locale.json.
type Locale struct {
	Code string `json:"code"`
	// PluralForms is the raw gettext Plural-Forms header value,
	// e.g. "nplurals=2; plural=(n > 1);".
	PluralForms string `json:"pluralForms"`
}

// LoadLocales reads an ordered locale list. A missing or malformed file
// is an error; callers treat it as fatal.
func LoadLocales(path string) ([]Locale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var locales []Locale
	if err := json.Unmarshal(data, &locales); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i, l := range locales {
		if err := validateCode(l.Code); err != nil {
			return nil, fmt.Errorf("%s: locale #%d: %w", path, i+1, err)
		}
	}

	return locales, nil
}

// SaveLocales writes the locale list with two-space indentation.
func SaveLocales(path string, locales []Locale) error {
	if locales == nil {
		locales = []Locale{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(locales); err != nil {
		return fmt.Errorf("encoding locales: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// AddLocale appends a locale, rejecting duplicates and codes that are not
// usable as a directory name.
func AddLocale(locales []Locale, code, pluralForms string) ([]Locale, error) {
	code = strings.TrimSpace(code)
	if err := validateCode(code); err != nil {
		return nil, err
	}
	for _, l := range locales {
		if l.Code == code {
			return nil, fmt.Errorf("locale %q already configured", code)
		}
	}
	return append(locales, Locale{Code: code, PluralForms: pluralForms}), nil
}

// validateCode rejects codes that would escape the locale directory.
func validateCode(code string) error {
	switch {
	case code == "":
		return fmt.Errorf("empty locale code")
	case code == "." || code == "..", strings.ContainsAny(code, `/\`):
		return fmt.Errorf("invalid locale code %q", code)
	}
	return nil
}
