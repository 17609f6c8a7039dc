package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadLocales(t *testing.T) {
	dir := t.TempDir()

	t.Run("ordered list", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		writeFile(t, path, `[
  {"code": "fr", "pluralForms": "nplurals=2; plural=(n>1)"},
  {"code": "ru", "pluralForms": "nplurals=3; plural=(n%10==1 ? 0 : 1)"},
  {"code": "ja", "pluralForms": ""}
]`)
		got, err := LoadLocales(path)
		if err != nil {
			t.Fatalf("LoadLocales: %v", err)
		}
		want := []Locale{
			{Code: "fr", PluralForms: "nplurals=2; plural=(n>1)"},
			{Code: "ru", PluralForms: "nplurals=3; plural=(n%10==1 ? 0 : 1)"},
			{Code: "ja", PluralForms: ""},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("LoadLocales = %#v, want %#v", got, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadLocales(filepath.Join(dir, "missing.json")); err == nil {
			t.Fatal("expected error for missing locale file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		writeFile(t, path, `[{"code": "fr",}]`)
		_, err := LoadLocales(path)
		if err == nil || !strings.Contains(err.Error(), "parsing") {
			t.Fatalf("expected parse error, got %v", err)
		}
	})

	t.Run("path traversal code", func(t *testing.T) {
		path := filepath.Join(dir, "evil.json")
		writeFile(t, path, `[{"code": "../etc", "pluralForms": ""}]`)
		if _, err := LoadLocales(path); err == nil {
			t.Fatal("expected error for code containing a path separator")
		}
	})
}

func TestSaveAndAddLocale(t *testing.T) {
	path := filepath.Join(t.TempDir(), LocaleFileName)

	locales, err := AddLocale(nil, " de ", "nplurals=2; plural=(n != 1);")
	if err != nil {
		t.Fatalf("AddLocale: %v", err)
	}
	if _, err := AddLocale(locales, "de", ""); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, err := AddLocale(locales, "", ""); err == nil {
		t.Fatal("expected empty code error")
	}

	if err := SaveLocales(path, locales); err != nil {
		t.Fatalf("SaveLocales: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"code\": \"de\",\n    \"pluralForms\": \"nplurals=2; plural=(n != 1);\"\n  }\n]\n"
	if string(data) != want {
		t.Fatalf("saved locale file = %q, want %q", data, want)
	}

	round, err := LoadLocales(path)
	if err != nil {
		t.Fatalf("LoadLocales: %v", err)
	}
	if !reflect.DeepEqual(round, locales) {
		t.Fatalf("roundtrip = %#v, want %#v", round, locales)
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		dir := t.TempDir()
		f, err := Load(dir, "")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !reflect.DeepEqual(f, Defaults()) {
			t.Fatalf("Load without file = %#v, want defaults", f)
		}
		if got, want := f.CatalogPath(dir, "fr"), filepath.Join(dir, "static", "locale", "fr", "LC_MESSAGES", "theme.po"); got != want {
			t.Fatalf("CatalogPath = %q, want %q", got, want)
		}
		if f.KeyPolicy != "msgid" || f.Merge {
			t.Fatalf("unexpected defaults: policy=%q merge=%v", f.KeyPolicy, f.Merge)
		}
	})

	t.Run("explicit missing file", func(t *testing.T) {
		if _, err := Load(t.TempDir(), "custom.yaml"); err == nil {
			t.Fatal("expected error for explicitly named missing config")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), `
sources:
  - "views/**/*.twig"
domain: shop
project_id: Shop Theme
key_policy: msgid+msgctxt
merge: true
watch:
  debounce: 1s
pack:
  build_dir: build
`)
		f, err := Load(dir, "")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !reflect.DeepEqual(f.Sources, []string{"views/**/*.twig"}) {
			t.Fatalf("Sources = %v", f.Sources)
		}
		if f.Domain != "shop" || f.ProjectID != "Shop Theme" || f.KeyPolicy != "msgid+msgctxt" || !f.Merge {
			t.Fatalf("overrides not applied: %#v", f)
		}
		if f.Watch.Debounce != time.Second {
			t.Fatalf("Debounce = %v, want 1s", f.Watch.Debounce)
		}
		if f.Pack.BuildDir != "build" || f.Pack.Output != "theme.zip" {
			t.Fatalf("Pack = %#v", f.Pack)
		}
		if !strings.HasSuffix(f.CatalogPath(dir, "de"), filepath.Join("de", "LC_MESSAGES", "shop.po")) {
			t.Fatalf("CatalogPath = %q", f.CatalogPath(dir, "de"))
		}
	})

	t.Run("invalid key policy", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, FileName), "key_policy: context\n")
		if _, err := Load(dir, ""); err == nil {
			t.Fatal("expected error for unknown key policy")
		}
	})
}
