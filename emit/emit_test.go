package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/themekit/catalog"
	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/extract"
	"github.com/minios-linux/themekit/pofile"
)

var opts = Options{ProjectID: "Theme Translations", Domain: "theme"}

func TestHeaderFieldsAndOrder(t *testing.T) {
	f := Header(config.Locale{Code: "fr", PluralForms: "nplurals=2; plural=(n>1)"}, opts)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	want := `msgid ""
msgstr ""
"Project-Id-Version: Theme Translations\n"
"Report-Msgid-Bugs-To: \n"
"Last-Translator: \n"
"Language: fr\n"
"Language-Team: \n"
"Content-Type: text/plain; charset=UTF-8\n"
"Content-Transfer-Encoding: 8bit\n"
"Plural-Forms: nplurals=2; plural=(n>1)\n"
"X-Domain: theme\n"
`
	assert.Equal(t, want, buf.String())
	assert.Empty(t, f.HeaderField("POT-Creation-Date"))
}

func TestCatalogPluralSlots(t *testing.T) {
	table := catalog.Build(extract.ScanText("a.js", `n__('%d item', '%d items', n) __('x')`), catalog.KeyMsgID)

	tests := []struct {
		name        string
		pluralForms string
		want        int
	}{
		{name: "three forms", pluralForms: "nplurals=3; plural=(n%10==1 ? 0 : n%10>=2 ? 1 : 2)", want: 3},
		{name: "one form", pluralForms: "nplurals=1; plural=0;", want: 1},
		{name: "no clause falls back", pluralForms: "plural=(n != 1);", want: 2},
		{name: "empty falls back", pluralForms: "", want: 2},
		{name: "huge count falls back", pluralForms: "nplurals=4000000000000; plural=0", want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Catalog(table, config.Locale{Code: "xx", PluralForms: tc.pluralForms}, opts)
			plural := f.Lookup("", "%d item")
			require.NotNil(t, plural)
			assert.Len(t, plural.MsgStr, tc.want)
			for _, s := range plural.MsgStr {
				assert.Empty(t, s)
			}
			single := f.Lookup("", "x")
			require.NotNil(t, single)
			assert.Equal(t, []string{""}, single.MsgStr)
		})
	}

	m, _ := table.Get("%d item")
	assert.Equal(t, []string{""}, m.MsgStr, "emitting must not resize the shared table")
}

func TestCatalogReferences(t *testing.T) {
	table := catalog.Build(extract.ScanText("src/a.js", "\n__('x')"), catalog.KeyMsgID)

	without := Catalog(table, config.Locale{Code: "de"}, opts)
	assert.Empty(t, without.Entries[0].References)

	withRefs := Catalog(table, config.Locale{Code: "de"}, Options{Domain: "theme", References: true})
	assert.Equal(t, []string{"src/a.js:2"}, withRefs.Entries[0].References)
}

func TestWriteCatalogCreatesDirsAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "static", "locale", "fr", "LC_MESSAGES", "theme.po")

	first := pofile.NewFile()
	first.Entries = []*pofile.Entry{{MsgID: "old", MsgStr: []string{"vieux"}}}
	require.NoError(t, WriteCatalog(path, first))

	second := Header(config.Locale{Code: "fr"}, opts)
	require.NoError(t, WriteCatalog(path, second))

	parsed, err := pofile.ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, parsed.Entries, "previous content must be replaced")
	assert.Equal(t, "fr", parsed.HeaderField("Language"))

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	assert.Error(t, WriteCatalog(filepath.Join(blocker, "fr", "theme.po"), second))
}
