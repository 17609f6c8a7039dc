// Package emit turns a message table into one gettext catalog per locale.
package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minios-linux/themekit/catalog"
	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/pofile"
)

// Options control catalog headers and comments.
type Options struct {
	// ProjectID is the Project-Id-Version header value.
	ProjectID string
	// Domain is the X-Domain header value.
	Domain string
	// References adds "#: file:line" comments to entries.
	References bool
}

// Header builds the catalog header for a locale. Translator and date
// fields stay blank so regenerated catalogs only differ when messages do.
func Header(loc config.Locale, opts Options) *pofile.File {
	f := pofile.NewFile()
	for _, h := range [][2]string{
		{"Project-Id-Version", opts.ProjectID},
		{"Report-Msgid-Bugs-To", ""},
		{"Last-Translator", ""},
		{"Language", loc.Code},
		{"Language-Team", ""},
		{"Content-Type", "text/plain; charset=UTF-8"},
		{"Content-Transfer-Encoding", "8bit"},
		{"Plural-Forms", loc.PluralForms},
		{"X-Domain", opts.Domain},
	} {
		f.SetHeaderField(h[0], h[1])
	}
	return f
}

// Catalog sizes the table for the locale's plural count and converts it
// into a PO file. The table itself is left untouched.
func Catalog(table *catalog.Table, loc config.Locale, opts Options) *pofile.File {
	f := Header(loc, opts)
	sized := table.ForLocale(pofile.NPlurals(loc.PluralForms))

	for _, m := range sized.Messages() {
		e := &pofile.Entry{
			MsgCtxt:     m.MsgCtxt,
			MsgID:       m.MsgID,
			MsgIDPlural: m.MsgIDPlural,
			MsgStr:      m.MsgStr,
		}
		if opts.References {
			e.References = m.References
		}
		f.Entries = append(f.Entries, e)
	}
	return f
}

// WriteCatalog writes f to path, creating parent directories as needed.
// An existing file is replaced.
func WriteCatalog(path string, f *pofile.File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := f.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
