// Package pofile implements reading and writing of PO files
// following the GNU gettext PO format.
package pofile

import "strings"

// ContextSeparator joins msgctxt and msgid in lookup keys, as in compiled
// gettext catalogs.
const ContextSeparator = "\x04"

// Entry represents a single translatable message in a PO file.
type Entry struct {
	// TranslatorComments are lines starting with "# ".
	TranslatorComments []string
	// ExtractedComments are lines starting with "#.".
	ExtractedComments []string
	// References are source code locations, lines starting with "#:".
	References []string
	// Flags are format flags, lines starting with "#,".
	Flags []string

	MsgCtxt     string
	MsgID       string
	MsgIDPlural string
	// MsgStr holds the translation slots: one for singular entries,
	// nplurals for plural ones.
	MsgStr []string
}

// Key returns the PO uniqueness key (msgctxt + msgid).
func (e *Entry) Key() string {
	return Key(e.MsgCtxt, e.MsgID)
}

// Key builds a lookup key from a context and a msgid.
func Key(msgctxt, msgid string) string {
	if msgctxt == "" {
		return msgid
	}
	return msgctxt + ContextSeparator + msgid
}

// IsPlural reports whether the entry carries a msgid_plural.
func (e *Entry) IsPlural() bool {
	return e.MsgIDPlural != ""
}

// IsTranslated returns true if every translation slot is non-empty.
func (e *Entry) IsTranslated() bool {
	if e.MsgID == "" || e.IsFuzzy() || len(e.MsgStr) == 0 {
		return false
	}
	for _, s := range e.MsgStr {
		if s == "" {
			return false
		}
	}
	return true
}

// IsFuzzy returns true if the entry is marked fuzzy.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag("fuzzy")
}

// HasFlag checks if a specific flag is present.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	c.TranslatorComments = append([]string(nil), e.TranslatorComments...)
	c.ExtractedComments = append([]string(nil), e.ExtractedComments...)
	c.References = append([]string(nil), e.References...)
	c.Flags = append([]string(nil), e.Flags...)
	c.MsgStr = append([]string(nil), e.MsgStr...)
	return &c
}

// File represents a parsed PO file.
type File struct {
	// Header is the metadata entry (msgid "").
	Header *Entry
	// Entries are the translatable message entries, in file order.
	Entries []*Entry
}

// NewFile creates a new empty PO file.
func NewFile() *File {
	return &File{
		Header:  &Entry{MsgStr: []string{""}},
		Entries: make([]*Entry, 0),
	}
}

func (f *File) headerText() string {
	if f.Header == nil || len(f.Header.MsgStr) == 0 {
		return ""
	}
	return f.Header.MsgStr[0]
}

// HeaderField returns a header field value by name.
func (f *File) HeaderField(name string) string {
	for _, line := range strings.Split(f.headerText(), "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			if strings.EqualFold(key, name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

// SetHeaderField sets a header field value, appending it when missing.
// Field order of existing headers is preserved.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{MsgStr: []string{""}}
	}
	if len(f.Header.MsgStr) == 0 {
		f.Header.MsgStr = []string{""}
	}

	text := f.Header.MsgStr[0]
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if text == "" {
		lines = nil
	}
	found := false
	for i, line := range lines {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				lines[i] = headerLine(name, value)
				found = true
				break
			}
		}
	}
	if !found {
		lines = append(lines, headerLine(name, value))
	}
	f.Header.MsgStr[0] = strings.Join(lines, "\n") + "\n"
}

// headerLine formats one header field; empty values keep the trailing space.
func headerLine(name, value string) string {
	return name + ": " + value
}

// Lookup finds an entry by context and msgid.
func (f *File) Lookup(msgctxt, msgid string) *Entry {
	for _, e := range f.Entries {
		if e.MsgID == msgid && e.MsgCtxt == msgctxt {
			return e
		}
	}
	return nil
}

// Stats returns translation statistics.
func (f *File) Stats() (total, translated, fuzzy, untranslated int) {
	for _, e := range f.Entries {
		if e.MsgID == "" {
			continue
		}
		total++
		switch {
		case e.IsFuzzy():
			fuzzy++
		case e.IsTranslated():
			translated++
		default:
			untranslated++
		}
	}
	return
}
