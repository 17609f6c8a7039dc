package pofile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// field identifies the keyword a continuation line extends.
type field int

const (
	fieldNone field = iota
	fieldCtxt
	fieldID
	fieldPlural
	fieldStr
)

// parser accumulates entries line by line. Blank lines end an entry.
type parser struct {
	file     *File
	cur      *Entry
	obsolete bool
	last     field
	slot     int
}

func (p *parser) entry() *Entry {
	if p.cur == nil {
		p.cur = &Entry{}
	}
	return p.cur
}

// flush stores the entry in progress. The first entry with an empty msgid
// and no context is the header.
func (p *parser) flush() {
	e, obsolete := p.cur, p.obsolete
	p.cur, p.obsolete, p.last = nil, false, fieldNone
	if e == nil || obsolete {
		return
	}
	if e.MsgID == "" && e.MsgCtxt == "" && p.file.Header == nil {
		p.file.Header = e
		return
	}
	p.file.Entries = append(p.file.Entries, e)
}

func (p *parser) line(line string) error {
	switch {
	case strings.TrimSpace(line) == "":
		p.flush()
	case strings.HasPrefix(line, "#~"):
		p.entry()
		p.obsolete = true
	case strings.HasPrefix(line, "#"):
		p.comment(line)
	case strings.HasPrefix(line, `"`):
		return p.continuation(unquote(line))
	default:
		return p.keyword(line)
	}
	return nil
}

func (p *parser) comment(line string) {
	e := p.entry()
	if len(line) < 2 {
		e.TranslatorComments = append(e.TranslatorComments, "")
		return
	}
	body := line[2:]
	switch line[1] {
	case ':':
		e.References = append(e.References, strings.TrimSpace(body))
	case '.':
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimSpace(body))
	case ',':
		for _, flag := range strings.Split(body, ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case '|':
		// previous msgid of a fuzzy entry; not kept
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
	}
}

func (p *parser) keyword(line string) error {
	kw, rest, ok := strings.Cut(line, " ")
	if !ok {
		return fmt.Errorf("unexpected content: %s", line)
	}
	val := unquote(rest)
	e := p.entry()

	switch kw {
	case "msgctxt":
		e.MsgCtxt, p.last = val, fieldCtxt
	case "msgid":
		e.MsgID, p.last = val, fieldID
	case "msgid_plural":
		e.MsgIDPlural, p.last = val, fieldPlural
	case "msgstr":
		e.MsgStr = []string{val}
		p.last, p.slot = fieldStr, 0
	default:
		idx, err := slotIndex(kw)
		if err != nil {
			return err
		}
		for len(e.MsgStr) <= idx {
			e.MsgStr = append(e.MsgStr, "")
		}
		e.MsgStr[idx] = val
		p.last, p.slot = fieldStr, idx
	}
	return nil
}

// slotIndex parses the N of a "msgstr[N]" keyword.
func slotIndex(kw string) (int, error) {
	inner, ok := strings.CutPrefix(kw, "msgstr[")
	if !ok {
		return 0, fmt.Errorf("unknown keyword %q", kw)
	}
	inner, ok = strings.CutSuffix(inner, "]")
	if !ok {
		return 0, fmt.Errorf("malformed keyword %q", kw)
	}
	idx, err := strconv.Atoi(inner)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("invalid msgstr index in %q", kw)
	}
	return idx, nil
}

func (p *parser) continuation(val string) error {
	e := p.entry()
	switch p.last {
	case fieldCtxt:
		e.MsgCtxt += val
	case fieldID:
		e.MsgID += val
	case fieldPlural:
		e.MsgIDPlural += val
	case fieldStr:
		e.MsgStr[p.slot] += val
	default:
		return errors.New("continuation without keyword")
	}
	return nil
}

// Parse reads a PO file. Obsolete ("#~") entries are dropped.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: &File{Entries: make([]*Entry, 0)}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for n := 1; sc.Scan(); n++ {
		if err := p.line(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	p.flush()

	if p.file.Header == nil {
		p.file.Header = &Entry{MsgStr: []string{""}}
	}
	return p.file, nil
}

// ParseFile reads a PO file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
