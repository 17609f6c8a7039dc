package pofile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

// Write serializes the file. Output depends only on the file's contents,
// so equal files serialize to equal bytes.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if f.Header != nil {
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		bw.WriteByte('\n')
		writeEntry(bw, e)
	}
	return bw.Flush()
}

// WriteFile writes the file to disk, replacing any existing file.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeComments(w *bufio.Writer, prefix string, lines []string) {
	for _, l := range lines {
		w.WriteString(prefix)
		w.WriteString(l)
		w.WriteByte('\n')
	}
}

func writeEntry(w *bufio.Writer, e *Entry) {
	writeComments(w, "# ", e.TranslatorComments)
	writeComments(w, "#. ", e.ExtractedComments)
	writeComments(w, "#: ", e.References)
	if len(e.Flags) > 0 {
		writeComments(w, "#, ", []string{strings.Join(e.Flags, ", ")})
	}

	if e.MsgCtxt != "" {
		writeString(w, "msgctxt", e.MsgCtxt)
	}
	writeString(w, "msgid", e.MsgID)

	if !e.IsPlural() {
		var s string
		if len(e.MsgStr) > 0 {
			s = e.MsgStr[0]
		}
		writeString(w, "msgstr", s)
		return
	}

	writeString(w, "msgid_plural", e.MsgIDPlural)
	slots := e.MsgStr
	if len(slots) == 0 {
		slots = []string{""}
	}
	for i, s := range slots {
		writeString(w, "msgstr["+strconv.Itoa(i)+"]", s)
	}
}

// writeString writes keyword and value. Values containing newlines are
// split after each newline onto continuation lines below an empty "".
func writeString(w *bufio.Writer, keyword, value string) {
	w.WriteString(keyword)
	w.WriteByte(' ')
	if !strings.Contains(value, "\n") {
		w.WriteString(quote(value))
		w.WriteByte('\n')
		return
	}

	w.WriteString("\"\"\n")
	for value != "" {
		line, rest, found := strings.Cut(value, "\n")
		if found {
			line += "\n"
		}
		w.WriteString(quote(line))
		w.WriteByte('\n')
		value = rest
	}
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// quote produces a PO-style quoted string.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}

// unquote strips PO quoting and resolves escapes. Unknown escapes are
// kept as written.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"':
			b.WriteByte(s[i+1])
		default:
			b.WriteByte(c)
			continue
		}
		i++
	}
	return b.String()
}
