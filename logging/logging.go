// Package logging builds the zerolog logger used by the CLI.
//
// Output is human-readable console text. Colors are enabled only when the
// destination is a terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// StatusKey marks success events; the console writer renders them as [OK].
const StatusKey = "status"

// StatusOK is the StatusKey value of a success event.
const StatusOK = "ok"

const (
	colorReset = "\033[0m"
	colorGreen = "\033[0;32m"
)

// ParseLevel maps a --log-level value to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn, error)", s)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ConsoleWriter returns a console writer for f, colored when f is a terminal.
func ConsoleWriter(f *os.File) io.Writer {
	return consoleWriter(f, !isTerminal(f))
}

func consoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	w := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
	}
	w.FormatPrepare = func(m map[string]any) error {
		if m[StatusKey] != StatusOK {
			return nil
		}
		delete(m, StatusKey)
		tag := "[OK]"
		if !noColor {
			tag = colorGreen + tag + colorReset
		}
		m[zerolog.MessageFieldName] = fmt.Sprintf("%s %v", tag, m[zerolog.MessageFieldName])
		return nil
	}
	return w
}

// New returns a console logger writing to f at the given level. Output
// is plain unless f is a terminal.
func New(f *os.File, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if !isTerminal(f) {
		return NewPlain(f, lvl), nil
	}
	return zerolog.New(consoleWriter(f, false)).Level(lvl), nil
}

// NewPlain returns an uncolored console logger writing to w.
func NewPlain(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(consoleWriter(w, true)).Level(lvl)
}
