// Package extract scans theme sources for gettext-style call sites.
//
// Extraction is lexical: each call form has a regular expression over the
// raw file text and a mapper that reads its capture groups positionally.
// Arguments must be literal strings in matching quotes; interpolated,
// concatenated, or multi-line arguments are not recognized and are
// skipped without error.
//
// Recognized call forms:
//
//	__(msg)                     noop__(msg)
//	n__(singular, plural, ...)  p__(ctx, msg)
//	d__(domain, msg)            dp__(domain, ctx, msg)
//	dn__(domain, singular, plural, ...)
//	np__(ctx, singular, plural, ...)
//	dnp__(domain, ctx, singular, plural, ...)
package extract

import (
	"regexp"
	"strconv"
)

// Match is one extracted call site.
type Match struct {
	MsgID       string
	MsgIDPlural string
	MsgCtxt     string
	// Domain is captured for d*__ forms. Output catalogs are not split
	// by domain; it is kept for diagnostics only.
	Domain string

	// Pattern is the name of the call form that matched, e.g. "np__".
	Pattern string
	File    string
	Line    int
}

// Reference returns the "file:line" location of the call site.
func (m Match) Reference() string {
	if m.File == "" {
		return ""
	}
	return m.File + ":" + strconv.Itoa(m.Line)
}

// Pattern pairs a call-form matcher with the mapper that turns its
// submatches into a Match. Group indices are part of each pattern's
// contract: group 0 is the full match.
type Pattern struct {
	Name   string
	Regexp *regexp.Regexp
	Map    func(groups []string) Match
}

// arg is one quoted literal argument.
const arg = `['"](.+?)['"]`

// sep separates consecutive arguments.
const sep = `\s*,\s*`

// Patterns is the ordered table of recognized call forms. The order does
// not affect which strings are found, only the order in which matches
// are reported for a file.
var Patterns = []Pattern{
	{
		Name:   "__",
		Regexp: regexp.MustCompile(`\b__\(` + arg + `\)`),
		Map: func(g []string) Match {
			return Match{MsgID: g[1]}
		},
	},
	{
		Name:   "noop__",
		Regexp: regexp.MustCompile(`\bnoop__\(` + arg + `\)`),
		Map: func(g []string) Match {
			return Match{MsgID: g[1]}
		},
	},
	{
		Name:   "n__",
		Regexp: regexp.MustCompile(`\bn__\(` + arg + sep + arg),
		Map: func(g []string) Match {
			return Match{MsgID: g[1], MsgIDPlural: g[2]}
		},
	},
	{
		Name:   "p__",
		Regexp: regexp.MustCompile(`\bp__\(` + arg + sep + arg + `\)`),
		Map: func(g []string) Match {
			return Match{MsgCtxt: g[1], MsgID: g[2]}
		},
	},
	{
		Name:   "d__",
		Regexp: regexp.MustCompile(`\bd__\(` + arg + sep + arg + `\)`),
		Map: func(g []string) Match {
			return Match{Domain: g[1], MsgID: g[2]}
		},
	},
	{
		Name:   "dp__",
		Regexp: regexp.MustCompile(`\bdp__\(` + arg + sep + arg + sep + arg + `\)`),
		Map: func(g []string) Match {
			return Match{Domain: g[1], MsgCtxt: g[2], MsgID: g[3]}
		},
	},
	{
		Name:   "dn__",
		Regexp: regexp.MustCompile(`\bdn__\(` + arg + sep + arg + sep + arg),
		Map: func(g []string) Match {
			return Match{Domain: g[1], MsgID: g[2], MsgIDPlural: g[3]}
		},
	},
	{
		Name:   "np__",
		Regexp: regexp.MustCompile(`\bnp__\(` + arg + sep + arg + sep + arg),
		Map: func(g []string) Match {
			return Match{MsgCtxt: g[1], MsgID: g[2], MsgIDPlural: g[3]}
		},
	},
	{
		Name:   "dnp__",
		Regexp: regexp.MustCompile(`\bdnp__\(` + arg + sep + arg + sep + arg + sep + arg),
		Map: func(g []string) Match {
			return Match{Domain: g[1], MsgCtxt: g[2], MsgID: g[3], MsgIDPlural: g[4]}
		},
	},
}
