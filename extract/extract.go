package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// DefaultSources are the globs scanned when none are configured.
var DefaultSources = []string{"{static,src}/**/*.{js,ts,jsx,tsx,twig}"}

// FindSources expands globs relative to root and returns the matching
// files as slash-separated paths relative to root, deduplicated and sorted.
// A glob that matches nothing contributes nothing; an invalid glob is an
// error. Wildcards do not match hidden files or directories unless the
// glob names a dot segment itself.
func FindSources(root string, globs []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string

	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid source glob %q", g)
		}
		matches, err := doublestar.Glob(fsys, g, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", g, err)
		}
		for _, m := range matches {
			if seen[m] || !visible(g, m) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// MatchesSources reports whether a slash-separated path relative to the
// project root is selected by any of the globs.
func MatchesSources(rel string, globs []string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range globs {
		if !visible(g, rel) {
			continue
		}
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// MayContainSources reports whether files below the slash-separated
// directory rel could be selected by any of the globs. Globs whose
// segments cannot be compared one by one are assumed to reach anywhere.
func MayContainSources(rel string, globs []string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return true
	}
	dir := strings.Split(rel, "/")
	for _, g := range globs {
		if visible(g, rel) && prefixMatch(strings.Split(g, "/"), dir) {
			return true
		}
	}
	return false
}

// prefixMatch reports whether dir can be the leading directories of a
// path matched by the pattern segments pat.
func prefixMatch(pat, dir []string) bool {
	for i, d := range dir {
		if i >= len(pat)-1 {
			return false
		}
		if strings.Contains(pat[i], "**") || !doublestar.ValidatePattern(pat[i]) {
			return true
		}
		if ok, _ := doublestar.Match(pat[i], d); !ok {
			return false
		}
	}
	return true
}

// visible reports whether rel may be matched by glob g. Paths with a
// hidden segment are only visible to globs that spell out a dot segment.
func visible(g, rel string) bool {
	if strings.HasPrefix(g, ".") || strings.Contains(g, "/.") {
		return true
	}
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return false
		}
	}
	return true
}

// ScanText applies every pattern to content, in pattern order, and
// returns the matches of each pattern in position order.
func ScanText(file, content string) []Match {
	var out []Match
	for _, p := range Patterns {
		for _, loc := range p.Regexp.FindAllStringSubmatchIndex(content, -1) {
			groups := make([]string, len(loc)/2)
			for i := range groups {
				if loc[2*i] >= 0 {
					groups[i] = content[loc[2*i]:loc[2*i+1]]
				}
			}
			m := p.Map(groups)
			m.Pattern = p.Name
			m.File = file
			m.Line = strings.Count(content[:loc[0]], "\n") + 1
			out = append(out, m)
		}
	}
	return out
}

// Scanner reads source files and extracts call sites from them.
type Scanner struct {
	Root   string
	Logger zerolog.Logger
}

// ScanFiles reads each file (relative to the scanner root) fully and
// returns all matches in file order. Any read failure aborts the scan.
func (s *Scanner) ScanFiles(ctx context.Context, files []string) ([]Match, error) {
	var all []Match
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(f)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		found := ScanText(f, string(data))
		if len(found) > 0 {
			s.Logger.Debug().Str("file", f).Int("matches", len(found)).Msg("scanned")
		}
		all = append(all, found...)
	}
	return all, nil
}

// DescribeMatches returns a human-readable summary of matches per call
// form, in pattern table order.
func DescribeMatches(matches []Match) string {
	counts := make(map[string]int)
	for _, m := range matches {
		counts[m.Pattern]++
	}
	var parts []string
	for _, p := range Patterns {
		if n := counts[p.Name]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, p.Name))
		}
	}
	return strings.Join(parts, ", ")
}
