package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/i18n"
	"github.com/minios-linux/themekit/langmeta"
	"github.com/minios-linux/themekit/pofile"
)

// ANSI colors for the progress bar.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
)

// progressBar renders percent as a colored bar of width cells followed by
// the right-aligned percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	color := colorYellow
	switch {
	case percent < 30:
		color = colorRed
	case percent >= 100:
		color = colorGreen
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}

// localeStats is one row of the status table.
type localeStats struct {
	code                                   string
	missing                                bool
	total, translated, fuzzy, untranslated int
}

func (s localeStats) percent() int {
	if s.total == 0 {
		return 100
	}
	return s.translated * 100 / s.total
}

func collectStats(cfg *config.File, root string, locales []config.Locale) ([]localeStats, error) {
	var rows []localeStats
	for _, l := range locales {
		row := localeStats{code: l.Code}
		f, err := pofile.ParseFile(cfg.CatalogPath(root, l.Code))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			row.missing = true
		case err != nil:
			return nil, err
		default:
			row.total, row.translated, row.fuzzy, row.untranslated = f.Stats()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printStats(out io.Writer, rows []localeStats) {
	width := len("Locale")
	for _, r := range rows {
		width = max(width, len(r.code))
	}

	fmt.Fprintf(out, "\n%-*s  %-6s %-10s %-8s %-10s %s\n", width, i18n.T("Locale"), i18n.T("Total"), i18n.T("Translated"), i18n.T("Fuzzy"), i18n.T("Untrans."), i18n.T("Progress"))
	fmt.Fprintln(out, strings.Repeat("─", width+63))
	for _, r := range rows {
		if r.missing {
			fmt.Fprintf(out, "%-*s  %s\n", width, r.code, i18n.T("missing (run 'themekit extract')"))
			continue
		}
		fmt.Fprintf(out, "%-*s  %-6d %-10d %-8d %-10d %s  %s\n", width, r.code,
			r.total, r.translated, r.fuzzy, r.untranslated, progressBar(r.percent(), 20), langmeta.Resolve(r.code).Name)
	}
	fmt.Fprintln(out)
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show translation progress per locale"),
		Long: i18n.T(`Read the generated catalog of every configured locale and show
translated, fuzzy and untranslated message counts. Does not modify any files.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			locales, err := config.LoadLocales(cfg.LocalePath(rootDir))
			if err != nil {
				return err
			}
			rows, err := collectStats(cfg, rootDir, locales)
			if err != nil {
				return err
			}
			printStats(cmd.ErrOrStderr(), rows)
			for _, r := range rows {
				if r.missing {
					logWarning(i18n.T("No catalog for %s yet"), r.code)
				}
			}
			return nil
		},
	}
}
