package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/i18n"
	"github.com/minios-linux/themekit/langmeta"
	"github.com/minios-linux/themekit/pofile"
)

func newLocaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locale",
		Short: i18n.T("List or add target locales in locale.json"),
	}
	cmd.AddCommand(newLocaleListCmd(), newLocaleAddCmd())
	return cmd
}

// ---------------------------------------------------------------------------
// locale list
// ---------------------------------------------------------------------------

func newLocaleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: i18n.T("List configured locales"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			locales, err := config.LoadLocales(cfg.LocalePath(rootDir))
			if err != nil {
				return err
			}
			if len(locales) == 0 {
				logInfo("%s", i18n.T("No locales configured. Add one with 'themekit locale add <code>'."))
				return nil
			}
			printLocales(cmd.OutOrStdout(), locales)
			return nil
		},
	}
}

func printLocales(out io.Writer, locales []config.Locale) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", i18n.T("Code"), i18n.T("Name"), i18n.T("English"), i18n.T("Plurals"))
	for _, l := range locales {
		meta := langmeta.Resolve(l.Code)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", l.Code, meta.Name, meta.English, pofile.NPlurals(l.PluralForms))
	}
	tw.Flush()
}

// ---------------------------------------------------------------------------
// locale add
// ---------------------------------------------------------------------------

func newLocaleAddCmd() *cobra.Command {
	var pluralForms string

	cmd := &cobra.Command{
		Use:   "add <code>",
		Short: i18n.T("Add a locale to locale.json"),
		Long: i18n.T(`Append a locale to locale.json, creating the file when missing.

The Plural-Forms expression defaults to the known rule for the language;
pass --plural-forms to override it.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return addLocale(cfg.LocalePath(rootDir), args[0], pluralForms)
		},
	}

	cmd.Flags().StringVar(&pluralForms, "plural-forms", "", i18n.T("Plural-Forms header value (default: built-in rule for the language)"))
	return cmd
}

func addLocale(path, code, pluralForms string) error {
	code = strings.TrimSpace(code)
	if _, err := langmeta.Parse(code); err != nil {
		return err
	}

	locales, err := config.LoadLocales(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		locales = nil
	}

	if pluralForms == "" {
		pluralForms = pofile.PluralFormsForLang(langmeta.Base(code))
	}

	locales, err = config.AddLocale(locales, code, pluralForms)
	if err != nil {
		return err
	}
	if err := config.SaveLocales(path, locales); err != nil {
		return err
	}

	meta := langmeta.Resolve(code)
	logSuccess(i18n.T("Added %s (%s) with %d plural forms"), code, meta.English, pofile.NPlurals(pluralForms))
	return nil
}
