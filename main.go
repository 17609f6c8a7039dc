// themekit: locale extraction and packaging for JavaScript/Twig themes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/i18n"
	"github.com/minios-linux/themekit/logging"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Global flags and logger
// ---------------------------------------------------------------------------

var (
	rootDir    string
	configPath string
	logLevel   string
)

var logger = zerolog.Nop()

func logInfo(format string, args ...any) {
	logger.Info().Msgf(format, args...)
}

func logSuccess(format string, args ...any) {
	logger.Info().Str(logging.StatusKey, logging.StatusOK).Msgf(format, args...)
}

func logWarning(format string, args ...any) {
	logger.Warn().Msgf(format, args...)
}

func logError(format string, args ...any) {
	logger.Error().Msgf(format, args...)
}

// loadConfig reads .themekit.yaml (or --config) from the project root.
func loadConfig() (*config.File, error) {
	return config.Load(rootDir, configPath)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "themekit",
		Short: i18n.T("Theme localization and packaging toolkit"),
		Long: i18n.T(`themekit extracts translatable strings from theme sources and keeps
one gettext catalog per configured locale up to date.

Call sites recognized in .js, .ts, .jsx, .tsx and .twig files:
  __, noop__, n__, p__, d__, dp__, dn__, np__, dnp__

Locales come from locale.json at the project root. Catalogs are written to
static/locale/<code>/LC_MESSAGES/theme.po.

Commands:
  extract   Scan sources and write catalogs
  watch     Re-run extraction whenever sources change
  locale    List or add target locales
  status    Show translation progress per locale
  pack      Archive the built theme
  release   Bundle the theme archive for distribution`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			logger = l
			logger.Debug().Str("lang", i18n.Lang()).Msg("interface language")
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", i18n.T("Project root directory"))
	root.PersistentFlags().StringVar(&configPath, "config", "", i18n.T("Tool configuration file (default: <root>/.themekit.yaml)"))
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", i18n.T("Log level: debug, info, warn, error"))

	root.AddCommand(
		newExtractCmd(),
		newWatchCmd(),
		newLocaleCmd(),
		newStatusCmd(),
		newPackCmd(),
		newReleaseCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	logger = zerolog.New(logging.ConsoleWriter(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "themekit version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}
