package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/themekit/catalog"
	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/i18n"
	"github.com/minios-linux/themekit/pipeline"
	"github.com/minios-linux/themekit/watch"
)

// extractFlags are shared by extract and watch. Only flags set on the
// command line override .themekit.yaml.
type extractFlags struct {
	merge      bool
	keyPolicy  string
	references bool
}

func (f *extractFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.merge, "merge", false, i18n.T("Keep translations already present in existing catalogs"))
	fs.StringVar(&f.keyPolicy, "key-policy", "", i18n.T("Message identity: msgid or msgid+msgctxt"))
	fs.BoolVar(&f.references, "references", false, i18n.T("Write #: file:line source references"))
}

func (f *extractFlags) apply(fs *pflag.FlagSet, cfg *config.File) error {
	if fs.Changed("merge") {
		cfg.Merge = f.merge
	}
	if fs.Changed("key-policy") {
		if _, err := catalog.ParseKeyPolicy(f.keyPolicy); err != nil {
			return err
		}
		cfg.KeyPolicy = f.keyPolicy
	}
	if fs.Changed("references") {
		cfg.References = f.references
	}
	return nil
}

// runExtract runs the pipeline once and reports the outcome.
func runExtract(ctx context.Context, cfg *config.File) error {
	res, err := pipeline.Run(ctx, pipeline.Options{
		Root:   rootDir,
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	logInfo(i18n.N("Scanned %d source file", "Scanned %d source files", len(res.Files)), len(res.Files))
	if res.Matches > 0 {
		logInfo("%s", res.Summary)
	}
	logSuccess(i18n.N("Wrote %d catalog with %d messages", "Wrote %d catalogs with %d messages", len(res.Catalogs)),
		len(res.Catalogs), res.Messages)
	return nil
}

// ---------------------------------------------------------------------------
// extract
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: i18n.T("Scan theme sources and write one catalog per locale"),
		Long: i18n.T(`Scan theme sources for translation calls and write one PO catalog per
locale listed in locale.json.

Catalogs are overwritten on every run unless --merge is given, in which
case translations already present are carried over.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd.Flags(), cfg); err != nil {
				return err
			}
			return runExtract(cmd.Context(), cfg)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func newWatchCmd() *cobra.Command {
	var (
		flags    extractFlags
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: i18n.T("Re-run extraction whenever theme sources change"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd.Flags(), cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("debounce") {
				if debounce <= 0 {
					return fmt.Errorf("--debounce must be positive")
				}
				cfg.Watch.Debounce = debounce
			}

			ctx := cmd.Context()
			run := func(ctx context.Context) error { return runExtract(ctx, cfg) }

			// A failed first run is reported; watching still starts.
			if err := run(ctx); err != nil {
				logError("%v", err)
			}

			w := &watch.Watcher{
				Root:     rootDir,
				Sources:  cfg.Sources,
				Debounce: cfg.Watch.Debounce,
				Logger:   logger,
			}
			logInfo("%s", i18n.T("Watching for changes (Ctrl+C to stop)"))
			return w.Watch(ctx, run)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", 0, i18n.T("Quiet period before re-running (default from config, 200ms)"))
	return cmd
}
