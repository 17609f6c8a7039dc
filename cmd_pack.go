package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/i18n"
	"github.com/minios-linux/themekit/pack"
)

// ---------------------------------------------------------------------------
// pack
// ---------------------------------------------------------------------------

func newPackCmd() *cobra.Command {
	var buildDir string

	cmd := &cobra.Command{
		Use:   "pack [name]",
		Short: i18n.T("Archive the built theme into a zip file"),
		Long: i18n.T(`Archive the built theme directory (default: dist) into <name>.zip at the
project root. Hidden files are included; OS junk, VCS data, node_modules
and .env files are left out.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("build-dir") {
				cfg.Pack.BuildDir = buildDir
			}

			name := cfg.Pack.Output
			if len(args) == 1 {
				name = args[0]
			}
			out := config.Resolve(rootDir, pack.ZipName(name))

			st, err := pack.Theme(cmd.Context(), config.Resolve(rootDir, cfg.Pack.BuildDir), out, cfg.Pack.Exclude)
			if err != nil {
				return err
			}
			logSuccess(i18n.T("Archive created: %s (%d files, %d bytes)"), st.Path, st.Files, st.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&buildDir, "build-dir", "", i18n.T("Built theme directory (default from config, dist)"))
	return cmd
}

// ---------------------------------------------------------------------------
// release
// ---------------------------------------------------------------------------

func newReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release",
		Short: i18n.T("Bundle the theme archive and release files for distribution"),
		Long: i18n.T(`Bundle theme.zip and the contents of the release directory into
<package name>[-v<tag>][-<hash>].zip. The tag and hash come from git
when available. Run 'themekit pack' first.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			name, err := pack.PackageName(rootDir)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			gi := pack.ReadGitInfo(ctx, rootDir)
			out := filepath.Join(rootDir, pack.ReleaseName(name, gi))
			logInfo(i18n.T("Creating release package: %s"), filepath.Base(out))

			st, err := pack.Release(ctx,
				config.Resolve(rootDir, cfg.Release.ThemeZip),
				config.Resolve(rootDir, cfg.Release.Dir),
				out, cfg.Pack.Exclude)
			if err != nil {
				return err
			}
			logSuccess(i18n.T("Release package created: %s (%d bytes)"), st.Path, st.Bytes)
			return nil
		},
	}
}
