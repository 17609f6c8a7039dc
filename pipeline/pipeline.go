// Package pipeline runs locale extraction end to end: scan sources, build
// the message table, and write one catalog per configured locale.
//
// A run is sequential and stateless. Two runs over unchanged sources and
// locale list write byte-identical catalogs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/minios-linux/themekit/catalog"
	"github.com/minios-linux/themekit/config"
	"github.com/minios-linux/themekit/emit"
	"github.com/minios-linux/themekit/extract"
	"github.com/minios-linux/themekit/merge"
	"github.com/minios-linux/themekit/pofile"
)

// Options configure a run.
type Options struct {
	// Root is the project root; all configured paths are relative to it.
	Root   string
	Config *config.File
	Logger zerolog.Logger
}

// Result summarizes a run.
type Result struct {
	// Files are the scanned source files, relative to Root.
	Files []string
	// Matches is the number of call sites found.
	Matches int
	// Summary describes matches per call form.
	Summary string
	// Messages is the number of messages after deduplication.
	Messages int
	// Catalogs are the written catalog paths, in locale order.
	Catalogs []string
}

// Run executes the pipeline once.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	log := opts.Logger

	policy, err := catalog.ParseKeyPolicy(cfg.KeyPolicy)
	if err != nil {
		return nil, err
	}

	locales, err := config.LoadLocales(cfg.LocalePath(opts.Root))
	if err != nil {
		return nil, fmt.Errorf("loading locales: %w", err)
	}

	files, err := extract.FindSources(opts.Root, cfg.Sources)
	if err != nil {
		return nil, err
	}

	scanner := &extract.Scanner{Root: opts.Root, Logger: log}
	matches, err := scanner.ScanFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	table := catalog.Build(matches, policy)
	res := &Result{
		Files:    files,
		Matches:  len(matches),
		Summary:  extract.DescribeMatches(matches),
		Messages: table.Len(),
	}
	log.Debug().
		Int("files", len(files)).
		Int("matches", res.Matches).
		Int("messages", res.Messages).
		Str("policy", string(table.Policy())).
		Msg("message table built")

	emitOpts := emit.Options{
		ProjectID:  cfg.ProjectID,
		Domain:     cfg.Domain,
		References: cfg.References,
	}

	for _, loc := range locales {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := pofile.ParseNPlurals(loc.PluralForms); !ok {
			log.Debug().Str("locale", loc.Code).Int("nplurals", pofile.DefaultNPlurals).
				Msg("no usable nplurals clause in Plural-Forms, using default")
		}

		out := emit.Catalog(table, loc, emitOpts)
		path := cfg.CatalogPath(opts.Root, loc.Code)

		if cfg.Merge {
			out, err = mergeExisting(path, out)
			if err != nil {
				return nil, err
			}
		}

		if err := emit.WriteCatalog(path, out); err != nil {
			return nil, err
		}
		log.Debug().Str("locale", loc.Code).Str("path", path).Int("entries", len(out.Entries)).Msg("catalog written")
		res.Catalogs = append(res.Catalogs, path)
	}

	return res, nil
}

// mergeExisting carries translations from the catalog at path into fresh.
// A missing catalog leaves fresh unchanged.
func mergeExisting(path string, fresh *pofile.File) (*pofile.File, error) {
	existing, err := pofile.ParseFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fresh, nil
		}
		return nil, fmt.Errorf("reading existing catalog %s: %w", path, err)
	}
	return merge.Merge(existing, fresh), nil
}
