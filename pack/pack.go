// Package pack builds the theme archive and the release bundle.
//
// Archives are reproducible: entries are sorted, carry a fixed
// modification time, and are compressed at the highest deflate level.
package pack

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// epoch is the modification time stamped on every entry.
var epoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// ZipName appends ".zip" unless name already ends with it (case-insensitive).
func ZipName(name string) string {
	if name == "" {
		name = "theme"
	}
	if strings.HasSuffix(strings.ToLower(name), ".zip") {
		return name
	}
	return name + ".zip"
}

// Excluded reports whether a slash-separated relative path matches any
// exclude glob.
func Excluded(rel string, exclude []string) bool {
	for _, g := range exclude {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// CollectFiles lists regular files under dir, including dotfiles, as
// sorted slash-separated relative paths, leaving out excluded ones.
func CollectFiles(dir string, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if Excluded(rel, exclude) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Writer wraps a zip writer with maximum compression.
type Writer struct {
	zw *zip.Writer
}

// NewWriter starts a zip archive on w.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &Writer{zw: zw}
}

// AddFile copies the file at path into the archive under name.
func (w *Writer) AddFile(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	hdr.SetMode(info.Mode().Perm())

	dst, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}
	return nil
}

// AddDir adds every non-excluded file under dir, named relative to dir
// and prefixed with prefix.
func (w *Writer) AddDir(ctx context.Context, dir, prefix string, exclude []string) (int, error) {
	files, err := CollectFiles(dir, exclude)
	if err != nil {
		return 0, err
	}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := w.AddFile(prefix+rel, filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

// Close finishes the archive.
func (w *Writer) Close() error {
	return w.zw.Close()
}

// countingWriter counts bytes passed to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Stats describes a written archive.
type Stats struct {
	Path  string
	Files int
	Bytes int64
}

// create writes an archive to path via fill. A failed archive is removed.
func create(path string, fill func(w *Writer) (int, error)) (*Stats, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	cw := &countingWriter{w: f}
	zw := NewWriter(cw)

	n, err := fill(zw)
	if err == nil {
		err = zw.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &Stats{Path: path, Files: n, Bytes: cw.n}, nil
}

// Theme archives the built theme directory into out.
func Theme(ctx context.Context, buildDir, out string, exclude []string) (*Stats, error) {
	info, err := os.Stat(buildDir)
	if err != nil {
		return nil, fmt.Errorf("build directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build directory %s is not a directory", buildDir)
	}

	return create(out, func(w *Writer) (int, error) {
		return w.AddDir(ctx, buildDir, "", exclude)
	})
}
