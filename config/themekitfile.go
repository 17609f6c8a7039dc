package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/themekit/catalog"
	"github.com/minios-linux/themekit/extract"
)

// FileName is the default tool configuration file name.
const FileName = ".themekit.yaml"

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .themekit.yaml structure. Every field is optional.
type File struct {
	// Sources are globs, relative to the project root, scanned for call sites.
	Sources []string `yaml:"sources,omitempty"`
	// LocaleFile is the locale list path relative to the project root.
	LocaleFile string `yaml:"locale_file,omitempty"`
	// OutputDir receives <code>/LC_MESSAGES/<domain>.po.
	OutputDir string `yaml:"output_dir,omitempty"`
	// Domain names the catalog file and the X-Domain header.
	Domain string `yaml:"domain,omitempty"`
	// ProjectID is the Project-Id-Version header value.
	ProjectID string `yaml:"project_id,omitempty"`
	// KeyPolicy is "msgid" (default) or "msgid+msgctxt".
	KeyPolicy string `yaml:"key_policy,omitempty"`
	// Merge keeps translations already present in the output catalogs.
	Merge bool `yaml:"merge,omitempty"`
	// References writes "#: file:line" comments for each entry.
	References bool `yaml:"references,omitempty"`

	Watch   Watch   `yaml:"watch,omitempty"`
	Pack    Pack    `yaml:"pack,omitempty"`
	Release Release `yaml:"release,omitempty"`
}

// Watch configures watch mode.
type Watch struct {
	// Debounce is the quiet period after the last change before a run.
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Pack configures the theme archive.
type Pack struct {
	// BuildDir is the built theme directory to archive.
	BuildDir string `yaml:"build_dir,omitempty"`
	// Output is the archive name; ".zip" is appended when missing.
	Output string `yaml:"output,omitempty"`
	// Exclude are globs of files left out of the archive.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Release configures the release archive.
type Release struct {
	// Dir holds extra files shipped next to the theme archive.
	Dir string `yaml:"dir,omitempty"`
	// ThemeZip is the theme archive produced by pack.
	ThemeZip string `yaml:"theme_zip,omitempty"`
}

// DefaultExclude lists files never packed.
var DefaultExclude = []string{
	"**/.DS_Store",
	"**/Thumbs.db",
	"**/.git/**",
	"**/node_modules/**",
	"**/.env*",
}

// Defaults returns the configuration used when no file exists.
func Defaults() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

func (f *File) applyDefaults() {
	if len(f.Sources) == 0 {
		f.Sources = append([]string(nil), extract.DefaultSources...)
	}
	if f.LocaleFile == "" {
		f.LocaleFile = LocaleFileName
	}
	if f.OutputDir == "" {
		f.OutputDir = filepath.Join("static", "locale")
	}
	if f.Domain == "" {
		f.Domain = "theme"
	}
	if f.ProjectID == "" {
		f.ProjectID = "Theme Translations"
	}
	if f.KeyPolicy == "" {
		f.KeyPolicy = string(catalog.KeyMsgID)
	}
	if f.Watch.Debounce <= 0 {
		f.Watch.Debounce = 200 * time.Millisecond
	}
	if f.Pack.BuildDir == "" {
		f.Pack.BuildDir = "dist"
	}
	if f.Pack.Output == "" {
		f.Pack.Output = "theme.zip"
	}
	if len(f.Pack.Exclude) == 0 {
		f.Pack.Exclude = append([]string(nil), DefaultExclude...)
	}
	if f.Release.Dir == "" {
		f.Release.Dir = "release"
	}
	if f.Release.ThemeZip == "" {
		f.Release.ThemeZip = "theme.zip"
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the tool configuration from rootDir. When path is empty the
// default file name is used and a missing file yields Defaults(); an
// explicitly named file must exist.
func Load(rootDir, path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if _, err := catalog.ParseKeyPolicy(f.KeyPolicy); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, g := range f.Sources {
		if g == "" {
			return nil, fmt.Errorf("%s: empty source glob", path)
		}
	}

	f.applyDefaults()
	return &f, nil
}

// LocalePath returns the absolute locale list path.
func (f *File) LocalePath(rootDir string) string {
	return Resolve(rootDir, f.LocaleFile)
}

// AbsOutputDir returns the absolute catalog output directory.
func (f *File) AbsOutputDir(rootDir string) string {
	return Resolve(rootDir, f.OutputDir)
}

// CatalogPath returns the catalog path for a locale code:
// <output_dir>/<code>/LC_MESSAGES/<domain>.po.
func (f *File) CatalogPath(rootDir, code string) string {
	return filepath.Join(f.AbsOutputDir(rootDir), code, "LC_MESSAGES", f.Domain+".po")
}

// Resolve joins a configured path onto rootDir unless it is absolute.
func Resolve(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}
