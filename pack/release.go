package pack

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitInfo holds the optional version metadata used in release names.
type GitInfo struct {
	// Tag is the latest tag without a leading "v".
	Tag string
	// Hash is the abbreviated HEAD commit.
	Hash string
}

// ReadGitInfo queries git in dir. Missing git, a non-repository, or a
// repository without tags or commits leave the fields empty.
func ReadGitInfo(ctx context.Context, dir string) GitInfo {
	var gi GitInfo
	if tag, err := git(ctx, dir, "describe", "--tags", "--abbrev=0"); err == nil {
		gi.Tag = strings.TrimPrefix(tag, "v")
	}
	if hash, err := git(ctx, dir, "rev-parse", "--short=7", "HEAD"); err == nil {
		gi.Hash = hash
	}
	return gi
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// PackageName reads the "name" field of package.json in dir.
func PackageName(dir string) (string, error) {
	path := filepath.Join(dir, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	if pkg.Name == "" {
		return "", fmt.Errorf("%s has no name", path)
	}
	return pkg.Name, nil
}

// ReleaseName formats <name>[-v<tag>][-<hash>].zip. Scoped npm names
// ("@scope/name") keep only the last path element.
func ReleaseName(name string, gi GitInfo) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if gi.Tag != "" {
		name += "-v" + gi.Tag
	}
	if gi.Hash != "" {
		name += "-" + gi.Hash
	}
	return name + ".zip"
}

// hidden leaves dotfiles out of release bundles; theme archives keep them.
var hidden = []string{"**/.*", "**/.*/**"}

// Release bundles the theme archive and the optional release directory
// into out. Hidden files in the release directory are skipped.
func Release(ctx context.Context, themeZip, releaseDir, out string, exclude []string) (*Stats, error) {
	if _, err := os.Stat(themeZip); err != nil {
		return nil, fmt.Errorf("theme package not found (run pack first): %w", err)
	}

	return create(out, func(w *Writer) (int, error) {
		if err := w.AddFile(filepath.Base(themeZip), themeZip); err != nil {
			return 0, err
		}
		info, err := os.Stat(releaseDir)
		if err != nil || !info.IsDir() {
			return 1, nil
		}
		skip := append(append([]string(nil), exclude...), hidden...)
		n, err := w.AddDir(ctx, releaseDir, "", skip)
		return n + 1, err
	})
}
