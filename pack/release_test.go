package pack

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseName(t *testing.T) {
	tests := []struct {
		name string
		pkg  string
		gi   GitInfo
		want string
	}{
		{"bare", "my-theme", GitInfo{}, "my-theme.zip"},
		{"tag only", "my-theme", GitInfo{Tag: "1.2.0"}, "my-theme-v1.2.0.zip"},
		{"hash only", "my-theme", GitInfo{Hash: "abc1234"}, "my-theme-abc1234.zip"},
		{"tag and hash", "my-theme", GitInfo{Tag: "2.0", Hash: "abc1234"}, "my-theme-v2.0-abc1234.zip"},
		{"scoped", "@acme/my-theme", GitInfo{Tag: "1.0"}, "my-theme-v1.0.zip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReleaseName(tt.pkg, tt.gi))
		})
	}
}

func TestPackageName(t *testing.T) {
	dir := t.TempDir()

	_, err := PackageName(dir)
	assert.Error(t, err, "missing package.json")

	p := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"version": "1.0.0"}`), 0644))
	_, err = PackageName(dir)
	assert.Error(t, err, "no name")

	require.NoError(t, os.WriteFile(p, []byte(`{not json`), 0644))
	_, err = PackageName(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p, []byte(`{"name": "my-theme", "version": "1.0.0"}`), 0644))
	name, err := PackageName(dir)
	require.NoError(t, err)
	assert.Equal(t, "my-theme", name)
}

func TestReadGitInfoOutsideRepository(t *testing.T) {
	gi := ReadGitInfo(context.Background(), t.TempDir())
	assert.Equal(t, GitInfo{}, gi)
}

func TestReadGitInfo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	gitRun := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=t", "GIT_AUTHOR_EMAIL=t@example.com",
			"GIT_COMMITTER_NAME=t", "GIT_COMMITTER_EMAIL=t@example.com",
			"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	gitRun("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	gitRun("add", "a.txt")
	gitRun("commit", "-q", "-m", "init")

	gi := ReadGitInfo(context.Background(), dir)
	assert.Empty(t, gi.Tag)
	assert.Len(t, gi.Hash, 7)

	gitRun("tag", "v1.4.2")
	gi = ReadGitInfo(context.Background(), dir)
	assert.Equal(t, "1.4.2", gi.Tag)
}

func TestRelease(t *testing.T) {
	root := t.TempDir()
	themeZip := filepath.Join(root, "theme.zip")
	out := filepath.Join(root, "my-theme-v1.0.zip")

	_, err := Release(context.Background(), themeZip, filepath.Join(root, "release"), out, testExclude)
	require.Error(t, err, "theme.zip must exist")
	assert.NoFileExists(t, out)

	require.NoError(t, os.WriteFile(themeZip, []byte("zip bytes"), 0644))

	st, err := Release(context.Background(), themeZip, filepath.Join(root, "release"), out, testExclude)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Files)
	assert.Equal(t, map[string]string{"theme.zip": "zip bytes"}, readZip(t, out))

	writeTree(t, filepath.Join(root, "release"), map[string]string{
		"README.md":        "readme",
		"docs/INSTALL.txt": "install",
		"docs/.DS_Store":   "junk",
		".hidden/notes":    "private",
		"docs/.draft.md":   "draft",
	})
	st, err = Release(context.Background(), themeZip, filepath.Join(root, "release"), out, testExclude)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Files)
	assert.Equal(t, map[string]string{
		"README.md":        "readme",
		"docs/INSTALL.txt": "install",
		"theme.zip":        "zip bytes",
	}, readZip(t, out))
}
