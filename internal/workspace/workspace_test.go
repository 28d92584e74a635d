package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twprefix/internal/config"
	"twprefix/internal/scan"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func newTestRunner(t *testing.T, root string) *Runner {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Workspace.Workers = 3
	r, err := NewRunner(root, cfg, "ts-")
	require.NoError(t, err)
	return r
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/app.tsx":                "",
		"src/util.ts":                "",
		"src/legacy.js":              "",
		"src/readme.md":              "",
		"node_modules/pkg/index.js":  "",
		"dist/bundle.js":             "",
		"src/components/Button.jsx":  "",
		"src/components/.cache/x.js": "",
	})

	d := NewDiscoverer(root, config.DefaultWorkspaceConfig(), "")
	files, skipped, err := d.Discover(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
	}
	assert.Equal(t, []string{
		"src/app.tsx",
		"src/components/Button.jsx",
		"src/legacy.js",
		"src/util.ts",
	}, rels)

	assert.Equal(t, scan.DialectTypedMarkupScript, files[0].Dialect)
	assert.Equal(t, scan.DialectMarkupScript, files[1].Dialect)
	assert.Equal(t, scan.DialectTypedScript, files[3].Dialect)
}

func TestDiscover_SkipsLargeFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"big.ts": "0123456789", "small.ts": "1"})

	cfg := config.DefaultWorkspaceConfig()
	cfg.MaxFileBytes = 5
	files, skipped, err := NewDiscoverer(root, cfg, "").Discover(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "small.ts", files[0].Rel)
	require.Len(t, skipped, 1)
	assert.Equal(t, "big.ts", skipped[0].Rel)
}

func TestDiscover_ExplicitFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"notes.txt": "", "a.ts": ""})

	d := NewDiscoverer(root, config.DefaultWorkspaceConfig(), "")
	files, skipped, err := d.Discover(context.Background(), []string{"a.ts", "notes.txt", "a.ts"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, "unknown file type", skipped[0].Reason)

	forced := NewDiscoverer(root, config.DefaultWorkspaceConfig(), scan.DialectScript)
	files, _, err = forced.Discover(context.Background(), []string{"notes.txt"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, scan.DialectScript, files[0].Dialect)
}

func TestDiscover_MissingTarget(t *testing.T) {
	d := NewDiscoverer(t.TempDir(), config.DefaultWorkspaceConfig(), "")
	_, _, err := d.Discover(context.Background(), []string{"nope"})
	assert.Error(t, err)
}

func TestIgnored(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultWorkspaceConfig()
	cfg.IgnorePatterns = []string{"node_modules", "*.gen.ts", "src/vendor/"}
	d := NewDiscoverer(root, cfg, "")

	assert.True(t, d.Ignored(filepath.Join(root, "a", "node_modules", "x.js")))
	assert.True(t, d.Ignored(filepath.Join(root, "api.gen.ts")))
	assert.True(t, d.Ignored(filepath.Join(root, "src", "vendor")))
	assert.False(t, d.Ignored(filepath.Join(root, "src", "app.ts")))
	assert.False(t, d.Ignored(root))
}

func TestRunner_Check(t *testing.T) {
	root := t.TempDir()
	src := `const a = cn("flex items-center");` + "\n"
	writeFiles(t, root, map[string]string{
		"a.ts":      src,
		"clean.ts":  `const b = "hello";` + "\n",
		"broken.ts": `cn("flex"` + "\n",
	})

	res, err := newTestRunner(t, root).Run(context.Background(), nil, ModeCheck)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Files, 3)
	assert.Equal(t, 1, res.ChangedFiles())
	assert.Equal(t, 1, res.EditCount())

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "broken.ts", failed[0].File.Rel)
	assert.True(t, errors.Is(failed[0].Err, scan.ErrSyntax))

	// Check mode never touches disk.
	assert.Equal(t, src, readFile(t, root, "a.ts"))
	assert.Equal(t, `const a = cn("ts-flex ts-items-center");`+"\n", string(res.Files[0].Updated))
}

func TestRunner_Write(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/Card.tsx": `export const Card = () => <div className="p-4 shadow">hi</div>;` + "\n",
	})
	path := filepath.Join(root, "src", "Card.tsx")
	require.NoError(t, os.Chmod(path, 0600))

	r := newTestRunner(t, root)
	res, err := r.Run(context.Background(), []string{"src"}, ModeWrite)
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.True(t, res.Files[0].Written)

	assert.Equal(t, `export const Card = () => <div className="ts-p-4 ts-shadow">hi</div>;`+"\n",
		readFile(t, root, "src/Card.tsx"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(root, "src"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")

	// A second run finds nothing left to do.
	again, err := r.Run(context.Background(), nil, ModeWrite)
	require.NoError(t, err)
	assert.Zero(t, again.EditCount())
	assert.False(t, again.Files[0].Written)
}

func TestRunner_RunFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"x.js": `cn("grid")`, "y.md": "# doc"})
	r := newTestRunner(t, root)

	fr, err := r.RunFile(context.Background(), filepath.Join(root, "x.js"), ModeCheck)
	require.NoError(t, err)
	assert.Len(t, fr.Edits, 1)

	_, err = r.RunFile(context.Background(), "y.md", ModeCheck)
	assert.ErrorContains(t, err, "unknown file type")
}

func TestRunner_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.ts": `cn("flex")`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(t, root).Run(ctx, nil, ModeCheck)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_BadDialect(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dialect = "cobol"
	_, err := NewRunner(t.TempDir(), cfg, "x-")
	assert.Error(t, err)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "check", ModeCheck.String())
	assert.Equal(t, "write", ModeWrite.String())
}
