package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dircat/internal/logger"
)

// writeTree creates the given files (relative slash paths) below root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relPaths strips root from every path and converts to slash form.
func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))

	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)

		out = append(out, filepath.ToSlash(rel))
	}

	return out
}

func scanFiles(t *testing.T, opt Options) []string {
	t.Helper()

	opt.Logger = logger.Discard()

	s, err := New(opt)
	require.NoError(t, err)

	files, err := s.Files(context.Background())
	require.NoError(t, err)

	return relPaths(t, s.Root(), files)
}

func TestFiles_ExcludedDirectoriesAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":                         "x",
		"b.txt":                        "ignored",
		"node_modules/c.py":            "excluded",
		"src/app.py":                   "app",
		"src/node_modules/deep/d.py":   "excluded",
		"src/.git/hooks/pre-commit":    "excluded",
		"pkg/__pycache__/mod.pyc":      "excluded",
		"pkg/node_modules_backup/e.py": "kept, name differs",
	})

	files := scanFiles(t, Options{
		Root:       root,
		Exclude:    DefaultExcludes,
		Extensions: []string{".py"},
	})

	assert.Equal(t, []string{"a.py", "pkg/node_modules_backup/e.py", "src/app.py"}, files)

	for _, f := range files {
		for _, part := range strings.Split(f, "/") {
			assert.NotContains(t, DefaultExcludes, part)
		}
	}
}

func TestFiles_NoFilterReturnsEveryFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py":         "x",
		"b.txt":        "y",
		"dir/c.bin":    "z",
		"dir/sub/d.md": "w",
	})

	files := scanFiles(t, Options{Root: root})

	assert.Equal(t, []string{"a.py", "b.txt", "dir/c.bin", "dir/sub/d.md"}, files)
}

func TestFiles_RootNameIsNotExcluded(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "node_modules")
	writeTree(t, root, map[string]string{"index.js": "x"})

	files := scanFiles(t, Options{Root: root, Exclude: []string{"node_modules"}})

	assert.Equal(t, []string{"index.js"}, files)
}

func TestFiles_Patterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/app.js":      "x",
		"src/app.min.js":  "x",
		"dist/bundle.js":  "x",
		"dist/inner/x.js": "x",
	})

	files := scanFiles(t, Options{
		Root:     root,
		Patterns: []string{`/dist$`, `\.min\.js$`},
	})

	assert.Equal(t, []string{"src/app.js"}, files)
}

func TestFiles_GitIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":      "build/\n*.log\n",
		"main.go":         "package main",
		"debug.log":       "noise",
		"build/output.go": "generated",
	})

	files := scanFiles(t, Options{Root: root, GitIgnore: true})
	assert.Equal(t, []string{".gitignore", "main.go"}, files)

	files = scanFiles(t, Options{Root: root})
	assert.Equal(t, []string{".gitignore", "build/output.go", "debug.log", "main.go"}, files)
}

func TestFiles_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"top.go":          "x",
		"one/mid.go":      "x",
		"one/two/deep.go": "x",
	})

	files := scanFiles(t, Options{Root: root, MaxDepth: 2})

	assert.Equal(t, []string{"one/mid.go", "top.go"}, files)
}

func TestFiles_SkipsReportFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":      "x",
		"report.txt": "previous run",
	})

	files := scanFiles(t, Options{
		Root:       root,
		Extensions: []string{".txt"},
		Skip:       []string{filepath.Join(root, "report.txt")},
	})

	assert.Equal(t, []string{"a.txt"}, files)
}

func TestFiles_Symlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"real/file.py": "x",
	})

	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "linkdir")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	require.NoError(t, os.Symlink(filepath.Join(root, "real", "file.py"), filepath.Join(root, "link.py")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.py"), filepath.Join(root, "dangling.py")))

	files := scanFiles(t, Options{Root: root})

	assert.Equal(t, []string{"dangling.py", "link.py", "real/file.py"}, files)
}

func TestFiles_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"z.go": "x", "a.go": "x", "m/b.go": "x", "m/a.go": "x", "c/z.go": "x",
	})

	first := scanFiles(t, Options{Root: root, workers: 4})
	second := scanFiles(t, Options{Root: root, workers: 4})

	assert.Equal(t, first, second)
	assert.IsNonDecreasing(t, first)
}

func TestNew_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.txt": "x"})

	_, err := New(Options{Root: filepath.Join(root, "absent")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRootMissing)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = New(Options{Root: filepath.Join(root, "file.txt")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRootMissing)
	assert.Contains(t, err.Error(), "is not a directory")

	_, err = New(Options{Root: root, Patterns: []string{"("}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling exclusion pattern")
}

func TestWalk_CallbackErrorStopsWalk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "x", "b": "x", "c": "x"})

	s, err := New(Options{Root: root, Logger: logger.Discard()})
	require.NoError(t, err)

	stop := assert.AnError
	calls := 0

	err = s.Walk(context.Background(), func(string, fs.DirEntry) error {
		calls++

		return stop
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestWalk_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a": "x"})

	s, err := New(Options{Root: root, Logger: logger.Discard()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Walk(ctx, func(string, fs.DirEntry) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
