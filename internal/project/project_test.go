package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/swaylang/forc/internal/errors"
	"github.com/swaylang/forc/internal/layout"
)

// scaffold creates files (relative path → content) under a temp dir.
func scaffold(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	root, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	return root
}

func TestResolve_Contract(t *testing.T) {
	// Given: a contract package with a lock file and tests
	root := scaffold(t, map[string]string{
		"Forc.toml":         "[project]\nname = \"counter\"\n",
		"Forc.lock":         "",
		"src/main.sw":       "contract;",
		"src/utils/math.sw": "library;",
		"src/README.md":     "not source",
		"tests/harness.rs":  "",
	})

	// When: resolving from a nested directory
	p, err := Resolve(layout.Default(), filepath.Join(root, "src", "utils"))

	// Then: everything is found
	require.NoError(t, err)
	assert.Equal(t, root, p.Root)
	assert.Equal(t, filepath.Join(root, "Forc.toml"), p.Manifest)
	assert.Equal(t, filepath.Join(root, "Forc.lock"), p.Lock)
	assert.Equal(t, filepath.Join(root, "src", "main.sw"), p.Entry)
	assert.Equal(t, layout.EntryMain, p.Kind)
	assert.Equal(t, []string{filepath.Join("src", "main.sw"), filepath.Join("src", "utils", "math.sw")}, p.Sources)
	assert.True(t, p.HasTests)
}

func TestResolve_Library(t *testing.T) {
	root := scaffold(t, map[string]string{
		"Forc.toml":  "[project]\n",
		"src/lib.sw": "library;",
	})

	p, err := Resolve(layout.Default(), root)

	require.NoError(t, err)
	assert.Equal(t, layout.EntryLib, p.Kind)
	assert.Empty(t, p.Lock)
	assert.False(t, p.HasTests)
}

func TestResolve_NoProject(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(layout.Default(), dir)

	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeProjectNotFound, ferrors.GetCode(err))
	assert.ErrorIs(t, err, layout.ErrNoProject)
}

func TestResolve_NoEntry(t *testing.T) {
	root := scaffold(t, map[string]string{
		"Forc.toml":    "[project]\n",
		"src/other.sw": "library;",
	})

	_, err := Resolve(layout.Default(), root)

	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeEntryNotFound, ferrors.GetCode(err))
	assert.Contains(t, err.Error(), "main.sw")
}
