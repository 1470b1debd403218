package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should propagate the error from cli.Parse.
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_ConvertsTreeEndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	dir := filepath.Join(root, "levels", "gridmap")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "materials.cs"), []byte(`
Material "rock01" {
  mapTo    = "rock01"
  colorMap = "levels/gridmap/rock_d.dds"
}
`), 0o644))

	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, []string{"--log-level=error", "--remove-sources", root})

	// --- Assert ---
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(dir, "materials.cs"))
	require.FileExists(t, filepath.Join(dir, "ckconverted.materials.json"))
	require.FileExists(t, filepath.Join(root, "ckconverted.audit.csv"))
}

func TestRun_MissingRootReturnsError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--log-level=error", "/definitely/not/a/real/root"})
	require.Error(t, err)
}
