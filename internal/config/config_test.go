package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	f, err := Load(filepath.Join(t.TempDir(), "convertkit.toml"))
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestLoad_DecodesAllFields(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "convertkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
patterns = ["materials.cs", "*.materials.cs"]
classes = ["Material"]
output_name = "main.materials.json"
converted_name = "ckconverted.materials.json"
audit_name = "ckconverted.audit.csv"
max_passes = 7
report_url = "http://localhost:3000"
`), 0o644))

	// --- Act ---
	f, err := Load(path)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"materials.cs", "*.materials.cs"}, f.Patterns)
	require.Equal(t, []string{"Material"}, f.Classes)
	require.Equal(t, "main.materials.json", f.OutputName)
	require.Equal(t, "ckconverted.materials.json", f.ConvertedName)
	require.Equal(t, "ckconverted.audit.csv", f.AuditName)
	require.Equal(t, 7, f.MaxPasses)
	require.Equal(t, "http://localhost:3000", f.ReportURL)
}

func TestLoad_MalformedFileReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "convertkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(`max_passes = [`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing")
}
