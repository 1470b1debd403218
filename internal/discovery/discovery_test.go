package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/convertkit/internal/fsio"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestDiscover_MatchesPatternsRecursively(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := writeTree(t, map[string]string{
		"levels/a/materials.cs":         "Material \"a\" {}",
		"vehicles/car/car.materials.cs": "Material \"b\" {}",
		"vehicles/car/readme.txt":       "not a material file",
		"levels/a/terrain.ter":          "binary",
	})

	// --- Act ---
	records, err := Discover(fsio.NewOS(), root, []string{"materials.cs", "*.materials.cs"}, "ckconverted.")

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, filepath.Join(root, "levels/a/materials.cs"), records[0].AbsPath)
	require.Equal(t, filepath.Join(root, "vehicles/car/car.materials.cs"), records[1].AbsPath)
	require.Greater(t, records[0].Size, int64(0))
}

func TestDiscover_ExcludesConvertedPrefix(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a/materials.cs":             "Material \"a\" {}",
		"a/ckconverted.materials.cs": "already converted",
	})

	records, err := Discover(fsio.NewOS(), root, []string{"materials.cs", "*.materials.cs"}, "ckconverted.")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, filepath.Join(root, "a/materials.cs"), records[0].AbsPath)
}

func TestDiscover_RecordsZeroByteFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a/materials.cs": "",
	})

	records, err := Discover(fsio.NewOS(), root, []string{"materials.cs"}, "ckconverted.")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, int64(0), records[0].Size)
}

func TestDiscover_StableOrderByLogicalPath(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"z/materials.cs": "z",
		"a/materials.cs": "a",
		"m/materials.cs": "m",
	})

	records, err := Discover(fsio.NewOS(), root, []string{"materials.cs"}, "ckconverted.")
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		require.Less(t, records[i-1].LogicalPath, records[i].LogicalPath)
	}
}

func TestFindByName(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a/main.materials.json":   "{}",
		"b/c/main.materials.json": "{}",
		"b/c/other.json":          "{}",
	})

	paths, err := FindByName(fsio.NewOS(), root, "main.materials.json")
	require.NoError(t, err)
	require.Len(t, paths, 2)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	got := OutputPath(filepath.Join("vehicles", "car", "materials.cs"), "main.materials.json")
	require.Equal(t, filepath.Join("vehicles", "car", "main.materials.json"), got)
}
