package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfig_RequiresRoot(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Root")

	cfg, err := NewConfig(Config{Root: "/some/root"})
	require.NoError(t, err)
	require.Equal(t, "/some/root", cfg.Root)
}

func TestNewConfig_RejectsNegativeMaxPasses(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{Root: "/some/root", MaxPasses: -1})
	require.Error(t, err)
}

func TestNewLogger_FormatAndLevelSelection(t *testing.T) {
	t.Parallel()

	// --- Arrange / Act ---
	out := &bytes.Buffer{}
	logger := newLogger("warn", "text", out)
	logger.Info("below threshold")
	logger.Warn("emitted")

	// --- Assert ---
	require.NotContains(t, out.String(), "below threshold")
	require.Contains(t, out.String(), "emitted")
	require.NotContains(t, out.String(), "{", "text format must not produce JSON")

	out.Reset()
	logger = newLogger("nonsense", "json", out)
	logger.Debug("suppressed by the info fallback")
	logger.Info("kept")
	require.NotContains(t, out.String(), "suppressed")
	require.Contains(t, out.String(), `"msg":"kept"`)
}

func TestProgressHandler_IdleBeforeFirstJob(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfg, err := NewConfig(Config{Root: "/some/root", LogLevel: "error"})
	require.NoError(t, err)
	a := NewApp(&bytes.Buffer{}, cfg, nil)

	// --- Act ---
	rec := httptest.NewRecorder()
	a.progressHandler(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))

	// --- Assert ---
	var payload map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, true, payload["idle"])
}

func TestProgressHandler_ReportsRunningJob(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "materials.cs"), []byte(`
Material "rock01" {
  colorMap = "rock_d.dds"
}
`), 0o644))

	cfg, err := NewConfig(Config{Root: root, LogLevel: "error"})
	require.NoError(t, err)
	a := NewApp(&bytes.Buffer{}, cfg, nil)
	require.NoError(t, a.Run(context.Background()))
	require.NotNil(t, a.Job())

	// --- Act ---
	rec := httptest.NewRecorder()
	a.progressHandler(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))

	// --- Assert ---
	var payload map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	require.Equal(t, false, payload["idle"])
	require.Equal(t, float64(100), payload["progress"])
	require.Equal(t, "done", payload["status"])
}

func TestRun_SecondJobOnSameRootWhileHeldFails(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := t.TempDir()
	cfg, err := NewConfig(Config{Root: root, LogLevel: "error"})
	require.NoError(t, err)
	a := NewApp(&bytes.Buffer{}, cfg, nil)

	release, err := a.locker.Acquire(root)
	require.NoError(t, err)
	defer release()

	// --- Act / Assert ---
	require.Error(t, a.Run(context.Background()), "a held root must refuse a second job")
}
