package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/convertkit/internal/app"
	"github.com/vk/convertkit/internal/cli"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-root", "/test/root",
				"--remove-sources",
				"--dry-run",
				"--max-passes=3",
				"--classes=Material,TerrainMaterial",
				"--report-url=http://localhost:3000",
				"--healthcheck-port=8080",
				"--log-level=debug",
				"--log-format=text",
			},
			expectedConfig: &app.Config{
				Root:            "/test/root",
				RemoveSources:   true,
				DryRun:          true,
				MaxPasses:       3,
				Classes:         []string{"Material", "TerrainMaterial"},
				ReportURL:       "http://localhost:3000",
				HealthcheckPort: 8080,
				LogLevel:        "debug",
				LogFormat:       "text",
			},
		},
		{
			name:       "Shorthand flag and defaults",
			args:       []string{"-r", "/short/path"},
			expectExit: false,
			expectErr:  false,
			expectedConfig: &app.Config{
				Root:      "/short/path",
				LogLevel:  "info",
				LogFormat: "json",
			},
		},
		{
			name:       "Positional argument for path",
			args:       []string{"/positional/path"},
			expectExit: false,
			expectErr:  false,
			expectedConfig: &app.Config{
				Root:      "/positional/path",
				LogLevel:  "info",
				LogFormat: "json",
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			expectErr:  false,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:       "No path triggers clean exit with usage",
			args:       []string{},
			expectExit: true,
			expectErr:  false,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:      "Invalid log level returns an error",
			args:      []string{"--log-level=foo", "/path"},
			expectErr: true,
		},
		{
			name:      "Invalid log format returns an error",
			args:      []string{"--log-format=yaml", "/path"},
			expectErr: true,
		},
		{
			name:      "Negative pass cap returns an error",
			args:      []string{"--max-passes=-1", "/path"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			appConfig, shouldExit, err := cli.Parse(tc.args, out)

			// --- Assert ---
			if tc.expectErr {
				require.Error(t, err)
				_, isExitError := err.(*cli.ExitError)
				require.True(t, isExitError, "Expected error to be of type ExitError")
				return // End test here if an error is expected
			}
			require.NoError(t, err)

			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, appConfig); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}

func TestParse_ConfigFileFillsUnsetFields(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	configPath := filepath.Join(dir, "convertkit.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
patterns = ["special.materials.cs"]
classes = ["TerrainMaterial"]
max_passes = 9
report_url = "http://reporter:3000"
`), 0o644))

	// --- Act ---
	appConfig, shouldExit, err := cli.Parse([]string{"--config", configPath, "/some/root"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, []string{"special.materials.cs"}, appConfig.Patterns)
	require.Equal(t, []string{"TerrainMaterial"}, appConfig.Classes)
	require.Equal(t, 9, appConfig.MaxPasses)
	require.Equal(t, "http://reporter:3000", appConfig.ReportURL)
}

func TestParse_FlagsWinOverConfigFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	configPath := filepath.Join(dir, "convertkit.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
classes = ["TerrainMaterial"]
max_passes = 9
`), 0o644))

	// --- Act ---
	appConfig, _, err := cli.Parse([]string{
		"--config", configPath,
		"--classes=Material",
		"--max-passes=2",
		"/some/root",
	}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"Material"}, appConfig.Classes)
	require.Equal(t, 2, appConfig.MaxPasses)
}

func TestParse_MalformedConfigFileReturnsError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "convertkit.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`max_passes = "not a number`), 0o644))

	_, _, err := cli.Parse([]string{"--config", configPath, "/some/root"}, &bytes.Buffer{})
	require.Error(t, err)
	_, isExitError := err.(*cli.ExitError)
	require.True(t, isExitError)
}
