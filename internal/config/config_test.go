package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/lumen-console/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName)
	assert.Equal(t, 600, cfg.MinCaptureMS)
	assert.True(t, cfg.AutoSpeak)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LUMEN_PORT", "9090")
	t.Setenv("LUMEN_STORAGE_BACKEND", "redis")
	t.Setenv("LUMEN_AUTO_SPEAK", "false")
	t.Setenv("LUMEN_MIN_CAPTURE_MS", "250")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.StorageBackend)
	assert.False(t, cfg.AutoSpeak)
	assert.Equal(t, 250, cfg.MinCaptureMS)
}

func TestYAMLFileWithEnvWinning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"7070\"\nmodel_name: gemini-2.5-pro\nmin_capture_ms: 900\n",
	), 0o600))

	t.Setenv("LUMEN_CONFIG_FILE", path)
	t.Setenv("LUMEN_PORT", "6060")

	cfg, err := config.Load()
	require.NoError(t, err)

	// Env beats file; file beats built-in defaults.
	assert.Equal(t, "6060", cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.ModelName)
	assert.Equal(t, 900, cfg.MinCaptureMS)
}

func TestFirestoreBackendRequiresProject(t *testing.T) {
	t.Setenv("LUMEN_STORAGE_BACKEND", "firestore")

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("LUMEN_GCP_PROJECT", "demo-project")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "demo-project", cfg.GCPProjectID)
}

func TestUnknownBackendRejected(t *testing.T) {
	t.Setenv("LUMEN_STORAGE_BACKEND", "tape")

	_, err := config.Load()
	require.Error(t, err)
}
