package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
log:
  level: "debug"
output:
  dir: "/tmp/out"
gate:
  registry: "immediate"
  element: "x-ready"
  hidden_class: "invisible"
  reveal_timeout: "3s"
pdf:
  enabled: true
  attempts: 5
  timeout: "30s"
db:
  url: "postgres://u:p@localhost:5432/records?sslmode=disable"
publish:
  concurrency: 2
`

func TestLoad_ExplicitPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cfg.yaml", sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, RegistryImmediate, cfg.Gate.Registry)
	assert.Equal(t, "x-ready", cfg.Gate.Element)
	assert.Equal(t, "invisible", cfg.Gate.HiddenClass)
	assert.Equal(t, 3*time.Second, cfg.Gate.RevealTimeout)
	assert.True(t, cfg.PDF.Enabled)
	assert.Equal(t, 5, cfg.PDF.Attempts)
	assert.Equal(t, 30*time.Second, cfg.PDF.Timeout)
	assert.Equal(t, 2, cfg.Publish.Concurrency)
}

func TestLoad_DefaultsFromMinimalFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cfg.yaml", "log:\n  level: info\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, RegistryNative, cfg.Gate.Registry)
	assert.Equal(t, "animatable-component", cfg.Gate.Element)
	assert.Equal(t, "d-none", cfg.Gate.HiddenClass)
	assert.Zero(t, cfg.Gate.RevealTimeout)
	assert.False(t, cfg.PDF.Enabled)
	assert.Equal(t, 3, cfg.PDF.Attempts)
	assert.Equal(t, 60*time.Second, cfg.PDF.Timeout)
	assert.Equal(t, 4, cfg.Publish.Concurrency)
	assert.Equal(t, "resume-data/generated", cfg.Output.Dir)
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cfg.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_LocalYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "local.yaml", "gate:\n  registry: immediate\n")
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, RegistryImmediate, cfg.Gate.Registry)
}

func TestLoad_EnvOnly(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GATE_REVEAL_TIMEOUT", "1500ms")
	t.Setenv("PUBLISH_CONCURRENCY", "8")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Gate.RevealTimeout)
	assert.Equal(t, 8, cfg.Publish.Concurrency)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "OUTPUT_DIR=from-dotenv\n")
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	// godotenv never overrides a variable that is already set; make sure
	// the variable is unset and restored afterwards.
	t.Setenv("OUTPUT_DIR", "")
	require.NoError(t, os.Unsetenv("OUTPUT_DIR"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Output.Dir)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	tests := map[string]string{
		"unknown registry":      "gate:\n  registry: sniff\n",
		"negative timeout":      "gate:\n  reveal_timeout: -1s\n",
		"negative attempts":     "pdf:\n  attempts: -1\n",
		"negative concurrency":  "publish:\n  concurrency: -2\n",
		"broken yaml":           "gate: [\n",
		"hidden class selector": "gate:\n  hidden_class: \"d-none{}\"\n",
		"hidden class spaces":   "gate:\n  hidden_class: \"d none\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, "bad.yaml", body))
			require.Error(t, err)
		})
	}
}

