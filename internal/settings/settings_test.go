package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, home, cfgFile string) (*Settings, error) {
	t.Helper()
	v := viper.New()
	SetDefaults(v, home)
	if err := Read(v, cfgFile, home); err != nil {
		return nil, err
	}
	return Load(v)
}

func TestDefaults(t *testing.T) {
	home := t.TempDir()
	s, err := load(t, home, "")
	require.NoError(t, err)

	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, filepath.Join(home, "ecli.log"), s.Log.File)
	assert.Equal(t, []string{"claude"}, s.Providers.Claude.Command)
	assert.Equal(t, []string{"npx", "gemini"}, s.Providers.Gemini.Command)
	assert.Equal(t, []string{"npx", "codex"}, s.Providers.Codex.Command)
	assert.Equal(t, BackendCLI, s.Providers.Codex.Backend)
	assert.True(t, s.UI.Markdown)
	assert.Equal(t, 300*time.Millisecond, s.UI.Tick())
}

func TestSettingsFile(t *testing.T) {
	home := t.TempDir()
	yaml := `
log:
  level: debug
providers:
  codex:
    backend: API
    base_url: http://localhost:8080/v1
  gemini:
    command: [gemini]
ui:
  markdown: false
  tick_ms: 100
`
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.yaml"), []byte(yaml), 0600))

	s, err := load(t, home, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, BackendAPI, s.Providers.Codex.Backend)
	assert.Equal(t, "http://localhost:8080/v1", s.Providers.Codex.BaseURL)
	assert.Equal(t, []string{"gemini"}, s.Providers.Gemini.Command)
	assert.False(t, s.UI.Markdown)
	assert.Equal(t, 100*time.Millisecond, s.UI.Tick())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("ECLI_LOG_LEVEL", "warn")
	s, err := load(t, t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "warn", s.Log.Level)
}

func TestExplicitMissingFile(t *testing.T) {
	_, err := load(t, t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInvalidBackend(t *testing.T) {
	v := viper.New()
	SetDefaults(v, t.TempDir())
	v.Set("providers.codex.backend", "grpc")
	_, err := Load(v)
	assert.ErrorContains(t, err, "providers.codex.backend")
}

func TestTickFallback(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, UISettings{}.Tick())
}
