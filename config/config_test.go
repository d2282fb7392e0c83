package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medassist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendOpenAI, c.Provider.Backend)
	assert.Equal(t, 60*time.Second, c.Provider.Timeout)
	assert.Equal(t, "English", c.Provider.Lang)
	assert.Equal(t, "gpt-4o", c.OpenAI.Model)
	assert.Equal(t, 1500*time.Millisecond, c.Claims.Delay)
	assert.Equal(t, "OPENAI_API_KEY", c.OpenAI.APIKeyEnv)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
provider:
  backend: gemini
  timeout: 15s
  lang: German
gemini:
  model: gemini-2.5-pro
claims:
  delay: 200ms
context:
  file: encounter.yaml
log:
  level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendGemini, c.Provider.Backend)
	assert.Equal(t, 15*time.Second, c.Provider.Timeout)
	assert.Equal(t, "German", c.Provider.Lang)
	assert.Equal(t, "gemini-2.5-pro", c.Gemini.Model)
	assert.Equal(t, 200*time.Millisecond, c.Claims.Delay)
	assert.Equal(t, "encounter.yaml", c.Context.File)

	level, err := c.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MEDASSIST_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("MEDASSIST_PROVIDER_TIMEOUT", "5s")
	path := writeConfig(t, "openai:\n  model: gpt-4o\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-mini", c.OpenAI.Model)
	assert.Equal(t, 5*time.Second, c.Provider.Timeout)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "provider:\n  backend: anthropic\n"))
	assert.ErrorContains(t, err, "unsupported provider backend")

	_, err = Load(writeConfig(t, "log:\n  level: loud\n"))
	assert.ErrorContains(t, err, "invalid log level")
}

func TestResolvedAPIKey(t *testing.T) {
	t.Setenv("TEST_MEDASSIST_KEY", "from-env")
	assert.Equal(t, "from-env", OpenAIConfig{APIKeyEnv: "TEST_MEDASSIST_KEY"}.ResolvedAPIKey())
	assert.Equal(t, "explicit", GeminiConfig{APIKey: "explicit", APIKeyEnv: "TEST_MEDASSIST_KEY"}.ResolvedAPIKey())
	assert.Empty(t, GeminiConfig{}.ResolvedAPIKey())
}
