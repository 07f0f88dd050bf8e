package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"everpeak/internal/llm_client"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envAPIKey, envBackend, envModel, envBaseURL, envOllama, envLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoadFromReader(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_KEY", "from-yaml-env")

	data := `
llm:
  backend: genai
  model: gemini-2.0-flash
  api_key: "${MY_KEY}"
  timeout: 30s
log:
  file: /tmp/p.log
  level: debug
`
	cfg, err := LoadFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "genai", cfg.LLM.Backend)
	require.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	require.Equal(t, "from-yaml-env", cfg.LLM.APIKey)
	require.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	require.Equal(t, "/tmp/p.log", cfg.Log.File)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDefaultsAndEmptyKey(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, llm_client.BackendGemini, cfg.LLM.Backend)
	require.Empty(t, cfg.LLM.APIKey)
	require.Equal(t, defaultLogFile, cfg.Log.File)
	require.Equal(t, defaultLogLevel, cfg.Log.Level)
	require.Zero(t, cfg.LLM.Timeout)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envAPIKey, "env-key")
	t.Setenv(envBackend, "ollama")
	t.Setenv(envOllama, "http://gpu-box:11434")
	t.Setenv(envLogLevel, "warn")

	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  backend: gemini\n  api_key: file-key\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.LLM.APIKey)
	require.Equal(t, "ollama", cfg.LLM.Backend)
	require.Equal(t, "http://gpu-box:11434", cfg.ClientConfig().OllamaHost)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	testCases := []struct {
		name string
		data string
	}{
		{name: "Unknown backend", data: "llm:\n  backend: claude\n"},
		{name: "Bad timeout", data: "llm:\n  timeout: soon\n"},
		{name: "Negative timeout", data: "llm:\n  timeout: -1s\n"},
		{name: "Bad log level", data: "log:\n  level: chatty\n"},
		{name: "Bad yaml", data: "llm: [\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tc.data))
			require.Error(t, err)
		})
	}
}
