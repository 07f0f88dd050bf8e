package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"everpeak/internal/llm_client"
)

const (
	DefaultPath     = "planner.yaml"
	defaultLogFile  = "planner.log"
	defaultLogLevel = "info"

	envAPIKey   = "GEMINI_API_KEY"
	envBackend  = "PLANNER_BACKEND"
	envModel    = "PLANNER_MODEL"
	envBaseURL  = "GEMINI_BASE_URL"
	envOllama   = "OLLAMA_HOST"
	envLogLevel = "PLANNER_LOG_LEVEL"
)

type Config struct {
	LLM LLMConfig `yaml:"llm"`
	Log LogConfig `yaml:"log"`
}

type LLMConfig struct {
	Backend    string        `yaml:"backend"`
	Model      string        `yaml:"model"`
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	OllamaHost string        `yaml:"ollama_host"`
	Timeout    time.Duration `yaml:"-"`

	timeoutRaw string
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Load reads path; a missing file yields defaults plus env overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return LoadFromReader(strings.NewReader(""))
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	return LoadFromReader(file)
}

func LoadFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		LLM struct {
			Backend    string `yaml:"backend"`
			Model      string `yaml:"model"`
			BaseURL    string `yaml:"base_url"`
			APIKey     string `yaml:"api_key"`
			OllamaHost string `yaml:"ollama_host"`
			Timeout    string `yaml:"timeout"`
		} `yaml:"llm"`
		Log LogConfig `yaml:"log"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg := &Config{
		LLM: LLMConfig{
			Backend:    raw.LLM.Backend,
			Model:      raw.LLM.Model,
			BaseURL:    raw.LLM.BaseURL,
			APIKey:     raw.LLM.APIKey,
			OllamaHost: raw.LLM.OllamaHost,
			timeoutRaw: raw.LLM.Timeout,
		},
		Log: raw.Log,
	}
	cfg.applyDefaults()
	cfg.applyEnvOverrides()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Backend == "" {
		c.LLM.Backend = llm_client.BackendGemini
	}
	if c.Log.File == "" {
		c.Log.File = defaultLogFile
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(envBackend); v != "" {
		c.LLM.Backend = v
	}
	if v := os.Getenv(envModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(envBaseURL); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(envOllama); v != "" {
		c.LLM.OllamaHost = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.LLM.timeoutRaw) == "" {
		return nil
	}
	d, err := time.ParseDuration(c.LLM.timeoutRaw)
	if err != nil {
		return fmt.Errorf("config: invalid llm.timeout %q: %w", c.LLM.timeoutRaw, err)
	}
	c.LLM.Timeout = d
	return nil
}

// Validate checks names and ranges. An empty API key is accepted; the
// endpoint decides what to do with it.
func (c *Config) Validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.LLM.Backend))
	known := false
	for _, b := range llm_client.Backends {
		if b == backend {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("config: %w: %q", llm_client.ErrUnsupportedBackend, c.LLM.Backend)
	}
	if c.LLM.Timeout < 0 {
		return errors.New("config: llm.timeout cannot be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: invalid log.level %q", c.Log.Level)
	}
	return nil
}

// ClientConfig maps the llm section onto llm_client.Config.
func (c *Config) ClientConfig() llm_client.Config {
	return llm_client.Config{
		Backend:    c.LLM.Backend,
		Model:      c.LLM.Model,
		APIKey:     c.LLM.APIKey,
		BaseURL:    c.LLM.BaseURL,
		OllamaHost: c.LLM.OllamaHost,
		Timeout:    c.LLM.Timeout,
	}
}
