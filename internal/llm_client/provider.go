package llm_client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotInitialized     = errors.New("llm client not initialized")
	ErrUnsupportedBackend = errors.New("unsupported LLM backend")
	// ErrTransport covers network, DNS, non-2xx and malformed payload failures.
	ErrTransport = errors.New("llm transport failure")
	// ErrEmptyResponse means the exchange completed but carried no usable text.
	ErrEmptyResponse = errors.New("llm empty response")
)

const (
	BackendGemini = "gemini"
	BackendGenAI  = "genai"
	BackendOllama = "ollama"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendGemini, BackendGenAI, BackendOllama}

type Config struct {
	Backend    string
	Model      string
	APIKey     string
	BaseURL    string
	OllamaHost string
	// Zero keeps the transport default.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Provider interface {
	Name() string
	DefaultModel() string
	Generate(ctx context.Context, prompt, model string) (string, error)
}

func New(cfg Config) (Provider, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendGemini
	}
	switch backend {
	case BackendGemini:
		return newRESTProvider(cfg), nil
	case BackendGenAI:
		return newGenAIProvider(cfg), nil
	case BackendOllama:
		return newOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}
}

func httpClientFor(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	if cfg.Timeout > 0 {
		return &http.Client{Timeout: cfg.Timeout}
	}
	return http.DefaultClient
}

func modelOrDefault(model, configured, fallback string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	if m := strings.TrimSpace(configured); m != "" {
		return m
	}
	return fallback
}
