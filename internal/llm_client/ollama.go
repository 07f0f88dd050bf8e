package llm_client

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaProvider struct {
	client *api.Client
	model  string
}

const (
	ollamaDefault     = "phi4:latest"
	ollamaDefaultHost = "http://localhost:11434"
)

func newOllamaProvider(cfg Config) (*ollamaProvider, error) {
	host := strings.TrimSpace(cfg.OllamaHost)
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = ollamaDefaultHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: bad host %q: %w", host, err)
	}
	return &ollamaProvider{
		client: api.NewClient(u, httpClientFor(cfg)),
		model:  cfg.Model,
	}, nil
}

func (p *ollamaProvider) Name() string         { return BackendOllama }
func (p *ollamaProvider) DefaultModel() string { return ollamaDefault }

func (p *ollamaProvider) Generate(ctx context.Context, prompt, model string) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	stream := false
	req := &api.GenerateRequest{
		Model:  modelOrDefault(model, p.model, ollamaDefault),
		Prompt: prompt,
		Stream: &stream,
	}
	var out strings.Builder
	if err := p.client.Generate(ctx, req, func(gr api.GenerateResponse) error {
		out.WriteString(gr.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("%w: ollama generate: %v", ErrTransport, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: ollama returned no text", ErrEmptyResponse)
	}
	return out.String(), nil
}
