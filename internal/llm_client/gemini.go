package llm_client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// genaiProvider uses the official SDK. The SDK refuses an empty key at
// construction time, so the client is built on first use and a refusal is
// reported as a transport failure of that call.
type genaiProvider struct {
	cfg  Config
	http *http.Client

	mu     sync.Mutex
	client *genai.Client
}

func newGenAIProvider(cfg Config) *genaiProvider {
	return &genaiProvider{cfg: cfg, http: httpClientFor(cfg)}
}

func (p *genaiProvider) Name() string         { return BackendGenAI }
func (p *genaiProvider) DefaultModel() string { return geminiDefault }

func (p *genaiProvider) ensureClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	cc := &genai.ClientConfig{
		APIKey:     p.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.http,
	}
	if base := strings.TrimSpace(p.cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: genai client init: %v", ErrTransport, err)
	}
	p.client = c
	return c, nil
}

func (p *genaiProvider) Generate(ctx context.Context, prompt, model string) (string, error) {
	c, err := p.ensureClient(ctx)
	if err != nil {
		return "", err
	}
	m := modelOrDefault(model, p.cfg.Model, geminiDefault)
	resp, err := c.Models.GenerateContent(ctx, m, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: genai generate: %v", ErrTransport, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: genai returned no candidates", ErrEmptyResponse)
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: genai candidate has no text", ErrEmptyResponse)
	}
	return text, nil
}
