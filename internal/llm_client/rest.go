package llm_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	geminiDefault        = "gemini-2.5-flash-preview-09-2025"
	geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"
	maxErrorBody         = 4096
)

// restProvider talks to the generateContent endpoint directly. The API key
// travels as the `key` query parameter and may be empty.
type restProvider struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

type restPart struct {
	Text string `json:"text"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
	Role  string     `json:"role,omitempty"`
}

type restRequest struct {
	Contents []restContent `json:"contents"`
}

type restResponse struct {
	Candidates []struct {
		Content *restContent `json:"content"`
	} `json:"candidates"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newRESTProvider(cfg Config) *restProvider {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = geminiDefaultBaseURL
	}
	return &restProvider{
		http:    httpClientFor(cfg),
		baseURL: base,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

func (p *restProvider) Name() string         { return BackendGemini }
func (p *restProvider) DefaultModel() string { return geminiDefault }

func (p *restProvider) endpoint(model string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(model), url.QueryEscape(p.apiKey))
}

func (p *restProvider) Generate(ctx context.Context, prompt, model string) (string, error) {
	m := modelOrDefault(model, p.model, geminiDefault)

	body, err := json.Marshal(restRequest{Contents: []restContent{{Parts: []restPart{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrTransport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(m), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: gemini status %d: %s", ErrTransport, resp.StatusCode, errorMessage(raw))
	}

	var out restResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if len(out.Candidates) == 0 || out.Candidates[0].Content == nil || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrEmptyResponse)
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: gemini candidate has no text", ErrEmptyResponse)
	}
	return text, nil
}

func errorMessage(raw []byte) string {
	var e restError
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
