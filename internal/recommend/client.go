package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"everpeak/internal/brief"
	"everpeak/internal/llm_client"
)

// Generator is the slice of llm_client.Provider the client needs.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

type Client struct {
	gen   Generator
	model string
	log   *zap.Logger
}

func NewClient(gen Generator, model string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gen: gen, model: model, log: log}
}

// Recommend submits req once and always returns an Outcome; provider errors
// and panics are folded into Failure values.
func (c *Client) Recommend(ctx context.Context, req brief.Request) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error("recommendation panicked", zap.Any("panic", rec))
			out = transportFailure()
		}
	}()

	if c.gen == nil {
		c.log.Error("recommendation failed", zap.Error(llm_client.ErrNotInitialized))
		return transportFailure()
	}

	text, err := c.gen.Generate(ctx, req.Brief, c.model)
	if err != nil {
		return c.classify(err)
	}
	if strings.TrimSpace(text) == "" {
		c.log.Warn("recommendation empty", zap.Int("bytes", len(text)))
		return emptyFailure()
	}
	return Success{Text: text}
}

func (c *Client) classify(err error) Failure {
	if errors.Is(err, llm_client.ErrEmptyResponse) {
		c.log.Warn("recommendation empty", zap.Error(err))
		return emptyFailure()
	}
	c.log.Warn("recommendation transport failure", zap.Error(err))
	return transportFailure()
}

// Describe renders an outcome on one line, for logs.
func Describe(o Outcome) string {
	switch v := o.(type) {
	case Success:
		return fmt.Sprintf("success (%d bytes)", len(v.Text))
	case Failure:
		return fmt.Sprintf("failure %s: %s", v.Kind, v.Message)
	default:
		return "unknown outcome"
	}
}
