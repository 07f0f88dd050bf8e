package llm_client

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WithLogging logs request size, latency and errors around p.
func WithLogging(p Provider, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &logging{next: p, log: log.With(zap.String("backend", p.Name()))}
}

type logging struct {
	next Provider
	log  *zap.Logger
}

func (l *logging) Name() string         { return l.next.Name() }
func (l *logging) DefaultModel() string { return l.next.DefaultModel() }

func (l *logging) Generate(ctx context.Context, prompt, model string) (string, error) {
	start := time.Now()
	l.log.Info("LLM request", zap.String("model", model), zap.Int("bytes", len(prompt)))
	text, err := l.next.Generate(ctx, prompt, model)
	if err != nil {
		l.log.Warn("LLM error", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return text, err
	}
	l.log.Info("LLM response", zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(text)))
	return text, nil
}
