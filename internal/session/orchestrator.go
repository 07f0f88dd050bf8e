package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Option func(*Orchestrator)

func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs) }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator owns at most one open Session at a time.
type Orchestrator struct {
	rec       Recommender
	log       *zap.Logger
	observers []Observer
	now       func() time.Time

	mu  sync.Mutex
	cur *Session
}

func New(rec Recommender, opts ...Option) *Orchestrator {
	o := &Orchestrator{rec: rec, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open closes any current session and starts a fresh one in Editing with
// default parameters.
func (o *Orchestrator) Open() *Session {
	o.Close()

	s := newSession(o.rec, o.log, o.observers, o.now, o.detach)
	o.mu.Lock()
	o.cur = s
	o.mu.Unlock()

	s.log.Info("Session opened")
	return s
}

func (o *Orchestrator) Close() {
	o.mu.Lock()
	s := o.cur
	o.cur = nil
	o.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

func (o *Orchestrator) Current() (*Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cur, o.cur != nil
}

func (o *Orchestrator) IsOpen() bool {
	_, ok := o.Current()
	return ok
}

func (o *Orchestrator) detach(s *Session) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cur == s {
		o.cur = nil
	}
}
