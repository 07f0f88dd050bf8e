package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"everpeak/internal/brief"
	"everpeak/internal/metrics"
	"everpeak/internal/mission"
	"everpeak/internal/recommend"
)

var (
	ErrClosed            = errors.New("session closed")
	ErrNotEditing        = errors.New("parameters can only change while editing")
	ErrNotResolved       = errors.New("no resolved briefing")
	ErrValidationBlocked = errors.New("equipment loadout required before submitting")
	ErrSubmitUnavailable = errors.New("submit unavailable")
)

// Recommender resolves a compiled brief into an outcome without erroring.
type Recommender interface {
	Recommend(ctx context.Context, req brief.Request) recommend.Outcome
}

// Observer is called on every state change. It runs with the session locked
// and must not call back into the session.
type Observer func(sessionID string, s State)

// Session is one open-to-close lifetime of the orchestrator.
type Session struct {
	id        string
	rec       Recommender
	log       *zap.Logger
	observers []Observer
	now       func() time.Time
	detach    func(*Session)

	mu       sync.Mutex
	state    State
	closed   bool
	attempts int
	history  []metrics.Attempt
}

func newSession(rec Recommender, log *zap.Logger, observers []Observer, now func() time.Time, detach func(*Session)) *Session {
	id := uuid.New().String()[:8]
	return &Session{
		id:        id,
		rec:       rec,
		log:       log.With(zap.String("session", id)),
		observers: observers,
		now:       now,
		detach:    detach,
		state:     Editing{Params: mission.Defaults()},
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// History returns the metrics of every resolved attempt, oldest first.
func (s *Session) History() []metrics.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]metrics.Attempt, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.state.(Editing)
	return !s.closed && ok && ed.Params.CanSubmit()
}

func (s *Session) SetType(t mission.Type) error {
	return s.edit(func(p *mission.Parameters) error { return p.SetType(t) })
}

// SetTemperature reports whether the value was clamped.
func (s *Session) SetTemperature(c int) (bool, error) {
	var clamped bool
	err := s.edit(func(p *mission.Parameters) error {
		clamped = p.SetTemperature(c)
		return nil
	})
	return clamped, err
}

// SetDuration reports whether the value was clamped.
func (s *Session) SetDuration(h int) (bool, error) {
	var clamped bool
	err := s.edit(func(p *mission.Parameters) error {
		clamped = p.SetDuration(h)
		return nil
	})
	return clamped, err
}

func (s *Session) SetEquipment(text string) error {
	return s.edit(func(p *mission.Parameters) error {
		p.SetEquipment(text)
		return nil
	})
}

func (s *Session) edit(fn func(*mission.Parameters) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	ed, ok := s.state.(Editing)
	if !ok {
		return fmt.Errorf("%w (state %s)", ErrNotEditing, Name(s.state))
	}
	p := ed.Params
	if err := fn(&p); err != nil {
		return err
	}
	s.setLocked(Editing{Params: p})
	return nil
}

// Submit moves Editing to Submitting and asks the recommender on a new
// goroutine. The returned channel closes once the outcome has been applied,
// or dropped because the session closed first. Outside Editing, or with a
// blank loadout, nothing happens and an error says why.
func (s *Session) Submit(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	ed, ok := s.state.(Editing)
	if !ok {
		st := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w (state %s)", ErrSubmitUnavailable, Name(st))
	}
	if !ed.Params.CanSubmit() {
		s.mu.Unlock()
		return nil, ErrValidationBlocked
	}
	s.attempts++
	attempt := s.attempts
	s.setLocked(Submitting{Params: ed.Params, Attempt: attempt})
	s.mu.Unlock()

	req := brief.Compile(ed.Params)
	s.log.Info("Submitting brief",
		zap.Int("attempt", attempt),
		zap.String("mission_type", string(ed.Params.Type)),
		zap.Int("temperature_c", ed.Params.TemperatureC),
		zap.Int("duration_hours", ed.Params.DurationHours),
		zap.Bool("cold_mandate", req.ColdMandate))

	done := make(chan struct{})
	go func() {
		defer close(done)
		start := s.now()
		out := s.rec.Recommend(ctx, req)
		s.resolve(attempt, start, out)
	}()
	return done, nil
}

func (s *Session) resolve(attempt int, start time.Time, out recommend.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Info("Discarding outcome for closed session", zap.Int("attempt", attempt), zap.String("outcome", recommend.Describe(out)))
		return
	}
	sub, ok := s.state.(Submitting)
	if !ok || sub.Attempt != attempt {
		return
	}

	am := metrics.Attempt{SessionID: s.id, Attempt: attempt, Start: start, End: s.now()}
	switch v := out.(type) {
	case recommend.Success:
		am.Succeeded = true
	case recommend.Failure:
		am.FailureKind = string(v.Kind)
	}
	am.Finalize()
	s.history = append(s.history, am)

	s.log.Info("Attempt resolved",
		zap.Int("attempt", attempt),
		zap.String("outcome", recommend.Describe(out)),
		zap.Int64("duration_ms", am.DurationMs))
	s.setLocked(Resolved{Params: sub.Params, Outcome: out, Attempt: attempt})
}

// Retry drops the resolved outcome and returns to Editing with the same parameters.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	r, ok := s.state.(Resolved)
	if !ok {
		return fmt.Errorf("%w (state %s)", ErrNotResolved, Name(s.state))
	}
	s.setLocked(Editing{Params: r.Params})
	return nil
}

// Confirm accepts the resolved briefing and terminates the session.
func (s *Session) Confirm() error {
	return s.terminate(true)
}

// Close terminates the session from any state. An in-flight attempt keeps
// running but its outcome is dropped. Closing twice is a no-op.
func (s *Session) Close() {
	_ = s.terminate(false)
}

func (s *Session) terminate(requireResolved bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if requireResolved {
			return ErrClosed
		}
		return nil
	}
	st := s.state
	if _, ok := st.(Resolved); requireResolved && !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotResolved, Name(st))
	}
	s.closed = true
	s.mu.Unlock()

	s.log.Info("Session closed", zap.String("state", Name(st)), zap.Bool("confirmed", requireResolved))
	if s.detach != nil {
		s.detach(s)
	}
	return nil
}

func (s *Session) setLocked(st State) {
	s.state = st
	for _, obs := range s.observers {
		obs(s.id, st)
	}
}
