package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"everpeak/internal/brief"
	"everpeak/internal/display"
	"everpeak/internal/mission"
	"everpeak/internal/session"
)

// Console maps console commands onto the orchestrator and prints through out.
type Console struct {
	orch *session.Orchestrator
	out  func(string)
	ctx  context.Context

	mu   sync.Mutex
	done <-chan struct{}
}

func NewConsole(ctx context.Context, orch *session.Orchestrator, out func(string)) *Console {
	return &Console{orch: orch, out: out, ctx: ctx}
}

// Observe is registered as a session observer; it prints progress and
// briefings as they arrive. It must not call back into the session.
func (c *Console) Observe(sessionID string, st session.State) {
	switch st.(type) {
	case session.Submitting, session.Resolved:
		c.out(display.FormatState(sessionID, st))
	}
}

// Wait blocks until the last submitted attempt has been applied or dropped.
func (c *Console) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Handle runs one command and reports whether the console should quit.
func (c *Console) Handle(cmd Command) bool {
	switch cmd.Name {
	case CmdExit:
		c.orch.Close()
		return true
	case CmdHelp:
		c.out(helpText)
		return false
	case CmdCatalog:
		c.out(display.FormatCatalog(brief.DefaultCatalog()))
		return false
	case CmdOpen:
		s := c.orch.Open()
		c.out(fmt.Sprintf("[Planner opened] MISSION ID %s", s.ID()))
		c.out(display.FormatState(s.ID(), s.State()))
		return false
	}

	s, ok := c.orch.Current()
	if !ok {
		c.out("Planner is closed. Type 'open' to start a new session.")
		return false
	}

	switch cmd.Name {
	case CmdType:
		t, err := mission.ParseType(cmd.Arg)
		if err != nil {
			c.out(err.Error())
			return false
		}
		c.report(s.SetType(t), fmt.Sprintf("Mission type: %s", t.Label()))
	case CmdTemp:
		clamped, err := s.SetTemperature(cmd.Int)
		c.report(err, clampNote(fmt.Sprintf("Temperature: %d°C", s.State().Parameters().TemperatureC), clamped))
	case CmdDuration:
		clamped, err := s.SetDuration(cmd.Int)
		c.report(err, clampNote(fmt.Sprintf("Duration: %d hours", s.State().Parameters().DurationHours), clamped))
	case CmdEquipment:
		c.report(s.SetEquipment(cmd.Arg), "Equipment loadout updated.")
	case CmdShow:
		c.out(display.FormatState(s.ID(), s.State()))
	case CmdBrief:
		p := s.State().Parameters()
		if !p.CanSubmit() {
			c.out("Brief unavailable: equipment loadout required.")
			return false
		}
		c.out(display.FormatBrief(brief.Compile(p)))
	case CmdGenerate:
		c.generate(s)
	case CmdRetry:
		if err := s.Retry(); err != nil {
			c.out(err.Error())
			return false
		}
		c.out(display.FormatState(s.ID(), s.State()))
	case CmdConfirm:
		if err := s.Confirm(); err != nil {
			c.out(err.Error())
			return false
		}
		c.out(fmt.Sprintf("[Briefing %s CONFIRMED] Planner closed.", s.ID()))
	case CmdClose:
		c.orch.Close()
		c.out(fmt.Sprintf("[Planner %s CLOSED]", s.ID()))
	case CmdHistory:
		c.out(display.FormatAttempts(s.History()))
	}
	return false
}

func (c *Console) generate(s *session.Session) {
	done, err := s.Submit(c.ctx)
	switch {
	case errors.Is(err, session.ErrValidationBlocked):
		c.out("Generate unavailable: equipment loadout required.")
		return
	case errors.Is(err, session.ErrSubmitUnavailable):
		c.out("A briefing is already in progress or awaiting retry/confirm.")
		return
	case err != nil:
		c.out(err.Error())
		return
	}
	c.mu.Lock()
	c.done = done
	c.mu.Unlock()
}

func (c *Console) report(err error, ok string) {
	if err != nil {
		c.out(err.Error())
		return
	}
	c.out(ok)
}

func clampNote(msg string, clamped bool) string {
	if clamped {
		return msg + " (clamped)"
	}
	return msg
}
