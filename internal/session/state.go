package session

import (
	"everpeak/internal/mission"
	"everpeak/internal/recommend"
)

// State is one of Editing, Submitting or Resolved.
type State interface {
	isState()
	Parameters() mission.Parameters
}

type Editing struct {
	Params mission.Parameters
}

// Submitting holds the parameters of the single in-flight attempt.
type Submitting struct {
	Params  mission.Parameters
	Attempt int
}

type Resolved struct {
	Params  mission.Parameters
	Outcome recommend.Outcome
	Attempt int
}

func (Editing) isState()    {}
func (Submitting) isState() {}
func (Resolved) isState()   {}

func (s Editing) Parameters() mission.Parameters    { return s.Params }
func (s Submitting) Parameters() mission.Parameters { return s.Params }
func (s Resolved) Parameters() mission.Parameters   { return s.Params }

// Name is the state's display tag.
func Name(s State) string {
	switch s.(type) {
	case Editing:
		return "EDITING"
	case Submitting:
		return "SUBMITTING"
	case Resolved:
		return "RESOLVED"
	default:
		return "UNKNOWN"
	}
}
