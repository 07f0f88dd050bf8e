package metrics

import "time"

// Attempt records one submission of a session, from Submitting to Resolved.
type Attempt struct {
	SessionID   string    `json:"session_id"`
	Attempt     int       `json:"attempt"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMs  int64     `json:"duration_ms"`
	Succeeded   bool      `json:"succeeded"`
	FailureKind string    `json:"failure_kind,omitempty"`
}

// Compute derived fields.
func (a *Attempt) Finalize() {
	a.DurationMs = a.End.Sub(a.Start).Milliseconds()
}

// Summary aggregates the attempts of one session.
type Summary struct {
	Attempts  int   `json:"attempts"`
	Succeeded int   `json:"succeeded"`
	Failed    int   `json:"failed"`
	TotalMs   int64 `json:"total_ms"`
	LastMs    int64 `json:"last_ms"`
}

func Summarize(attempts []Attempt) Summary {
	var s Summary
	for _, a := range attempts {
		s.Attempts++
		if a.Succeeded {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.TotalMs += a.DurationMs
		s.LastMs = a.DurationMs
	}
	return s
}
