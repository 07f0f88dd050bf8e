package display

import (
	"fmt"
	"strings"

	"everpeak/internal/metrics"
)

func FormatAttempts(attempts []metrics.Attempt) string {
	if len(attempts) == 0 {
		return "No attempts yet."
	}
	sum := metrics.Summarize(attempts)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attempts: %d  (ok=%d, failed=%d, total %d ms)\n",
		sum.Attempts, sum.Succeeded, sum.Failed, sum.TotalMs))
	for _, a := range attempts {
		status := "ok"
		if !a.Succeeded {
			status = a.FailureKind
		}
		sb.WriteString(fmt.Sprintf("  #%-3d %6d ms  [%s]\n", a.Attempt, a.DurationMs, status))
	}
	return sb.String()
}
