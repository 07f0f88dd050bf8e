package display

import (
	"fmt"
	"strings"

	"everpeak/internal/mission"
	"everpeak/internal/recommend"
	"everpeak/internal/session"
)

func FormatParameters(p mission.Parameters) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("MISSION PARAMETERS") + "\n")
	sb.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("任务类型 / Mission Type :"), p.Type.Label()))
	sb.WriteString(fmt.Sprintf("  %s %d°C  (%d..%d)\n", labelStyle.Render("环境温度 / Temp         :"),
		p.TemperatureC, mission.MinTemperatureC, mission.MaxTemperatureC))
	sb.WriteString(fmt.Sprintf("  %s %d Hours  (%d..%d)\n", labelStyle.Render("任务时长 / Duration     :"),
		p.DurationHours, mission.MinDurationHours, mission.MaxDurationHours))
	equipment := p.Equipment
	if strings.TrimSpace(equipment) == "" {
		equipment = hintStyle.Render("(empty) e.g. 2 M300 drones, 1 rugged laptop, 3 radios, heated tent")
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("携带设备 / Equipment    :"), formatValueForDisplay(equipment)))
	return sb.String()
}

// FormatState renders whatever the host should show for st.
func FormatState(sessionID string, st session.State) string {
	switch s := st.(type) {
	case session.Editing:
		return formatEditing(s)
	case session.Submitting:
		return fmt.Sprintf("%s  (attempt %d)", headerStyle.Render("ANALYZING MISSION DATA..."), s.Attempt)
	case session.Resolved:
		return formatResolved(sessionID, s)
	default:
		return fmt.Sprintf("unknown state %T", st)
	}
}

func formatEditing(s session.Editing) string {
	var sb strings.Builder
	sb.WriteString(FormatParameters(s.Params))
	if s.Params.CanSubmit() {
		sb.WriteString(okStyle.Render("[generate] ready"))
	} else {
		sb.WriteString(hintStyle.Render("[generate] unavailable: equipment loadout required"))
	}
	return sb.String()
}

func formatResolved(sessionID string, s session.Resolved) string {
	var sb strings.Builder
	switch out := s.Outcome.(type) {
	case recommend.Success:
		sb.WriteString(headerStyle.Render("战术能源简报 / TACTICAL ENERGY BRIEFING") + "\n")
		sb.WriteString(labelStyle.Render(fmt.Sprintf("MISSION ID: %s  ATTEMPT: %d", sessionID, s.Attempt)) + "\n")
		sb.WriteString(dividerStyle.Render(divider) + "\n")
		// Oracle text is shown as received.
		sb.WriteString(out.Text)
		if !strings.HasSuffix(out.Text, "\n") {
			sb.WriteString("\n")
		}
	case recommend.Failure:
		sb.WriteString(failStyle.Render(fmt.Sprintf("BRIEFING FAILED [%s]", out.Kind)) + "\n")
		sb.WriteString(labelStyle.Render(fmt.Sprintf("MISSION ID: %s  ATTEMPT: %d", sessionID, s.Attempt)) + "\n")
		sb.WriteString(dividerStyle.Render(divider) + "\n")
		sb.WriteString(out.Message + "\n")
	}
	sb.WriteString(dividerStyle.Render(divider) + "\n")
	sb.WriteString(hintStyle.Render("retry = 重新规划 | confirm = 确认方案 | close"))
	return sb.String()
}

// Keep single-line values on one line.
func formatValueForDisplay(value string) string {
	return strings.ReplaceAll(value, "\n", "\\n")
}
