package brief

import (
	"fmt"
	"strings"

	"everpeak/internal/mission"
)

// Below this temperature the brief mandates the cold-rated unit.
const ColdThresholdC = -20

func RequiresColdRated(tempC int) bool {
	return tempC < ColdThresholdC
}

// Request is one compiled brief plus the catalog it was compiled against.
type Request struct {
	Brief       string
	Catalog     Catalog
	ColdMandate bool
}

// Compile turns mission parameters into the brief sent to the oracle.
// Parameters are embedded verbatim; callers gate on CanSubmit beforehand.
func Compile(p mission.Parameters) Request {
	return compileWith(DefaultCatalog(), p)
}

func compileWith(catalog Catalog, p mission.Parameters) Request {
	cold := RequiresColdRated(p.TemperatureC)

	var sb strings.Builder
	sb.WriteString("You are the tactical energy officer of EverPeak. Produce a tactical energy configuration briefing for the mission parameters below.\n\n")

	sb.WriteString("MISSION PARAMETERS:\n")
	sb.WriteString(fmt.Sprintf("- mission type: %s\n", p.Type))
	sb.WriteString(fmt.Sprintf("- temperature: %d°C\n", p.TemperatureC))
	sb.WriteString(fmt.Sprintf("- duration: %d hours\n", p.DurationHours))
	sb.WriteString(fmt.Sprintf("- equipment: %s\n\n", p.Equipment))

	sb.WriteString(catalog.PromptPart())
	sb.WriteString("Recommend ONLY products from this catalog.\n\n")

	sb.WriteString("RULES:\n")
	sb.WriteString("1) STYLE: military briefing. Hard, concise, professional.\n")
	if cold {
		primary := "the cold-rated unit"
		if prof, ok := catalog.ColdRated(); ok {
			primary = fmt.Sprintf("%s (the cold-rated unit)", prof.Name)
		}
		sb.WriteString(fmt.Sprintf("2) MANDATORY PRIMARY UNIT: the temperature is below %d°C, so %s MUST be the recommended primary unit.\n", ColdThresholdC, primary))
	} else {
		sb.WriteString("2) PRIMARY UNIT: choose by load and mission profile.\n")
	}
	sb.WriteString("3) SIZING: estimate the equipment power draw over the mission duration and size the number of Ranger or Aegis units accordingly.\n\n")

	sb.WriteString("OUTPUT FORMAT (exactly three parts):\n")
	sb.WriteString("- [ENERGY ASSESSMENT]: short analysis of the energy demand.\n")
	sb.WriteString("- [RECOMMENDED CONFIGURATION]: concrete unit names and counts.\n")
	sb.WriteString("- [TACTICAL CAVEAT]: one caveat tied to the stated environment and duration.\n\n")

	sb.WriteString("Output the briefing directly. No pleasantries.\n")

	return Request{
		Brief:       sb.String(),
		Catalog:     catalog.clone(),
		ColdMandate: cold,
	}
}
