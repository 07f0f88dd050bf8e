package display

import (
	"fmt"
	"strings"

	"everpeak/internal/brief"
)

func FormatCatalog(c brief.Catalog) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("PRODUCT CATALOG v%s", c.Version)) + "\n")
	for i, p := range c.Profiles {
		sb.WriteString(fmt.Sprintf("  %2d. %-8s %-4s %5gkWh  %-30s %s\n",
			i+1, p.Name, p.Alias, p.CapacityKWh, p.ThermalRating, p.IntendedUse))
	}
	return sb.String()
}

// FormatBrief shows the compiled brief exactly as it would be sent.
func FormatBrief(req brief.Request) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("COMPILED BRIEF") + "\n")
	if req.ColdMandate {
		sb.WriteString(labelStyle.Render("cold mandate: on") + "\n")
	}
	sb.WriteString(divider + "\n")
	sb.WriteString(req.Brief)
	sb.WriteString(divider)
	return sb.String()
}
