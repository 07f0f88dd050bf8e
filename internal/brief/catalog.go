package brief

import (
	"fmt"
	"strings"
)

const CatalogVersion = "2025.1"

type Profile struct {
	Name          string  `json:"name"`
	Alias         string  `json:"alias"`
	CapacityKWh   float64 `json:"capacity_kwh"`
	Chemistry     string  `json:"chemistry"`
	ThermalRating string  `json:"thermal_rating"`
	IntendedUse   string  `json:"intended_use"`
	ColdRated     bool    `json:"cold_rated"`
}

type Catalog struct {
	Version  string    `json:"version"`
	Profiles []Profile `json:"profiles"`
}

var defaultCatalog = Catalog{
	Version: CatalogVersion,
	Profiles: []Profile{
		{
			Name:          "Ranger",
			Alias:         "游骑兵",
			CapacityKWh:   2,
			Chemistry:     "lithium",
			ThermalRating: "standard",
			IntendedUse:   "portable, single operator / drone support",
		},
		{
			Name:          "Aegis",
			Alias:         "神盾",
			CapacityKWh:   10,
			Chemistry:     "solid-state, explosion-proof",
			ThermalRating: "standard",
			IntendedUse:   "command post / field medical",
		},
		{
			Name:          "Polaris",
			Alias:         "极光",
			CapacityKWh:   5,
			Chemistry:     "sodium-ion",
			ThermalRating: "cold-rated, stable at -40°C",
			IntendedUse:   "extreme cold operations",
			ColdRated:     true,
		},
	},
}

// DefaultCatalog returns a copy of the built-in product catalog.
func DefaultCatalog() Catalog {
	return defaultCatalog.clone()
}

func (c Catalog) clone() Catalog {
	out := Catalog{Version: c.Version, Profiles: make([]Profile, len(c.Profiles))}
	copy(out.Profiles, c.Profiles)
	return out
}

// Find looks a profile up by name or alias, case-insensitively.
func (c Catalog) Find(name string) (Profile, bool) {
	name = strings.TrimSpace(name)
	for _, p := range c.Profiles {
		if strings.EqualFold(p.Name, name) || p.Alias == name {
			return p, true
		}
	}
	return Profile{}, false
}

// ColdRated returns the first cold-rated profile.
func (c Catalog) ColdRated() (Profile, bool) {
	for _, p := range c.Profiles {
		if p.ColdRated {
			return p, true
		}
	}
	return Profile{}, false
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%s): %gkWh, %s, %s, %s.",
		p.Name, p.Alias, p.CapacityKWh, p.Chemistry, p.ThermalRating, p.IntendedUse)
}

// PromptPart renders the numbered catalog block embedded in every brief.
func (c Catalog) PromptPart() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("PRODUCT CATALOG (v%s):\n", c.Version))
	for i, p := range c.Profiles {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p.String()))
	}
	return sb.String()
}
