package mission

import (
	"errors"
	"fmt"
	"strings"
)

type Type string

const (
	Recon   Type = "Recon"
	Defense Type = "Defense"
	Arctic  Type = "Arctic"
	Rescue  Type = "Rescue"
)

const (
	MinTemperatureC     = -50
	MaxTemperatureC     = 50
	DefaultTemperatureC = -20

	MinDurationHours     = 1
	MaxDurationHours     = 72
	DefaultDurationHours = 24
)

var (
	ErrUnknownType       = errors.New("unknown mission type")
	ErrEquipmentRequired = errors.New("equipment loadout is required")
)

// Types lists the mission types in selector order.
var Types = []Type{Recon, Defense, Arctic, Rescue}

var labels = map[Type]string{
	Recon:   "前线侦察",
	Defense: "基地防卫",
	Arctic:  "极地科考",
	Rescue:  "紧急救援",
}

// Label is the bilingual selector label, e.g. "前线侦察 (Recon)".
func (t Type) Label() string {
	return fmt.Sprintf("%s (%s)", labels[t], string(t))
}

func (t Type) Valid() bool {
	_, ok := labels[t]
	return ok
}

// ParseType accepts the English name in any case, the Chinese name, or the full label.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	for _, t := range Types {
		if strings.EqualFold(s, string(t)) || s == labels[t] || s == t.Label() {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Parameters are the operator's mission inputs for one session.
type Parameters struct {
	Type          Type   `json:"mission_type"`
	TemperatureC  int    `json:"temperature_c"`
	DurationHours int    `json:"duration_hours"`
	Equipment     string `json:"equipment"`
}

func Defaults() Parameters {
	return Parameters{
		Type:          Recon,
		TemperatureC:  DefaultTemperatureC,
		DurationHours: DefaultDurationHours,
	}
}

func (p *Parameters) SetType(t Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	p.Type = t
	return nil
}

// SetTemperature stores c clamped to [MinTemperatureC, MaxTemperatureC] and
// reports whether clamping happened.
func (p *Parameters) SetTemperature(c int) bool {
	p.TemperatureC = clamp(c, MinTemperatureC, MaxTemperatureC)
	return p.TemperatureC != c
}

// SetDuration stores h clamped to [MinDurationHours, MaxDurationHours] and
// reports whether clamping happened.
func (p *Parameters) SetDuration(h int) bool {
	p.DurationHours = clamp(h, MinDurationHours, MaxDurationHours)
	return p.DurationHours != h
}

func (p *Parameters) SetEquipment(s string) {
	p.Equipment = s
}

// CanSubmit is false while the equipment loadout is blank.
func (p Parameters) CanSubmit() bool {
	return strings.TrimSpace(p.Equipment) != ""
}

func (p Parameters) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, string(p.Type))
	}
	if !p.CanSubmit() {
		return ErrEquipmentRequired
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
