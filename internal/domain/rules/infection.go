// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

// Communion base chances per turn. Darkness makes transmission far easier;
// these are design constants, not tunables.
const (
	CommunionBaseDark = 0.50
	CommunionBaseLit  = 0.10
)

// CommunionRisk computes P(infection) for one co-located human target:
//
//	P = base(lighting) * (1 - maskIntegrity/100) * (1 + paranoia/100)
//
// maskIntegrity is the disguise integrity of the infected agent present
// (the lowest in the room when several are). The raw formula is unbounded
// above 1 at high paranoia, so the result is clamped to [0, 1].
func CommunionRisk(dark bool, maskIntegrity float64, paranoia int) float64 {
	base := CommunionBaseLit
	if dark {
		base = CommunionBaseDark
	}
	p := base * (1.0 - maskIntegrity/100.0) * (1.0 + float64(paranoia)/100.0)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// MaskDecayParams holds the stress conditions that accelerate disguise decay.
type MaskDecayParams struct {
	ExtremeCold   bool // station temperature below the freezing threshold
	HighParanoia  bool // station paranoia above the panicked threshold
	RoleDissonant bool // agent is outside its role's habitat rooms
}

// Decay multipliers. Conditions multiply, never add: an infected agent
// under several stressors unravels much faster than under one.
const (
	maskBaseDecay      = 1.5
	maskColdMult       = 2.0
	maskParanoiaMult   = 1.5
	maskDissonanceMult = 2.0
)

// MaskDecay returns the integrity lost this turn.
func MaskDecay(p MaskDecayParams) float64 {
	decay := maskBaseDecay
	if p.ExtremeCold {
		decay *= maskColdMult
	}
	if p.HighParanoia {
		decay *= maskParanoiaMult
	}
	if p.RoleDissonant {
		decay *= maskDissonanceMult
	}
	return decay
}

// ClampMask applies the hard [0,100] bound on disguise integrity.
func ClampMask(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
