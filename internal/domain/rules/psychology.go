package rules

// Station paranoia thresholds.
const (
	ParanoiaConcerned = 33
	ParanoiaPanicked  = 66
)

// PanicMargin is the buffer above Resolve before stress can trigger panic.
const PanicMargin = 2

// PanicThreshold returns the stress level an agent tolerates before panic
// rolls begin. Resolve is the governing attribute.
func PanicThreshold(resolve int) int {
	return resolve + PanicMargin
}

// ColdStress returns the stress gained per turn at the given station
// temperature. No stress above freezing; +1 per 20 degrees below zero,
// minimum 1 when below.
func ColdStress(temperature float64) int {
	if temperature >= 0 {
		return 0
	}
	gain := int(-temperature) / 20
	if gain < 1 {
		gain = 1
	}
	return gain
}

// IsolationStress is the per-turn stress for a human alone in a room.
const IsolationStress = 1

// PanicBehavior is one of the forced actions a panicking agent takes.
type PanicBehavior string

const (
	PanicDropItem PanicBehavior = "DROP_ITEM"
	PanicFreeze   PanicBehavior = "FREEZE"
	PanicScream   PanicBehavior = "SCREAM"
	PanicFlee     PanicBehavior = "FLEE"
	PanicLashOut  PanicBehavior = "LASH_OUT"
)

// PanicBehaviors is the closed set of forced behaviors, in fixed order so a
// uniform index pick is reproducible across runs.
var PanicBehaviors = []PanicBehavior{
	PanicDropItem,
	PanicFreeze,
	PanicScream,
	PanicFlee,
	PanicLashOut,
}
