package rules

// DetectionBaseRate is the configured chance that an even contest resolves
// as a detection. Pool asymmetry scales it up or down.
const DetectionBaseRate = 0.5

// DetectionParams collects every modifier feeding an opposed stealth contest.
type DetectionParams struct {
	ObserverPool  int // Logic + Observation
	SubjectPool   int // Prowess + Stealth
	PostureBonus  int // +0/+1/+2/+4 for standing/crouching/crawling/hiding
	Dark          bool
	NoiseUnits    int
	ObserverAlert int // station-alert observation bonus
}

// DetectionPools applies all modifiers and returns the effective pools.
// Darkness favors the subject; noise favors the observer. Pools never
// drop below 1 so the contest stays meaningful.
func DetectionPools(p DetectionParams) (observer, subject int) {
	observer = p.ObserverPool + p.ObserverAlert
	subject = p.SubjectPool + p.PostureBonus

	if p.Dark {
		observer -= 2
		subject += 2
	}

	observer += p.NoiseUnits / 2
	subject -= p.NoiseUnits / 2

	if observer < 1 {
		observer = 1
	}
	if subject < 1 {
		subject = 1
	}
	return observer, subject
}

// DetectionChance converts effective pools into a detection probability.
// With even pools the chance equals the base rate; the pool ratio scales
// it linearly, clamped to [0, 1].
func DetectionChance(observer, subject int) float64 {
	ratio := float64(observer) / float64(observer+subject)
	chance := DetectionBaseRate * (ratio / 0.5)
	if chance < 0 {
		return 0
	}
	if chance > 1 {
		return 1
	}
	return chance
}
