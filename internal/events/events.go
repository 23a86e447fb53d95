// Package events provides the event backbone for the simulation: a closed
// set of typed event kinds, an append-only audit log, and a synchronous
// dispatch bus with a fixed, documented handler order.
package events

// EventType defines the category of a game event. The set is closed: every
// type pairs with exactly one payload struct below.
type EventType string

const (
	EventTypeTurnAdvance         EventType = "TURN_ADVANCE"
	EventTypeActionRejected      EventType = "ACTION_REJECTED"
	EventTypeAgentMoved          EventType = "AGENT_MOVED"
	EventTypePostureChanged      EventType = "POSTURE_CHANGED"
	EventTypeNoise               EventType = "NOISE"
	EventTypeCommunion           EventType = "COMMUNION"
	EventTypeAssimilation        EventType = "ASSIMILATION"
	EventTypeReveal              EventType = "REVEAL"
	EventTypeDetectionReport     EventType = "DETECTION_REPORT"
	EventTypeStationAlert        EventType = "STATION_ALERT"
	EventTypeAmbushCoordinated   EventType = "AMBUSH_COORDINATED"
	EventTypeTrustChange         EventType = "TRUST_CHANGE"
	EventTypeStressChange        EventType = "STRESS_CHANGE"
	EventTypePanic               EventType = "PANIC"
	EventTypeWeatherShift        EventType = "WEATHER_SHIFT"
	EventTypeTemperatureCrossing EventType = "TEMPERATURE_CROSSING"
	EventTypePowerFailure        EventType = "POWER_FAILURE"
	EventTypePowerRestored       EventType = "POWER_RESTORED"
	EventTypeSabotage            EventType = "SABOTAGE"
	EventTypeCraftingQueued      EventType = "CRAFTING_QUEUED"
	EventTypeCraftingComplete    EventType = "CRAFTING_COMPLETE"
	EventTypeCraftingAbandoned   EventType = "CRAFTING_ABANDONED"
	EventTypeCombatLog           EventType = "COMBAT_LOG"
	EventTypeAgentDeath          EventType = "AGENT_DEATH"
	EventTypeTestResult          EventType = "TEST_RESULT"
	EventTypeEvidenceTagged      EventType = "EVIDENCE_TAGGED"
	EventTypeInterrogation       EventType = "INTERROGATION_RESULT"
	EventTypeAccusation          EventType = "ACCUSATION_RESULT"
	EventTypeLynchMob            EventType = "LYNCH_MOB"
	EventTypeSOSSent             EventType = "SOS_SENT"
	EventTypeItemUsed            EventType = "ITEM_USED"
	EventTypeBarricadeAction     EventType = "BARRICADE_ACTION"
	EventTypeEndingReport        EventType = "ENDING_REPORT"
)

// GameEvent represents an immutable record of something that happened in the
// simulation. Turn and Seq together identify an event deterministically:
// replaying the same seed and action sequence reproduces the log byte for
// byte, so no wall-clock timestamp or random identifier appears here.
type GameEvent struct {
	Seq     uint64      `json:"seq"`
	Turn    int         `json:"turn"`
	Type    EventType   `json:"type"`
	ActorID string      `json:"actor_id,omitempty"`  // who performed the action
	TargetID string     `json:"target_id,omitempty"` // who was affected
	Payload interface{} `json:"payload,omitempty"`
}

// TurnAdvancePayload is attached to every TurnAdvance event.
type TurnAdvancePayload struct {
	Turn    int  `json:"turn"`
	Day     int  `json:"day"`
	Hour    int  `json:"hour"`
	IsNight bool `json:"is_night"`
}

// ActionRejectedPayload reports a validation failure; no state changed.
type ActionRejectedPayload struct {
	Action string `json:"action"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// MovePayload records an agent step. Each coordinate carries its own tag;
// encoding/json silently drops fields that share one.
type MovePayload struct {
	FromX   int    `json:"from_x"`
	FromY   int    `json:"from_y"`
	ToX     int    `json:"to_x"`
	ToY     int    `json:"to_y"`
	Room    string `json:"room"`
	ViaVent bool   `json:"via_vent,omitempty"`
}

// PosturePayload records a stance change.
type PosturePayload struct {
	Posture string `json:"posture"`
}

// NoisePayload records noise heard at a location.
type NoisePayload struct {
	Units int    `json:"units"`
	Room  string `json:"room"`
}

// CommunionPayload records a passive infection transmission.
type CommunionPayload struct {
	Room        string  `json:"room"`
	Probability float64 `json:"probability"`
}

// AssimilationPayload records a deliberate conversion of a lone target.
type AssimilationPayload struct {
	Room string `json:"room"`
}

// RevealPayload records the terminal unmasking of an infected agent.
type RevealPayload struct {
	Cause string `json:"cause"` // "MASK_ZERO", "CRITICAL_WOUND", "POSITIVE_TEST"
	Room  string `json:"room"`
}

// DetectionPayload records one opposed stealth contest.
type DetectionPayload struct {
	Room         string  `json:"room"`
	Detected     bool    `json:"detected"`
	ObserverPool int     `json:"observer_pool"`
	SubjectPool  int     `json:"subject_pool"`
	Chance       float64 `json:"chance"`
}

// StationAlertPayload reports alert activation or decay.
type StationAlertPayload struct {
	Active   bool   `json:"active"`
	Duration int    `json:"duration"`
	Trigger  string `json:"trigger,omitempty"`
}

// AmbushPayload reports infected agents coordinating on a target.
type AmbushPayload struct {
	TargetID string   `json:"target_id"`
	Flankers []string `json:"flankers"`
}

// TrustChangePayload records a single additive trust delta.
type TrustChangePayload struct {
	Delta    int    `json:"delta"`
	NewScore int    `json:"new_score"`
	Cause    string `json:"cause"`
}

// StressChangePayload records a stress adjustment.
type StressChangePayload struct {
	Delta     int    `json:"delta"`
	NewStress int    `json:"new_stress"`
	Cause     string `json:"cause"`
}

// PanicPayload records a failed composure roll and the forced behavior.
type PanicPayload struct {
	Behavior string `json:"behavior"`
	Stress   int    `json:"stress"`
}

// WeatherPayload reports the storm state after a turn's drift.
type WeatherPayload struct {
	StormIntensity int     `json:"storm_intensity"`
	WindDirection  string  `json:"wind_direction"`
	Temperature    float64 `json:"temperature"`
	Visibility     float64 `json:"visibility_modifier"`
}

// TemperatureCrossingPayload fires when the freezing threshold is crossed.
type TemperatureCrossingPayload struct {
	Threshold   float64 `json:"threshold"`
	Temperature float64 `json:"temperature"`
	Below       bool    `json:"below"`
}

// PowerPayload reports a generator outage or restoration.
type PowerPayload struct {
	Cause    string `json:"cause,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// SabotagePayload reports an infected sabotage incident.
type SabotagePayload struct {
	Incident string `json:"incident"`
	Room     string `json:"room,omitempty"`
}

// CraftingPayload reports queue and completion updates.
type CraftingPayload struct {
	Recipe    string `json:"recipe"`
	TurnsLeft int    `json:"turns_left,omitempty"`
	Item      string `json:"item,omitempty"`
}

// CombatPayload records one resolved attack.
type CombatPayload struct {
	AttackPool  int    `json:"attack_pool"`
	DefensePool int    `json:"defense_pool"`
	Hits        int    `json:"hits"`
	Damage      int    `json:"damage"`
	Weapon      string `json:"weapon,omitempty"`
	Room        string `json:"room"`
}

// DeathPayload records an agent's logical destruction.
type DeathPayload struct {
	Cause string `json:"cause"`
	Room  string `json:"room"`
}

// TestResultPayload records a blood diagnostic outcome.
type TestResultPayload struct {
	Positive bool   `json:"positive"`
	Room     string `json:"room"`
}

// EvidencePayload records forensic evidence tagged against a subject.
type EvidencePayload struct {
	Description string `json:"description"`
}

// InterrogationPayload records a questioning exchange.
type InterrogationPayload struct {
	Honest  bool   `json:"honest"`
	Slipped bool   `json:"slipped"` // infected verbal slip
	Topic   string `json:"topic,omitempty"`
}

// AccusationPayload records a formal accusation vote.
type AccusationPayload struct {
	Upheld     bool     `json:"upheld"`
	VotesFor   int      `json:"votes_for"`
	VotesTotal int      `json:"votes_total"`
	Voters     []string `json:"voters"`
}

// LynchMobPayload reports the derived mob condition.
type LynchMobPayload struct {
	MeanTrust float64 `json:"mean_trust"`
	Threshold float64 `json:"threshold"`
}

// SOSPayload reports the rescue countdown starting or resolving.
type SOSPayload struct {
	TurnsToRescue int  `json:"turns_to_rescue"`
	Arrived       bool `json:"arrived"`
}

// ItemUsedPayload records a consumable being spent outside combat.
type ItemUsedPayload struct {
	Item   string `json:"item"`
	Effect string `json:"effect"`
}

// BarricadePayload records barricades raised or breached.
type BarricadePayload struct {
	Room     string `json:"room"`
	Strength int    `json:"strength"`
	Raised   bool   `json:"raised"`
}

// EndingPayload is the terminal report; the engine refuses further turns
// after publishing it.
type EndingPayload struct {
	Result  string `json:"result"` // "WIN", "LOSS", "RESCUE"
	Ending  string `json:"ending"`
	Message string `json:"message"`
}
