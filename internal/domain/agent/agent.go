// Package agent defines the core domain entity for station crew members.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package agent

// Attribute is one of the four base attributes every agent carries.
type Attribute string

const (
	AttrProwess   Attribute = "Prowess"
	AttrLogic     Attribute = "Logic"
	AttrInfluence Attribute = "Influence"
	AttrResolve   Attribute = "Resolve"
)

// Skill identifies a trained ability layered on top of an attribute.
type Skill string

const (
	SkillMelee       Skill = "Melee"
	SkillFirearms    Skill = "Firearms"
	SkillMedicine    Skill = "Medicine"
	SkillObservation Skill = "Observation"
	SkillStealth     Skill = "Stealth"
	SkillRepair      Skill = "Repair"
	SkillPersuasion  Skill = "Persuasion"
	SkillDeception   Skill = "Deception"
)

// SkillAttribute maps each skill to the attribute it pools with.
func SkillAttribute(s Skill) Attribute {
	switch s {
	case SkillMelee, SkillFirearms, SkillRepair, SkillStealth:
		return AttrProwess
	case SkillMedicine, SkillObservation:
		return AttrLogic
	case SkillPersuasion, SkillDeception:
		return AttrInfluence
	default:
		return AttrResolve
	}
}

// Nature is the hidden truth about an agent.
type Nature string

const (
	NatureHuman    Nature = "HUMAN"
	NatureInfected Nature = "INFECTED"
)

// Posture is the stealth stance an agent currently holds.
type Posture string

const (
	PostureStanding  Posture = "STANDING"
	PostureCrouching Posture = "CROUCHING"
	PostureCrawling  Posture = "CRAWLING"
	PostureHiding    Posture = "HIDING"
)

// StealthBonus returns the subject-pool dice granted by a posture.
func (p Posture) StealthBonus() int {
	switch p {
	case PostureCrouching:
		return 1
	case PostureCrawling:
		return 2
	case PostureHiding:
		return 4
	default:
		return 0
	}
}

// Mode is the AI behavior mode an agent is currently in.
type Mode string

const (
	ModeSchedule  Mode = "SCHEDULE"  // follow the daily schedule
	ModePursuing  Mode = "PURSUING"  // move toward a seen target
	ModeSearching Mode = "SEARCHING" // sweep rooms near a lost contact
	ModeFleeing   Mode = "FLEEING"   // panic flight, ignore schedule
	ModeHunting   Mode = "HUNTING"   // revealed infected, openly aggressive
	ModeFlanking  Mode = "FLANKING"  // coordinated ambush approach
)

// Position is a grid coordinate on the station map.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ScheduleEntry assigns a target room to an hour window. Windows may wrap
// past midnight (Start > End).
type ScheduleEntry struct {
	Start int    `yaml:"start" json:"start"` // inclusive hour 0-23
	End   int    `yaml:"end" json:"end"`     // exclusive hour 0-23
	Room  string `yaml:"room" json:"room"`
}

// Covers reports whether the entry's window contains the given hour.
func (e ScheduleEntry) Covers(hour int) bool {
	if e.Start < e.End {
		return e.Start <= hour && hour < e.End
	}
	// Wraps around midnight, e.g. 22:00-06:00.
	return hour >= e.Start || hour < e.End
}

const (
	MaxHealth = 3
	MaxStress = 10
)

// Agent represents an NPC or the player character inside the simulation.
// State is owned exclusively by the simulation and mutated only through
// documented system entry points.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`

	Position Position `json:"position"`
	Health   int      `json:"health"`
	Alive    bool     `json:"alive"`

	// Hidden infection state. TrueNature never changes after creation;
	// infection flips Infected, reveal flips Revealed (terminal).
	TrueNature    Nature  `json:"true_nature"`
	Infected      bool    `json:"infected"`
	MaskIntegrity float64 `json:"mask_integrity"` // 0-100, meaningful only if Infected
	Revealed      bool    `json:"revealed"`

	Attributes map[Attribute]int `json:"attributes"`
	Skills     map[Skill]int     `json:"skills"`

	Stress  int     `json:"stress"` // 0-10
	Posture Posture `json:"posture"`

	Schedule []ScheduleEntry `json:"schedule"`
	Habitat  []string        `json:"habitat"` // rooms this role is expected to occupy

	Inventory []string `json:"inventory"` // item IDs, see domain/item

	// AI working memory.
	Mode              Mode     `json:"mode"`
	AmbushTarget      string   `json:"ambush_target,omitempty"`
	AmbushEntry       Position `json:"ambush_entry"`
	AmbushStaged      bool     `json:"ambush_staged,omitempty"`
	LastSeenTargetPos Position `json:"last_seen_target_pos"`
	SearchTurnsLeft   int      `json:"search_turns_left"`
	FrozenTurns       int      `json:"frozen_turns"` // panic freeze countdown
}

// New creates an agent with default vitals. Infection state comes from the
// scenario configuration; NPCs seeded as infected start fully masked.
func New(id, name, role string, nature Nature) *Agent {
	a := &Agent{
		ID:            id,
		Name:          name,
		Role:          role,
		Health:        MaxHealth,
		Alive:         true,
		TrueNature:    nature,
		Infected:      nature == NatureInfected,
		MaskIntegrity: 100,
		Attributes:    map[Attribute]int{AttrProwess: 2, AttrLogic: 2, AttrInfluence: 2, AttrResolve: 2},
		Skills:        map[Skill]int{},
		Posture:       PostureStanding,
		Mode:          ModeSchedule,
	}
	return a
}

// Pool returns the dice pool for an attribute+skill combination.
func (a *Agent) Pool(attr Attribute, skill Skill) int {
	pool := a.Attributes[attr] + a.Skills[skill]
	if pool < 0 {
		return 0
	}
	return pool
}

// ScheduledRoom returns the room the agent's schedule assigns for the hour,
// or "" when no window matches.
func (a *Agent) ScheduledRoom(hour int) string {
	for _, e := range a.Schedule {
		if e.Covers(hour) {
			return e.Room
		}
	}
	return ""
}

// InHabitat reports whether the named room belongs to the agent's habitat.
func (a *Agent) InHabitat(room string) bool {
	for _, h := range a.Habitat {
		if h == room {
			return true
		}
	}
	return false
}

// AddStress raises stress, clamped to MaxStress.
func (a *Agent) AddStress(amount int) {
	a.Stress += amount
	if a.Stress > MaxStress {
		a.Stress = MaxStress
	}
	if a.Stress < 0 {
		a.Stress = 0
	}
}

// ApplyDamage reduces health and reports whether the agent died. Health
// never goes below zero; a dead agent stays in the roster for the audit log.
func (a *Agent) ApplyDamage(amount int) bool {
	a.Health -= amount
	if a.Health <= 0 {
		a.Health = 0
		a.Alive = false
		return true
	}
	return false
}

// HasItem reports whether the named item is in the agent's inventory.
func (a *Agent) HasItem(itemID string) bool {
	for _, id := range a.Inventory {
		if id == itemID {
			return true
		}
	}
	return false
}

// RemoveItem removes one instance of the named item, reporting success.
func (a *Agent) RemoveItem(itemID string) bool {
	for i, id := range a.Inventory {
		if id == itemID {
			a.Inventory = append(a.Inventory[:i], a.Inventory[i+1:]...)
			return true
		}
	}
	return false
}
