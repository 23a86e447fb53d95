// Package config loads scenario definitions: the crew roster, schedules,
// infection seeding, and crafting recipes. Scenarios are plain YAML so
// designers can tune them without recompiling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Point is a grid coordinate in scenario files.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// ScheduleWindow assigns a room to an hour range; Start > End wraps past
// midnight.
type ScheduleWindow struct {
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
	Room  string `yaml:"room"`
}

// AgentConfig describes one crew member at game start.
type AgentConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Nature   string `yaml:"nature"` // "HUMAN" or "INFECTED"
	IsPlayer bool   `yaml:"is_player"`

	Position Point `yaml:"position"`

	Attributes map[string]int `yaml:"attributes"`
	Skills     map[string]int `yaml:"skills"`

	Schedule []ScheduleWindow `yaml:"schedule"`

	Habitat   []string `yaml:"habitat"`
	Inventory []string `yaml:"inventory"`
}

// RecipeConfig describes one craftable item.
type RecipeConfig struct {
	ID          string   `yaml:"id"`
	Output      string   `yaml:"output"`
	Ingredients []string `yaml:"ingredients"`
	CraftTurns  int      `yaml:"craft_turns"`
}

// Scenario is the full game setup.
type Scenario struct {
	Name      string        `yaml:"name"`
	StartHour int           `yaml:"start_hour"`
	Agents    []AgentConfig `yaml:"agents"`
	Recipes   []RecipeConfig `yaml:"recipes"`

	// Tunables; zero values fall back to engine defaults.
	DetectionCooldown int `yaml:"detection_cooldown"`
	AlertDuration     int `yaml:"alert_duration"`
	RescueCountdown   int `yaml:"rescue_countdown"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario yaml: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if len(s.Agents) < 2 {
		return fmt.Errorf("scenario needs at least 2 agents, got %d", len(s.Agents))
	}
	players := 0
	seen := map[string]bool{}
	for _, a := range s.Agents {
		if a.ID == "" {
			return fmt.Errorf("agent %q missing id", a.Name)
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate agent id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Nature != "HUMAN" && a.Nature != "INFECTED" {
			return fmt.Errorf("agent %q has invalid nature %q", a.ID, a.Nature)
		}
		if a.IsPlayer {
			players++
		}
	}
	if players > 1 {
		return fmt.Errorf("scenario declares %d players, at most 1 allowed", players)
	}
	return nil
}

// Default returns the built-in nine-crew winter scenario used when no file
// is supplied.
func Default() *Scenario {
	var s Scenario
	if err := yaml.Unmarshal([]byte(defaultScenarioYAML), &s); err != nil {
		// The embedded scenario is compile-time data; failure here is a bug.
		panic(fmt.Sprintf("default scenario is invalid: %v", err))
	}
	return &s
}

const defaultScenarioYAML = `
name: Winter 1982
start_hour: 19
detection_cooldown: 3
alert_duration: 10
rescue_countdown: 12
agents:
  - id: A01
    name: Halvorsen
    role: Commander
    nature: HUMAN
    is_player: true
    position: {x: 7, y: 7}
    attributes: {Prowess: 3, Logic: 3, Influence: 3, Resolve: 3}
    skills: {Melee: 2, Observation: 1, Persuasion: 1}
    schedule:
      - {start: 8, end: 20, room: Rec Room}
      - {start: 20, end: 8, room: Sleeping Quarters}
    habitat: [Rec Room, Radio Room, Sleeping Quarters]
    inventory: [KNIFE]
  - id: A02
    name: Okafor
    role: Medic
    nature: HUMAN
    position: {x: 2, y: 2}
    attributes: {Prowess: 2, Logic: 4, Influence: 2, Resolve: 3}
    skills: {Medicine: 3, Observation: 2}
    schedule:
      - {start: 8, end: 20, room: Infirmary}
      - {start: 20, end: 8, room: Sleeping Quarters}
    habitat: [Infirmary, Sleeping Quarters]
    inventory: [MED_KIT, TEST_KIT]
  - id: A03
    name: Brandt
    role: Mechanic
    nature: INFECTED
    position: {x: 17, y: 17}
    attributes: {Prowess: 4, Logic: 2, Influence: 2, Resolve: 2}
    skills: {Repair: 3, Melee: 1, Stealth: 1}
    schedule:
      - {start: 6, end: 18, room: Generator}
      - {start: 18, end: 6, room: Sleeping Quarters}
    habitat: [Generator, Storage, Sleeping Quarters]
    inventory: [FIRE_AXE]
  - id: A04
    name: Sato
    role: Biologist
    nature: HUMAN
    position: {x: 12, y: 12}
    attributes: {Prowess: 2, Logic: 4, Influence: 2, Resolve: 2}
    skills: {Observation: 3, Medicine: 1}
    schedule:
      - {start: 8, end: 22, room: Lab}
      - {start: 22, end: 8, room: Sleeping Quarters}
    habitat: [Lab, Infirmary, Sleeping Quarters]
    inventory: [TEST_KIT]
  - id: A05
    name: Reyes
    role: Radio Operator
    nature: HUMAN
    position: {x: 12, y: 2}
    attributes: {Prowess: 2, Logic: 3, Influence: 3, Resolve: 2}
    skills: {Observation: 1, Persuasion: 2}
    schedule:
      - {start: 6, end: 22, room: Radio Room}
      - {start: 22, end: 6, room: Sleeping Quarters}
    habitat: [Radio Room, Sleeping Quarters]
    inventory: [RADIO_PARTS]
  - id: A06
    name: Lindqvist
    role: Dog Handler
    nature: INFECTED
    position: {x: 2, y: 17}
    attributes: {Prowess: 3, Logic: 2, Influence: 2, Resolve: 3}
    skills: {Stealth: 2, Melee: 1}
    schedule:
      - {start: 7, end: 19, room: Kennel}
      - {start: 19, end: 7, room: Sleeping Quarters}
    habitat: [Kennel, Storage, Sleeping Quarters]
    inventory: []
  - id: A07
    name: Marchetti
    role: Cook
    nature: HUMAN
    position: {x: 7, y: 2}
    attributes: {Prowess: 2, Logic: 2, Influence: 4, Resolve: 2}
    skills: {Persuasion: 2, Melee: 1}
    schedule:
      - {start: 5, end: 21, room: Mess Hall}
      - {start: 21, end: 5, room: Sleeping Quarters}
    habitat: [Mess Hall, Storage, Sleeping Quarters]
    inventory: [KNIFE]
recipes:
  - id: molotov
    output: MOLOTOV
    ingredients: [FUEL_CAN, RAG]
    craft_turns: 2
  - id: barricade
    output: BARRICADE
    ingredients: [SCRAP, SCRAP]
    craft_turns: 3
  - id: test_kit
    output: TEST_KIT
    ingredients: [SCRAP, MED_KIT]
    craft_turns: 3
`
