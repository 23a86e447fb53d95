package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Reconstructor builds human-readable recaps and audit views from the event
// ledger. State itself is never rebuilt from events here; snapshots carry
// state, the ledger carries history.
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a recap generator over the ledger.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// RecapEvent is a simplified event for session-start and spectator recaps.
type RecapEvent struct {
	Turn      int    `json:"turn"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"`
	Impact    string `json:"impact"` // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// GenerateRecap creates the recap for an agent from a given turn onwards.
// System-wide events (weather, power, endings) are always included.
func (r *Reconstructor) GenerateRecap(ctx context.Context, gameID, agentID string, sinceTurn int) ([]RecapEvent, error) {
	allEvents, err := r.eventRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	var recap []RecapEvent
	for _, e := range allEvents {
		if e.Turn < sinceTurn {
			continue
		}
		if !r.relevant(e, agentID) {
			continue
		}
		recap = append(recap, RecapEvent{
			Turn:      e.Turn,
			EventType: e.EventType,
			Summary:   r.summarize(e, agentID),
			Impact:    r.impact(e),
		})
	}
	return recap, nil
}

// relevant filters the ledger down to what the observer would know about.
func (r *Reconstructor) relevant(e StoredEvent, observerID string) bool {
	if e.ActorID == observerID || e.TargetID == observerID {
		return true
	}
	switch e.EventType {
	case "WEATHER_SHIFT", "TURN_ADVANCE", "TRUST_CHANGE", "STRESS_CHANGE", "DETECTION_REPORT":
		return false
	case "POWER_FAILURE", "POWER_RESTORED", "STATION_ALERT", "REVEAL",
		"AGENT_DEATH", "LYNCH_MOB", "SOS_SENT", "ENDING_REPORT",
		"ACCUSATION_RESULT", "TEMPERATURE_CROSSING":
		return true
	}
	return false
}

// summarize creates a one-line description for the recap screen.
func (r *Reconstructor) summarize(e StoredEvent, observerID string) string {
	switch e.EventType {
	case "REVEAL":
		return fmt.Sprintf("%s was unmasked as one of the infected.", e.ActorID)
	case "AGENT_DEATH":
		return fmt.Sprintf("%s died.", e.TargetID)
	case "POWER_FAILURE":
		return "The generator went down. The station is dark."
	case "POWER_RESTORED":
		return "Power is back."
	case "STATION_ALERT":
		return "The station went on alert."
	case "SOS_SENT":
		return "An SOS went out over the radio."
	case "LYNCH_MOB":
		return fmt.Sprintf("The crew has turned on %s.", e.TargetID)
	case "ACCUSATION_RESULT":
		var p struct {
			Upheld bool `json:"upheld"`
		}
		_ = json.Unmarshal([]byte(e.Payload), &p)
		if p.Upheld {
			return fmt.Sprintf("%s's accusation against %s was upheld.", e.ActorID, e.TargetID)
		}
		return fmt.Sprintf("%s accused %s and the vote failed.", e.ActorID, e.TargetID)
	case "TEMPERATURE_CROSSING":
		return "The temperature crossed the deep-freeze line."
	case "ENDING_REPORT":
		return "The winter is over, one way or another."
	case "COMBAT_LOG":
		if e.ActorID == observerID {
			return fmt.Sprintf("You attacked %s.", e.TargetID)
		}
		return fmt.Sprintf("%s attacked %s.", e.ActorID, e.TargetID)
	case "TEST_RESULT":
		return fmt.Sprintf("%s's blood was tested.", e.TargetID)
	}
	return "Something happened at the station."
}

// impact classifies an event for recap coloring.
func (r *Reconstructor) impact(e StoredEvent) string {
	switch e.EventType {
	case "REVEAL", "AGENT_DEATH", "POWER_FAILURE", "COMMUNION",
		"ASSIMILATION", "STATION_ALERT", "LYNCH_MOB", "PANIC":
		return "NEGATIVE"
	case "POWER_RESTORED", "SOS_SENT", "CRAFTING_COMPLETE", "TEST_RESULT":
		return "POSITIVE"
	}
	return "NEUTRAL"
}
