package engine

import (
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/config"
)

// CraftJob is one in-progress recipe. Multi-turn work is a countdown, never
// suspended control flow; the job finishes when TurnsLeft hits zero.
type CraftJob struct {
	AgentID   string `json:"agent_id"`
	RecipeID  string `json:"recipe_id"`
	TurnsLeft int    `json:"turns_left"`
}

// CraftingSystem runs the recipe queue. Ingredients are consumed when the
// job is queued; the output appears when the countdown completes.
type CraftingSystem struct {
	sim     *Simulation
	recipes map[string]config.RecipeConfig
	order   []string // recipe iteration order for listings
	queue   []CraftJob
}

// NewCraftingSystem creates the system from the scenario recipe list.
func NewCraftingSystem(sim *Simulation, recipes []config.RecipeConfig) *CraftingSystem {
	cs := &CraftingSystem{
		sim:     sim,
		recipes: make(map[string]config.RecipeConfig, len(recipes)),
	}
	for _, r := range recipes {
		cs.recipes[r.ID] = r
		cs.order = append(cs.order, r.ID)
	}
	return cs
}

// Recipe looks up a recipe by ID.
func (cs *CraftingSystem) Recipe(id string) (config.RecipeConfig, bool) {
	r, ok := cs.recipes[id]
	return r, ok
}

// Queue starts a job for a validated craft action. Ingredients must already
// have been checked; this consumes them and enqueues the countdown.
func (cs *CraftingSystem) Queue(agentID, recipeID string) {
	recipe := cs.recipes[recipeID]
	a := cs.sim.byID[agentID]
	for _, ing := range recipe.Ingredients {
		a.RemoveItem(ing)
	}
	turns := recipe.CraftTurns
	if turns < 1 {
		turns = 1
	}
	cs.queue = append(cs.queue, CraftJob{
		AgentID:   agentID,
		RecipeID:  recipeID,
		TurnsLeft: turns,
	})
	cs.sim.emit(events.EventTypeCraftingQueued, agentID, "", events.CraftingPayload{
		Recipe:    recipeID,
		TurnsLeft: turns,
	})
}

// HasJob reports whether the agent has an active job for the recipe.
func (cs *CraftingSystem) HasJob(agentID, recipeID string) bool {
	for _, job := range cs.queue {
		if job.AgentID == agentID && job.RecipeID == recipeID {
			return true
		}
	}
	return false
}

// Abandon scraps the agent's first matching job by clearing it from the
// queue. Consumed ingredients are not refunded: the half-finished work is
// lost with the job.
func (cs *CraftingSystem) Abandon(agentID, recipeID string) bool {
	for i, job := range cs.queue {
		if job.AgentID != agentID || job.RecipeID != recipeID {
			continue
		}
		cs.queue = append(cs.queue[:i], cs.queue[i+1:]...)
		cs.sim.emit(events.EventTypeCraftingAbandoned, agentID, "", events.CraftingPayload{
			Recipe: recipeID,
		})
		return true
	}
	return false
}

// OnTurn ticks every job. Finished jobs hand the output to the crafter; a
// dead crafter's work is abandoned silently.
func (cs *CraftingSystem) OnTurn(ev events.GameEvent) {
	remaining := cs.queue[:0]
	for _, job := range cs.queue {
		job.TurnsLeft--
		if job.TurnsLeft > 0 {
			remaining = append(remaining, job)
			continue
		}
		a, ok := cs.sim.byID[job.AgentID]
		if !ok || !a.Alive {
			continue
		}
		recipe := cs.recipes[job.RecipeID]
		a.Inventory = append(a.Inventory, recipe.Output)
		cs.sim.emit(events.EventTypeCraftingComplete, job.AgentID, "", events.CraftingPayload{
			Recipe: job.RecipeID,
			Item:   recipe.Output,
		})
	}
	cs.queue = remaining
}

// Jobs returns a copy of the active queue for snapshots.
func (cs *CraftingSystem) Jobs() []CraftJob {
	out := make([]CraftJob, len(cs.queue))
	copy(out, cs.queue)
	return out
}

// restore replaces the queue from a snapshot.
func (cs *CraftingSystem) restore(jobs []CraftJob) {
	cs.queue = make([]CraftJob, len(jobs))
	copy(cs.queue, jobs)
}
