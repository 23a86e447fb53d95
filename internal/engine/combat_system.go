package engine

import (
	"github.com/polarnight-games/outpost31/internal/domain/agent"
	"github.com/polarnight-games/outpost31/internal/domain/item"
	"github.com/polarnight-games/outpost31/internal/events"
)

// RevealedAttackBonus is the dice bonus a revealed infected swings with. The
// same bonus feeds its initiative: the organism does not hesitate.
const RevealedAttackBonus = 2

// CombatSystem resolves attacks. Both sides roll pools through the shared
// resolution engine; damage is net successes. There is no separate combat
// randomness anywhere.
type CombatSystem struct {
	sim *Simulation
}

// NewCombatSystem creates the system.
func NewCombatSystem(sim *Simulation) *CombatSystem {
	return &CombatSystem{sim: sim}
}

// initiative scores one side's reaction speed: Prowess plus a d6, the
// revealed bonus, minus one per missing health point.
func (cs *CombatSystem) initiative(a *agent.Agent) int {
	score := a.Attributes[agent.AttrProwess] + cs.sim.rng.RollDie()
	if a.Revealed {
		score += RevealedAttackBonus
	}
	return score - (agent.MaxHealth - a.Health)
}

// Resolve runs one attack with an optional wielded item. Both sides roll
// initiative first; a defender who outrolls the aggressor turns the exchange
// around and strikes with its own best weapon. Ties keep the aggressor, and
// a frozen defender never preempts. Returns the damage dealt. Deaths,
// reveals and noise fall out of the same call so a single attack is one
// atomic burst of events.
func (cs *CombatSystem) Resolve(attacker, defender *agent.Agent, weapon string) int {
	room := cs.sim.roomOf(defender)

	striker, blocker := attacker, defender
	attInit := cs.initiative(attacker)
	defInit := cs.initiative(defender)
	if defInit > attInit && defender.FrozenTurns == 0 {
		striker, blocker = defender, attacker
		weapon = strongestWeapon(defender)
	}

	attackPool := striker.Pool(agent.AttrProwess, agent.SkillMelee)
	noise := 1
	if weapon != "" {
		def, ok := item.GetItem(item.ItemType(weapon))
		if ok {
			attackPool += def.AttackDice
			noise += def.NoiseUnits
			if def.Consumable {
				striker.RemoveItem(weapon)
			}
		}
	}
	if striker.Revealed {
		attackPool += RevealedAttackBonus
	}
	defensePool := blocker.Pool(agent.AttrProwess, agent.SkillMelee)
	if blocker.FrozenTurns > 0 {
		defensePool = 0
	}

	hits := cs.sim.rng.RollPool(attackPool, 0)
	blocks := cs.sim.rng.RollPool(defensePool, 0)
	damage := hits - blocks
	if damage < 0 {
		damage = 0
	}

	cs.sim.emit(events.EventTypeCombatLog, striker.ID, blocker.ID, events.CombatPayload{
		AttackPool:  attackPool,
		DefensePool: defensePool,
		Hits:        hits,
		Damage:      damage,
		Weapon:      weapon,
		Room:        room,
	})
	cs.sim.noise.Record(striker.ID, room, noise)

	if damage == 0 {
		return 0
	}

	died := blocker.ApplyDamage(damage)

	// A deep wound tears the disguise open before it kills.
	if blocker.Infected && !blocker.Revealed && blocker.Health <= 1 {
		cs.sim.infection.Reveal(blocker, "CRITICAL_WOUND")
	}

	if died {
		cs.sim.emit(events.EventTypeAgentDeath, striker.ID, blocker.ID, events.DeathPayload{
			Cause: "COMBAT",
			Room:  room,
		})
		cs.sim.bumpParanoia(15)
	} else {
		blocker.AddStress(damage)
	}
	return damage
}

// strongestWeapon returns the highest-dice item in the agent's inventory, or
// "" when bare hands are all it has.
func strongestWeapon(a *agent.Agent) string {
	best := ""
	bestDice := 0
	for _, id := range a.Inventory {
		if dice := item.AttackDice(item.ItemType(id)); dice > bestDice {
			best = id
			bestDice = dice
		}
	}
	return best
}
