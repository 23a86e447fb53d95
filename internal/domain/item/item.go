// Package item defines the core domain entities for in-game items and inventory.
// This package is PURE and must NOT import any infrastructure packages.
package item

// ItemType represents the kind of item.
type ItemType string

const (
	ItemKnife      ItemType = "KNIFE"       // Basic melee weapon
	ItemFireAxe    ItemType = "FIRE_AXE"    // Heavy melee weapon, loud
	ItemFlare      ItemType = "FLARE"       // Lights a dark room for a few turns
	ItemTestKit    ItemType = "TEST_KIT"    // Blood diagnostic, single use
	ItemMedKit     ItemType = "MED_KIT"     // Restores 1 health
	ItemFuelCan    ItemType = "FUEL_CAN"    // Crafting ingredient, generator feed
	ItemRag        ItemType = "RAG"         // Crafting ingredient
	ItemMolotov    ItemType = "MOLOTOV"     // Crafted incendiary
	ItemScrap      ItemType = "SCRAP"       // Crafting ingredient, barricades
	ItemBarricade  ItemType = "BARRICADE"   // Crafted kit, seals a room
	ItemRadioParts ItemType = "RADIO_PARTS" // Needed to send an SOS
)

// ItemDefinition provides metadata about an item type.
type ItemDefinition struct {
	Name        string
	Description string
	AttackDice  int  // extra attack dice when wielded
	NoiseUnits  int  // noise produced when used
	Consumable  bool // destroyed on use
}

// Registry contains all known items and their properties.
var Registry = map[ItemType]ItemDefinition{
	ItemKnife: {
		Name:        "Kitchen Knife",
		Description: "Short blade lifted from the mess hall.",
		AttackDice:  1,
	},
	ItemFireAxe: {
		Name:        "Fire Axe",
		Description: "Emergency axe. Heavy, and loud to swing.",
		AttackDice:  2,
		NoiseUnits:  2,
	},
	ItemFlare: {
		Name:        "Signal Flare",
		Description: "Burns bright for a few minutes.",
		Consumable:  true,
	},
	ItemTestKit: {
		Name:        "Blood Test Kit",
		Description: "Copper wire, petri dish, hot needle.",
		Consumable:  true,
	},
	ItemMedKit: {
		Name:        "Medical Kit",
		Description: "Bandages and morphine from the infirmary.",
		Consumable:  true,
	},
	ItemFuelCan: {
		Name:        "Fuel Canister",
		Description: "Kerosene for the generator. Or for something else.",
		Consumable:  true,
	},
	ItemRag: {
		Name:        "Oily Rag",
		Description: "Soaked workshop rag.",
		Consumable:  true,
	},
	ItemMolotov: {
		Name:        "Molotov Cocktail",
		Description: "Fuel, rag, bottle. One use.",
		AttackDice:  3,
		NoiseUnits:  3,
		Consumable:  true,
	},
	ItemScrap: {
		Name:        "Scrap Planks",
		Description: "Broken crate timber and bent nails.",
		Consumable:  true,
	},
	ItemBarricade: {
		Name:        "Barricade Kit",
		Description: "Pre-cut braces sized for a doorway.",
		Consumable:  true,
	},
	ItemRadioParts: {
		Name:        "Radio Components",
		Description: "Vacuum tubes and wiring for the transmitter.",
		Consumable:  true,
	},
}

// GetItem returns the definition for an item type.
func GetItem(t ItemType) (ItemDefinition, bool) {
	def, ok := Registry[t]
	return def, ok
}

// AttackDice returns the bonus attack dice for a wielded item, 0 if unknown.
func AttackDice(t ItemType) int {
	return Registry[t].AttackDice
}
