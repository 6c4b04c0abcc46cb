// Package types defines the shared data structures for the ParleyCore engine.
// This package contains only type definitions — no logic, no methods.
package types

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// WorldDef holds the generated-world facts the dialogue engine reads:
// town name, boss and villain names, the trinket the player may be asked
// to hand over, the hinted direction to the dungeon entrance, and the
// pluralized name of the local monster threat.
type WorldDef struct {
	Town       string
	Boss       string
	Villain    string
	Trinket    string // item ID
	DungeonDir string // "north", "southwest", ...
	Monsters   string // already pluralized, e.g. "kobolds"
}

// ItemDef is the base definition of an item.
type ItemDef struct {
	ID    string
	Name  string
	Kind  string // "potion", "tool", "key", "trinket"
	Value int
}

// WareDef is one line in an NPC's shop inventory.
type WareDef struct {
	Item  string // item ID
	Price int
}

// NPCDef is the base definition of a dialogue speaker.
type NPCDef struct {
	ID      string
	Name    string
	Script  string // dialogue script filename, relative to the game dir
	Partner string // name of the NPC's relationship partner, if any
	Wares   []WareDef
}

// Player holds the player's runtime state.
type Player struct {
	Name      string
	Depth     int
	Gold      int
	Inventory []string
	Stats     map[string]int
	Buffs     []Buff
}

// Buff is a timed trait granted by a blessing.
type Buff struct {
	Kind  string
	Turns int
}

// NPCState holds runtime dialogue state for one NPC.
type NPCState struct {
	Met           bool
	DialogueState int
	Selected      map[int]bool // ware index → marked for purchase
}

// State is the complete mutable state the dialogue engine touches.
type State struct {
	Player       Player
	NPCs         map[string]NPCState
	Flags        map[string]bool
	LastBlessing string
	TurnCount    int
	RNGSeed      int64
	RNGPosition  int64
}
