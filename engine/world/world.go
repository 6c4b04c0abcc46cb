// Package world implements the interpreter's host hooks over the mutable
// game state: the fixed variable catalog, item materialization, gold,
// stats, buffs, and shop ware bookkeeping.
package world

import (
	"strings"

	"github.com/nathoo/parleycore/engine/interp"
	"github.com/nathoo/parleycore/types"
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game  types.GameDef
	World types.WorldDef
	Items map[string]types.ItemDef
	NPCs  map[string]types.NPCDef
	Dir   string // game directory dialogue scripts are read from
}

// NewState creates a fresh game state from definitions.
func NewState(defs *Defs) *types.State {
	return &types.State{
		Player: types.Player{
			Name:      "Adventurer",
			Depth:     0,
			Gold:      0,
			Inventory: []string{},
			Stats:     map[string]int{},
		},
		NPCs:  map[string]types.NPCState{},
		Flags: map[string]bool{},
	}
}

// World adapts State+Defs to the interpreter's hook interface. One World
// serves one conversation at a time; SetSpeaker switches whose dialogue
// state and wares the speaker-scoped variables resolve to.
type World struct {
	State *types.State
	Defs  *Defs

	speaker string
	alerts  []string
}

// New creates a World over the given state and definitions.
func New(s *types.State, defs *Defs) *World {
	return &World{State: s, Defs: defs}
}

// SetSpeaker selects the current conversation partner.
func (w *World) SetSpeaker(npcID string) error {
	if _, ok := w.Defs.NPCs[npcID]; !ok {
		return &interp.EvalError{Msg: "unknown NPC " + npcID}
	}
	w.speaker = npcID
	return nil
}

// Speaker returns the current speaker's definition.
func (w *World) Speaker() types.NPCDef {
	return w.Defs.NPCs[w.speaker]
}

// DrainAlerts returns and clears queued alert lines.
func (w *World) DrainAlerts() []string {
	a := w.alerts
	w.alerts = nil
	return a
}

// npcState returns the speaker's runtime state, creating it on first use.
func (w *World) npcState() types.NPCState {
	ns, ok := w.State.NPCs[w.speaker]
	if !ok {
		ns = types.NPCState{Selected: map[int]bool{}}
		w.State.NPCs[w.speaker] = ns
	}
	if ns.Selected == nil {
		ns.Selected = map[int]bool{}
		w.State.NPCs[w.speaker] = ns
	}
	return ns
}

// Lookup resolves a catalog variable. Unknown names are script bugs.
func (w *World) Lookup(name string) (interp.Value, error) {
	switch name {
	case "MET_PLAYER":
		return interp.BoolVal(w.npcState().Met), nil
	case "DIALOGUE_STATE":
		return interp.NumVal(w.npcState().DialogueState), nil
	case "PLAYER_DEPTH":
		return interp.NumVal(w.State.Player.Depth), nil
	case "PLAYER_GOLD":
		return interp.NumVal(w.State.Player.Gold), nil
	case "PLAYER_NAME":
		return interp.TextVal(w.State.Player.Name), nil
	case "TOWN_NAME":
		return interp.TextVal(w.Defs.World.Town), nil
	case "NPC_NAME":
		return interp.TextVal(w.Speaker().Name), nil
	case "PARTNER_NAME":
		return interp.TextVal(w.Speaker().Partner), nil
	case "MONSTERS":
		return interp.TextVal(w.Defs.World.Monsters), nil
	case "DUNGEON_DIR":
		return interp.TextVal(w.Defs.World.DungeonDir), nil
	case "TRINKET":
		return interp.TextVal(w.Defs.World.Trinket), nil
	case "TRINKET_NAME":
		return interp.TextVal(w.itemName(w.Defs.World.Trinket)), nil
	case "QUEST_KEY_GIVEN":
		return interp.BoolVal(w.State.Flags["quest_key_given"]), nil
	case "BOSS_NAME":
		return interp.TextVal(w.Defs.World.Boss), nil
	case "BOSS_DEFEATED":
		return interp.BoolVal(w.State.Flags["boss_defeated"]), nil
	case "VILLAIN_NAME":
		return interp.TextVal(w.Defs.World.Villain), nil
	case "LAST_BLESSING":
		return interp.TextVal(w.State.LastBlessing), nil
	default:
		return nil, &interp.EvalError{Msg: "unknown variable " + name}
	}
}

// Assign writes the catalog's writable subset with type checking.
func (w *World) Assign(name string, v interp.Value) error {
	switch name {
	case "MET_PLAYER":
		b, ok := v.(interp.BoolVal)
		if !ok {
			return &interp.EvalError{Msg: "MET_PLAYER takes a boolean"}
		}
		ns := w.npcState()
		ns.Met = bool(b)
		w.State.NPCs[w.speaker] = ns
		return nil

	case "DIALOGUE_STATE":
		n, ok := v.(interp.NumVal)
		if !ok {
			return &interp.EvalError{Msg: "DIALOGUE_STATE takes a number"}
		}
		ns := w.npcState()
		ns.DialogueState = int(n)
		w.State.NPCs[w.speaker] = ns
		return nil

	case "QUEST_KEY_GIVEN":
		b, ok := v.(interp.BoolVal)
		if !ok {
			return &interp.EvalError{Msg: "QUEST_KEY_GIVEN takes a boolean"}
		}
		w.State.Flags["quest_key_given"] = bool(b)
		return nil

	case "PLAYER_DEPTH", "PLAYER_GOLD", "PLAYER_NAME", "TOWN_NAME",
		"NPC_NAME", "PARTNER_NAME", "MONSTERS", "DUNGEON_DIR",
		"TRINKET", "TRINKET_NAME", "BOSS_NAME", "BOSS_DEFEATED",
		"VILLAIN_NAME", "LAST_BLESSING":
		return &interp.EvalError{Msg: name + " is read-only"}

	default:
		return &interp.EvalError{Msg: "unknown variable " + name}
	}
}

// CreateItem materializes an item into the player's inventory and returns
// its display name with an article.
func (w *World) CreateItem(id string) (string, error) {
	def, ok := w.Defs.Items[id]
	if !ok {
		return "", &interp.EvalError{Msg: "unknown item " + id}
	}
	w.State.Player.Inventory = append(w.State.Player.Inventory, id)
	return withArticle(def.Name), nil
}

// RemoveItem takes one instance of the item out of the player's holdings.
func (w *World) RemoveItem(id string) error {
	inv := w.State.Player.Inventory
	for i, held := range inv {
		if held == id {
			w.State.Player.Inventory = append(inv[:i], inv[i+1:]...)
			return nil
		}
	}
	return &interp.EvalError{Msg: "player does not hold " + id}
}

// BoostStat raises a player attribute.
func (w *World) BoostStat(stat string, amount int) {
	if w.State.Player.Stats == nil {
		w.State.Player.Stats = map[string]int{}
	}
	w.State.Player.Stats[stat] += amount
}

// SpendGold subtracts gold, floored at zero.
func (w *World) SpendGold(amount int) {
	w.State.Player.Gold -= amount
	if w.State.Player.Gold < 0 {
		w.State.Player.Gold = 0
	}
}

// Wares returns the speaker's shop inventory with current selection marks.
func (w *World) Wares() []interp.Ware {
	def := w.Speaker()
	ns := w.npcState()
	wares := make([]interp.Ware, 0, len(def.Wares))
	for i, wd := range def.Wares {
		wares = append(wares, interp.Ware{
			Name:     w.itemName(wd.Item),
			Price:    wd.Price,
			Selected: ns.Selected[i],
		})
	}
	return wares
}

// ToggleWare flips whether ware i is marked for purchase.
func (w *World) ToggleWare(i int) {
	ns := w.npcState()
	ns.Selected[i] = !ns.Selected[i]
	w.State.NPCs[w.speaker] = ns
}

// AddBuff applies a timed trait to the player.
func (w *World) AddBuff(kind string, turns int) {
	w.State.Player.Buffs = append(w.State.Player.Buffs, types.Buff{Kind: kind, Turns: turns})
}

// SetLastBlessing records the most recently granted blessing.
func (w *World) SetLastBlessing(kind string) {
	w.State.LastBlessing = kind
}

// Alert queues a line for out-of-band display.
func (w *World) Alert(text string) {
	w.alerts = append(w.alerts, text)
}

// itemName returns an item's display name, falling back to its ID.
func (w *World) itemName(id string) string {
	if def, ok := w.Defs.Items[id]; ok && def.Name != "" {
		return def.Name
	}
	return id
}

func withArticle(name string) string {
	if name == "" {
		return name
	}
	if strings.ContainsRune("aeiouAEIOU", rune(name[0])) {
		return "an " + name
	}
	return "a " + name
}
