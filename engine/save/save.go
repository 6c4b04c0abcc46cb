// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"

	"github.com/nathoo/parleycore/engine/world"
	"github.com/nathoo/parleycore/types"
)

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version      string                    `json:"version"`
	Game         string                    `json:"game"`
	Turn         int                       `json:"turn"`
	Player       types.Player              `json:"player"`
	Flags        map[string]bool           `json:"flags"`
	NPCState     map[string]types.NPCState `json:"npc_state"`
	LastBlessing string                    `json:"last_blessing"`
	RNGSeed      int64                     `json:"rng_seed"`
	RNGPosition  int64                     `json:"rng_position"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, defs *world.Defs) ([]byte, error) {
	data := SaveData{
		Version:      defs.Game.Version,
		Game:         defs.Game.Title,
		Turn:         s.TurnCount,
		Player:       s.Player,
		Flags:        s.Flags,
		NPCState:     s.NPCs,
		LastBlessing: s.LastBlessing,
		RNGSeed:      s.RNGSeed,
		RNGPosition:  s.RNGPosition,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if sd.Flags == nil {
		sd.Flags = map[string]bool{}
	}
	if sd.NPCState == nil {
		sd.NPCState = map[string]types.NPCState{}
	}
	for id, ns := range sd.NPCState {
		if ns.Selected == nil {
			ns.Selected = map[int]bool{}
			sd.NPCState[id] = ns
		}
	}
	if sd.Player.Inventory == nil {
		sd.Player.Inventory = []string{}
	}
	if sd.Player.Stats == nil {
		sd.Player.Stats = map[string]int{}
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *types.State, sd *SaveData) {
	s.Player = sd.Player
	s.Flags = sd.Flags
	s.NPCs = sd.NPCState
	s.LastBlessing = sd.LastBlessing
	s.TurnCount = sd.Turn
	s.RNGSeed = sd.RNGSeed
	s.RNGPosition = sd.RNGPosition
}
