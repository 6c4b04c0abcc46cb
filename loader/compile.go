// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading — zero Lua at runtime.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/parleycore/engine/world"
	"github.com/nathoo/parleycore/types"
	lua "github.com/yuin/gopher-lua"
)

// rawItem holds an item table before compilation.
type rawItem struct {
	id    string
	table *lua.LTable
}

// rawNPC holds an NPC table before compilation.
type rawNPC struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*world.Defs, error) {
	defs := &world.Defs{
		Items: map[string]types.ItemDef{},
		NPCs:  map[string]types.NPCDef{},
	}

	// Game.
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	// World.
	if coll.world == nil {
		return nil, fmt.Errorf("no World{} definition found")
	}
	defs.World = compileWorld(coll.world)

	// Items.
	for _, raw := range coll.items {
		item := compileItem(raw)
		if _, dup := defs.Items[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item ID %q", item.ID)
		}
		defs.Items[item.ID] = item
	}

	// NPCs.
	for _, raw := range coll.npcs {
		npc := compileNPC(raw)
		if _, dup := defs.NPCs[npc.ID]; dup {
			return nil, fmt.Errorf("duplicate NPC ID %q", npc.ID)
		}
		defs.NPCs[npc.ID] = npc
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileWorld(tbl *lua.LTable) types.WorldDef {
	return types.WorldDef{
		Town:       getString(tbl, "town"),
		Boss:       getString(tbl, "boss"),
		Villain:    getString(tbl, "villain"),
		Trinket:    getString(tbl, "trinket"),
		DungeonDir: getString(tbl, "dungeon_dir"),
		Monsters:   getString(tbl, "monsters"),
	}
}

func compileItem(raw rawItem) types.ItemDef {
	tbl := raw.table
	return types.ItemDef{
		ID:    raw.id,
		Name:  getString(tbl, "name"),
		Kind:  getString(tbl, "kind"),
		Value: getInt(tbl, "value"),
	}
}

func compileNPC(raw rawNPC) types.NPCDef {
	tbl := raw.table
	npc := types.NPCDef{
		ID:      raw.id,
		Name:    getString(tbl, "name"),
		Script:  getString(tbl, "script"),
		Partner: getString(tbl, "partner"),
	}

	// Wares — an array of Ware(...) tables, in source order.
	if waresTbl := getTable(tbl, "wares"); waresTbl != nil {
		maxN := waresTbl.MaxN()
		for i := 1; i <= maxN; i++ {
			wareTbl, ok := waresTbl.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			npc.Wares = append(npc.Wares, types.WareDef{
				Item:  getString(wareTbl, "item"),
				Price: getInt(wareTbl, "price"),
			})
		}
	}

	return npc
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
