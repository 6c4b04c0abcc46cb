package interp

import "strings"

// placeholders maps each #MARKER embedded in string literals to the
// variable the lookup hook resolves it with. #NL is handled separately.
var placeholders = map[string]string{
	"#TOWN_NAME":    "TOWN_NAME",
	"#NPC_NAME":     "NPC_NAME",
	"#PLAYER_NAME":  "PLAYER_NAME",
	"#MONSTERS":     "MONSTERS",
	"#PARTNER_NAME": "PARTNER_NAME",
	"#DUNGEON_DIR":  "DUNGEON_DIR",
	"#TRINKET_NAME": "TRINKET_NAME",
	"#BOSS_NAME":    "BOSS_NAME",
	"#VILLAIN_NAME": "VILLAIN_NAME",
}

// substitute replaces placeholder markers with live values from the world.
// Substitution is re-applied on every evaluation of a string literal, never
// cached, so a marker tracks state changes made earlier in the same run.
func (it *Interp) substitute(text string) (string, error) {
	if strings.Contains(text, "#NL") {
		text = strings.ReplaceAll(text, "#NL", "\n")
	}
	for marker, name := range placeholders {
		if !strings.Contains(text, marker) {
			continue
		}
		v, err := it.world.Lookup(name)
		if err != nil {
			return "", err
		}
		text = strings.ReplaceAll(text, marker, v.Display())
	}
	return text, nil
}
