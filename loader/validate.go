package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/parleycore/engine/parser"
	"github.com/nathoo/parleycore/engine/scanner"
	"github.com/nathoo/parleycore/engine/world"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for referential integrity and
// compiles every referenced dialogue script so content errors surface at
// load time rather than mid-conversation.
func validate(defs *world.Defs) error {
	ve := &ValidationError{}

	// Game title required.
	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}

	// World needs a town name; everything else has sensible blanks.
	if defs.World.Town == "" {
		ve.Errors = append(ve.Errors, "World.town is required")
	}

	// Trinket must name a defined item so TRINKET_NAME resolves.
	if defs.World.Trinket != "" {
		if _, ok := defs.Items[defs.World.Trinket]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"world trinket references undefined item %q", defs.World.Trinket))
		}
	}

	for id, npc := range defs.NPCs {
		// Every NPC carries a dialogue script.
		if npc.Script == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"NPC %q has no script", id))
		} else {
			validateScript(defs.Dir, npc.Script, ve)
		}

		// Wares must reference defined items.
		for i, w := range npc.Wares {
			if _, ok := defs.Items[w.Item]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"NPC %q ware %d references undefined item %q", id, i+1, w.Item))
			}
			if w.Price < 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"NPC %q ware %d has negative price %d", id, i+1, w.Price))
			}
		}

		// Partners should name defined NPCs. A loner mentioning nobody
		// is fine; a dangling reference is a content typo.
		if npc.Partner != "" {
			known := false
			for _, other := range defs.NPCs {
				if other.Name == npc.Partner {
					known = true
					break
				}
			}
			if !known {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"NPC %q partner %q does not match any defined NPC name", id, npc.Partner))
			}
		}
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateScript reads and compiles one dialogue script file.
func validateScript(dir, script string, ve *ValidationError) {
	src, err := os.ReadFile(filepath.Join(dir, script))
	if err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"reading script %s: %v", script, err))
		return
	}
	tokens, err := scanner.Scan(string(src))
	if err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"script %s: %v", script, err))
		return
	}
	if _, err := parser.Parse(tokens); err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"script %s: %v", script, err))
	}
}
