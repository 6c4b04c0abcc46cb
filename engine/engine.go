// Package engine wires scanning, parsing, and evaluation into NPC
// conversations against the game state.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nathoo/parleycore/engine/ast"
	"github.com/nathoo/parleycore/engine/interp"
	"github.com/nathoo/parleycore/engine/parser"
	"github.com/nathoo/parleycore/engine/scanner"
	"github.com/nathoo/parleycore/engine/world"
	"github.com/nathoo/parleycore/types"
)

// Engine holds the game definitions and mutable state.
type Engine struct {
	Defs  *world.Defs
	State *types.State
	World *world.World
	RNG   *RNG

	conv *conversation
}

// conversation tracks the open dialogue and its live options.
type conversation struct {
	npc     string
	options []interp.Option
}

// New creates a new engine from definitions.
func New(defs *world.Defs) *Engine {
	s := world.NewState(defs)
	return &Engine{
		Defs:  defs,
		State: s,
		World: world.New(s, defs),
		RNG:   NewRNG(s.RNGSeed),
	}
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Talk opens (or re-opens) a conversation by loading, scanning, parsing,
// and evaluating the NPC's dialogue script. Tokens and AST are built fresh
// per invocation and discarded afterwards.
func (e *Engine) Talk(npcID string) (interp.Result, error) {
	if err := e.World.SetSpeaker(npcID); err != nil {
		return interp.Result{}, err
	}
	npc := e.Defs.NPCs[npcID]

	src, err := os.ReadFile(filepath.Join(e.Defs.Dir, npc.Script))
	if err != nil {
		return interp.Result{}, fmt.Errorf("loading script for %s: %w", npcID, err)
	}

	root, err := Compile(string(src))
	if err != nil {
		return interp.Result{}, fmt.Errorf("script %s: %w", npc.Script, err)
	}

	it := interp.New(e.World, e.RNG)
	res, err := it.Run(root)
	e.afterRun(npcID, res)
	if err != nil {
		return res, fmt.Errorf("script %s: %w", npc.Script, err)
	}
	return res, nil
}

// Choose runs the deferred action stored under the given option letter.
// A shop ware option re-runs the script afterwards so the refreshed menu
// reflects the toggled selection.
func (e *Engine) Choose(letter rune) (interp.Result, error) {
	if e.conv == nil {
		return interp.Result{}, fmt.Errorf("no open conversation")
	}

	var opt *interp.Option
	for i := range e.conv.options {
		if e.conv.options[i].Letter == letter {
			opt = &e.conv.options[i]
			break
		}
	}
	if opt == nil {
		return interp.Result{}, fmt.Errorf("no option %q", letter)
	}

	npcID := e.conv.npc
	it := interp.New(e.World, e.RNG)
	res, err := it.RunDeferred(*opt)
	e.afterRun(npcID, res)
	if err != nil {
		return res, err
	}
	if opt.Ware >= 0 && !res.Ended {
		return e.Talk(npcID)
	}
	return res, nil
}

// afterRun updates conversation and RNG bookkeeping after an evaluation.
func (e *Engine) afterRun(npcID string, res interp.Result) {
	e.State.RNGPosition = e.RNG.Position()
	e.State.TurnCount++

	if res.Ended || len(res.Options) == 0 {
		e.conv = nil
		return
	}
	e.conv = &conversation{npc: npcID, options: res.Options}
}

// InConversation reports whether a dialogue is waiting on a choice.
func (e *Engine) InConversation() bool {
	return e.conv != nil
}

// SpeakerID returns the open conversation's NPC id, or "".
func (e *Engine) SpeakerID() string {
	if e.conv == nil {
		return ""
	}
	return e.conv.npc
}

// Options returns the open conversation's choices.
func (e *Engine) Options() []interp.Option {
	if e.conv == nil {
		return nil
	}
	return e.conv.options
}

// Alerts returns and clears out-of-band alert lines queued by side
// effects (blessing grants and the like).
func (e *Engine) Alerts() []string {
	return e.World.DrainAlerts()
}

// Compile scans and parses dialogue script source into an AST root.
// Used by Talk and by the loader's content validation.
func Compile(source string) (ast.Node, error) {
	tokens, err := scanner.Scan(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}
