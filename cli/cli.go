// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the ParleyCore dialogue engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/parleycore/engine"
	"github.com/nathoo/parleycore/engine/interp"
	"github.com/nathoo/parleycore/engine/save"
	"github.com/nathoo/parleycore/engine/world"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *world.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastTalk  string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *world.Defs) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".parleycore", "saves")
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the loop: prompt → input → dispatch → output. Single-letter
// input selects a dialogue option when a conversation is open; everything
// else is a command.
func (c *CLI) Run() {
	// Show intro.
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.printLine(fmt.Sprintf("You are in %s. Type 'npcs' to see who is around.", c.Defs.World.Town))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script playback).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		c.dispatch(input)
	}
}

// dispatch handles one game command line.
func (c *CLI) dispatch(input string) {
	lower := strings.ToLower(input)

	// A single letter chooses a dialogue option.
	if len(lower) == 1 && c.Engine.InConversation() {
		c.choose(rune(lower[0]))
		return
	}

	parts := strings.Fields(lower)
	switch parts[0] {
	case "talk", "speak":
		if len(parts) < 2 {
			c.printLine("Talk to whom? Type 'npcs' to see who is around.")
			return
		}
		c.lastTalk = parts[1]
		c.talk(parts[1])

	case "again", "g":
		if c.lastTalk == "" {
			c.printLine("Nothing to repeat.")
			return
		}
		c.talk(c.lastTalk)

	case "npcs", "who":
		c.cmdNPCs()

	default:
		c.printLine("You can 'talk <npc>', list 'npcs', or pick an option by letter.")
	}
}

func (c *CLI) talk(npcID string) {
	res, err := c.Engine.Talk(npcID)
	if err != nil {
		slog.Debug("talk failed", "npc", npcID, "error", err)
		c.printSystem(err.Error())
		return
	}
	c.printResult(res)
}

func (c *CLI) choose(letter rune) {
	res, err := c.Engine.Choose(letter)
	if err != nil {
		c.printSystem(err.Error())
		return
	}
	c.printResult(res)
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Engine.State, c.Defs)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	save.ApplySave(c.Engine.State, sd)
	c.Engine.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn))
}

func (c *CLI) cmdNPCs() {
	ids := make([]string, 0, len(c.Defs.NPCs))
	for id := range c.Defs.NPCs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c.printLine(fmt.Sprintf("  %s — %s", id, c.Defs.NPCs[id].Name))
	}
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle debug trace output",
		"",
		"Game commands:",
		"  talk/speak <npc>  — Start a conversation",
		"  npcs (who)        — List townsfolk",
		"  a, b, c, ...      — Pick a dialogue option",
		"  again (g)         — Talk to the same NPC again",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.State
	c.printSystem(fmt.Sprintf("Turn: %d", s.TurnCount))
	c.printSystem(fmt.Sprintf("Gold: %d", s.Player.Gold))
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Player.Inventory))
	if len(s.Player.Stats) > 0 {
		c.printSystem(fmt.Sprintf("Stats: %v", s.Player.Stats))
	}
	if len(s.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", s.Flags))
	}
	if s.LastBlessing != "" {
		c.printSystem(fmt.Sprintf("Last blessing: %s", s.LastBlessing))
	}
}

func (c *CLI) printResult(res interp.Result) {
	if res.Text != "" {
		c.printLine(res.Text)
	}
	for _, opt := range res.Options {
		c.printLine(fmt.Sprintf("  %c) %s", opt.Letter, opt.Text))
	}
	if res.Footer != "" {
		c.printLine(res.Footer)
	}
	for _, alert := range c.Engine.Alerts() {
		c.printSystem(alert)
	}
	if res.Ended && res.Farewell != "" {
		c.printLine(res.Farewell)
	}
	if c.Trace {
		c.printTrace(res)
	}
}

func (c *CLI) printTrace(res interp.Result) {
	c.printSystem(fmt.Sprintf("[trace] options: %d, ended: %v", len(res.Options), res.Ended))
	c.printSystem(fmt.Sprintf("[trace] rng position: %d", c.Engine.State.RNGPosition))
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
