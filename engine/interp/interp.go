// Package interp evaluates a dialogue script AST against live world state.
// Evaluation is a plain recursive tree walk with a single switch over the
// closed node set; output, footer, and option state live in a per-Run
// context so the interpreter is re-entrant.
package interp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/parleycore/engine/ast"
	"github.com/nathoo/parleycore/engine/scanner"
)

// World is the host interface the interpreter mutates through. The engine
// implements it over the game state; tests stub it.
type World interface {
	// Lookup resolves a catalog variable to its current value.
	Lookup(name string) (Value, error)
	// Assign writes a catalog variable's writable subset.
	Assign(name string, v Value) error
	// CreateItem materializes an item into the player's holdings and
	// returns its display name.
	CreateItem(id string) (string, error)
	// RemoveItem takes an item out of the player's holdings and the world.
	RemoveItem(id string) error
	// BoostStat raises a player attribute.
	BoostStat(stat string, amount int)
	// SpendGold subtracts gold, floored at zero.
	SpendGold(amount int)
	// Wares returns the speaker's shop inventory in stable order.
	Wares() []Ware
	// ToggleWare flips whether ware i is marked for purchase.
	ToggleWare(i int)
	// AddBuff applies a timed trait to the player.
	AddBuff(kind string, turns int)
	// SetLastBlessing records which blessing was granted most recently.
	SetLastBlessing(kind string)
	// Alert shows a line of text outside the structured dialogue output.
	Alert(text string)
}

// Ware is one shop line-item as the interpreter sees it.
type Ware struct {
	Name     string
	Price    int
	Selected bool
}

// Rand supplies random integers for pick and the named effects.
type Rand interface {
	Intn(n int) int
}

// Option is a registered player response. Action runs only if the letter
// is chosen. Ware is the shop inventory index for options synthesized by
// shop-menu, or -1.
type Option struct {
	Letter rune
	Text   string
	Action ast.Node
	Ware   int
}

// Result is the accumulated output of one Run.
type Result struct {
	Text     string
	Footer   string
	Options  []Option
	Ended    bool
	Farewell string
}

// Ended is the conversation-ended signal. It propagates through every
// enclosing form as an error value but is not a failure; Run converts it
// into Result.Ended before returning.
type Ended struct {
	Farewell string
}

func (e *Ended) Error() string {
	return "conversation ended: " + e.Farewell
}

// EvalError reports a script bug surfaced at evaluation time: an unknown
// variable or catalog key, or a type mismatch.
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string {
	return "eval error: " + e.Msg
}

func evalErrorf(format string, args ...any) error {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}

// Interp evaluates scripts against one world and random source.
type Interp struct {
	world World
	rand  Rand
}

// New creates an interpreter bound to a world and a random source.
func New(world World, rand Rand) *Interp {
	return &Interp{world: world, rand: rand}
}

// run holds the mutable state of one evaluation: output and footer
// buffers, the option list, and the pending shop ware for deferred
// shop-select actions.
type run struct {
	out         strings.Builder
	footer      strings.Builder
	options     []Option
	pendingWare int
}

// Run evaluates a script root. The ended signal is absorbed here: a
// terminated conversation is a successful Result with Ended set, never an
// error.
func (it *Interp) Run(root ast.Node) (Result, error) {
	return it.runWith(root, -1)
}

// RunDeferred evaluates the stored action of a previously chosen option.
// For options synthesized by shop-menu, the chosen ware index is made
// available to the shop-select routine.
func (it *Interp) RunDeferred(opt Option) (Result, error) {
	return it.runWith(opt.Action, opt.Ware)
}

func (it *Interp) runWith(root ast.Node, pendingWare int) (Result, error) {
	rc := &run{pendingWare: pendingWare}
	_, err := it.eval(rc, root)

	res := Result{
		Text:    rc.out.String(),
		Footer:  rc.footer.String(),
		Options: rc.options,
	}
	var ended *Ended
	if errors.As(err, &ended) {
		res.Ended = true
		res.Farewell = ended.Farewell
		return res, nil
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

// eval dispatches on node kind. A nil Value means the node produced no
// value (statements, empty cond). Errors — including the ended signal —
// propagate unconditionally; no form catches them.
func (it *Interp) eval(rc *run, n ast.Node) (Value, error) {
	switch n := n.(type) {
	case *ast.Ident:
		// A bare identifier stands for its name, not its value; Set and
		// Compare resolve it themselves.
		return TextVal(n.Name), nil

	case *ast.Str:
		s, err := it.substitute(n.Value)
		if err != nil {
			return nil, err
		}
		return TextVal(s), nil

	case *ast.Bool:
		return BoolVal(n.Value), nil

	case *ast.Num:
		return NumVal(n.Value), nil

	case *ast.List:
		for _, item := range n.Items {
			if _, err := it.eval(rc, item); err != nil {
				return nil, err
			}
		}
		return nil, nil

	case *ast.Compare:
		return it.evalCompare(n)

	case *ast.And:
		for _, c := range n.Conds {
			b, err := it.evalBool(rc, c)
			if err != nil {
				return nil, err
			}
			if !b {
				return BoolVal(false), nil
			}
		}
		return BoolVal(true), nil

	case *ast.Or:
		for _, c := range n.Conds {
			b, err := it.evalBool(rc, c)
			if err != nil {
				return nil, err
			}
			if b {
				return BoolVal(true), nil
			}
		}
		return BoolVal(false), nil

	case *ast.Cond:
		for _, br := range n.Branches {
			if br.Test == nil {
				// else branch, always last.
				return it.eval(rc, br.Action)
			}
			b, err := it.evalBool(rc, br.Test)
			if err != nil {
				return nil, err
			}
			if b {
				return it.eval(rc, br.Action)
			}
		}
		return nil, nil

	case *ast.Say:
		text, err := it.evalText(rc, n.Expr)
		if err != nil {
			return nil, err
		}
		rc.say(text)
		return nil, nil

	case *ast.Pick:
		if len(n.List.Items) == 0 {
			return nil, evalErrorf("pick from an empty list")
		}
		i := it.rand.Intn(len(n.List.Items))
		return it.eval(rc, n.List.Items[i])

	case *ast.Set:
		v, err := it.eval(rc, n.Value)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, evalErrorf("set %s: value expression produced nothing", n.Name)
		}
		return nil, it.world.Assign(n.Name, v)

	case *ast.Give:
		return nil, it.evalGive(rc, n)

	case *ast.Offer:
		v, err := it.world.Lookup(n.Name)
		if err != nil {
			return nil, err
		}
		id, ok := v.(TextVal)
		if !ok {
			return nil, evalErrorf("offer %s: not an item reference", n.Name)
		}
		return nil, it.world.RemoveItem(string(id))

	case *ast.Spend:
		it.world.SpendGold(n.Amount)
		return nil, nil

	case *ast.Option:
		text, err := it.substitute(n.Text)
		if err != nil {
			return nil, err
		}
		rc.addOption(text, n.Action, -1)
		return nil, nil

	case *ast.End:
		text, err := it.evalText(rc, n.Text)
		if err != nil {
			return nil, err
		}
		return nil, &Ended{Farewell: text}

	case *ast.ShopMenu:
		return nil, it.shopMenu(rc)

	case *ast.ShopSelect:
		return nil, it.shopSelect(rc)

	case *ast.BlessMight:
		return nil, it.bless("might")

	case *ast.BlessGrace:
		return nil, it.bless("grace")

	case *ast.BlessWard:
		return nil, it.bless("ward")

	default:
		return nil, evalErrorf("unhandled node %T", n)
	}
}

// evalBool evaluates a condition that must yield a boolean.
func (it *Interp) evalBool(rc *run, n ast.Node) (bool, error) {
	v, err := it.eval(rc, n)
	if err != nil {
		return false, err
	}
	b, ok := v.(BoolVal)
	if !ok {
		return false, evalErrorf("condition evaluated to %s, want boolean", kindName(v))
	}
	return bool(b), nil
}

// evalText evaluates an expression that must yield a string.
func (it *Interp) evalText(rc *run, n ast.Node) (string, error) {
	v, err := it.eval(rc, n)
	if err != nil {
		return "", err
	}
	t, ok := v.(TextVal)
	if !ok {
		return "", evalErrorf("expected text, got %s", kindName(v))
	}
	return string(t), nil
}

func (it *Interp) evalCompare(n *ast.Compare) (Value, error) {
	current, err := it.world.Lookup(n.Name)
	if err != nil {
		return nil, err
	}

	switch lit := n.Value.(type) {
	case *ast.Bool:
		b, ok := current.(BoolVal)
		if !ok {
			return nil, evalErrorf("%s is %s, compared against a boolean", n.Name, kindName(current))
		}
		switch n.Op {
		case scanner.Eq:
			return BoolVal(bool(b) == lit.Value), nil
		case scanner.Neq:
			return BoolVal(bool(b) != lit.Value), nil
		default:
			return nil, evalErrorf("ordering comparison on boolean %s", n.Name)
		}

	case *ast.Num:
		num, ok := current.(NumVal)
		if !ok {
			return nil, evalErrorf("%s is %s, compared against a number", n.Name, kindName(current))
		}
		a, b := int(num), lit.Value
		switch n.Op {
		case scanner.Eq:
			return BoolVal(a == b), nil
		case scanner.Neq:
			return BoolVal(a != b), nil
		case scanner.Lt:
			return BoolVal(a < b), nil
		case scanner.Lte:
			return BoolVal(a <= b), nil
		case scanner.Gt:
			return BoolVal(a > b), nil
		case scanner.Gte:
			return BoolVal(a >= b), nil
		}

	case *ast.Str:
		s, ok := current.(TextVal)
		if !ok {
			return nil, evalErrorf("%s is %s, compared against a string", n.Name, kindName(current))
		}
		switch n.Op {
		case scanner.Eq:
			return BoolVal(string(s) == lit.Value), nil
		case scanner.Neq:
			return BoolVal(string(s) != lit.Value), nil
		default:
			return nil, evalErrorf("ordering comparison on string %s", n.Name)
		}
	}
	return nil, evalErrorf("comparison against non-literal operand")
}

// say appends a line to the output buffer.
func (rc *run) say(text string) {
	if rc.out.Len() > 0 {
		rc.out.WriteByte('\n')
	}
	rc.out.WriteString(text)
}

// addOption registers a response under the next unused letter.
// Letters run 'a', 'b', ... in registration order; that ordering is part
// of the engine's contract with the host.
func (rc *run) addOption(text string, action ast.Node, ware int) {
	letter := rune('a' + len(rc.options))
	rc.options = append(rc.options, Option{
		Letter: letter,
		Text:   text,
		Action: action,
		Ware:   ware,
	})
}
