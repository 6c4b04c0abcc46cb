package interp

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/parleycore/engine/ast"
	"github.com/nathoo/parleycore/engine/parser"
	"github.com/nathoo/parleycore/engine/scanner"
)

// stubWorld records every mutation so tests can assert on side effects.
type stubWorld struct {
	vars     map[string]Value
	assigned map[string]Value
	created  []string
	removed  []string
	stats    map[string]int
	spent    int
	wares    []Ware
	toggled  []int
	buffs    map[string]int
	blessing string
	alerts   []string
}

func newStubWorld() *stubWorld {
	return &stubWorld{
		vars:     map[string]Value{},
		assigned: map[string]Value{},
		stats:    map[string]int{},
		buffs:    map[string]int{},
	}
}

func (w *stubWorld) Lookup(name string) (Value, error) {
	v, ok := w.vars[name]
	if !ok {
		return nil, &EvalError{Msg: "unknown variable " + name}
	}
	return v, nil
}

func (w *stubWorld) Assign(name string, v Value) error {
	if _, ok := w.vars[name]; !ok {
		return &EvalError{Msg: "unknown variable " + name}
	}
	w.vars[name] = v
	w.assigned[name] = v
	return nil
}

func (w *stubWorld) CreateItem(id string) (string, error) {
	w.created = append(w.created, id)
	return "a " + id, nil
}

func (w *stubWorld) RemoveItem(id string) error {
	w.removed = append(w.removed, id)
	return nil
}

func (w *stubWorld) BoostStat(stat string, amount int) { w.stats[stat] += amount }
func (w *stubWorld) SpendGold(amount int)              { w.spent += amount }
func (w *stubWorld) Wares() []Ware                     { return w.wares }
func (w *stubWorld) ToggleWare(i int)                  { w.toggled = append(w.toggled, i) }
func (w *stubWorld) AddBuff(kind string, turns int)    { w.buffs[kind] = turns }
func (w *stubWorld) SetLastBlessing(kind string)       { w.blessing = kind }
func (w *stubWorld) Alert(text string)                 { w.alerts = append(w.alerts, text) }

// fixedRand returns a scripted sequence of values.
type fixedRand struct {
	vals []int
	i    int
}

func (r *fixedRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.i%len(r.vals)] % n
	r.i++
	return v
}

// runScript scans, parses and evaluates source against the stub world.
func runScript(t *testing.T, w *stubWorld, rand Rand, source string) (Result, error) {
	t.Helper()
	tokens, err := scanner.Scan(source)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	root, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rand == nil {
		rand = &fixedRand{}
	}
	return New(w, rand).Run(root)
}

func mustRun(t *testing.T, w *stubWorld, rand Rand, source string) Result {
	t.Helper()
	res, err := runScript(t, w, rand, source)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return res
}

func TestRun_Say(t *testing.T) {
	w := newStubWorld()
	res := mustRun(t, w, nil, `((say "First line.") (say "Second line."))`)
	if res.Text != "First line.\nSecond line." {
		t.Errorf("unexpected text: %q", res.Text)
	}
	if res.Ended {
		t.Error("conversation should not have ended")
	}
}

func TestRun_Substitution(t *testing.T) {
	w := newStubWorld()
	w.vars["TOWN_NAME"] = TextVal("Dunhollow")
	w.vars["NPC_NAME"] = TextVal("Marla")

	res := mustRun(t, w, nil, `(say "Welcome to #TOWN_NAME.#NLI am #NPC_NAME.")`)
	if res.Text != "Welcome to Dunhollow.\nI am Marla." {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestRun_SubstitutionNotCached(t *testing.T) {
	// A marker evaluated after a set reflects the new value.
	w := newStubWorld()
	w.vars["PLAYER_NAME"] = TextVal("before")
	w.vars["TOWN_NAME"] = TextVal("x")

	root := &ast.List{Items: []ast.Node{
		&ast.Say{Expr: &ast.Str{Value: "#PLAYER_NAME"}},
		&ast.Set{Name: "PLAYER_NAME", Value: &ast.Str{Value: "after"}},
		&ast.Say{Expr: &ast.Str{Value: "#PLAYER_NAME"}},
	}}
	res, err := New(w, &fixedRand{}).Run(root)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Text != "before\nafter" {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestRun_Comparisons(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{"number eq true", `(= DEPTH 3)`, true},
		{"number eq false", `(= DEPTH 4)`, false},
		{"number neq", `(!= DEPTH 4)`, true},
		{"number lt", `(< DEPTH 5)`, true},
		{"number lte boundary", `(<= DEPTH 3)`, true},
		{"number gt", `(> DEPTH 2)`, true},
		{"number gte false", `(>= DEPTH 4)`, false},
		{"bool eq", `(= MET true)`, true},
		{"bool neq", `(!= MET false)`, true},
		{"string eq", `(= NAME "Rook")`, true},
		{"string neq", `(!= NAME "Pawn")`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newStubWorld()
			w.vars["DEPTH"] = NumVal(3)
			w.vars["MET"] = BoolVal(true)
			w.vars["NAME"] = TextVal("Rook")

			// Wrap in cond so the boolean is observable via output.
			src := `(cond (` + tt.source + ` (say "yes")) (else (say "no")))`
			res := mustRun(t, w, nil, src)
			got := res.Text == "yes"
			if got != tt.want {
				t.Errorf("%s: got %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestRun_ComparisonTypeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"bool vs number", `(= MET 1)`},
		{"number vs string", `(= DEPTH "three")`},
		{"ordering on bool", `(< MET true)`},
		{"ordering on string", `(> NAME "Abc")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newStubWorld()
			w.vars["DEPTH"] = NumVal(3)
			w.vars["MET"] = BoolVal(true)
			w.vars["NAME"] = TextVal("Rook")

			_, err := runScript(t, w, nil, tt.source)
			var ee *EvalError
			if !errors.As(err, &ee) {
				t.Fatalf("expected *EvalError, got %v", err)
			}
		})
	}
}

func TestRun_ShortCircuit(t *testing.T) {
	// The second condition references an unknown variable; short-circuit
	// means it is never looked up.
	w := newStubWorld()
	w.vars["MET"] = BoolVal(false)

	res := mustRun(t, w, nil,
		`(cond ((and (= MET true) (= NO_SUCH_VAR 1)) (say "yes")) (else (say "no")))`)
	if res.Text != "no" {
		t.Errorf("unexpected text: %q", res.Text)
	}

	w.vars["MET"] = BoolVal(true)
	res = mustRun(t, w, nil,
		`(cond ((or (= MET true) (= NO_SUCH_VAR 1)) (say "yes")) (else (say "no")))`)
	if res.Text != "yes" {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestRun_CondFirstMatchWins(t *testing.T) {
	w := newStubWorld()
	w.vars["STATE"] = NumVal(2)

	res := mustRun(t, w, nil, `
		(cond
			((>= STATE 1) (say "first"))
			((>= STATE 2) (say "second"))
			(else (say "fallback")))`)
	if res.Text != "first" {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestRun_CondNoMatchNoElse(t *testing.T) {
	w := newStubWorld()
	w.vars["STATE"] = NumVal(0)

	res := mustRun(t, w, nil, `(cond ((= STATE 9) (say "never")))`)
	if res.Text != "" {
		t.Errorf("expected empty output, got %q", res.Text)
	}
}

func TestRun_OptionsLetteredInOrder(t *testing.T) {
	w := newStubWorld()
	res := mustRun(t, w, nil, `
		((option "Ask about the town." (say "It is old."))
		 (option "Ask about the dungeon." (say "It is deep."))
		 (option "Leave." (end "Goodbye.")))`)

	if len(res.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(res.Options))
	}
	for i, want := range []rune{'a', 'b', 'c'} {
		if res.Options[i].Letter != want {
			t.Errorf("option %d: expected letter %c, got %c", i, want, res.Options[i].Letter)
		}
	}
	if res.Options[0].Text != "Ask about the town." {
		t.Errorf("option text: got %q", res.Options[0].Text)
	}
	// Registering an option must not run its action.
	if res.Text != "" {
		t.Errorf("deferred actions ran eagerly: %q", res.Text)
	}
}

func TestRunDeferred(t *testing.T) {
	w := newStubWorld()
	res := mustRun(t, w, nil, `(option "Ask." (say "An answer."))`)
	if len(res.Options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(res.Options))
	}

	chosen, err := New(w, &fixedRand{}).RunDeferred(res.Options[0])
	if err != nil {
		t.Fatalf("deferred run failed: %v", err)
	}
	if chosen.Text != "An answer." {
		t.Errorf("unexpected text: %q", chosen.Text)
	}
}

func TestRun_OptionTextSubstituted(t *testing.T) {
	w := newStubWorld()
	w.vars["BOSS_NAME"] = TextVal("Gorvek")

	res := mustRun(t, w, nil, `(option "Ask about #BOSS_NAME." (say "Dead, I hope."))`)
	if res.Options[0].Text != "Ask about Gorvek." {
		t.Errorf("option text: got %q", res.Options[0].Text)
	}
}

func TestRun_Pick(t *testing.T) {
	w := newStubWorld()
	res := mustRun(t, w, &fixedRand{vals: []int{1}},
		`(pick ((say "heads") (say "tails")))`)
	if res.Text != "tails" {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestRun_PickEmptyList(t *testing.T) {
	w := newStubWorld()
	_, err := runScript(t, w, nil, `(pick ())`)
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EvalError, got %v", err)
	}
}

func TestRun_PickSeededDeterministic(t *testing.T) {
	src := `(pick ((say "a") (say "b") (say "c") (say "d")))`
	r1 := &fixedRand{vals: []int{0, 3, 1, 2}}
	r2 := &fixedRand{vals: []int{0, 3, 1, 2}}

	for i := 0; i < 4; i++ {
		a := mustRun(t, newStubWorld(), r1, src)
		b := mustRun(t, newStubWorld(), r2, src)
		if a.Text != b.Text {
			t.Fatalf("run %d: %q vs %q from same sequence", i, a.Text, b.Text)
		}
	}
}

func TestRun_Set(t *testing.T) {
	w := newStubWorld()
	w.vars["MET"] = BoolVal(false)
	mustRun(t, w, nil, `(set MET true)`)
	if v, ok := w.assigned["MET"].(BoolVal); !ok || !bool(v) {
		t.Errorf("expected MET assigned true, got %v", w.assigned["MET"])
	}
}

func TestRun_SetUnknownVariable(t *testing.T) {
	w := newStubWorld()
	_, err := runScript(t, w, nil, `(set NO_SUCH_VAR 1)`)
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EvalError, got %v", err)
	}
}

func TestRun_Offer(t *testing.T) {
	w := newStubWorld()
	w.vars["TRINKET"] = TextVal("silver_locket")
	mustRun(t, w, nil, `(offer TRINKET)`)
	if len(w.removed) != 1 || w.removed[0] != "silver_locket" {
		t.Errorf("expected silver_locket removed, got %v", w.removed)
	}
}

func TestRun_Spend(t *testing.T) {
	w := newStubWorld()
	mustRun(t, w, nil, `(spend 25)`)
	if w.spent != 25 {
		t.Errorf("expected 25 spent, got %d", w.spent)
	}
}

func TestRun_EndPropagatesThroughNesting(t *testing.T) {
	w := newStubWorld()
	w.vars["STATE"] = NumVal(1)

	res := mustRun(t, w, nil, `
		((say "one")
		 (cond ((= STATE 1)
			((say "two")
			 (end "Farewell, friend.")
			 (say "unreachable"))))
		 (say "never"))`)

	if !res.Ended {
		t.Fatal("expected conversation to end")
	}
	if res.Farewell != "Farewell, friend." {
		t.Errorf("farewell: got %q", res.Farewell)
	}
	if !strings.Contains(res.Text, "one") || !strings.Contains(res.Text, "two") {
		t.Errorf("output before end lost: %q", res.Text)
	}
	if strings.Contains(res.Text, "never") || strings.Contains(res.Text, "unreachable") {
		t.Errorf("evaluation continued past end: %q", res.Text)
	}
}

func TestRun_EndTextSubstituted(t *testing.T) {
	w := newStubWorld()
	w.vars["NPC_NAME"] = TextVal("Marla")
	res := mustRun(t, w, nil, `(end "#NPC_NAME waves you off.")`)
	if res.Farewell != "Marla waves you off." {
		t.Errorf("farewell: got %q", res.Farewell)
	}
}

func TestRun_EmptyListIsNoOp(t *testing.T) {
	w := newStubWorld()
	res := mustRun(t, w, nil, `()`)
	if res.Text != "" || len(res.Options) != 0 || res.Ended {
		t.Errorf("empty list should produce nothing: %+v", res)
	}
}

func TestRun_Give(t *testing.T) {
	t.Run("item gift", func(t *testing.T) {
		w := newStubWorld()
		res := mustRun(t, w, nil, `(give healing-potion "For the road.")`)
		if len(w.created) != 1 || w.created[0] != "healing_potion" {
			t.Fatalf("expected healing_potion created, got %v", w.created)
		}
		if res.Text != "You receive a healing_potion. For the road." {
			t.Errorf("unexpected text: %q", res.Text)
		}
	})

	t.Run("stat gift", func(t *testing.T) {
		w := newStubWorld()
		res := mustRun(t, w, nil, `(give courage "Chin up.")`)
		if w.stats["will"] != 1 {
			t.Errorf("expected will +1, got %d", w.stats["will"])
		}
		if len(w.created) != 0 {
			t.Errorf("stat gift must not create items: %v", w.created)
		}
		if !strings.Contains(res.Text, "Chin up.") {
			t.Errorf("blurb missing: %q", res.Text)
		}
	})

	t.Run("unknown gift", func(t *testing.T) {
		w := newStubWorld()
		_, err := runScript(t, w, nil, `(give riches "Ha.")`)
		var ee *EvalError
		if !errors.As(err, &ee) {
			t.Fatalf("expected *EvalError, got %v", err)
		}
	})
}
