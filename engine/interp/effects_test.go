package interp

import (
	"errors"
	"testing"
)

func TestShopMenu(t *testing.T) {
	w := newStubWorld()
	w.wares = []Ware{
		{Name: "Healing Potion", Price: 30},
		{Name: "Torch", Price: 5, Selected: true},
		{Name: "Antidote", Price: 20},
	}

	res := mustRun(t, w, nil, `(shop-menu)`)

	if len(res.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(res.Options))
	}
	if res.Options[0].Text != "[ ] Healing Potion - 30 gold" {
		t.Errorf("option 0: got %q", res.Options[0].Text)
	}
	if res.Options[1].Text != "[*] Torch - 5 gold" {
		t.Errorf("option 1: got %q", res.Options[1].Text)
	}
	// Each option remembers which ware it toggles.
	for i, opt := range res.Options {
		if opt.Ware != i {
			t.Errorf("option %d: ware index %d", i, opt.Ware)
		}
	}
	// Footer totals only the marked wares.
	if res.Footer != "Total: 5 gold" {
		t.Errorf("footer: got %q", res.Footer)
	}
}

func TestShopMenu_Empty(t *testing.T) {
	w := newStubWorld()
	res := mustRun(t, w, nil, `(shop-menu)`)
	if len(res.Options) != 0 {
		t.Fatalf("expected no options, got %d", len(res.Options))
	}
	if res.Text == "" {
		t.Error("expected an out-of-stock line")
	}
}

func TestShopSelect_TogglesPendingWare(t *testing.T) {
	w := newStubWorld()
	w.wares = []Ware{
		{Name: "Healing Potion", Price: 30},
		{Name: "Torch", Price: 5},
	}

	res := mustRun(t, w, nil, `(shop-menu)`)
	if _, err := New(w, &fixedRand{}).RunDeferred(res.Options[1]); err != nil {
		t.Fatalf("deferred run failed: %v", err)
	}
	if len(w.toggled) != 1 || w.toggled[0] != 1 {
		t.Errorf("expected ware 1 toggled, got %v", w.toggled)
	}
}

func TestShopSelect_OutsideMenuChoice(t *testing.T) {
	w := newStubWorld()
	_, err := runScript(t, w, nil, `(shop-select)`)
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EvalError, got %v", err)
	}
}

func TestBlessings(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   string
	}{
		{"might", `(blessing-might)`, "might"},
		{"grace", `(blessing-grace)`, "grace"},
		{"ward", `(blessing-ward)`, "ward"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newStubWorld()
			res := mustRun(t, w, nil, tt.source)

			if !res.Ended {
				t.Fatal("blessing should end the conversation")
			}
			if res.Farewell == "" {
				t.Error("blessing should carry a farewell line")
			}
			if w.buffs[tt.kind] != blessingTurns {
				t.Errorf("expected %s buff for %d turns, got %d",
					tt.kind, blessingTurns, w.buffs[tt.kind])
			}
			if w.blessing != tt.kind {
				t.Errorf("last blessing: got %q", w.blessing)
			}
			if len(w.alerts) != 1 {
				t.Fatalf("expected 1 alert, got %v", w.alerts)
			}
		})
	}
}

func TestBlessing_EndsEvenMidSequence(t *testing.T) {
	w := newStubWorld()
	res := mustRun(t, w, nil, `((say "Kneel.") (blessing-ward) (say "never"))`)
	if !res.Ended {
		t.Fatal("expected conversation to end")
	}
	if res.Text != "Kneel." {
		t.Errorf("unexpected text: %q", res.Text)
	}
}
