package interp

import (
	"fmt"

	"github.com/nathoo/parleycore/engine/ast"
)

// gift is one entry of the fixed give catalog: either an item to
// materialize or a direct attribute boost with no physical item.
type gift struct {
	item  string // item ID to materialize, or ""
	stat  string // attribute to boost when item is ""
	boost int
	note  string // display text for attribute gifts
}

var giftCatalog = map[string]gift{
	"healing-potion": {item: "healing_potion"},
	"torch":          {item: "torch"},
	"antidote":       {item: "antidote"},
	"dungeon-key":    {item: "dungeon_key"},
	"courage":        {stat: "will", boost: 1, note: "You feel bolder."},
	"insight":        {stat: "lore", boost: 1, note: "Your mind sharpens."},
}

const blessingTurns = 50

var blessingFarewells = map[string]string{
	"might": "Strength flows into your arms. Go now, and strike true.",
	"grace": "Your steps feel lighter. Go now, and do not stumble.",
	"ward":  "A pale shimmer settles over you. Go now, under its watch.",
}

func (it *Interp) evalGive(rc *run, n *ast.Give) error {
	g, ok := giftCatalog[n.Gift]
	if !ok {
		return evalErrorf("unknown gift %q", n.Gift)
	}

	blurb, err := it.substitute(n.Blurb)
	if err != nil {
		return err
	}

	if g.item != "" {
		name, err := it.world.CreateItem(g.item)
		if err != nil {
			return err
		}
		rc.say(fmt.Sprintf("You receive %s. %s", name, blurb))
		return nil
	}

	it.world.BoostStat(g.stat, g.boost)
	rc.say(fmt.Sprintf("%s %s", g.note, blurb))
	return nil
}

// shopMenu lists the speaker's wares as lettered options and writes the
// running total of marked wares into the footer. Each option's deferred
// action is a shop-select that toggles that ware.
func (it *Interp) shopMenu(rc *run) error {
	wares := it.world.Wares()
	if len(wares) == 0 {
		rc.say("\"Nothing left on the shelves, I'm afraid.\"")
		return nil
	}

	total := 0
	for i, w := range wares {
		mark := " "
		if w.Selected {
			mark = "*"
			total += w.Price
		}
		rc.addOption(fmt.Sprintf("[%s] %s - %d gold", mark, w.Name, w.Price), &ast.ShopSelect{}, i)
	}
	rc.footer.WriteString(fmt.Sprintf("Total: %d gold", total))
	return nil
}

// shopSelect toggles the ware the chosen menu option referred to. Outside
// a shop menu choice there is no pending ware, which is a script bug.
func (it *Interp) shopSelect(rc *run) error {
	if rc.pendingWare < 0 {
		return evalErrorf("shop-select outside a shop menu choice")
	}
	it.world.ToggleWare(rc.pendingWare)
	return nil
}

// bless applies a timed buff, records it, alerts the player, and raises
// the conversation-ended signal with the blessing's closing line.
func (it *Interp) bless(kind string) error {
	it.world.AddBuff(kind, blessingTurns)
	it.world.SetLastBlessing(kind)
	it.world.Alert(fmt.Sprintf("You are blessed with %s.", kind))
	return &Ended{Farewell: blessingFarewells[kind]}
}
