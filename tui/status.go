package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// town, the open conversation partner, gold, inventory, and turn count.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	left := " " + m.defs.World.Town
	if id := m.engine.SpeakerID(); id != "" {
		left += " | Talking to " + m.defs.NPCs[id].Name
	}

	right := fmt.Sprintf("Gold: %d | T:%d ", s.Player.Gold, s.TurnCount)

	// Show inventory items if they fit, otherwise just count.
	if n := len(s.Player.Inventory); n > 0 {
		var names []string
		for _, id := range s.Player.Inventory {
			name := id
			if def, ok := m.defs.Items[id]; ok && def.Name != "" {
				name = def.Name
			}
			names = append(names, name)
		}
		candidate := fmt.Sprintf("Inv: %s | Gold: %d | T:%d ",
			strings.Join(names, ", "), s.Player.Gold, s.TurnCount)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | Gold: %d | T:%d ", n, s.Player.Gold, s.TurnCount)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
