package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/message"
)

// DrawHUD renders the status block and the message tail in the reserved
// bottom rows.
func (r *Renderer) DrawHUD(w *ecs.World, playerID ecs.EntityID, floor int, log *message.Log) {
	_, sh := r.screen.Size()
	top := sh - hudRows
	r.hline(top)

	var actor component.Actor
	if c := w.Get(playerID, component.CActor); c != nil {
		actor = c.(component.Actor)
	}
	var hp component.Health
	if c := w.Get(playerID, component.CHealth); c != nil {
		hp = c.(component.Health)
	}

	r.drawHPBar(1, top+1, 22, hp)
	status := fmt.Sprintf("  Lv:%d  XP:%d  STR:%d DEX:%d CON:%d  Floor:%d",
		actor.Level, actor.XP, actor.STR, actor.DEX, actor.CON, floor)
	r.putString(24, top+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	equipLine := "WEAP:" + equipGlyph(w, playerID, component.SlotMainHand) +
		"  OFF:" + equipGlyph(w, playerID, component.SlotOffHand) +
		"  ARMOR:" + equipGlyph(w, playerID, component.SlotBody) +
		"  [i]tems [d]rop [x]look [c]har [v]log [>]stairs"
	r.putString(1, top+2, equipLine, tcell.StyleDefault.Foreground(tcell.ColorLightSlateGray))

	for i, e := range log.Tail(hudRows - 3) {
		r.putString(1, top+3+i, e.FullText(), tcell.StyleDefault.Foreground(message.FG(e.FG)))
	}
}

func (r *Renderer) drawHPBar(x, y, width int, hp component.Health) {
	filled := 0
	if hp.Max > 0 {
		filled = width * hp.Current / hp.Max
	}
	label := fmt.Sprintf("HP: %d/%d", hp.Current, hp.Max)
	for i := 0; i < width; i++ {
		bg := tcell.ColorDarkRed
		if i < filled {
			bg = tcell.ColorGreen
		}
		ch := ' '
		if i < len(label) {
			ch = rune(label[i])
		}
		r.screen.SetContent(x+i, y, ch, nil, tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite))
	}
}

func equipGlyph(w *ecs.World, playerID ecs.EntityID, slot component.EquipSlot) string {
	c := w.Get(playerID, component.CInventory)
	if c == nil {
		return "--"
	}
	inv := c.(component.Inventory)
	var it component.Item
	switch slot {
	case component.SlotMainHand:
		it = inv.MainHand
	case component.SlotOffHand:
		it = inv.OffHand
	case component.SlotBody:
		it = inv.Body
	case component.SlotHead:
		it = inv.Head
	case component.SlotFeet:
		it = inv.Feet
	}
	if it.IsEmpty() {
		return "--"
	}
	return it.Graphic
}
