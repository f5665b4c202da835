// Package statemachine implements the game's control flow as states with
// Update/Draw: the main menu, the in-game turn loop, the item and
// position pickers, the level-up prompt, and the read-only character and
// history screens. Update returns the next state; everything a state
// needs arrives through Ctx so the states never reach into the
// orchestrator.
package statemachine

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"

	"spireward/internal/action"
	"spireward/internal/combat"
	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/input"
	"spireward/internal/message"
	"spireward/internal/render"
	"spireward/internal/scheduler"
)

// Ctx is the wiring every state shares.
type Ctx struct {
	Action *action.Context
	Input  *input.Manager
	Render *render.Renderer
	Log    *message.Log

	Player    func() ecs.EntityID
	Floor     func() int
	CanResume func() bool
	NewGame   func()
	Quit      func()

	// TurnHook fires once per world-advancing player turn; the
	// orchestrator uses it for run statistics.
	TurnHook func()
}

// State is one mode of the game loop.
type State interface {
	Update(g *Ctx) State
	Draw(g *Ctx)
}

// drawWorldBase renders the in-game backdrop shared by every state that
// overlays it.
func drawWorldBase(g *Ctx) {
	player := g.Player()
	mapID, gmap := g.Action.MapOf(player)
	if gmap == nil {
		return
	}
	pos := g.Action.Position(player)
	g.Render.CenterOn(pos.X, pos.Y)
	g.Render.DrawWorld(g.Action.World, mapID, gmap, g.Floor())
	g.Render.DrawHUD(g.Action.World, player, g.Floor(), g.Log)
}

// runPlayerAction pushes one chosen action through the scheduler and
// advances the rest of the tick when the player acted or deferred: FOV,
// enemy turns, FOV again, then the level-up check.
func runPlayerAction(g *Ctx, chosen *action.Action) State {
	player := g.Player()
	out := scheduler.PlayerTurn(g.Action, player, chosen)
	switch out.Kind {
	case scheduler.OutPoll:
		pos := g.Action.Position(player)
		return &PositionSelect{ItemKey: out.PollItem, X: pos.X, Y: pos.Y}
	case scheduler.OutActed, scheduler.OutDeferred:
		g.Action.Levels.UpdateFOV(player, false)
		scheduler.EnemyTurns(g.Action, player)
		g.Action.Levels.UpdateFOV(player, false)
		if g.TurnHook != nil {
			g.TurnHook()
		}
		if combat.CanLevelUp(g.Action.World, player) {
			return &LevelUp{}
		}
	}
	return &InGame{}
}

// --- MainMenu ------------------------------------------------------------

// MainMenu is the entry state: new game, resume, quit.
type MainMenu struct {
	selected int
}

func (s *MainMenu) options(g *Ctx) []string {
	opts := []string{"New Game"}
	if g.CanResume() {
		opts = append(opts, "Continue")
	}
	return append(opts, "Quit")
}

func (s *MainMenu) Update(g *Ctx) State {
	opts := s.options(g)
	switch {
	case g.Input.IsKeyJustPressed(input.KeyUp) || g.Input.IsKeyJustPressed('k'):
		s.selected = (s.selected + len(opts) - 1) % len(opts)
	case g.Input.IsKeyJustPressed(input.KeyDown) || g.Input.IsKeyJustPressed('j'):
		s.selected = (s.selected + 1) % len(opts)
	case g.Input.IsKeyJustPressed(input.KeyEnter):
		switch opts[s.selected] {
		case "New Game":
			g.NewGame()
			return &InGame{}
		case "Continue":
			return &InGame{}
		case "Quit":
			g.Quit()
		}
	case g.Input.IsKeyJustPressed(input.KeyEscape):
		if g.CanResume() {
			return &InGame{}
		}
	}
	return s
}

func (s *MainMenu) Draw(g *Ctx) {
	g.Render.DrawMenu("S P I R E W A R D", s.options(g), s.selected,
		message.FG(message.ColorMenuTitle), message.FG(message.ColorMenuText))
}

// --- InGame --------------------------------------------------------------

// InGame is the live turn loop: input becomes an action, the scheduler
// spends it, enemies respond. A dead player keeps the state; every action
// is refused, and only the menu key and the item, look, character and
// history screens still respond.
type InGame struct{}

func (s *InGame) Update(g *Ctx) State {
	in := g.Input
	if in.IsKeyJustPressed(input.KeyEscape) {
		return &MainMenu{}
	}

	var chosen *action.Action
	pick := func(a action.Action) { chosen = &a }
	switch {
	case in.IsKeyJustPressed('i'):
		return &ItemSelect{Mode: SelectUse}
	case in.IsKeyJustPressed('d'):
		return &ItemSelect{Mode: SelectDrop}
	case in.IsKeyJustPressed('x'):
		pos := g.Action.Position(g.Player())
		return &PositionSelect{Look: true, X: pos.X, Y: pos.Y}
	case in.IsKeyJustPressed('c'):
		return &CharacterScreen{}
	case in.IsKeyJustPressed('v'):
		return &MessageHistory{}
	case in.IsKeyJustPressed('g'):
		pick(action.PickupItem())
	case in.IsKeyJustPressed('>'):
		pick(action.TakeStairs(true))
	case in.IsKeyJustPressed('<'):
		pick(action.TakeStairs(false))
	case in.IsKeyJustPressed('.'):
		pick(action.Wait())
	default:
		if dx, dy, ok := in.Direction(); ok {
			pick(action.Bump(dx, dy))
		}
	}
	return runPlayerAction(g, chosen)
}

func (s *InGame) Draw(g *Ctx) { drawWorldBase(g) }

// --- ItemSelect ----------------------------------------------------------

// SelectMode distinguishes the two item pickers.
type SelectMode uint8

const (
	SelectUse SelectMode = iota
	SelectDrop
)

// ItemSelect shows the backpack and equipment and reads a slot letter.
type ItemSelect struct {
	Mode SelectMode
}

func (s *ItemSelect) Update(g *Ctx) State {
	if g.Input.IsKeyJustPressed(input.KeyEscape) {
		return &InGame{}
	}
	key := g.Input.JustPressedRune()
	if key < 'a' || key > 'z' {
		return s
	}
	if !hasItemKey(g, key) {
		return s
	}
	if s.Mode == SelectDrop {
		a := action.DropItem(key)
		return runPlayerAction(g, &a)
	}
	a := action.ApplyItem(key)
	return runPlayerAction(g, &a)
}

func hasItemKey(g *Ctx, key rune) bool {
	c := g.Action.World.Get(g.Player(), component.CInventory)
	if c == nil {
		return false
	}
	inv := c.(component.Inventory)
	if _, ok := inv.Slots[key]; ok {
		return true
	}
	for _, worn := range []component.Item{inv.Head, inv.Body, inv.Feet, inv.MainHand, inv.OffHand} {
		if !worn.IsEmpty() && worn.AssignedKey == key {
			return true
		}
	}
	return false
}

func (s *ItemSelect) Draw(g *Ctx) {
	drawWorldBase(g)

	title := "Use which item?"
	if s.Mode == SelectDrop {
		title = "Drop which item?"
	}
	var lines []string
	c := g.Action.World.Get(g.Player(), component.CInventory)
	if c != nil {
		inv := c.(component.Inventory)
		keys := make([]rune, 0, len(inv.Slots))
		for k := range inv.Slots {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			it := inv.Slots[k]
			line := fmt.Sprintf("%c) %s", k, it.Name)
			if it.Count > 1 {
				line = fmt.Sprintf("%s x%d", line, it.Count)
			}
			lines = append(lines, line)
		}
		for _, worn := range []component.Item{inv.Head, inv.Body, inv.Feet, inv.MainHand, inv.OffHand} {
			if !worn.IsEmpty() {
				lines = append(lines, fmt.Sprintf("%c) %s (worn)", worn.AssignedKey, worn.Name))
			}
		}
	}
	if len(lines) == 0 {
		lines = []string{"(empty)"}
	}
	g.Render.DrawPanel(title, lines, message.FG(message.ColorMenuTitle))
}

// --- PositionSelect ------------------------------------------------------

// PositionSelect moves a cursor over the map, either to look around or
// to pick the target tile for a pending scroll.
type PositionSelect struct {
	Look    bool
	ItemKey rune
	X, Y    int
}

func (s *PositionSelect) Update(g *Ctx) State {
	in := g.Input
	if in.IsKeyJustPressed(input.KeyEscape) {
		return &InGame{}
	}
	if dx, dy, ok := in.Direction(); ok {
		_, gmap := g.Action.MapOf(g.Player())
		if gmap != nil && gmap.InBounds(s.X+dx, s.Y+dy) {
			s.X += dx
			s.Y += dy
		}
		return s
	}
	if in.MouseMoved() {
		mx, my := in.CursorLocation()
		s.X, s.Y = g.Render.ScreenToWorld(mx, my)
		return s
	}
	if in.IsKeyJustPressed(input.KeyEnter) || in.IsMousePressed(1) {
		if s.Look {
			s.describe(g)
			return &InGame{}
		}
		a := action.CastAt(s.ItemKey, s.X, s.Y)
		return runPlayerAction(g, &a)
	}
	return s
}

// describe names whatever the looked-at tile holds.
func (s *PositionSelect) describe(g *Ctx) {
	mapID, gmap := g.Action.MapOf(g.Player())
	if gmap == nil || !gmap.InBounds(s.X, s.Y) || !gmap.At(s.X, s.Y).Visible {
		g.Log.Add("You see nothing there.", message.ColorNeutral)
		return
	}
	for _, id := range g.Action.Index.At(mapID, s.X, s.Y) {
		g.Log.Addf(message.ColorNeutral, "You see %s.", combat.Name(g.Action.World, id))
		return
	}
	g.Log.Addf(message.ColorNeutral, "You see %s.", gmap.At(s.X, s.Y).Kind.Name())
}

func (s *PositionSelect) Draw(g *Ctx) {
	drawWorldBase(g)
	g.Render.DrawCursorAt(s.X, s.Y)
}

// --- LevelUp -------------------------------------------------------------

// LevelUp blocks the game until the player picks a stat. There is no
// escape: the XP is already banked.
type LevelUp struct{}

func (s *LevelUp) Update(g *Ctx) State {
	var choice combat.StatChoice
	switch {
	case g.Input.IsKeyJustPressed('a') || g.Input.IsKeyJustPressed('1'):
		choice = combat.ChooseCON
	case g.Input.IsKeyJustPressed('b') || g.Input.IsKeyJustPressed('2'):
		choice = combat.ChooseSTR
	case g.Input.IsKeyJustPressed('c') || g.Input.IsKeyJustPressed('3'):
		choice = combat.ChooseDEX
	default:
		return s
	}
	combat.LevelUp(g.Action.World, g.Log, g.Player(), choice)
	if combat.CanLevelUp(g.Action.World, g.Player()) {
		return s
	}
	return &InGame{}
}

func (s *LevelUp) Draw(g *Ctx) {
	drawWorldBase(g)
	g.Render.DrawPanel("You feel stronger! Choose:", []string{
		"a) Constitution (+1 CON, +5 max HP)",
		"b) Strength (+1 STR)",
		"c) Dexterity (+1 DEX)",
	}, message.FG(message.ColorMenuTitle))
}

// --- CharacterScreen -----------------------------------------------------

// CharacterScreen is a read-only stat sheet.
type CharacterScreen struct{}

func (s *CharacterScreen) Update(g *Ctx) State {
	if g.Input.IsKeyJustPressed(input.KeyEscape) || g.Input.IsKeyJustPressed('c') {
		return &InGame{}
	}
	return s
}

func (s *CharacterScreen) Draw(g *Ctx) {
	drawWorldBase(g)
	w := g.Action.World
	player := g.Player()
	var actor component.Actor
	if c := w.Get(player, component.CActor); c != nil {
		actor = c.(component.Actor)
	}
	var hp component.Health
	if c := w.Get(player, component.CHealth); c != nil {
		hp = c.(component.Health)
	}
	g.Render.DrawPanel("Character", []string{
		fmt.Sprintf("Level: %d", actor.Level),
		fmt.Sprintf("XP: %d / %d for next level", actor.XP, combat.RequiredXP(actor.Level)),
		fmt.Sprintf("HP: %d/%d", hp.Current, hp.Max),
		fmt.Sprintf("STR: %d  DEX: %d  CON: %d", actor.STR, actor.DEX, actor.CON),
		fmt.Sprintf("Attack: %s  Defense: %d", actor.AttackDice, combat.GetDefense(w, player)),
	}, message.FG(message.ColorMenuTitle))
}

// --- MessageHistory ------------------------------------------------------

// MessageHistory scrolls back through the full log.
type MessageHistory struct {
	offset int
}

func (s *MessageHistory) Update(g *Ctx) State {
	in := g.Input
	switch {
	case in.IsKeyJustPressed(input.KeyEscape) || in.IsKeyJustPressed('v'):
		return &InGame{}
	case in.IsKeyJustPressed(input.KeyUp):
		s.offset++
	case in.IsKeyJustPressed(input.KeyDown):
		s.offset--
	case in.IsKeyJustPressed(input.KeyPageUp):
		s.offset += 10
	case in.IsKeyJustPressed(input.KeyPageDown):
		s.offset -= 10
	}
	if s.offset < 0 {
		s.offset = 0
	}
	if max := g.Log.Len() - 1; s.offset > max && max >= 0 {
		s.offset = max
	}
	return s
}

func (s *MessageHistory) Draw(g *Ctx) {
	drawWorldBase(g)
	g.Render.DrawPanel("Message history", nil, message.FG(message.ColorMenuTitle))

	entries := g.Log.Entries()
	end := len(entries) - s.offset
	if end < 0 {
		end = 0
	}
	start := end - 20
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, end-start)
	fgs := make([]tcell.Color, 0, end-start)
	for _, e := range entries[start:end] {
		lines = append(lines, e.FullText())
		fgs = append(fgs, message.FG(e.FG))
	}
	g.Render.DrawColoredLines(3, lines, fgs)
}
