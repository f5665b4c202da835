// Package render draws the world onto a tcell screen: themed terrain
// with visible/remembered shading, render-ordered entities, ghosts of
// actors last seen, and the HUD. It owns the tileset glyphs; game code
// never emits a character directly.
package render

import (
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/gamemap"
)

// hudRows is the height reserved at the bottom for status and messages.
const hudRows = 7

// Renderer draws the game onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
	tiles  content.TilesetConfig
}

// New creates a Renderer over an initialized screen.
func New(screen tcell.Screen, tiles content.TilesetConfig) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(0, 0, w, h-hudRows),
		tiles:  tiles,
	}
}

// Screen exposes the backing screen for event polling and final Show.
func (r *Renderer) Screen() tcell.Screen { return r.screen }

// Resize refits the camera to the current screen size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.ViewWidth = w
	r.camera.ViewHeight = h - hudRows
}

// CenterOn recenters the viewport on a world position.
func (r *Renderer) CenterOn(x, y int) { r.camera.Center(x, y) }

// ScreenToWorld exposes the camera transform for mouse targeting.
func (r *Renderer) ScreenToWorld(sx, sy int) (int, int) { return r.camera.ScreenToWorld(sx, sy) }

// Clear wipes the screen buffer.
func (r *Renderer) Clear() { r.screen.Clear() }

// Show flushes the buffer to the terminal.
func (r *Renderer) Show() { r.screen.Show() }

// DrawWorld renders terrain, then ghosts, then entities for one floor.
func (r *Renderer) DrawWorld(w *ecs.World, mapID ecs.EntityID, gmap *gamemap.GameMap, floor int) {
	r.drawTerrain(gmap, floor)
	r.drawGhosts(w, mapID, gmap)
	r.drawEntities(w, mapID, gmap)
}

func (r *Renderer) glyphFor(kind gamemap.TileKind) string {
	key := map[gamemap.TileKind]string{
		gamemap.TileWall:       "wall",
		gamemap.TileFloor:      "floor",
		gamemap.TileDoor:       "door",
		gamemap.TileStairsUp:   "stairs_up",
		gamemap.TileStairsDown: "stairs_down",
		gamemap.TileGrass:      "grass",
		gamemap.TileWater:      "water",
	}[kind]
	if g, ok := r.tiles.Glyphs[key]; ok {
		return g
	}
	return " "
}

func themeColor(t FloorTheme, kind gamemap.TileKind) tcell.Color {
	switch kind {
	case gamemap.TileWall, gamemap.TileDoor:
		return t.Wall
	case gamemap.TileGrass:
		return t.Grass
	case gamemap.TileWater:
		return t.Water
	case gamemap.TileStairsUp, gamemap.TileStairsDown:
		return t.Stairs
	}
	return t.Floor
}

func (r *Renderer) drawTerrain(gmap *gamemap.GameMap, floor int) {
	theme := ThemeFor(floor)
	for sy := 0; sy < r.camera.ViewHeight; sy++ {
		for sx := 0; sx < r.camera.ViewWidth; sx++ {
			wx, wy := r.camera.ScreenToWorld(sx, sy)
			if !gmap.InBounds(wx, wy) {
				continue
			}
			t := gmap.At(wx, wy)
			if !t.Visible && !t.Explored {
				continue
			}
			style := tcell.StyleDefault.Foreground(themeColor(theme, t.Kind))
			if !t.Visible {
				style = tcell.StyleDefault.Foreground(dimFG)
			}
			r.putString(sx, sy, r.glyphFor(t.Kind), style)
		}
	}
}

// drawGhosts renders last-seen markers on remembered tiles. A ghost's
// tile is never currently visible — FOV destroys the ghost the moment it
// is.
func (r *Renderer) drawGhosts(w *ecs.World, mapID ecs.EntityID, gmap *gamemap.GameMap) {
	for _, id := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsGhost},
		Components: []ecs.ComponentType{component.CGhost},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	}) {
		g := w.Get(id, component.CGhost).(component.Ghost)
		if !gmap.InBounds(g.X, g.Y) || !gmap.At(g.X, g.Y).Explored {
			continue
		}
		if sx, sy, on := r.camera.WorldToScreen(g.X, g.Y); on {
			r.putString(sx, sy, g.Graphic, tcell.StyleDefault.Foreground(dimFG))
		}
	}
}

func (r *Renderer) drawEntities(w *ecs.World, mapID ecs.EntityID, gmap *gamemap.GameMap) {
	type drawable struct {
		order int
		id    ecs.EntityID
		x, y  int
		rend  component.Renderable
	}
	var list []drawable
	for _, id := range w.AllOf(ecs.QuerySpec{
		Components: []ecs.ComponentType{component.CRenderable, component.CPosition},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	}) {
		if w.IsTemplate(id) {
			continue
		}
		p := w.Get(id, component.CPosition).(component.Position)
		if !gmap.InBounds(p.X, p.Y) || !gmap.At(p.X, p.Y).Visible {
			continue
		}
		rend := w.Get(id, component.CRenderable).(component.Renderable)
		list = append(list, drawable{order: rend.RenderOrder, id: id, x: p.X, y: p.Y, rend: rend})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].order != list[j].order {
			return list[i].order < list[j].order
		}
		return list[i].id < list[j].id
	})
	for _, d := range list {
		if sx, sy, on := r.camera.WorldToScreen(d.x, d.y); on {
			r.putString(sx, sy, d.rend.Glyph, tcell.StyleDefault.Foreground(d.rend.FGColor).Background(d.rend.BGColor))
		}
	}
}

// DrawCursorAt highlights a world tile during position selection.
func (r *Renderer) DrawCursorAt(x, y int) {
	if sx, sy, on := r.camera.WorldToScreen(x, y); on {
		r.putString(sx, sy, "X", tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow))
	}
}

// DrawMenu renders a centered titled option list with one highlighted row.
func (r *Renderer) DrawMenu(title string, options []string, selected int, titleColor, textColor tcell.Color) {
	sw, sh := r.screen.Size()
	top := sh/2 - len(options)/2 - 2
	r.putString((sw-runewidth.StringWidth(title))/2, top, title, tcell.StyleDefault.Foreground(titleColor).Bold(true))
	for i, opt := range options {
		style := tcell.StyleDefault.Foreground(textColor)
		if i == selected {
			style = style.Reverse(true)
		}
		r.putString((sw-runewidth.StringWidth(opt))/2, top+2+i, opt, style)
	}
}

// DrawPanel renders a left-aligned boxed list: a title row, a separator,
// and one row per line. Used by the item, character, and history screens.
func (r *Renderer) DrawPanel(title string, lines []string, titleColor tcell.Color) {
	r.putString(2, 1, title, tcell.StyleDefault.Foreground(titleColor).Bold(true))
	r.hline(2)
	for i, line := range lines {
		r.putString(2, 3+i, line, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
}

// DrawColoredLines renders pre-colored rows starting at a given row.
func (r *Renderer) DrawColoredLines(startRow int, lines []string, colors []tcell.Color) {
	for i, line := range lines {
		fg := tcell.ColorWhite
		if i < len(colors) {
			fg = colors[i]
		}
		r.putString(2, startRow+i, line, tcell.StyleDefault.Foreground(fg))
	}
}

func (r *Renderer) hline(y int) {
	sw, _ := r.screen.Size()
	for x := 0; x < sw; x++ {
		r.screen.SetContent(x, y, '─', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
}

// putString writes a string one rune at a time, advancing by each rune's
// terminal width so wide glyphs never smear the next cell.
func (r *Renderer) putString(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}
