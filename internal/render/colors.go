package render

import "github.com/gdamore/tcell/v2"

// FloorTheme colors one floor's terrain so deeper floors read differently
// without touching the glyph set.
type FloorTheme struct {
	Wall   tcell.Color
	Floor  tcell.Color
	Grass  tcell.Color
	Water  tcell.Color
	Stairs tcell.Color
}

// themes cycles by floor number, ordered roughly cold-to-hot to suggest
// descent.
var themes = []FloorTheme{
	{Wall: tcell.ColorSlateGray, Floor: tcell.ColorDarkGray, Grass: tcell.ColorGreen, Water: tcell.ColorBlue, Stairs: tcell.ColorWhite},
	{Wall: tcell.ColorSteelBlue, Floor: tcell.ColorDarkGray, Grass: tcell.ColorDarkGreen, Water: tcell.ColorNavy, Stairs: tcell.ColorWhite},
	{Wall: tcell.ColorDarkGoldenrod, Floor: tcell.ColorDarkGray, Grass: tcell.ColorOliveDrab, Water: tcell.ColorTeal, Stairs: tcell.ColorWhite},
	{Wall: tcell.ColorIndianRed, Floor: tcell.ColorDarkGray, Grass: tcell.ColorDarkOliveGreen, Water: tcell.ColorDarkCyan, Stairs: tcell.ColorWhite},
}

// dimFG is the color of remembered-but-unseen terrain and ghosts.
var dimFG = tcell.ColorDimGray

// ThemeFor returns the theme for a 1-indexed floor number.
func ThemeFor(floor int) FloorTheme {
	if floor < 1 {
		floor = 1
	}
	return themes[(floor-1)%len(themes)]
}
