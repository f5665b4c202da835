// Package mapexport dumps a generated floor as an SVG for eyeballing
// dungeon-generation changes without launching the game.
package mapexport

import (
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"spireward/internal/gamemap"
)

const cell = 8

var kindFill = map[gamemap.TileKind]string{
	gamemap.TileWall:       "#30343c",
	gamemap.TileFloor:      "#c8c2aa",
	gamemap.TileDoor:       "#8a5a2b",
	gamemap.TileStairsUp:   "#5a9ad4",
	gamemap.TileStairsDown: "#d45a5a",
	gamemap.TileGrass:      "#5a8a3c",
	gamemap.TileWater:      "#2c5f8a",
}

// WriteSVG renders one tile per cell. Rooms stay legible at 8px; stairs
// pop in red/blue.
func WriteSVG(path string, gmap *gamemap.GameMap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mapexport: %w", err)
	}
	defer f.Close()

	canvas := svg.New(f)
	canvas.Start(gmap.Width*cell, gmap.Height*cell)
	for y := 0; y < gmap.Height; y++ {
		for x := 0; x < gmap.Width; x++ {
			fill, ok := kindFill[gmap.At(x, y).Kind]
			if !ok {
				fill = "#000000"
			}
			canvas.Rect(x*cell, y*cell, cell, cell, "fill:"+fill)
		}
	}
	canvas.End()
	return nil
}
