package component

import "spireward/internal/ecs"

const CFurniture ecs.ComponentType = 15

// Furniture is a decorative entity that grants a one-time bonus when the
// player steps onto it. Used latches so the bonus never repeats.
type Furniture struct {
	Glyph      string
	Name       string
	HealHP     int
	BonusMaxHP int
	BonusATK   int
	BonusDEF   int
	Used       bool
}

func (Furniture) Type() ecs.ComponentType { return CFurniture }
