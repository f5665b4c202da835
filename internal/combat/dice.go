package combat

import (
	"fmt"
	"strconv"
	"strings"

	"spireward/internal/rng"
)

// Dice is a parsed "NdM+K" (or "NdM-K") expression — N dice of M sides plus
// a flat modifier. The zero Dice rolls nothing plus zero.
type Dice struct {
	Count, Sides, Modifier int
}

// ParseDice parses strings like "2d6+1", "1d4", "3d8-2". An empty string
// parses to the zero Dice. Malformed input returns an error rather than
// silently rolling zero, so a bad catalog entry is caught at load time.
func ParseDice(s string) (Dice, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dice{}, nil
	}
	dIdx := strings.IndexByte(s, 'd')
	if dIdx < 0 {
		return Dice{}, fmt.Errorf("combat: dice notation %q missing 'd'", s)
	}
	count, err := strconv.Atoi(s[:dIdx])
	if err != nil {
		return Dice{}, fmt.Errorf("combat: dice notation %q has bad count: %w", s, err)
	}

	rest := s[dIdx+1:]
	sidesStr, modStr, hasMod := "", "", false
	if plus := strings.IndexByte(rest, '+'); plus >= 0 {
		sidesStr, modStr, hasMod = rest[:plus], rest[plus+1:], true
	} else if minus := strings.IndexByte(rest, '-'); minus >= 0 {
		sidesStr, modStr, hasMod = rest[:minus], "-"+rest[minus+1:], true
	} else {
		sidesStr = rest
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Dice{}, fmt.Errorf("combat: dice notation %q has bad sides: %w", s, err)
	}
	mod := 0
	if hasMod {
		mod, err = strconv.Atoi(modStr)
		if err != nil {
			return Dice{}, fmt.Errorf("combat: dice notation %q has bad modifier: %w", s, err)
		}
	}
	return Dice{Count: count, Sides: sides, Modifier: mod}, nil
}

// Roll draws Count dice of Sides each off s and adds Modifier.
func (d Dice) Roll(s *rng.Stream) int {
	if d.Sides <= 0 {
		return d.Modifier
	}
	total := d.Modifier
	for i := 0; i < d.Count; i++ {
		total += s.IntRange(1, d.Sides)
	}
	return total
}

// MustParseDice parses s and panics on error — for compiled-in catalog
// defaults where a malformed literal is a programming error, not bad data.
func MustParseDice(s string) Dice {
	d, err := ParseDice(s)
	if err != nil {
		panic(err)
	}
	return d
}
