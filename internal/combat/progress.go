package combat

import (
	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/message"
)

// StatChoice is the stat the player picks on level-up.
type StatChoice uint8

const (
	ChooseCON StatChoice = iota // +1 CON, +5 MaxHP, +5 HP
	ChooseSTR                   // +1 STR
	ChooseDEX                   // +1 DEX
)

// RequiredXP returns the XP needed to advance past the given level.
func RequiredXP(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 + (level-1)*150
}

// CanLevelUp reports whether the actor has banked enough XP to advance.
func CanLevelUp(w *ecs.World, id ecs.EntityID) bool {
	c := w.Get(id, component.CActor)
	if c == nil {
		return false
	}
	actor := c.(component.Actor)
	return actor.XP >= RequiredXP(actor.Level)
}

// LevelUp debits the required XP, advances the level, and applies the
// chosen stat gain. Callers gate on CanLevelUp first.
func LevelUp(w *ecs.World, log *message.Log, id ecs.EntityID, choice StatChoice) {
	c := w.Get(id, component.CActor)
	if c == nil {
		return
	}
	actor := c.(component.Actor)
	actor.XP -= RequiredXP(actor.Level)
	actor.Level++

	switch choice {
	case ChooseCON:
		actor.CON++
		if hc := w.Get(id, component.CHealth); hc != nil {
			hp := hc.(component.Health)
			hp.Max += 5
			hp.Current += 5
			if hp.Current > hp.Max {
				hp.Current = hp.Max
			}
			w.Add(id, hp)
		}
	case ChooseSTR:
		actor.STR++
	case ChooseDEX:
		actor.DEX++
	}
	w.Add(id, actor)
	log.Addf(message.ColorWelcome, "You advance to level %d!", actor.Level)
}
