package component

import "spireward/internal/ecs"

const CDelayedAction ecs.ComponentType = 18

// DelayedAction remembers an action an actor committed to but could not
// yet afford — the scheduler resumes it on the next tick instead of
// asking for new input. Kind mirrors the action package's variant tag;
// the payload fields cover every action a player can defer.
type DelayedAction struct {
	Kind    uint8
	DX, DY  int
	ItemKey rune
}

func (DelayedAction) Type() ecs.ComponentType { return CDelayedAction }
