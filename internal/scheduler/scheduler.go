// Package scheduler advances the world one energy tick at a time. Every
// actor banks Speed energy per tick and pays an adjusted cost per action;
// the player performs at most one action per tick while AI actors drain
// as much banked energy as their actions cost, which is what makes a
// fast enemy visibly cover two tiles per player step. Effects tick at
// the end of each individual actor's action sequence, not once per
// scheduler tick, so a damage-over-time kill lands while its blame is
// still meaningful.
package scheduler

import (
	"spireward/internal/action"
	"spireward/internal/ai"
	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/effect"
	"spireward/internal/message"
)

// OutcomeKind classifies what the player segment of a tick produced.
type OutcomeKind uint8

const (
	OutNoAction OutcomeKind = iota // no input, no delayed action: don't advance the world
	OutActed                       // an action landed; enemies take their turns
	OutDeferred                    // action stored as delayed; enemies take their turns
	OutRefunded                    // impossible action: player re-prompts, enemies frozen
	OutPoll                        // hand control to another state, turn not spent
	OutDead                        // the player is dead; input is ignored
)

// Outcome is the result of PlayerTurn.
type Outcome struct {
	Kind     OutcomeKind
	Poll     action.PollState
	PollItem rune
}

// AdjustedCost prices an action for an actor: moves and melee scale with
// the actor's move/attack speed, everything else costs its face value.
// Never less than 1, so energy loops always terminate.
func AdjustedCost(w *ecs.World, actorID ecs.EntityID, a action.Action) int {
	cost := a.Cost()
	if c := w.Get(actorID, component.CActor); c != nil {
		actor := c.(component.Actor)
		switch a.Kind {
		case action.KindMove:
			if actor.MoveSpeedCost > 0 {
				cost = actor.MoveSpeedCost
			}
		case action.KindMelee:
			if actor.AttackSpeedCost > 0 {
				cost = actor.AttackSpeedCost
			}
		}
	}
	if cost < 1 {
		cost = 1
	}
	return cost
}

// PlayerTurn runs the player segment of one tick. chosen is the action
// derived from input this frame, or nil when no input mapped to one; a
// stored DelayedAction always wins over fresh input.
func PlayerTurn(ctx *action.Context, player ecs.EntityID, chosen *action.Action) Outcome {
	w := ctx.World
	if hc := w.Get(player, component.CHealth); hc != nil && hc.(component.Health).Current <= 0 {
		return Outcome{Kind: OutDead}
	}

	var act action.Action
	if d := w.Get(player, component.CDelayedAction); d != nil {
		act = action.FromDelayed(d.(component.DelayedAction))
	} else if chosen != nil {
		act = *chosen
	} else {
		return Outcome{Kind: OutNoAction}
	}

	cost := AdjustedCost(w, player, act)
	performed := false

	if energyOf(w, player) >= cost {
		res := action.Perform(ctx, player, act)
		switch res.Kind {
		case action.ResultImpossible:
			ctx.Log.Add(res.Reason, message.ColorImpossible)
			w.Remove(player, component.CDelayedAction)
			return Outcome{Kind: OutRefunded}
		case action.ResultPoll:
			return Outcome{Kind: OutPoll, Poll: res.Poll, PollItem: res.PollItem}
		}
		addEnergy(w, player, -cost)
		w.Remove(player, component.CDelayedAction)
		performed = true
	} else {
		w.Add(player, act.ToDelayed())
	}

	addEnergy(w, player, speedOf(w, player))
	if performed {
		effect.Tick(w, ctx.Log, player)
		return Outcome{Kind: OutActed}
	}
	return Outcome{Kind: OutDeferred}
}

// EnemyTurns advances every AI actor on the player's current map. Each
// actor keeps acting while it can afford its next action, then banks its
// speed; actors on other floors are frozen by construction because the
// query never sees them.
func EnemyTurns(ctx *action.Context, player ecs.EntityID) {
	w := ctx.World
	mapID, ok := w.GetRelation(player, component.RelIsIn)
	if !ok {
		return
	}
	for _, id := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsAlive},
		Components: []ecs.ComponentType{component.CAI},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	}) {
		if !w.Alive(id) || !w.HasTag(id, component.TagIsAlive) {
			continue
		}
		performed := false
		act := ai.NextAction(ctx, id)
		cost := AdjustedCost(w, id, act)
		for energyOf(w, id) >= cost {
			action.Perform(ctx, id, act)
			addEnergy(w, id, -cost)
			performed = true
			if !w.HasTag(id, component.TagIsAlive) {
				break
			}
			act = ai.NextAction(ctx, id)
			cost = AdjustedCost(w, id, act)
		}
		addEnergy(w, id, speedOf(w, id))
		if performed && w.HasTag(id, component.TagIsAlive) {
			effect.Tick(w, ctx.Log, id)
		}
	}
}

func energyOf(w *ecs.World, id ecs.EntityID) int {
	if c := w.Get(id, component.CActor); c != nil {
		return c.(component.Actor).Energy
	}
	return 0
}

func speedOf(w *ecs.World, id ecs.EntityID) int {
	if c := w.Get(id, component.CActor); c != nil {
		return c.(component.Actor).Speed
	}
	return 0
}

func addEnergy(w *ecs.World, id ecs.EntityID, delta int) {
	c := w.Get(id, component.CActor)
	if c == nil {
		return
	}
	actor := c.(component.Actor)
	actor.Energy += delta
	w.Add(id, actor)
}
