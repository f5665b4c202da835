// Package ai chooses actions for non-player actors. Each policy is a
// variant of the AI component; NextAction reads the actor's state,
// mutates policy bookkeeping (paths, confusion countdown, spawner
// latches), and returns the action the scheduler should price and run.
package ai

import (
	"spireward/internal/action"
	"spireward/internal/combat"
	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/message"
	"spireward/internal/pathfind"
)

var confusedDirs = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// NextAction returns what the actor does next. Actors without an AI
// component wait.
func NextAction(ctx *action.Context, actor ecs.EntityID) action.Action {
	c := ctx.World.Get(actor, component.CAI)
	if c == nil {
		return action.Wait()
	}
	aiComp := c.(component.AI)
	switch aiComp.Kind {
	case component.AIHostile:
		return hostile(ctx, actor, aiComp)
	case component.AIConfused:
		return confused(ctx, actor, aiComp)
	case component.AISpawner:
		return spawner(ctx, actor, aiComp)
	}
	return action.Wait()
}

// hostile pursues the player: adjacent and seen means attack, seen at
// range means re-path toward the player, and a stored path is followed
// until exhausted even after losing sight.
func hostile(ctx *action.Context, actor ecs.EntityID, aiComp component.AI) action.Action {
	player := findPlayer(ctx)
	if player == ecs.NilEntity {
		return action.Wait()
	}
	mapID, gmap := ctx.MapOf(actor)
	if gmap == nil {
		return action.Wait()
	}
	pos := ctx.Position(actor)
	target := ctx.Position(player)
	dx, dy := target.X-pos.X, target.Y-pos.Y

	seen := gmap.InBounds(pos.X, pos.Y) && gmap.At(pos.X, pos.Y).Visible
	if seen {
		if chebyshev(dx, dy) <= 1 {
			return action.Melee(dx, dy)
		}
		path := pathfind.Find(gmap,
			pathfind.Point{X: pos.X, Y: pos.Y},
			pathfind.Point{X: target.X, Y: target.Y},
			func(x, y int) bool { return blockedByOther(ctx, mapID, actor, x, y) },
		)
		aiComp.Path = aiComp.Path[:0]
		for _, p := range path {
			aiComp.Path = append(aiComp.Path, [2]int{p.X, p.Y})
		}
		ctx.World.Add(actor, aiComp)
	}
	if len(aiComp.Path) > 0 {
		return action.FollowPath()
	}
	return action.Wait()
}

// confused stumbles in random directions until the countdown expires,
// then restores the policy it displaced.
func confused(ctx *action.Context, actor ecs.EntityID, aiComp component.AI) action.Action {
	if aiComp.TurnsRemaining <= 0 {
		ctx.Log.Addf(message.ColorStatusEffect, "The %s is no longer confused.", combat.Name(ctx.World, actor))
		ctx.World.Add(actor, component.AI{
			Kind:          aiComp.RestoreKind,
			SightRange:    aiComp.RestoreSightRange,
			SpawnTemplate: aiComp.SpawnTemplate,
			Cooldown:      aiComp.Cooldown,
			Timer:         aiComp.Timer,
			Initiated:     aiComp.Initiated,
		})
		return action.Wait()
	}
	aiComp.TurnsRemaining--
	ctx.World.Add(actor, aiComp)
	dir := confusedDirs[ctx.RNG.Pick(len(confusedDirs))]
	return action.Bump(dir[0], dir[1])
}

// spawner latches on the first time the player sees its tile and from
// then on keeps producing SpawnEntity ticks, even unobserved.
func spawner(ctx *action.Context, actor ecs.EntityID, aiComp component.AI) action.Action {
	_, gmap := ctx.MapOf(actor)
	if gmap == nil {
		return action.Wait()
	}
	pos := ctx.Position(actor)
	if gmap.InBounds(pos.X, pos.Y) && gmap.At(pos.X, pos.Y).Visible && !aiComp.Initiated {
		aiComp.Initiated = true
		ctx.World.Add(actor, aiComp)
	}
	if aiComp.Initiated {
		return action.SpawnEntity()
	}
	return action.Wait()
}

func findPlayer(ctx *action.Context) ecs.EntityID {
	for _, id := range ctx.World.EntitiesWithTag(component.TagIsPlayer) {
		return id
	}
	return ecs.NilEntity
}

func blockedByOther(ctx *action.Context, mapID, self ecs.EntityID, x, y int) bool {
	for _, id := range ctx.Index.At(mapID, x, y) {
		if id != self && ctx.World.HasTag(id, component.TagIsBlocking) {
			return true
		}
	}
	return false
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
