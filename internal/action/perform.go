package action

import (
	"fmt"

	"spireward/internal/combat"
	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/effect"
	"spireward/internal/inventory"
	"spireward/internal/message"
)

// Perform resolves one action for one actor against the world. Every
// branch either mutates nothing and returns Impossible, or applies its
// full mutation and returns Success/Poll, with two exceptions: a
// FollowPath whose step fails still pops or clears the stored path, and a
// MoveLevel clears the old floor's visibility before it can find the way
// sealed.
func Perform(ctx *Context, actor ecs.EntityID, a Action) Result {
	switch a.Kind {
	case KindWait:
		return Success()
	case KindMove:
		return performMove(ctx, actor, a.DX, a.DY)
	case KindMelee:
		return performMelee(ctx, actor, a.DX, a.DY)
	case KindBump:
		return performBump(ctx, actor, a.DX, a.DY)
	case KindFollowPath:
		return performFollowPath(ctx, actor)
	case KindPickupItem:
		return performPickup(ctx, actor)
	case KindDropItem:
		return performDrop(ctx, actor, a.ItemKey)
	case KindApplyItem:
		return performApply(ctx, actor, a.ItemKey)
	case KindTakeStairs:
		return performTakeStairs(ctx, actor, a.Down)
	case KindMoveLevel:
		return performMoveLevel(ctx, actor, a)
	case KindSpawnEntity:
		return performSpawn(ctx, actor)
	case KindCastAt:
		return performCastAt(ctx, actor, a)
	}
	return Impossible("Nothing happens.")
}

func performMove(ctx *Context, actor ecs.EntityID, dx, dy int) Result {
	if dx == 0 && dy == 0 {
		return Success()
	}
	mapID, gmap := ctx.MapOf(actor)
	if gmap == nil {
		return Impossible("Nowhere to move.")
	}
	pos := ctx.Position(actor)
	nx, ny := pos.X+dx, pos.Y+dy
	if !gmap.InBounds(nx, ny) {
		return Impossible("Out of bounds.")
	}
	if !gmap.IsWalkable(nx, ny) {
		return Impossible(fmt.Sprintf("Blocked by %s.", gmap.At(nx, ny).Kind.Name()))
	}
	for _, other := range ctx.Index.At(mapID, nx, ny) {
		if other != actor && ctx.World.HasTag(other, component.TagIsBlocking) {
			return Impossible("Something is in the way.")
		}
	}

	ctx.World.Add(actor, component.Position{X: nx, Y: ny})

	if ctx.World.HasTag(actor, component.TagIsPlayer) {
		noteTileFeatures(ctx, actor, mapID, nx, ny)
	}
	return Success()
}

// noteTileFeatures handles the player stepping onto flavor entities:
// wall inscriptions are read aloud, furnishings grant their one-time
// bonus.
func noteTileFeatures(ctx *Context, actor, mapID ecs.EntityID, x, y int) {
	for _, id := range ctx.Index.At(mapID, x, y) {
		if c := ctx.World.Get(id, component.CInscription); c != nil {
			ctx.Log.Addf(message.ColorWelcome, "Scratched into the stone: %q", c.(component.Inscription).Text)
		}
		if c := ctx.World.Get(id, component.CFurniture); c != nil {
			applyFurniture(ctx, actor, id, c.(component.Furniture))
		}
	}
}

func applyFurniture(ctx *Context, actor, furnID ecs.EntityID, f component.Furniture) {
	if f.Used {
		return
	}
	if f.HealHP > 0 {
		if healed := combat.Heal(ctx.World, actor, f.HealHP); healed > 0 {
			ctx.Log.Addf(message.ColorHealthRecover, "The %s mends you for %d HP.", f.Name, healed)
		}
	}
	if f.BonusMaxHP > 0 {
		if c := ctx.World.Get(actor, component.CHealth); c != nil {
			hp := c.(component.Health)
			hp.Max += f.BonusMaxHP
			hp.Current += f.BonusMaxHP
			ctx.World.Add(actor, hp)
			ctx.Log.Addf(message.ColorHealthRecover, "The %s toughens you. (+%d max HP)", f.Name, f.BonusMaxHP)
		}
	}
	if f.BonusATK > 0 {
		effect.AddInstance(ctx.World, component.EffectInstance{
			Kind: component.EffectAttackBoost, Magnitude: f.BonusATK, TurnsRemaining: -1,
		}, actor)
		ctx.Log.Addf(message.ColorStatusEffect, "The %s sharpens your strikes. (+%d attack)", f.Name, f.BonusATK)
	}
	if f.BonusDEF > 0 {
		effect.AddInstance(ctx.World, component.EffectInstance{
			Kind: component.EffectDefenseBoost, Magnitude: f.BonusDEF, TurnsRemaining: -1,
		}, actor)
		ctx.Log.Addf(message.ColorStatusEffect, "The %s hardens your guard. (+%d defense)", f.Name, f.BonusDEF)
	}
	f.Used = true
	ctx.World.Add(furnID, f)
}

func performMelee(ctx *Context, actor ecs.EntityID, dx, dy int) Result {
	mapID, gmap := ctx.MapOf(actor)
	if gmap == nil {
		return Impossible("Nothing there to attack.")
	}
	pos := ctx.Position(actor)
	target := ctx.LivingAt(mapID, pos.X+dx, pos.Y+dy)
	if target == ecs.NilEntity {
		return Impossible("Nothing there to attack.")
	}

	res := combat.MeleeDamage(ctx.World, ctx.RNG, ctx.Log, actor, target)
	if res.Hit {
		effect.FireTraits(ctx.World, ctx.Catalog, ctx.RNG, ctx.Log, component.OnAttack, actor, target)
		if ctx.World.HasTag(target, component.TagIsAlive) {
			effect.FireTraits(ctx.World, ctx.Catalog, ctx.RNG, ctx.Log, component.OnDefend, target, actor)
		}
	}
	return Success()
}

// performBump dispatches by performing: a living entity in the way means
// an attack, otherwise it is a move. Wait on the zero direction.
func performBump(ctx *Context, actor ecs.EntityID, dx, dy int) Result {
	if dx == 0 && dy == 0 {
		return Success()
	}
	mapID, gmap := ctx.MapOf(actor)
	if gmap == nil {
		return Impossible("Nowhere to go.")
	}
	pos := ctx.Position(actor)
	if ctx.LivingAt(mapID, pos.X+dx, pos.Y+dy) != ecs.NilEntity {
		return performMelee(ctx, actor, dx, dy)
	}
	return performMove(ctx, actor, dx, dy)
}

// performFollowPath consumes one step of the actor's stored path. Any
// failed step discards the rest — paths go stale the moment the world
// disagrees with them.
func performFollowPath(ctx *Context, actor ecs.EntityID) Result {
	c := ctx.World.Get(actor, component.CAI)
	if c == nil {
		return Impossible("No path.")
	}
	aiComp := c.(component.AI)
	if len(aiComp.Path) == 0 {
		return Impossible("No path.")
	}
	next := aiComp.Path[0]
	aiComp.Path = aiComp.Path[1:]
	ctx.World.Add(actor, aiComp)

	pos := ctx.Position(actor)
	res := performMove(ctx, actor, next[0]-pos.X, next[1]-pos.Y)
	if res.Kind != ResultSuccess {
		aiComp.Path = nil
		ctx.World.Add(actor, aiComp)
	}
	return res
}

func performPickup(ctx *Context, actor ecs.EntityID) Result {
	mapID, _ := ctx.MapOf(actor)
	pos := ctx.Position(actor)
	for _, id := range ctx.Index.At(mapID, pos.X, pos.Y) {
		if ctx.World.HasTag(id, component.TagIsItem) {
			if reason, ok := inventory.Pickup(ctx.World, ctx.Log, actor, id); !ok {
				return Impossible(reason)
			}
			return Success()
		}
	}
	return Impossible("There is nothing here to pick up.")
}

func performDrop(ctx *Context, actor ecs.EntityID, key rune) Result {
	mapID, _ := ctx.MapOf(actor)
	pos := ctx.Position(actor)
	if reason, ok := inventory.Drop(ctx.World, ctx.Log, actor, key, mapID, pos.X, pos.Y); !ok {
		return Impossible(reason)
	}
	return Success()
}

func performApply(ctx *Context, actor ecs.EntityID, key rune) Result {
	mapID, gmap := ctx.MapOf(actor)
	out := inventory.Apply(ctx.World, ctx.Catalog, ctx.RNG, ctx.Log, actor, key, mapID, gmap)
	switch out.Kind {
	case inventory.OutcomeImpossible:
		return Impossible(out.Reason)
	case inventory.OutcomePoll:
		return Result{Kind: ResultPoll, Poll: PollPositionSelect, PollItem: key}
	}
	return Success()
}

func performTakeStairs(ctx *Context, actor ecs.EntityID, down bool) Result {
	mapID, _ := ctx.MapOf(actor)
	pos := ctx.Position(actor)

	wantTag := component.TagIsStairsUp
	dirWord := "up"
	if down {
		wantTag = component.TagIsStairsDown
		dirWord = "down"
	}
	var stairs ecs.EntityID
	for _, id := range ctx.Index.At(mapID, pos.X, pos.Y) {
		if ctx.World.HasTag(id, wantTag) {
			stairs = id
			break
		}
	}
	if stairs == ecs.NilEntity {
		return Impossible(fmt.Sprintf("There are no %sward stairs here!", dirWord))
	}
	sc := ctx.World.Get(stairs, component.CStairs)
	if sc == nil || sc.(component.Stairs).DestFloor <= 0 {
		return Impossible("You can not leave yet.")
	}

	verb := "ascend"
	if down {
		verb = "descend"
	}
	return performMoveLevel(ctx, actor, Action{
		Kind:       KindMoveLevel,
		DestFloor:  sc.(component.Stairs).DestFloor,
		ArriveDown: !down, // descending arrives on the up-stair, and vice versa
		Transition: fmt.Sprintf("You %s the stairs.", verb),
	})
}

// performMoveLevel owns the clear-then-build discipline of a level
// transition: visibility is zeroed first, the destination floor is
// loaded or generated, then the actor lands on the reverse stair.
func performMoveLevel(ctx *Context, actor ecs.EntityID, a Action) Result {
	ctx.Levels.UpdateFOV(actor, true)

	destMap := ctx.Levels.MapEntity(a.DestFloor)
	if destMap == ecs.NilEntity {
		return Impossible("The way is sealed.")
	}
	arriveTag := component.TagIsStairsUp
	if a.ArriveDown {
		arriveTag = component.TagIsStairsDown
	}
	var landing ecs.EntityID
	for _, id := range ctx.World.AllOf(ecs.QuerySpec{
		Tags:      []ecs.Tag{arriveTag},
		Relations: map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: destMap},
	}) {
		landing = id
		break
	}
	if landing == ecs.NilEntity {
		return Impossible("The way is sealed.")
	}

	if a.Transition != "" {
		ctx.Log.Add(a.Transition, message.ColorWelcome)
	}
	dest := ctx.Position(landing)
	ctx.World.SetRelation(actor, component.RelIsIn, destMap)
	ctx.World.Add(actor, component.Position{X: dest.X, Y: dest.Y})
	return Success()
}

func performCastAt(ctx *Context, actor ecs.EntityID, a Action) Result {
	mapID, gmap := ctx.MapOf(actor)
	if gmap == nil {
		return Impossible("You cannot target what you cannot see.")
	}
	out := inventory.CastAtPosition(ctx.World, ctx.Catalog, ctx.RNG, ctx.Log, actor, a.ItemKey, mapID, gmap, a.DX, a.DY)
	if out.Kind == inventory.OutcomeImpossible {
		return Impossible(out.Reason)
	}
	return Success()
}

// performSpawn ticks a spawner's timer and, once it reaches the spawn
// rate, places a fresh copy of the spawn template on a free tile within
// 3 tiles of the spawner.
func performSpawn(ctx *Context, actor ecs.EntityID) Result {
	c := ctx.World.Get(actor, component.CAI)
	if c == nil {
		return Success()
	}
	aiComp := c.(component.AI)
	aiComp.Timer++
	if aiComp.Timer < aiComp.Cooldown {
		ctx.World.Add(actor, aiComp)
		return Success()
	}

	mapID, gmap := ctx.MapOf(actor)
	if gmap == nil {
		return Success()
	}
	pos := ctx.Position(actor)
	for try := 0; try < 10; try++ {
		nx := pos.X + ctx.RNG.IntRange(-3, 3)
		ny := pos.Y + ctx.RNG.IntRange(-3, 3)
		if !gmap.InBounds(nx, ny) || !gmap.IsWalkable(nx, ny) {
			continue
		}
		if ctx.Index.Blocked(ctx.World, mapID, nx, ny) {
			continue
		}
		ctx.Registry.SpawnActor(ctx.World, ctx.Catalog, ctx.Log, aiComp.SpawnTemplate, mapID, nx, ny)
		aiComp.Timer = 0
		break
	}
	ctx.World.Add(actor, aiComp)
	return Success()
}
