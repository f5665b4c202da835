package inventory

import (
	"spireward/internal/combat"
	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/effect"
	"spireward/internal/gamemap"
	"spireward/internal/message"
	"spireward/internal/rng"
	"strconv"
	"strings"
)

// AreaTiles resolves an item's area key at a center point: "single" is
// the one tile, "sphere:N" is every in-bounds tile within Euclidean
// radius N. Unknown keys fall back to single.
func AreaTiles(areaKey string, gmap *gamemap.GameMap, cx, cy int) [][2]int {
	radius := 0
	if rest, ok := strings.CutPrefix(areaKey, "sphere:"); ok {
		if r, err := strconv.Atoi(rest); err == nil {
			radius = r
		}
	}
	if radius <= 0 {
		if gmap.InBounds(cx, cy) {
			return [][2]int{{cx, cy}}
		}
		return nil
	}
	var tiles [][2]int
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if gmap.InBounds(cx+dx, cy+dy) {
				tiles = append(tiles, [2]int{cx + dx, cy + dy})
			}
		}
	}
	return tiles
}

// CastAtPosition resolves a pending target scroll at the chosen tile.
// Called by the position-select state after the player picks a target;
// the scroll is consumed only when the cast succeeds.
func CastAtPosition(w *ecs.World, cat *content.Catalog, s *rng.Stream, log *message.Log, caster ecs.EntityID, key rune, mapID ecs.EntityID, gmap *gamemap.GameMap, x, y int) Outcome {
	invc := w.Get(caster, component.CInventory)
	if invc == nil {
		return impossible("You carry nothing.")
	}
	inv := invc.(component.Inventory)
	item, held := inv.Slots[key]
	if !held {
		return impossible("No such item.")
	}
	if !gmap.InBounds(x, y) || !gmap.At(x, y).Visible {
		return impossible("You cannot target what you cannot see.")
	}

	area := AreaTiles(item.Apply.AreaKey, gmap, x, y)
	inArea := make(map[[2]int]bool, len(area))
	for _, t := range area {
		inArea[t] = true
	}

	var targets []ecs.EntityID
	for _, id := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsActor, component.TagIsAlive},
		Components: []ecs.ComponentType{component.CPosition},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	}) {
		p := w.Get(id, component.CPosition).(component.Position)
		if inArea[[2]int{p.X, p.Y}] {
			targets = append(targets, id)
		}
	}

	// Single-point entity spells (confusion) demand somebody to target,
	// and never the caster.
	if item.Apply.Damage <= 0 {
		var victim ecs.EntityID
		for _, t := range targets {
			if t != caster {
				victim = t
				break
			}
		}
		if victim == ecs.NilEntity {
			return impossible("You must select an enemy to target.")
		}
		effect.Add(w, cat, log, item.Apply.EffectTemplate, victim, caster)
		consumeOne(w, caster, inv, key)
		return success()
	}

	if len(targets) == 0 {
		log.Add("The "+spellNoun(item)+" misses!", message.ColorNeutral)
		consumeOne(w, caster, inv, key)
		return success()
	}
	for _, t := range targets {
		dealSpellDamage(w, cat, log, caster, item, t,
			"The %s is engulfed in a fiery explosion, taking %d damage!")
	}
	consumeOne(w, caster, inv, key)
	return success()
}

func castAtRandomTarget(w *ecs.World, cat *content.Catalog, s *rng.Stream, log *message.Log, caster ecs.EntityID, item component.Item, mapID ecs.EntityID, gmap *gamemap.GameMap) Outcome {
	pos := w.Get(caster, component.CPosition)
	if pos == nil || gmap == nil {
		return impossible("No enemy is close enough to strike.")
	}
	cp := pos.(component.Position)

	var best ecs.EntityID
	bestDist := item.Apply.MaxRange + 1
	for _, id := range w.AllOf(ecs.QuerySpec{
		Tags:       []ecs.Tag{component.TagIsActor, component.TagIsAlive},
		Components: []ecs.ComponentType{component.CPosition, component.CAI},
		Relations:  map[ecs.RelationKey]ecs.EntityID{component.RelIsIn: mapID},
	}) {
		p := w.Get(id, component.CPosition).(component.Position)
		if !gmap.InBounds(p.X, p.Y) || !gmap.At(p.X, p.Y).Visible {
			continue
		}
		d := chebyshev(cp.X-p.X, cp.Y-p.Y)
		if d < bestDist {
			best, bestDist = id, d
		}
	}
	if best == ecs.NilEntity {
		return impossible("No enemy is close enough to strike.")
	}

	invc := w.Get(caster, component.CInventory)
	if invc == nil {
		return impossible("You carry nothing.")
	}
	dealSpellDamage(w, cat, log, caster, item, best,
		"A lighting bolt strikes the %s with a loud thunder, for %d damage!")
	consumeOne(w, caster, invc.(component.Inventory), item.AssignedKey)
	return success()
}

// dealSpellDamage applies a spell's direct damage scaled by the target's
// resistance to the spell's damage type, then attaches any rider effect.
func dealSpellDamage(w *ecs.World, cat *content.Catalog, log *message.Log, caster ecs.EntityID, item component.Item, target ecs.EntityID, format string) {
	damage := item.Apply.Damage
	var res component.ResistanceLevel = component.ResNone
	if c := w.Get(target, component.CActor); c != nil {
		res = c.(component.Actor).Resistance(item.Apply.DamageType)
	}
	name := combat.Name(w, target)
	switch res {
	case component.ResWeak:
		damage = int(float64(damage) * 1.5)
	case component.ResModerate:
		damage = int(float64(damage) * 0.66)
	case component.ResHigh:
		damage = int(float64(damage) * 0.33)
	case component.ResImmune:
		log.Addf(message.ColorPlayerAtk, "The %s is unharmed!", name)
		return
	case component.ResHealed:
		healed := combat.Heal(w, target, int(float64(damage)*0.33))
		log.Addf(message.ColorPlayerAtk, "The %s drinks in the blast, healing %d hp!", name, healed)
		return
	}

	log.Addf(message.ColorPlayerAtk, format, name, damage)
	combat.ApplyDamage(w, log, target, damage, caster)
	if item.Apply.EffectTemplate != "" && w.HasTag(target, component.TagIsAlive) {
		effect.Add(w, cat, log, item.Apply.EffectTemplate, target, caster)
	}
}

func spellNoun(item component.Item) string {
	if strings.Contains(item.Name, "fireball") {
		return "fireball"
	}
	return "blast"
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
