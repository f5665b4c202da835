// Package inventory implements keyed backpack slots, equipment slots,
// and item application. Carried items are plain values inside the
// Inventory component — an item is only its own entity while it sits on
// the floor, so "exactly one of carried or positioned" holds by
// construction.
package inventory

import (
	"github.com/gdamore/tcell/v2"

	"spireward/internal/combat"
	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/gamemap"
	"spireward/internal/message"
	"spireward/internal/rng"
)

// OutcomeKind mirrors the action result taxonomy without importing it.
type OutcomeKind uint8

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeImpossible
	OutcomePoll // the item needs a position picked before it resolves
)

// Outcome reports what applying an item did.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

func success() Outcome                { return Outcome{Kind: OutcomeSuccess} }
func impossible(reason string) Outcome { return Outcome{Kind: OutcomeImpossible, Reason: reason} }

// Pickup moves a floor item entity into the actor's backpack, stacking
// onto an existing slot when the template allows it. The floor entity is
// destroyed on success.
func Pickup(w *ecs.World, log *message.Log, actor, itemEnt ecs.EntityID) (reason string, ok bool) {
	ic := w.Get(itemEnt, component.CItem)
	invc := w.Get(actor, component.CInventory)
	if ic == nil || invc == nil {
		return "You can not carry that.", false
	}
	item := ic.(component.Item)
	inv := invc.(component.Inventory)
	if item.Count <= 0 {
		item.Count = 1
	}

	if item.MaxCount > 1 {
		for key, held := range inv.Slots {
			if held.Name == item.Name && held.Count+item.Count <= held.MaxCount {
				held.Count += item.Count
				inv.Slots[key] = held
				w.Add(actor, inv)
				w.DestroyEntity(itemEnt)
				log.Addf(message.ColorNeutral, "You picked up the %s.", item.Name)
				return "", true
			}
		}
	}

	key := inv.NextKey()
	if key == 0 || len(inv.Slots) >= inv.Capacity {
		return "Your inventory is full.", false
	}
	item.AssignedKey = key
	inv.Slots[key] = item
	w.Add(actor, inv)
	w.DestroyEntity(itemEnt)
	log.Addf(message.ColorNeutral, "You picked up the %s.", item.Name)
	return "", true
}

// Drop removes the keyed item — unequipping it first if worn — and puts
// it back on the floor at the actor's feet as its own entity.
func Drop(w *ecs.World, log *message.Log, actor ecs.EntityID, key rune, mapID ecs.EntityID, x, y int) (reason string, ok bool) {
	invc := w.Get(actor, component.CInventory)
	if invc == nil {
		return "You carry nothing.", false
	}
	inv := invc.(component.Inventory)

	item, held := inv.Slots[key]
	if !held {
		// Maybe it's equipped: unequip straight to the floor.
		if eq, slot := equippedByKey(&inv, key); eq != nil {
			item = *eq
			clearEquipField(&inv, slot)
		} else {
			return "No such item.", false
		}
	} else {
		delete(inv.Slots, key)
	}
	w.Add(actor, inv)

	floorEnt := w.CreateEntity()
	w.AddTag(floorEnt, component.TagIsItem)
	w.Add(floorEnt, item)
	w.Add(floorEnt, component.Renderable{
		Glyph:       item.Graphic,
		FGColor:     tcell.ColorAqua,
		BGColor:     tcell.ColorDefault,
		RenderOrder: 5,
	})
	w.SetRelation(floorEnt, component.RelIsIn, mapID)
	w.Add(floorEnt, component.Position{X: x, Y: y})

	log.Addf(message.ColorNeutral, "You drop the %s!", item.Name)
	return "", true
}

// equippedByKey finds the equipment field holding the item with the
// given assigned key.
func equippedByKey(inv *component.Inventory, key rune) (*component.Item, component.EquipSlot) {
	for _, probe := range []struct {
		it   *component.Item
		slot component.EquipSlot
	}{
		{&inv.Head, component.SlotHead},
		{&inv.Body, component.SlotBody},
		{&inv.Feet, component.SlotFeet},
		{&inv.MainHand, component.SlotMainHand},
		{&inv.OffHand, component.SlotOffHand},
	} {
		if !probe.it.IsEmpty() && probe.it.AssignedKey == key {
			return probe.it, probe.slot
		}
	}
	return nil, component.SlotConsumable
}

func clearEquipField(inv *component.Inventory, slot component.EquipSlot) {
	switch slot {
	case component.SlotHead:
		inv.Head = component.Item{}
	case component.SlotBody:
		inv.Body = component.Item{}
	case component.SlotFeet:
		inv.Feet = component.Item{}
	case component.SlotMainHand, component.SlotTwoHand:
		inv.MainHand = component.Item{}
	case component.SlotOffHand:
		inv.OffHand = component.Item{}
	}
}

// Apply uses or toggles the keyed item: equipment equips/unequips,
// potions drink, scrolls either poll for a target position or strike the
// nearest visible enemy within range.
func Apply(w *ecs.World, cat *content.Catalog, s *rng.Stream, log *message.Log, actor ecs.EntityID, key rune, mapID ecs.EntityID, gmap *gamemap.GameMap) Outcome {
	invc := w.Get(actor, component.CInventory)
	if invc == nil {
		return impossible("You carry nothing.")
	}
	inv := invc.(component.Inventory)

	// Equipped items toggle off.
	if eq, slot := equippedByKey(&inv, key); eq != nil {
		item := *eq
		if _, taken := inv.Slots[item.AssignedKey]; taken {
			k := inv.NextKey()
			if k == 0 {
				return impossible("No room to unequip the " + item.Name + ".")
			}
			item.AssignedKey = k
		}
		clearEquipField(&inv, slot)
		inv.Slots[item.AssignedKey] = item
		w.Add(actor, inv)
		log.Addf(message.ColorNeutral, "You unequip the %s.", item.Name)
		return success()
	}

	item, held := inv.Slots[key]
	if !held {
		return impossible("No such item.")
	}

	if item.Slot != component.SlotConsumable {
		return equip(w, log, actor, inv, item)
	}

	switch item.Apply.Kind {
	case component.ApplyPotion:
		return drinkPotion(w, s, log, actor, inv, item)
	case component.ApplyTargetScroll:
		return Outcome{Kind: OutcomePoll}
	case component.ApplyRandomTargetScroll:
		return castAtRandomTarget(w, cat, s, log, actor, item, mapID, gmap)
	}
	return impossible("You can not use the " + item.Name + ".")
}

func equip(w *ecs.World, log *message.Log, actor ecs.EntityID, inv component.Inventory, item component.Item) Outcome {
	unstow := func(worn component.Item) bool {
		if worn.IsEmpty() {
			return true
		}
		if len(inv.Slots) >= inv.Capacity {
			return false
		}
		if _, taken := inv.Slots[worn.AssignedKey]; taken {
			k := inv.NextKey()
			if k == 0 {
				return false
			}
			worn.AssignedKey = k
		}
		inv.Slots[worn.AssignedKey] = worn
		return true
	}

	switch item.Slot {
	case component.SlotHead:
		if !unstow(inv.Head) {
			return impossible("No room to unequip the " + inv.Head.Name + ".")
		}
		inv.Head = item
	case component.SlotBody:
		if !unstow(inv.Body) {
			return impossible("No room to unequip the " + inv.Body.Name + ".")
		}
		inv.Body = item
	case component.SlotFeet:
		if !unstow(inv.Feet) {
			return impossible("No room to unequip the " + inv.Feet.Name + ".")
		}
		inv.Feet = item
	case component.SlotMainHand:
		if !unstow(inv.MainHand) {
			return impossible("No room to unequip the " + inv.MainHand.Name + ".")
		}
		inv.MainHand = item
	case component.SlotTwoHand:
		if !unstow(inv.MainHand) || !unstow(inv.OffHand) {
			return impossible("No room to free both hands.")
		}
		inv.MainHand = item
		inv.OffHand = component.Item{}
	case component.SlotOffHand:
		if inv.MainHand.Slot == component.SlotTwoHand && !inv.MainHand.IsEmpty() {
			return impossible("Your hands are full.")
		}
		if !unstow(inv.OffHand) {
			return impossible("No room to unequip the " + inv.OffHand.Name + ".")
		}
		inv.OffHand = item
	default:
		return impossible("You can not wear the " + item.Name + ".")
	}

	delete(inv.Slots, item.AssignedKey)
	w.Add(actor, inv)
	log.Addf(message.ColorNeutral, "You equip the %s.", item.Name)
	return success()
}

func drinkPotion(w *ecs.World, s *rng.Stream, log *message.Log, actor ecs.EntityID, inv component.Inventory, item component.Item) Outcome {
	d, err := combat.ParseDice(item.Apply.HealDice)
	if err != nil {
		return impossible("The " + item.Name + " has gone bad.")
	}
	healed := combat.Heal(w, actor, d.Roll(s))
	if healed <= 0 {
		return impossible("Your health is already full.")
	}
	log.Addf(message.ColorHealthRecover, "%s recovers %d HP.", combat.Name(w, actor), healed)
	consumeOne(w, actor, inv, item.AssignedKey)
	return success()
}

// consumeOne decrements a stack, dropping the slot when it empties.
func consumeOne(w *ecs.World, actor ecs.EntityID, inv component.Inventory, key rune) {
	item, ok := inv.Slots[key]
	if !ok {
		return
	}
	item.Count--
	if item.Count > 0 {
		inv.Slots[key] = item
	} else {
		delete(inv.Slots, key)
	}
	w.Add(actor, inv)
}
