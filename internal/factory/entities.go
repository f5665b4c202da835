// Package factory turns catalog templates into live ECS entities. Each
// World gets a Registry of template entities stamped from the catalog
// once; spawning is then ecs.World.Instantiate plus the wiring a fresh
// entity needs — map relation, position, AI policy, racial traits.
package factory

import (
	"github.com/gdamore/tcell/v2"

	"spireward/internal/component"
	"spireward/internal/content"
	"spireward/internal/ecs"
	"spireward/internal/effect"
	"spireward/internal/message"
)

// Render order bands: corpses under stairs under furniture under items under actors.
const (
	orderStairs    = 2
	orderFurniture = 3
	orderItem      = 5
	orderActor     = 10
)

// Registry holds the per-world template entities built from a Catalog.
type Registry struct {
	actors map[string]ecs.EntityID
	items  map[string]ecs.EntityID
}

// NewRegistry registers every catalog actor and item as a template entity
// in w. Templates carry tags and components but no position or relations.
func NewRegistry(w *ecs.World, cat *content.Catalog) *Registry {
	r := &Registry{
		actors: make(map[string]ecs.EntityID, len(cat.Actors)),
		items:  make(map[string]ecs.EntityID, len(cat.Items)),
	}
	for key, actor := range cat.Actors {
		id := w.CreateEntity()
		w.MarkTemplate(id)
		w.AddTag(id, component.TagIsActor)
		w.Add(id, actor)
		w.Add(id, component.Health{Current: actor.MaxHP, Max: actor.MaxHP})
		w.Add(id, component.Renderable{
			Glyph:       actor.Graphic,
			FGColor:     actorColor(key),
			BGColor:     tcell.ColorDefault,
			RenderOrder: orderActor,
		})
		r.actors[key] = id
	}
	for key, item := range cat.Items {
		id := w.CreateEntity()
		w.MarkTemplate(id)
		w.AddTag(id, component.TagIsItem)
		w.Add(id, item)
		w.Add(id, component.Renderable{
			Glyph:       item.Graphic,
			FGColor:     tcell.ColorAqua,
			BGColor:     tcell.ColorDefault,
			RenderOrder: orderItem,
		})
		r.items[key] = id
	}
	return r
}

// AdoptTemplates replaces whatever template entities a restored world
// carries with a fresh registry stamped from the catalog. Snapshots
// don't record which catalog key a template came from, so rebuilding is
// simpler than matching.
func AdoptTemplates(w *ecs.World, cat *content.Catalog) *Registry {
	for _, id := range w.Templates() {
		w.DestroyEntity(id)
	}
	return NewRegistry(w, cat)
}

func actorColor(key string) tcell.Color {
	if key == "player" {
		return tcell.ColorYellow
	}
	return tcell.ColorRed
}

// inMap relates id to its map before positioning it, so the position
// change hook indexes the entity under the right floor.
func inMap(w *ecs.World, id, mapID ecs.EntityID, x, y int) {
	w.SetRelation(id, component.RelIsIn, mapID)
	w.Add(id, component.Position{X: x, Y: y})
}

// SpawnActor instantiates the named actor template at (x, y) on mapID:
// blocking, alive, AI built from its AIBuilder key, racial traits
// realized. Returns NilEntity for an unknown key.
func (r *Registry) SpawnActor(w *ecs.World, cat *content.Catalog, log *message.Log, key string, mapID ecs.EntityID, x, y int) ecs.EntityID {
	tpl, ok := r.actors[key]
	if !ok {
		return ecs.NilEntity
	}
	id := w.Instantiate(tpl)
	w.AddTag(id, component.TagIsBlocking)
	w.AddTag(id, component.TagIsAlive)
	inMap(w, id, mapID, x, y)

	actor := w.Get(id, component.CActor).(component.Actor)
	switch actor.AIBuilder {
	case "hostile":
		w.Add(id, component.AI{Kind: component.AIHostile, SightRange: 8})
	case "spawner":
		w.Add(id, component.AI{
			Kind:          component.AISpawner,
			SpawnTemplate: actor.SpawnTemplate,
			Cooldown:      actor.SpawnRate,
		})
	}
	effect.AttachTraits(w, cat, log, id)
	return id
}

// SpawnPlayer instantiates the player template with its inventory and tag.
func (r *Registry) SpawnPlayer(w *ecs.World, cat *content.Catalog, log *message.Log, mapID ecs.EntityID, x, y int) ecs.EntityID {
	id := r.SpawnActor(w, cat, log, "player", mapID, x, y)
	if id == ecs.NilEntity {
		return id
	}
	w.AddTag(id, component.TagIsPlayer)
	w.Add(id, component.Inventory{Slots: map[rune]component.Item{}, Capacity: 26})
	return id
}

// SpawnItem instantiates the named item template on the floor at (x, y).
func (r *Registry) SpawnItem(w *ecs.World, key string, mapID ecs.EntityID, x, y int) ecs.EntityID {
	tpl, ok := r.items[key]
	if !ok {
		return ecs.NilEntity
	}
	id := w.Instantiate(tpl)
	inMap(w, id, mapID, x, y)
	return id
}

// SpawnStairs creates a stair entity linking this tile to destFloor.
func SpawnStairs(w *ecs.World, down bool, destFloor int, mapID ecs.EntityID, x, y int) ecs.EntityID {
	id := w.CreateEntity()
	if down {
		w.AddTag(id, component.TagIsStairsDown)
	} else {
		w.AddTag(id, component.TagIsStairsUp)
	}
	w.Add(id, component.Stairs{Down: down, DestFloor: destFloor})
	glyph := "<"
	if down {
		glyph = ">"
	}
	w.Add(id, component.Renderable{
		Glyph:       glyph,
		FGColor:     tcell.ColorWhite,
		BGColor:     tcell.ColorDefault,
		RenderOrder: orderStairs,
	})
	inMap(w, id, mapID, x, y)
	return id
}

// SpawnInscription etches flavor text onto a floor tile; stepping on it
// shows the text.
func SpawnInscription(w *ecs.World, text string, mapID ecs.EntityID, x, y int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, component.Inscription{Text: text})
	inMap(w, id, mapID, x, y)
	return id
}

// SpawnFurnishing places a one-time-bonus furniture piece.
func SpawnFurnishing(w *ecs.World, f component.Furniture, mapID ecs.EntityID, x, y int) ecs.EntityID {
	id := w.CreateEntity()
	w.Add(id, f)
	w.Add(id, component.Renderable{
		Glyph:       f.Glyph,
		FGColor:     tcell.ColorTan,
		BGColor:     tcell.ColorDefault,
		RenderOrder: orderFurniture,
	})
	inMap(w, id, mapID, x, y)
	return id
}
