// Package ecs implements the entity-component-relation world that every
// other subsystem reads and mutates. Entities are opaque ids; state lives
// in three independently queryable stores: tags, typed components, and
// named relations to other entities.
package ecs

// EntityID uniquely identifies an entity in the world.
type EntityID uint64

// NilEntity is the zero value — no valid entity has this ID.
const NilEntity EntityID = 0

// ComponentType is a small integer key used to store/retrieve components.
type ComponentType uint8

// Component is implemented by every data struct stored in the world.
type Component interface {
	Type() ComponentType
}

// Tag is a string atom attached to an entity (IsActor, IsAlive, IsBlocking...).
type Tag string

// RelationKey names a directed relation from one entity to another
// (IsIn, EquippedBy, Affecting...).
type RelationKey string
