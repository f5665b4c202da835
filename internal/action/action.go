// Package action defines the tagged-variant action type every actor —
// player and AI alike — performs through, and the dispatcher that
// resolves each variant against the world. An action is data; Perform is
// the only place behavior lives, so the scheduler can price an action
// before running it and the delayed-action component can store one
// across turns.
package action

import (
	"spireward/internal/component"
)

// Kind discriminates the Action variant.
type Kind uint8

const (
	KindWait Kind = iota
	KindMove
	KindMelee
	KindBump
	KindFollowPath
	KindPickupItem
	KindDropItem
	KindApplyItem
	KindTakeStairs
	KindMoveLevel
	KindSpawnEntity
	KindCastAt
)

// DefaultCost is the energy price of an action unless overridden.
const DefaultCost = 100

// Action is one atomic thing an actor does. Only the fields the Kind
// needs are set; the rest stay zero.
type Action struct {
	Kind Kind

	DX, DY int // Move/Melee/Bump direction

	ItemKey rune // DropItem/ApplyItem inventory slot

	Down bool // TakeStairs direction

	// MoveLevel
	DestFloor   int
	ArriveDown  bool   // place the actor on the destination's down-stair
	Transition  string // flavor message logged on arrival

	CostOverride int // 0 means DefaultCost
}

// Cost returns the unadjusted energy price. Speed-based adjustment
// happens in the scheduler, which knows the actor.
func (a Action) Cost() int {
	if a.CostOverride > 0 {
		return a.CostOverride
	}
	return DefaultCost
}

// Wait returns the do-nothing action.
func Wait() Action { return Action{Kind: KindWait} }

// Move returns a one-step move in (dx, dy).
func Move(dx, dy int) Action { return Action{Kind: KindMove, DX: dx, DY: dy} }

// Melee returns an attack on the adjacent tile in (dx, dy).
func Melee(dx, dy int) Action { return Action{Kind: KindMelee, DX: dx, DY: dy} }

// Bump returns the context-sensitive move-or-attack in (dx, dy).
func Bump(dx, dy int) Action { return Action{Kind: KindBump, DX: dx, DY: dy} }

// FollowPath returns the consume-one-path-step action.
func FollowPath() Action { return Action{Kind: KindFollowPath} }

// PickupItem returns the pick-up-from-floor action.
func PickupItem() Action { return Action{Kind: KindPickupItem} }

// DropItem returns the drop action for the inventory slot key.
func DropItem(key rune) Action { return Action{Kind: KindDropItem, ItemKey: key} }

// ApplyItem returns the use/equip action for the inventory slot key.
func ApplyItem(key rune) Action { return Action{Kind: KindApplyItem, ItemKey: key} }

// TakeStairs returns the stair-traversal action.
func TakeStairs(down bool) Action { return Action{Kind: KindTakeStairs, Down: down} }

// SpawnEntity returns the spawner tick action.
func SpawnEntity() Action { return Action{Kind: KindSpawnEntity} }

// CastAt returns the cast-pending-scroll-at-position action. The tile is
// carried in (DX, DY) as absolute coordinates.
func CastAt(key rune, x, y int) Action {
	return Action{Kind: KindCastAt, ItemKey: key, DX: x, DY: y}
}

// ToDelayed packs an action into the component form the scheduler stores
// on an actor that can't afford it yet. TakeStairs has no direction
// vector, so its Down flag travels in DY.
func (a Action) ToDelayed() component.DelayedAction {
	d := component.DelayedAction{Kind: uint8(a.Kind), DX: a.DX, DY: a.DY, ItemKey: a.ItemKey}
	if a.Kind == KindTakeStairs && a.Down {
		d.DY = 1
	}
	return d
}

// FromDelayed unpacks a stored delayed action.
func FromDelayed(d component.DelayedAction) Action {
	a := Action{Kind: Kind(d.Kind), DX: d.DX, DY: d.DY, ItemKey: d.ItemKey}
	if a.Kind == KindTakeStairs {
		a.Down, a.DY = d.DY != 0, 0
	}
	return a
}

// ResultKind discriminates what an action resolution produced.
type ResultKind uint8

const (
	ResultSuccess    ResultKind = iota
	ResultImpossible            // refunds the turn, logged in the impossible color
	ResultPoll                  // hands control to another state without ending the turn
)

// PollState names the state machine transition a Poll result requests.
type PollState uint8

const (
	PollNone PollState = iota
	PollPositionSelect
)

// Result is the outcome of Perform.
type Result struct {
	Kind   ResultKind
	Reason string // Impossible only

	Poll     PollState
	PollItem rune // inventory slot awaiting a position pick
}

// Success is the plain succeeded result.
func Success() Result { return Result{Kind: ResultSuccess} }

// Impossible flags the action as unperformable for the given reason.
func Impossible(reason string) Result { return Result{Kind: ResultImpossible, Reason: reason} }
