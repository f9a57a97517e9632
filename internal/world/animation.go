package world

import "github.com/udisondev/skirmish/internal/model"

// Animation names requested by skill handlers.
const (
	AnimIdle      = "idle"
	AnimMove      = "move"
	AnimAttack    = "attack"
	AnimStun      = "stun"
	AnimDead      = "dead"
	AnimCast      = "cast"
	AnimStab      = "stab"
	AnimBurstFire = "burst_fire"
	AnimHook      = "hook"
)

// Animations records the last animation requested for every unit.
// Stands in for the rendering collaborator.
type Animations struct {
	current map[model.UnitID]string
	changes int
}

// NewAnimations creates an empty animation store.
func NewAnimations() *Animations {
	return &Animations{current: make(map[model.UnitID]string)}
}

// ChangeAnimation is fire-and-forget.
func (a *Animations) ChangeAnimation(unit model.UnitID, name string) {
	a.current[unit] = name
	a.changes++
}

// Current returns the last requested animation of a unit.
func (a *Animations) Current(unit model.UnitID) string { return a.current[unit] }

// Changes returns how many animation requests were made.
func (a *Animations) Changes() int { return a.changes }
