package combat

import (
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// DamageEvent — урон юниту. HitStun продлевает оглушение жертвы.
type DamageEvent struct {
	Unit    model.UnitID
	Source  model.UnitID
	Damage  int32
	HitStun time.Duration
}

// HealEvent — лечение юнита.
type HealEvent struct {
	Unit   model.UnitID
	Source model.UnitID
	Heal   int32
}

// UnitDieEvent is published once per unit when it dies.
type UnitDieEvent struct {
	Unit   model.UnitID
	Killer model.UnitID
}

// AttackEvent is a basic attack landing: the attacker's effective attack plus
// its on-attack passives are resolved against Target.
type AttackEvent struct {
	Attacker model.UnitID
	Target   model.UnitID
}

// HitEvent is a hit-volume touching a unit of its target team.
type HitEvent struct {
	Volume    world.VolumeID
	Source    model.UnitID
	Action    data.ActionID
	Victim    model.UnitID
	Damage    int32
	HitStun   time.Duration
	Knockback data.Knockback
	Origin    model.Vec2
	Facing    model.Vec2
	HookTo    *model.Vec2
	Drain     bool
}

type pendingKind uint8

const (
	pendingAttack pendingKind = iota
	pendingDamage
	pendingHeal
)

type pending struct {
	kind   pendingKind
	attack AttackEvent
	damage DamageEvent
	heal   HealEvent
}

// Queue collects combat events raised by skill handlers during a tick.
// Events are resolved in the order they were queued.
type Queue struct {
	items []pending
}

// Attack queues an attack.
func (q *Queue) Attack(ev AttackEvent) {
	q.items = append(q.items, pending{kind: pendingAttack, attack: ev})
}

// Damage queues damage.
func (q *Queue) Damage(ev DamageEvent) {
	q.items = append(q.items, pending{kind: pendingDamage, damage: ev})
}

// Heal queues a heal.
func (q *Queue) Heal(ev HealEvent) { q.items = append(q.items, pending{kind: pendingHeal, heal: ev}) }

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.items) }

func (q *Queue) drain() []pending {
	out := q.items
	q.items = nil
	return out
}
