package combat

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/action"
	"github.com/udisondev/skirmish/internal/model"
)

// Units is the unit lookup combat works against.
type Units interface {
	Unit(id model.UnitID) (*model.Unit, bool)
	InRadius(center model.Vec2, radius float64, fn func(*model.Unit) bool)
}

// Options tune combat rolls.
type Options struct {
	CritChance     int32 // percent, used when the attacker knows CriticalHit
	CritMultiplier int32
}

// DefaultOptions returns the standard crit roll: 5% for double damage.
func DefaultOptions() Options {
	return Options{CritChance: 5, CritMultiplier: 2}
}

// Resolver — боевая система: применяет урон, лечение, оглушение, отбрасывание.
// Единственный компонент (вместе с модификаторами), который пишет UnitRecord.
// Смены действия (Dead, Stun) уходят в отложенную очередь запросов.
type Resolver struct {
	units    Units
	requests *action.Queue
	opts     Options
	roll     func(n int) int

	damageFunc func(DamageEvent)
	healFunc   func(HealEvent)
	dieFunc    func(UnitDieEvent)
}

// NewResolver creates a resolver writing change-requests to requests.
func NewResolver(units Units, requests *action.Queue, opts Options) *Resolver {
	return &Resolver{
		units:    units,
		requests: requests,
		opts:     opts,
		roll:     rand.IntN,
	}
}

// SetRoll replaces the random source (tests). roll(n) returns [0, n).
func (r *Resolver) SetRoll(roll func(n int) int) { r.roll = roll }

// SetDamageFunc sets the subscriber for applied damage.
func (r *Resolver) SetDamageFunc(fn func(DamageEvent)) { r.damageFunc = fn }

// SetHealFunc sets the subscriber for applied heals.
func (r *Resolver) SetHealFunc(fn func(HealEvent)) { r.healFunc = fn }

// SetDieFunc sets the subscriber for deaths.
func (r *Resolver) SetDieFunc(fn func(UnitDieEvent)) { r.dieFunc = fn }

// Decay runs stun timers down, clamping at zero.
func (r *Resolver) Decay(units []*model.Unit, dt time.Duration) {
	for _, u := range units {
		if u.Record.Stun > 0 {
			u.Record.Stun = max(0, u.Record.Stun-dt)
		}
	}
}

// Resolve applies queued handler events in order, then this tick's hits.
func (r *Resolver) Resolve(q *Queue, hits []HitEvent) {
	for _, p := range q.drain() {
		switch p.kind {
		case pendingAttack:
			r.ResolveAttack(p.attack)
		case pendingDamage:
			r.ApplyDamage(p.damage)
		case pendingHeal:
			r.ApplyHeal(p.heal)
		}
	}
	for _, h := range hits {
		r.ApplyHit(h)
	}
}

// ApplyDamage subtracts damage, extends stun and triggers death or stun.
// Returns the damage applied, 0 when the victim vanished.
func (r *Resolver) ApplyDamage(ev DamageEvent) int32 {
	u, ok := r.units.Unit(ev.Unit)
	if !ok {
		return 0
	}
	rec := &u.Record
	rec.HP -= ev.Damage
	rec.Stun = max(rec.Stun, ev.HitStun)

	slog.Debug("damage applied", "unit", u.ID, "source", ev.Source, "damage", ev.Damage, "hp", rec.HP)
	if r.damageFunc != nil {
		r.damageFunc(ev)
	}

	switch {
	case rec.HP <= 0 && rec.Alive:
		rec.Alive = false
		slog.Debug("unit died", "unit", u.ID, "killer", ev.Source)
		if r.dieFunc != nil {
			r.dieFunc(UnitDieEvent{Unit: u.ID, Killer: ev.Source})
		}
		r.requests.Push(action.ChangeRequest{Unit: u.ID, Action: data.ActionDead, Source: action.SourceCombat})
	case rec.Alive && rec.Stun > 0:
		r.requests.Push(action.ChangeRequest{Unit: u.ID, Action: data.ActionStun, Source: action.SourceCombat})
	}
	return ev.Damage
}

// ApplyHeal restores HP up to HPMax. Dead units are never healed.
func (r *Resolver) ApplyHeal(ev HealEvent) {
	u, ok := r.units.Unit(ev.Unit)
	if !ok {
		return
	}
	if !u.Record.Alive || u.State.Action == data.ActionDead {
		return
	}
	u.Record.SetHP(u.Record.HP + ev.Heal)
	slog.Debug("heal applied", "unit", u.ID, "source", ev.Source, "heal", ev.Heal, "hp", u.Record.HP)
	if r.healFunc != nil {
		r.healFunc(ev)
	}
}
