package combat

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

// Volumes looks up spawned volumes by id.
type Volumes interface {
	Volume(id world.VolumeID) (*world.Volume, bool)
}

// DetectHits turns started contacts between hit-volumes and units of the
// volume's target team into hit events. Sensors, trigger areas and vanished volumes or units
// are skipped.
func (r *Resolver) DetectHits(collisions []world.Collision, volumes Volumes) []HitEvent {
	var hits []HitEvent
	for _, c := range collisions {
		if !c.Started {
			continue
		}
		v, ok := volumes.Volume(c.Volume)
		if !ok || !v.Harmful() {
			continue
		}
		victim, ok := r.units.Unit(c.Unit)
		if !ok || victim.Team() != v.Hit.TargetTeam {
			continue
		}
		hits = append(hits, HitEvent{
			Volume:    v.ID,
			Source:    v.Owner,
			Action:    v.Action,
			Victim:    victim.ID,
			Damage:    v.Hit.Damage,
			HitStun:   v.Hit.HitStun,
			Knockback: v.Hit.Knockback,
			Origin:    v.Position,
			Facing:    v.Facing,
			HookTo:    v.HookTo,
			Drain:     v.Drain,
		})
	}
	return hits
}

// ApplyHit applies a hit: damage and stun, then knockback and hook
// displacement for survivors, then drain healing for the source.
func (r *Resolver) ApplyHit(h HitEvent) {
	victim, ok := r.units.Unit(h.Victim)
	if !ok {
		return
	}
	slog.Debug("hit", "source", h.Source, "action", h.Action, "victim", h.Victim, "damage", h.Damage)

	dealt := r.ApplyDamage(DamageEvent{Unit: h.Victim, Source: h.Source, Damage: h.Damage, HitStun: h.HitStun})

	if victim.IsAlive() {
		if push, ok := knockback(h, victim.Position); ok {
			victim.Pushes = append(victim.Pushes, push)
		}
		if h.HookTo != nil {
			victim.Hook = &model.Hooked{From: victim.Position, To: *h.HookTo, Remaining: data.HookDuration}
		}
	}

	if h.Drain && dealt > 0 {
		r.ApplyHeal(HealEvent{Unit: h.Source, Source: h.Source, Heal: dealt})
	}
}

// knockback converts a knockback descriptor into a push lasting
// data.KnockbackDuration that moves the victim Force metres in total.
func knockback(h HitEvent, victimPos model.Vec2) (model.Push, bool) {
	if h.Knockback.Kind == data.KnockbackNone || h.Knockback.Force == 0 {
		return model.Push{}, false
	}
	var dir model.Vec2
	switch h.Knockback.Kind {
	case data.KnockbackCenter:
		dir = victimPos.Sub(h.Origin).Normalize()
	case data.KnockbackDirection:
		dir = h.Facing.Normalize()
	}
	if dir.IsZero() {
		return model.Push{}, false
	}
	speed := h.Knockback.Force * data.Scale / data.KnockbackDuration.Seconds()
	return model.Push{Velocity: dir.Scale(speed), Remaining: data.KnockbackDuration}, true
}
