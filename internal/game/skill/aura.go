package skill

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/attribute"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

func init() {
	register(data.BehaviorAura, hooks{learned: true, attach: attachAura, passive: pulseAura})
}

// auraAttr maps modifier auras to the attribute they change.
func auraAttr(act data.ActionID) (attribute.Attr, bool) {
	switch act {
	case data.ActionAttackAura:
		return attribute.AttrAttack, true
	case data.ActionSpeedAura:
		return attribute.AttrSpeed, true
	default:
		return 0, false
	}
}

// attachAura attaches a sensor for modifier auras and applies the modifier to
// the owner. A previous sensor of the same aura is replaced so a level-up
// takes effect.
func attachAura(d *Dispatcher, u *model.Unit, rec *model.SkillRecord, desc data.ActionDescriptor) {
	attr, ok := auraAttr(rec.Action)
	if !ok || !u.IsAlive() {
		return
	}
	src := model.ModifierSource{Unit: u.ID, Action: rec.Action}
	if old, exists := d.auras[src]; exists {
		d.spawner.Despawn(old)
	}
	pct := desc.Percentage.Get(rec.Level)
	id := d.spawner.AttachSensor(world.Sensor{
		Owner:  u.ID,
		Action: rec.Action,
		Level:  rec.Level,
		Shape:  data.Ball(desc.Radius),
	})
	d.sensors[id] = sensorRef{source: src, attr: attr, pct: pct, team: u.Team()}
	d.auras[src] = id
	d.queues.Attributes.Add(u.ID, attr, model.AttributeModifier{Source: src, Percentage: pct})
	slog.Debug("aura attached", "unit", u.ID, "action", rec.Action, "level", rec.Level, "volume", id)
}

// Detach despawns the aura sensors of unit and forgets them. Returns the
// modifier sources the unit owned.
func (d *Dispatcher) Detach(unit model.UnitID) []model.ModifierSource {
	var out []model.ModifierSource
	for src, id := range d.auras {
		if src.Unit != unit {
			continue
		}
		d.spawner.Despawn(id)
		delete(d.sensors, id)
		delete(d.auras, src)
		out = append(out, src)
	}
	slices.SortFunc(out, func(a, b model.ModifierSource) int { return cmp.Compare(a.Action, b.Action) })
	return out
}

// Auras returns the number of attached modifier auras.
func (d *Dispatcher) Auras() int { return len(d.auras) }

// OnCollisions turns aura sensor contacts into modifier events: allies
// entering a sensor gain the modifier, leaving drops it.
func (d *Dispatcher) OnCollisions(collisions []world.Collision) {
	for _, col := range collisions {
		ref, ok := d.sensors[col.Volume]
		if !ok {
			continue
		}
		if !col.Started {
			d.queues.Attributes.Remove(col.Unit, ref.attr, ref.source)
			continue
		}
		u, ok := d.units.Unit(col.Unit)
		if !ok || !u.IsAlive() || !ref.team.IsAlly(u.Team()) {
			continue
		}
		d.queues.Attributes.Add(u.ID, ref.attr, model.AttributeModifier{Source: ref.source, Percentage: ref.pct})
	}
	for id := range d.sensors {
		if _, live := d.spawner.Volume(id); !live {
			delete(d.sensors, id)
		}
	}
}

// pulseAura heals allies around the owner by a share of their max HP every Interval.
func pulseAura(d *Dispatcher, u *model.Unit, rec *model.SkillRecord, desc data.ActionDescriptor) {
	if rec.Action != data.ActionHealAura || desc.Interval <= 0 {
		return
	}
	rec.Timer += d.dt
	if rec.Timer < desc.Interval {
		return
	}
	rec.Timer -= desc.Interval

	pct := desc.Percentage.Get(rec.Level)
	d.units.InRadius(u.Position, desc.Radius*data.Scale, func(ally *model.Unit) bool {
		if !ally.IsAlive() || !u.Team().IsAlly(ally.Team()) {
			return true
		}
		if heal := ally.Record.HPMax * pct / 100; heal > 0 {
			d.queues.Combat.Heal(combat.HealEvent{Unit: ally.ID, Source: u.ID, Heal: heal})
		}
		return true
	})
}
