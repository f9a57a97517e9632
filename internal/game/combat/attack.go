package combat

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
)

// ResolveAttack resolves a basic attack. The base damage is the attacker's
// effective attack and lands once on the target; critical hits multiply it in
// place. Splash passives (Diffusion, FrostBall, SmashWave) raise their own
// damage and never repeat the base hit. LifeSteal heals the attacker by a
// share of the base damage dealt.
func (r *Resolver) ResolveAttack(ev AttackEvent) {
	attacker, ok := r.units.Unit(ev.Attacker)
	if !ok || !attacker.IsAlive() {
		return
	}
	target, ok := r.units.Unit(ev.Target)
	if !ok {
		return
	}

	damage := attacker.Record.Attack
	var lifeSteal int32

	for _, p := range onAttackPassives(attacker) {
		desc := data.Describe(p.Action)
		switch p.Action {
		case data.ActionCriticalHit:
			if r.chance(r.opts.CritChance) {
				damage *= r.opts.CritMultiplier
				slog.Debug("critical hit", "attacker", attacker.ID, "target", target.ID, "damage", damage)
			}
		case data.ActionDiffusion:
			splash := damage * desc.Percentage.Get(p.Level) / 100
			r.splash(attacker, target.Position, desc.Radius, splash, target.ID)
		case data.ActionFrostBall:
			if r.chance(desc.Chance) {
				r.splash(attacker, target.Position, desc.Radius, desc.Damage.Get(p.Level), 0)
			}
		case data.ActionSmashWave:
			if r.chance(desc.Chance) {
				r.splash(attacker, attacker.Position, desc.Radius, desc.Damage.Get(p.Level), 0)
			}
		case data.ActionLifeSteal:
			lifeSteal += desc.Percentage.Get(p.Level)
		}
	}

	dealt := r.ApplyDamage(DamageEvent{Unit: target.ID, Source: attacker.ID, Damage: damage})
	if heal := dealt * lifeSteal / 100; heal > 0 {
		r.ApplyHeal(HealEvent{Unit: attacker.ID, Source: attacker.ID, Heal: heal})
	}
}

// onAttackPassives returns the attacker's on-attack passives, highest priority first.
func onAttackPassives(u *model.Unit) []model.SkillRecord {
	var out []model.SkillRecord
	for _, rec := range u.Skills.All() {
		if data.Describe(rec.Action).Behavior == data.BehaviorOnAttack {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(out, func(a, b model.SkillRecord) int {
		return cmp.Compare(data.Describe(b.Action).Priority, data.Describe(a.Action).Priority)
	})
	return out
}

// splash damages living enemies of attacker within radius metres of center,
// skipping exclude.
func (r *Resolver) splash(attacker *model.Unit, center model.Vec2, radius float64, damage int32, exclude model.UnitID) {
	if damage <= 0 {
		return
	}
	var victims []model.UnitID
	r.units.InRadius(center, radius*data.Scale, func(u *model.Unit) bool {
		if u.ID != exclude && u.IsAlive() && attacker.Team().IsEnemy(u.Team()) {
			victims = append(victims, u.ID)
		}
		return true
	})
	for _, id := range victims {
		r.ApplyDamage(DamageEvent{Unit: id, Source: attacker.ID, Damage: damage})
	}
}

func (r *Resolver) chance(pct int32) bool {
	return pct > 0 && int32(r.roll(100)) < pct
}
