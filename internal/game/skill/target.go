package skill

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/world"
)

func init() {
	register(data.BehaviorDeadFinger, hooks{learned: true, enter: enterCast(world.AnimCast), enterActive: strikeDeadFinger})
	register(data.BehaviorAreaDenial, hooks{learned: true, enter: enterCast(world.AnimCast), enterActive: spawnArea})
}

// strikeDeadFinger damages the target unit directly, no hit-volume involved.
func strikeDeadFinger(c *call) {
	target := c.ev.Command.Target
	if target == 0 {
		return
	}
	dmg := c.desc.Damage.Get(c.level())
	slog.Debug("dead finger", "unit", c.unit.ID, "target", target, "damage", dmg)
	c.d.queues.Combat.Damage(combat.DamageEvent{Unit: target, Source: c.unit.ID, Damage: dmg})
}

// spawnArea leaves a zone at the command point hitting every enemy inside
// each Interval for Duration.
func spawnArea(c *call) {
	c.d.spawner.SpawnZone(world.Zone{
		Owner:    c.unit.ID,
		Action:   c.ev.Action,
		Center:   c.targetPoint(),
		Shape:    data.Ball(c.desc.Radius),
		Lifespan: c.desc.Duration,
		Interval: c.desc.Interval,
		Drain:    c.desc.Drain,
		Hit: world.HitPayload{
			Damage:     c.desc.Damage.Get(c.level()),
			TargetTeam: c.unit.Team().EnemyTarget(),
		},
	})
}
