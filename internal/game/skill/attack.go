package skill

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/game/combat"
	"github.com/udisondev/skirmish/internal/world"
)

func init() {
	register(data.BehaviorAttack, hooks{enter: enterAttack, enterActive: strikeAttack})
	// on-attack passives are resolved by combat when an attack lands
	register(data.BehaviorOnAttack, hooks{learned: true})
}

func enterAttack(c *call) {
	c.stop()
	c.face()
	c.animate(world.AnimAttack)
}

func strikeAttack(c *call) {
	target := c.ev.Command.Target
	if target == 0 {
		return
	}
	slog.Debug("attack", "unit", c.unit.ID, "target", target)
	c.d.queues.Combat.Attack(combat.AttackEvent{Attacker: c.unit.ID, Target: target})
}
