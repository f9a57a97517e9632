package skill

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/data"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/world"
)

func init() {
	register(data.BehaviorIdle, hooks{enter: enterIdle})
	register(data.BehaviorStop, hooks{enter: enterStop, enterActive: func(c *call) { c.stop() }})
	register(data.BehaviorStun, hooks{enter: enterStun})
	register(data.BehaviorDead, hooks{enter: enterDead})
}

// enterIdle stops the unit, or walks it along Command.MoveDir when set.
func enterIdle(c *call) {
	if dir := c.ev.Command.MoveDir; !dir.IsZero() {
		c.unit.Movement.Direction = dir
		c.unit.Movement.Face = dir.Normalize()
		c.unit.Movement.Speed = c.unit.Record.MovementSpeed
		c.animate(world.AnimMove)
		return
	}
	c.stop()
	c.animate(world.AnimIdle)
}

func enterStop(c *call) {
	c.stop()
	c.animate(world.AnimIdle)
}

func enterStun(c *call) {
	c.stop()
	c.animate(world.AnimStun)
}

// enterDead clears movement, makes the unit non-interactive and withdraws the
// modifiers its own auras gave it.
func enterDead(c *call) {
	c.stop()
	c.unit.Pushes = nil
	c.unit.Hook = nil
	c.animate(world.AnimDead)
	c.d.spawner.Disable(c.unit.ID)
	for _, rec := range c.unit.Skills.All() {
		if attr, ok := auraAttr(rec.Action); ok {
			src := model.ModifierSource{Unit: c.unit.ID, Action: rec.Action}
			c.d.queues.Attributes.Remove(c.unit.ID, attr, src)
			delete(c.d.auras, src)
		}
	}
	slog.Debug("unit dead", "unit", c.unit.ID)
}
